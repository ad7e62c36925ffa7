// Package xmls contains the pieces shared by the self-describing (XML) asset
// formats: versioned root elements, the embedded palette, and embedded sprite
// payloads together with their import into a project under fresh ids.
package xmls
