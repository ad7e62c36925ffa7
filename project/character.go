package project

// CharacterEvents names the interaction events a character has handlers for,
// in handler slot order.
var CharacterEvents = []string{
	"Look at character",
	"Interact with character",
	"Speak to character",
	"Use inventory on character",
	"Any click on character",
	"Pick up character",
	"Use mode 8",
	"Use mode 9",
}

// Interactions holds the script function names bound to events.
type Interactions struct {
	FunctionNames []string
}

// NewCharacterInteractions returns empty handler slots for a character.
func NewCharacterInteractions() Interactions {
	return Interactions{FunctionNames: make([]string, len(CharacterEvents))}
}

// Clear forgets every bound function name.
func (in *Interactions) Clear() {
	for i := range in.FunctionNames {
		in.FunctionNames[i] = ""
	}
}

// Character is a game character. View fields hold view ids; zero means none.
type Character struct {
	ID             int
	ScriptName     string
	RealName       string
	StartingRoom   int
	StartX, StartY int
	NormalView     int
	SpeechView     int
	IdleView       int
	ThinkingView   int
	BlinkingView   int
	SpeechColor    int
	MovementSpeed  int
	AnimationDelay int
	Interactions   Interactions
}

// NewCharacter returns a character with the editor's defaults.
func NewCharacter() *Character {
	return &Character{
		MovementSpeed:  3,
		AnimationDelay: 4,
		SpeechColor:    12,
		Interactions:   NewCharacterInteractions(),
	}
}
