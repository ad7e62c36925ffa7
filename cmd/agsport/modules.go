package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/golang/glog"
	"golang.org/x/sync/errgroup"

	"badc0de.net/pkg/go-ags/config"
	"badc0de.net/pkg/go-ags/project"
	"badc0de.net/pkg/go-ags/scm"
)

// moduleInfo decodes every file in its own project, a few at a time, and
// prints their metadata in argument order.
func moduleInfo(cfg *config.Config, files []string) error {
	results := make([]project.ScriptAndHeader, len(files))
	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(*jobs)
	for i, name := range files {
		i, name := i, name
		g.Go(func() error {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			p, err := newProject(cfg)
			if err != nil {
				return err
			}
			sh, err := scm.ImportFile(name, p, scriptEncoding(cfg))
			if err != nil {
				return err
			}
			glog.V(2).Infof("decoded %s", name)
			results[i] = sh
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	for i, sh := range results {
		s := sh.Script
		fmt.Printf("%s: %s %s by %s (key %d)\n", files[i], s.Name, s.Version, s.Author, s.UniqueKey)
		if s.Description != "" {
			fmt.Printf("\t%s\n", s.Description)
		}
		fmt.Printf("\theader %d lines, script %d lines\n", lines(sh.Header.Text), lines(s.Text))
	}
	return nil
}

func lines(s string) int {
	if s == "" {
		return 0
	}
	return strings.Count(strings.TrimSuffix(s, "\n"), "\n") + 1
}

// moduleConvert rewrites a module with the configured encoding.
func moduleConvert(cfg *config.Config, args []string) error {
	p, err := newProject(cfg)
	if err != nil {
		return err
	}
	sh, err := scm.ImportFile(args[0], p, scriptEncoding(cfg))
	if err != nil {
		return err
	}
	if err := scm.ExportFile(args[1], sh.Header, sh.Script, p.TextEncoding); err != nil {
		return err
	}
	fmt.Printf("%s -> %s (%s)\n", args[0], args[1], p.TextEncoding)
	return nil
}
