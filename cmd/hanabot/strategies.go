package main

import (
	"fmt"
	"io"
	"os"

	"github.com/lox/hanabot/internal/display"
	"github.com/lox/hanabot/internal/strategy"
)

type StrategiesCmd struct {
	Name string `arg:"" optional:"" help:"Show a single strategy"`
}

func (c *StrategiesCmd) Run(g *Globals) error {
	cfg, _, err := g.load(nil)
	if err != nil {
		return err
	}
	user, err := cfg.UserStrategies()
	if err != nil {
		return err
	}

	names := strategy.Names(user...)
	if c.Name != "" {
		names = []string{c.Name}
	}
	for i, name := range names {
		s, err := strategy.Lookup(name, user...)
		if err != nil {
			return err
		}
		if i > 0 {
			fmt.Fprintln(os.Stdout)
		}
		printStrategy(os.Stdout, s, name == cfg.Agent.Strategy)
	}
	return nil
}

func printStrategy(w io.Writer, s strategy.Strategy, selected bool) {
	title := display.LabelStyle.Render(s.Name)
	if selected {
		title += " " + display.CurrentPlayerStyle.Render("(selected)")
	}
	fmt.Fprintln(w, title)
	if s.Description != "" {
		fmt.Fprintf(w, "  %s\n", display.InfoStyle.Render(s.Description))
	}
	if s.NextPlayerOnly {
		fmt.Fprintf(w, "  %s\n", display.InfoStyle.Render("hints go to the next player only"))
	}
	for i, r := range s.Rules {
		fmt.Fprintf(w, "  %2d. %s\n", i+1, r)
	}
}
