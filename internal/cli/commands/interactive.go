package commands

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/spf13/cobra"

	"github.com/zapponejosh/maya-kin/internal/calendar"
	"github.com/zapponejosh/maya-kin/internal/cli/ui"
	"github.com/zapponejosh/maya-kin/internal/lookup"
)

// Menu entries
const (
	menuKin      = "Look up a KIN"
	menuBirthday = "Maya birthday for a date"
	menuCalc     = "KIN of a date"
	menuTables   = "List loaded tables"
	menuQuit     = "Quit"
)

// prompter asks the questions of the interactive menu. Tests script it.
type prompter interface {
	Select(message string, options []string) (string, error)
	Input(message, help string) (string, error)
	Confirm(message string) (bool, error)
}

// surveyPrompter asks on the terminal.
type surveyPrompter struct{}

func (surveyPrompter) Select(message string, options []string) (string, error) {
	var choice string
	err := survey.AskOne(&survey.Select{Message: message, Options: options}, &choice)
	return choice, err
}

func (surveyPrompter) Input(message, help string) (string, error) {
	var answer string
	err := survey.AskOne(&survey.Input{Message: message, Help: help}, &answer, survey.WithValidator(survey.Required))
	return answer, err
}

func (surveyPrompter) Confirm(message string) (bool, error) {
	var yes bool
	err := survey.AskOne(&survey.Confirm{Message: message}, &yes)
	return yes, err
}

func newInteractiveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "interactive",
		Aliases: []string{"i"},
		Short:   "menu driven lookups",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInteractive(cmd.OutOrStdout(), a.svc, surveyPrompter{})
		},
	}
}

// runInteractive loops over the menu until the user quits or interrupts.
// A failed lookup is reported and the menu is shown again.
func runInteractive(w io.Writer, svc *lookup.Service, p prompter) error {
	options := []string{menuKin, menuBirthday, menuCalc, menuTables, menuQuit}

	for {
		choice, err := p.Select("What would you like to do?", options)
		if errors.Is(err, terminal.InterruptErr) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("selection cancelled: %w", err)
		}

		switch choice {
		case menuQuit:
			return nil
		case menuTables:
			err = showTables(w, svc, 5)
		default:
			err = runMenuLookup(w, svc, p, choice)
		}
		if errors.Is(err, terminal.InterruptErr) {
			return nil
		}
		if err != nil {
			ui.PrintError(w, "%v", err)
		}
		fmt.Fprintln(w)
	}
}

func runMenuLookup(w io.Writer, svc *lookup.Service, p prompter, choice string) error {
	switch choice {
	case menuKin:
		raw, err := p.Input("KIN (1-260):", "position on the 260-day ring")
		if err != nil {
			return err
		}
		return showKin(w, svc, raw)

	case menuBirthday:
		raw, err := p.Input("Date (MM/DD or YYYY-MM-DD):", "the year is ignored")
		if err != nil {
			return err
		}
		return showBirthday(w, svc, raw)

	case menuCalc:
		raw, err := p.Input("Date (YYYY-MM-DD):", "")
		if err != nil {
			return err
		}
		secondHalf := false
		if isDay29(raw) {
			if secondHalf, err = p.Confirm("Second half of day 29?"); err != nil {
				return err
			}
		}
		return showCalc(w, svc, raw, secondHalf)
	}

	return fmt.Errorf("unknown menu entry %q", choice)
}

// isDay29 reports whether raw names the 29th of some month.
func isDay29(raw string) bool {
	date, err := calendar.ParseDateString(strings.TrimSpace(raw))
	return err == nil && date.Day() == 29
}
