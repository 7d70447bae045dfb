package cli

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/huh"

	"github.com/ledgerbase/ledgerbase/options"
)

// InitCmd scaffolds a new, empty ledger file whose header declares the
// operating currency (options.Default's value unless one is entered)
// and, when non-empty, the title; no other option is written.
// Prompts for title/operating currency when stdin is
// a terminal; falls back to the defaults non-interactively otherwise,
// the same isTerminal() gate cli.go uses for promptYesNo.
type InitCmd struct {
	Output string `help:"Path for the new ledger file." arg:"" default:"main.bean"`
}

func (cmd *InitCmd) Run(ctx *kong.Context, globals *Globals) error {
	if _, err := os.Stat(cmd.Output); err == nil {
		overwrite, err := promptYesNo(ctx, fmt.Sprintf("%s already exists, overwrite?", cmd.Output))
		if err != nil {
			return err
		}
		if !overwrite {
			printInfof(ctx.Stdout, "aborted, %s left untouched", cmd.Output)
			return nil
		}
	}

	defaults := options.Default()
	title := defaults.Title
	currency := defaults.OperatingCurrency

	if isTerminal() {
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().Title("Ledger title").Value(&title),
				huh.NewInput().Title("Operating currency").Value(&currency),
			),
		)
		if err := form.Run(); err != nil {
			return fmt.Errorf("failed to read form input: %w", err)
		}
	}

	if currency == "" {
		currency = defaults.OperatingCurrency
	}

	contents := fmt.Sprintf("option \"operating_currency\" %q\n", currency)
	if title != "" {
		contents += fmt.Sprintf("option \"title\" %q\n", title)
	}
	contents += "\n"

	if err := os.WriteFile(cmd.Output, []byte(contents), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", cmd.Output, err)
	}

	printSuccess(ctx.Stdout, fmt.Sprintf("wrote %s", cmd.Output))
	return nil
}
