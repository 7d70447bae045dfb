package cli

import (
	"context"
	"fmt"
	"sort"

	"github.com/alecthomas/kong"
	"github.com/shopspring/decimal"

	"github.com/ledgerbase/ledgerbase/ast"
	"github.com/ledgerbase/ledgerbase/loader"
	"github.com/ledgerbase/ledgerbase/options"
	"github.com/ledgerbase/ledgerbase/output"
	"github.com/ledgerbase/ledgerbase/processor"
	"github.com/ledgerbase/ledgerbase/query"
)

// BalancesCmd prints every account's current balance per commodity,
// grounded on the teacher's web/balances.go account-balance rendering
// but flattened to plain terminal output through query.Engine.
type BalancesCmd struct {
	File FileOrStdin `help:"Ledger input filename (use '-' for stdin, or omit for stdin)." arg:"" optional:""`
}

func (cmd *BalancesCmd) Run(ctx *kong.Context, globals *Globals) error {
	if err := cmd.File.EnsureContents(); err != nil {
		return err
	}

	runCtx := context.Background()

	sourceContent, err := cmd.File.GetSourceContent()
	if err != nil {
		return fmt.Errorf("failed to read file for error context: %w", err)
	}

	ldr := loader.New(loader.WithFollowIncludes())
	tree, parseErrs, err := cmd.File.LoadAST(runCtx, ldr)
	if err != nil {
		renderer := NewErrorRenderer(sourceContent)
		_, _ = fmt.Fprintln(ctx.Stderr, renderer.Render(err))
		printError(ctx.Stderr, "parse error")
		return NewCommandError(1)
	}
	if len(parseErrs) > 0 {
		renderer := NewErrorRenderer(sourceContent)
		for _, pe := range parseErrs {
			_, _ = fmt.Fprintln(ctx.Stderr, renderer.Render(pe))
		}
		printError(ctx.Stderr, "parse error")
		return NewCommandError(1)
	}

	opts, _ := options.Resolve(tree)
	st, idx, _, err := processor.Process(runCtx, tree, opts)
	if err != nil {
		return err
	}

	eng := query.New(st, idx)
	balances := eng.AccountBalances()

	accounts := make([]ast.Account, 0, len(balances))
	for acc := range balances {
		accounts = append(accounts, acc)
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i] < accounts[j] })

	styles := output.NewStyles(ctx.Stdout)
	accountWidth := output.TerminalWidth() - 28
	if accountWidth < 20 {
		accountWidth = 20
	}

	for _, acc := range accounts {
		perCurrency := balances[acc]
		currencies := make([]string, 0, len(perCurrency))
		for cur := range perCurrency {
			currencies = append(currencies, cur)
		}
		sort.Strings(currencies)

		for _, cur := range currencies {
			amount := perCurrency[cur]
			if amount.Equal(decimal.Zero) {
				continue
			}
			name := output.TruncateToWidth(string(acc), accountWidth)
			_, _ = fmt.Fprintf(ctx.Stdout, "%-*s %20s %s\n",
				accountWidth,
				styles.Account(name),
				styles.Amount(amount.StringFixed(2)),
				cur,
			)
		}
	}

	return nil
}
