package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/alecthomas/kong"

	"github.com/ledgerbase/ledgerbase/loader"
	"github.com/ledgerbase/ledgerbase/options"
	"github.com/ledgerbase/ledgerbase/processor"
	"github.com/ledgerbase/ledgerbase/telemetry"
)

type CheckCmd struct {
	File FileOrStdin `help:"Ledger input filename (use '-' for stdin, or omit for stdin)." arg:"" optional:""`
}

func (cmd *CheckCmd) Run(ctx *kong.Context, globals *Globals) error {
	if err := cmd.File.EnsureContents(); err != nil {
		return err
	}

	runCtx := context.Background()

	var collector telemetry.Collector
	var checkTimer telemetry.Timer
	var once sync.Once

	reportTelemetry := func() {
		once.Do(func() {
			if collector != nil {
				checkTimer.End()
				_, _ = fmt.Fprintln(ctx.Stderr)
				collector.Report(ctx.Stderr)
			}
		})
	}

	if globals.Telemetry {
		collector = telemetry.NewTimingCollector()
		runCtx = telemetry.WithCollector(runCtx, collector)

		checkTimer = collector.Start(fmt.Sprintf("check %s", filepath.Base(cmd.File.Filename)))
		runCtx = telemetry.WithRootTimer(runCtx, checkTimer)

		defer reportTelemetry()
	}

	sourceContent, err := cmd.File.GetSourceContent()
	if err != nil {
		return fmt.Errorf("failed to read file for error context: %w", err)
	}

	ldr := loader.New(loader.WithFollowIncludes())
	tree, parseErrs, err := cmd.File.LoadAST(runCtx, ldr)
	if err != nil {
		renderer := NewErrorRenderer(sourceContent)
		formatted := renderer.Render(err)
		_, _ = fmt.Fprintln(ctx.Stderr, formatted)

		_, _ = fmt.Fprintln(ctx.Stderr)
		printError(ctx.Stderr, "parse error")

		reportTelemetry()
		return NewCommandError(1)
	}
	if len(parseErrs) > 0 {
		renderer := NewErrorRenderer(sourceContent)
		for _, pe := range parseErrs {
			_, _ = fmt.Fprintln(ctx.Stderr, renderer.Render(pe))
		}
		_, _ = fmt.Fprintln(ctx.Stderr)
		printError(ctx.Stderr, fmt.Sprintf("%d parse error(s) found", len(parseErrs)))

		reportTelemetry()
		return NewCommandError(1)
	}

	opts, warnings := options.Resolve(tree)
	_, _, errs, err := processor.Process(runCtx, tree, opts)
	if err != nil {
		return err
	}

	allErrs := append(warnings, errs...)
	if len(allErrs) > 0 {
		renderer := NewErrorRenderer(sourceContent)
		formatted := renderer.RenderAll(allErrs)
		_, _ = fmt.Fprintln(ctx.Stderr, formatted)

		_, _ = fmt.Fprintln(ctx.Stderr)
		printError(ctx.Stderr, fmt.Sprintf("%d validation error(s) found", len(allErrs)))

		// Semantic errors are reported but do not change the exit code.
		reportTelemetry()
		return nil
	}

	printSuccess(ctx.Stdout, fmt.Sprintf("Check passed (%s)", pathStyle.Render(cmd.File.Filename)))

	return nil
}
