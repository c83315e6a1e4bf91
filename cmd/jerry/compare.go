package main

import (
	"context"
	"errors"
	"fmt"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/kimtth/jerry-web-render-was/pkg/state"
	"github.com/kimtth/jerry-web-render-was/pkg/visualtest"
)

var errImagesDiffer = errors.New("images differ")

// runCompare is the action of the compare command.
func runCompare(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)
	if cmd.Args().Len() != 2 {
		return fmt.Errorf("expected ACTUAL and EXPECTED images, got %d arguments", cmd.Args().Len())
	}
	actual, expected := cmd.Args().Get(0), cmd.Args().Get(1)

	opts := visualtest.DefaultOptions()
	opts.Tolerance = cmd.Int("tolerance")
	opts.FuzzyRadius = cmd.Int("fuzzy")
	opts.MaxDifferentPercent = cmd.Float("max-diff")
	opts.DiffImagePath = cmd.String("diff")

	res, err := visualtest.CompareFiles(actual, expected, opts)
	if err != nil {
		return err
	}

	fields := []zap.Field{
		zap.Int("different", res.DifferentPixels),
		zap.Int("total", res.TotalPixels),
		zap.Float64("percent", res.DifferentPercent()),
		zap.Int("max difference", res.MaxDifference),
	}
	if !res.Match {
		if opts.DiffImagePath != "" {
			fields = append(fields, zap.String("diff", opts.DiffImagePath))
		}
		env.Log.Warn("Images differ", fields...)
		return fmt.Errorf("%w: %d of %d pixels", errImagesDiffer, res.DifferentPixels, res.TotalPixels)
	}
	env.Log.Info("Images match", fields...)
	return nil
}
