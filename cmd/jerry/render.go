package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/kimtth/jerry-web-render-was/pkg/config"
	"github.com/kimtth/jerry-web-render-was/pkg/css"
	"github.com/kimtth/jerry-web-render-was/pkg/engine"
	"github.com/kimtth/jerry-web-render-was/pkg/html"
	"github.com/kimtth/jerry-web-render-was/pkg/layout"
	"github.com/kimtth/jerry-web-render-was/pkg/resource"
	"github.com/kimtth/jerry-web-render-was/pkg/state"
)

// runRender is the action of the render command.
func runRender(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)
	env.Verbose = cmd.Bool("verbose")

	if err := applyOverrides(env.Cfg, cmd); err != nil {
		return err
	}
	opts, err := engine.OptionsFromConfig(env.Cfg)
	if err != nil {
		return err
	}

	htmlPath := cmd.String("html")
	markup, err := os.ReadFile(htmlPath)
	if err != nil {
		return fmt.Errorf("unable to read HTML: %w", err)
	}
	var stylesheet []byte
	if cssPath := cmd.String("css"); cssPath != "" {
		if stylesheet, err = os.ReadFile(cssPath); err != nil {
			return fmt.Errorf("unable to read stylesheet: %w", err)
		}
	}

	r := engine.NewRenderer(env.Log, opts)
	r.SetFetcher(resource.NewFetcher(filepath.Dir(htmlPath)))

	res, err := r.Render(ctx, string(markup), string(stylesheet))
	if err != nil {
		return err
	}
	if env.Verbose {
		dumpTrees(os.Stdout, res)
	}

	output := cmd.String("output")
	if err := res.Canvas.Save(output, env.Cfg.Output.Scale); err != nil {
		return fmt.Errorf("unable to save image: %w", err)
	}
	env.Log.Info("Rendered",
		zap.String("html", htmlPath),
		zap.String("output", output),
		zap.Int("width", res.Canvas.Width),
		zap.Int("height", res.Canvas.Height),
		zap.Duration("elapsed", env.Uptime()))
	return nil
}

// applyOverrides copies explicitly set command line values over the
// configuration and validates the result.
func applyOverrides(cfg *config.Config, cmd *cli.Command) error {
	if cfg == nil {
		return errors.New("configuration is not loaded")
	}
	if cmd.IsSet("width") {
		cfg.Viewport.Width = cmd.Float("width")
	}
	if cmd.IsSet("height") {
		cfg.Viewport.Height = cmd.Float("height")
	}
	if cmd.IsSet("workers") {
		cfg.Render.Workers = cmd.Int("workers")
	}
	if cmd.IsSet("background") {
		cfg.Render.Background = cmd.String("background")
	}
	if cmd.IsSet("scale") {
		cfg.Output.Scale = cmd.Float("scale")
	}
	if cmd.IsSet("fit") {
		cfg.Render.FitContent = cmd.Bool("fit")
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}
	return nil
}

func dumpTrees(w io.Writer, res *engine.Result) {
	fmt.Fprintln(w, "=== document ===")
	html.Dump(w, res.Document.Root)
	fmt.Fprintln(w, "=== stylesheet ===")
	css.DumpStylesheet(w, res.Stylesheet)
	fmt.Fprintln(w, "=== style ===")
	css.DumpStyleTree(w, res.Style)
	fmt.Fprintln(w, "=== layout ===")
	layout.DumpBoxTree(w, res.Layout)
}
