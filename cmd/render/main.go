// render is the CLI renderer for the advisory viewer. It refines one
// viewable advisory function in-process and saves the final texture as a
// PNG file.
package main

import (
	"context"
	"fmt"
	"image/png"
	"os"
	"syscall"
	"time"

	"github.com/aukilabs/go-tooling/pkg/cli"
	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"

	advisory "github.com/opencas/advisoryviewer"
	"github.com/opencas/advisoryviewer/cas"
)

type config struct {
	Viewee      string `cli:"" env:"-" help:"The advisory function to render (hcas|vcas)."`
	Pra         int    `cli:"" env:"-" help:"The previous advisory index."`
	WeightsFile string `cli:"" env:"-" help:"YAML file with trained network tables. Synthetic stand-in tables are used when empty."`
	MinDepth    int    `cli:"" env:"-" help:"Unconditional refinement depth. Negative keeps the catalog default."`
	MaxDepth    int    `cli:"" env:"-" help:"Adaptive refinement depth. Negative keeps the catalog default."`
	Output      string `cli:"" env:"-" help:"The output PNG file."`
	LogLevel    string `cli:"" env:"-" help:"Log level (debug|info|warning|error)."`
	Help        bool   `cli:"" env:"-" help:"Show help."`
}

func main() {
	conf := config{
		Viewee:   cas.HCasCartesian.String(),
		MinDepth: -1,
		MaxDepth: -1,
		Output:   "advisories.png",
		LogLevel: logs.InfoLevel.String(),
	}

	ctx, cancel := cli.ContextWithSignals(context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer cancel()

	cli.Register().
		Help("Renders an advisory function to a PNG file.").
		Options(&conf)
	cli.Load()

	logs.SetLevel(logs.ParseLevel(conf.LogLevel))

	if err := run(ctx, conf); err != nil {
		logs.Fatal(err)
	}
}

func run(ctx context.Context, conf config) error {
	key, err := cas.ParseVisualizableKey(conf.Viewee)
	if err != nil {
		return err
	}

	v := cas.NewVisualizable(key)
	v.Pra = uint8(conf.Pra)
	if conf.MinDepth >= 0 {
		v.MinDepth = conf.MinDepth
	}
	if conf.MaxDepth >= 0 {
		v.MaxDepth = conf.MaxDepth
	}
	if err := v.Validate(); err != nil {
		return err
	}

	hcas, vcas := cas.SyntheticHCas(), cas.SyntheticVCas()
	if conf.WeightsFile != "" {
		loadedH, loadedV, err := cas.LoadTables(conf.WeightsFile)
		if err != nil {
			return errors.New("loading network tables").
				WithTag("weights_file", conf.WeightsFile).
				Wrap(err)
		}
		if loadedH != nil {
			hcas = loadedH
		}
		if loadedV != nil {
			vcas = loadedV
		}
	}

	viewer := advisory.NewViewer()
	id := viewer.Update(v.ViewerConfig(), v.Classifier(hcas, vcas))
	logs.WithTag("generation", id.String()).
		WithTag("viewee", conf.Viewee).
		Info("refining")

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		p := viewer.Progress()
		logs.WithTag("level", fmt.Sprintf("%d/%d", p.Level, p.MaxDepth)).
			WithTag("base_cells", fmt.Sprintf("%d/%d", p.BaseDone, p.BaseTarget)).
			WithTag("extra_cells", p.ExtraDone).
			Debug("progress")
		if p.Done() {
			break
		}
	}

	img := viewer.RenderTexture()
	logs.WithTag("output", conf.Output).
		WithTag("size", img.Rect.Dx()).
		Info("saving texture")

	f, err := os.Create(conf.Output)
	if err != nil {
		return errors.New("creating output file").
			WithTag("output", conf.Output).
			Wrap(err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return errors.New("encoding PNG").Wrap(err)
	}
	return nil
}
