package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"syscall"
	"time"

	"github.com/aukilabs/go-tooling/pkg/cli"
	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/opencas/advisoryviewer/cas"
)

// The advisory viewer version. Set at build.
var version = "v0.3.0"

type config struct {
	Addr         string        `cli:""        env:"ADVISORY_VIEWER_ADDR"          help:"Listening address for HTTP and WebSocket connections."`
	StaticDir    string        `cli:""        env:"ADVISORY_VIEWER_STATIC_DIR"    help:"Directory with the web client files."`
	WeightsFile  string        `cli:""        env:"ADVISORY_VIEWER_WEIGHTS"       help:"YAML file with trained network tables. Synthetic stand-in tables are used when empty."`
	LogLevel     string        `cli:""        env:"ADVISORY_VIEWER_LOG_LEVEL"     help:"Log level (debug|info|warning|error)."`
	LogIndent    bool          `cli:""        env:"ADVISORY_VIEWER_LOG_INDENT"    help:"Indent logs."`
	PushInterval time.Duration `cli:",hidden" env:"ADVISORY_VIEWER_PUSH_INTERVAL" help:"The duration between progress pushes to a connected client."`
	Version      bool          `cli:""        env:"-"                             help:"Show version."`
	Help         bool          `cli:""        env:"-"                             help:"Show help."`
}

// tables bundles the loaded network tables shared by every session.
type tables struct {
	hcas *cas.HNetTable
	vcas *cas.VNetTable
}

func main() {
	conf := config{
		Addr:         ":8080",
		StaticDir:    "./static",
		LogLevel:     logs.InfoLevel.String(),
		PushInterval: 150 * time.Millisecond,
	}

	ctx, cancel := cli.ContextWithSignals(context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer cancel()

	cli.Register().
		Help("Starts the advisory viewer server.").
		Options(&conf)
	cli.Load()

	if conf.Version {
		fmt.Println(version)
		os.Exit(0)
	}

	logs.SetLevel(logs.ParseLevel(conf.LogLevel))
	if conf.LogIndent {
		logs.Encoder = func(v any) ([]byte, error) {
			return json.MarshalIndent(v, "", "  ")
		}
	}

	if err := run(ctx, conf); err != nil {
		logs.Fatal(err)
	}
}

func run(ctx context.Context, conf config) error {
	t, err := loadTables(conf.WeightsFile)
	if err != nil {
		return errors.New("loading network tables").
			WithTag("weights_file", conf.WeightsFile).
			Wrap(err)
	}

	srv := webServer(conf, t)

	go func() {
		<-ctx.Done()
		if err := srv.Shutdown(context.Background()); err != nil {
			logs.Warn(errors.New("shutting down the server failed").
				WithTag("addr", srv.Addr).
				Wrap(err))
		}
	}()

	logs.WithTag("addr", conf.Addr).
		WithTag("version", version).
		Info("starting advisory viewer server")

	switch err := srv.ListenAndServe(); err {
	case nil, http.ErrServerClosed:
		logs.WithTag("addr", srv.Addr).Info("stopping server")
		return nil
	default:
		return errors.New("server stopped").Wrap(err)
	}
}

// loadTables reads the trained tables from path, or builds the synthetic
// stand-ins when no file is configured. A weights file may carry only one
// of the two sections; the other falls back to its stand-in.
func loadTables(path string) (tables, error) {
	if path == "" {
		logs.Info("no weights file configured, using synthetic network tables")
		return tables{hcas: cas.SyntheticHCas(), vcas: cas.SyntheticVCas()}, nil
	}

	hcas, vcas, err := cas.LoadTables(path)
	if err != nil {
		return tables{}, err
	}
	if hcas == nil {
		hcas = cas.SyntheticHCas()
	}
	if vcas == nil {
		vcas = cas.SyntheticVCas()
	}
	return tables{hcas: hcas, vcas: vcas}, nil
}
