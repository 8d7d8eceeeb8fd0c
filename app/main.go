// Package main is an entrypoint for application
package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/Semior001/gocensus/app/cmd"
	"github.com/Semior001/gocensus/pkg/logx"
	"github.com/jessevdk/go-flags"
	"golang.org/x/exp/slog"
)

var opts struct {
	Datasets    cmd.Datasets    `command:"datasets" description:"search census datasets"`
	Geographies cmd.Geographies `command:"geographies" description:"list geographies of a dataset"`
	Groups      cmd.Groups      `command:"groups" description:"list variable groups of a dataset"`
	Variables   cmd.Variables   `command:"variables" description:"list variables of a dataset or group"`
	Download    cmd.Download    `command:"download" description:"download data for a geography and variables"`

	JSONLogs bool `long:"json-logs" env:"JSON_LOGS" description:"turn on json logs"`
	Debug    bool `long:"dbg" env:"DEBUG" description:"turn on debug mode"`
}

var version = "unknown"

func getVersion() string {
	v, ok := debug.ReadBuildInfo()
	if !ok || v.Main.Version == "(devel)" {
		return version
	}
	return v.Main.Version
}

func main() {
	fmt.Fprintf(os.Stderr, "gocensus, version: %s\n", getVersion())

	p := flags.NewParser(&opts, flags.Default)
	p.CommandHandler = func(cmd flags.Commander, args []string) error {
		setupLog()

		if err := cmd.Execute(args); err != nil {
			slog.Error("failed to execute command", slog.Any("err", err))
			os.Exit(1)
		}

		return nil
	}

	// after failure command does not return non-zero code
	if _, err := p.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		} else {
			slog.Error("failed to parse flags", slog.Any("err", err))
			os.Exit(1)
		}
	}
}

func setupLog() {
	handler := slog.HandlerOptions{
		AddSource:   false,
		Level:       slog.LevelInfo,
		ReplaceAttr: nil,
	}

	if opts.Debug {
		handler.Level = slog.LevelDebug
		handler.AddSource = true
	}

	if opts.JSONLogs {
		lg := slog.New(logx.Handler{Handler: handler.NewJSONHandler(os.Stderr)})
		slog.SetDefault(lg)
		return
	}

	lg := slog.New(logx.Handler{Handler: handler.NewTextHandler(os.Stderr)})
	slog.SetDefault(lg)
}
