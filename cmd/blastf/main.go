// # cmd/blastf/main.go
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/hanmindev/blastfurnace-workspaces/internal/config"
	"github.com/hanmindev/blastfurnace-workspaces/internal/diag"
	"github.com/hanmindev/blastfurnace-workspaces/internal/driver"
	"github.com/hanmindev/blastfurnace-workspaces/internal/history"
)

var (
	configPath  = flag.String("config", "./blastfurnace.toml", "Path to config file")
	watch       = flag.Bool("watch", false, "Recompile whenever sources change")
	showHistory = flag.Int("history", 0, "Print the N most recent builds and exit")
	verbose     = flag.Bool("verbose", false, "Enable verbose logging")
	version     = flag.Bool("version", false, "Print version and exit")
)

const VERSION = "1.0.0"

func main() {
	flag.Parse()

	if *version {
		fmt.Printf("blastf v%s\n", VERSION)
		os.Exit(0)
	}

	// Setup logging
	logLevel := slog.LevelInfo
	if *verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		if *configPath == "./blastfurnace.toml" {
			cfg, err = config.Load("./blastfurnace.example.toml")
		}
		if err != nil {
			slog.Error("failed to load config", "error", err)
			os.Exit(1)
		}
	}

	if flag.NArg() > 0 {
		cfg.SourceRoots = []string{flag.Arg(0)}
	}

	var store *history.Store
	if cfg.History.Path != "" {
		store, err = history.Open(cfg.History.Path)
		if err != nil {
			slog.Warn("build history disabled", "error", err)
		} else {
			defer store.Close()
		}
	}

	if *showHistory > 0 {
		printHistory(store, *showHistory)
		return
	}

	d, err := driver.New(cfg, store)
	if err != nil {
		slog.Error("failed to initialize compiler", "error", err)
		os.Exit(1)
	}

	if *watch {
		if err := d.Watch(); err != nil {
			slog.Error("watch mode failed", "error", err)
			os.Exit(1)
		}
		return
	}

	result, err := d.CompileOnce("once")
	if err != nil {
		slog.Error("build failed", "error", err)
		os.Exit(1)
	}

	if result.Failed() {
		fmt.Fprint(os.Stderr, diag.RenderAll(result.Diagnostics))
		fmt.Fprintln(os.Stderr, diag.Summary(result.Files, result.Functions, len(result.Diagnostics)))
		os.Exit(1)
	}
	fmt.Println(diag.Summary(result.Files, result.Functions, 0))
}

func printHistory(store *history.Store, limit int) {
	if store == nil {
		fmt.Fprintln(os.Stderr, "build history is not configured")
		os.Exit(1)
	}
	builds, err := store.RecentBuilds(limit)
	if err != nil {
		slog.Error("failed to load build history", "error", err)
		os.Exit(1)
	}
	for _, b := range builds {
		fmt.Printf("%s  files=%d functions=%d errors=%d duration=%s trigger=%s\n",
			b.Timestamp.Format("2006-01-02 15:04:05"),
			b.FileCount, b.FunctionCount, b.ErrorCount, b.Duration, b.Trigger)
	}
}
