package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/csheth/docdesk/internal/backend"
	"github.com/csheth/docdesk/internal/config"
	"github.com/csheth/docdesk/internal/logger"
	"github.com/csheth/docdesk/internal/pdfdoc"
	"github.com/csheth/docdesk/internal/recent"
	"github.com/csheth/docdesk/internal/tui"
)

// overrideFlags collects repeated -c key=value pairs.
type overrideFlags []string

func (o *overrideFlags) String() string { return strings.Join(*o, ",") }

func (o *overrideFlags) Set(value string) error {
	*o = append(*o, value)
	return nil
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

// run returns the process exit code so deferred cleanup, the log file in
// particular, happens before the process exits.
func run(args []string, stdout io.Writer) int {
	flags := flag.NewFlagSet("docdesk", flag.ContinueOnError)
	flags.SetOutput(stdout)
	configPath := flags.String("config", "", "path to config.toml (default ~/.docdesk/config.toml)")
	apiBase := flags.String("api", "", "assistant service base URL")
	noAltScreen := flags.Bool("no-alt-screen", false, "disable the alternate screen buffer")
	logPath := flags.String("log", "", "log file path (default ~/.docdesk/logs/docdesk.log)")
	logLevel := flags.String("log-level", "", "log level: debug, info, warn, error")
	writeConfig := flags.Bool("write-config", false, "write the effective config to the config path and exit")
	var overrides overrideFlags
	flags.Var(&overrides, "c", "config override key=value (repeatable)")
	flags.Usage = func() {
		fmt.Fprintln(flags.Output(), "usage: docdesk [flags] [file.pdf | url]")
		flags.PrintDefaults()
	}
	if err := flags.Parse(args); err != nil {
		return 2
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(stdout, "failed to load config:", err)
		return 1
	}
	cfg = config.ApplyKVOverrides(cfg, overrides)
	if *apiBase != "" {
		cfg.APIBaseURL = *apiBase
	}
	if *logPath != "" {
		cfg.LogPath = *logPath
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	if cfg.RecentsPath == "" {
		cfg.RecentsPath = recent.DefaultPath()
	}
	cfg = cfg.Normalize()

	if *writeConfig {
		if err := config.Save(cfg.Source, cfg); err != nil {
			fmt.Fprintln(stdout, "failed to write config:", err)
			return 1
		}
		fmt.Fprintln(stdout, "wrote", cfg.Source)
		return 0
	}

	logger.Configure()
	closer, resolvedLog, err := logger.SetupFile(cfg.LogPath)
	if err != nil {
		fmt.Fprintln(stdout, "failed to open log file:", err)
		return 1
	}
	defer closer.Close()
	log := logger.Named("main")
	if err := logger.SetLevel(cfg.LogLevel); err != nil {
		log.WithError(err).Error("bad log level")
		fmt.Fprintln(stdout, err)
		return 1
	}
	log.WithField("log", resolvedLog).WithField("api", cfg.APIBaseURL).Info("starting docdesk")

	cache, err := pdfdoc.NewCache("", nil)
	if err != nil {
		log.WithError(err).Warn("pdf cache unavailable, remote documents disabled")
	}

	workDir, err := os.Getwd()
	if err != nil {
		workDir = "."
	}

	model := tui.New(tui.Config{
		Client:     backend.New(backend.Config{BaseURL: cfg.APIBaseURL}),
		Cache:      fetcherOrNil(cache),
		Settings:   cfg,
		WorkDir:    workDir,
		InitialRef: flags.Arg(0),
	})

	opts := []tea.ProgramOption{tea.WithMouseCellMotion()}
	if !*noAltScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	program := tea.NewProgram(model, opts...)
	if _, err := program.Run(); err != nil {
		log.WithError(err).Error("program exited with error")
		fmt.Fprintln(stdout, "program error:", err)
		return 1
	}
	log.Info("docdesk stopped")
	return 0
}

// fetcherOrNil keeps a nil *Cache from turning into a non-nil interface.
func fetcherOrNil(cache *pdfdoc.Cache) tui.Fetcher {
	if cache == nil {
		return nil
	}
	return cache
}
