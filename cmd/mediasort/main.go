package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"mediasort/internal/app"
	"mediasort/internal/config"
	appErrors "mediasort/internal/errors"
	"mediasort/internal/infra/exif"
	osfs "mediasort/internal/infra/fs"
	"mediasort/internal/infra/mp4"
	"mediasort/internal/logging"
	"mediasort/internal/presentation"
	"mediasort/internal/skiplog"
	"mediasort/internal/tui"
)

var flags struct {
	configFile       string
	recursive        bool
	move             bool
	scheme           string
	skipLog          bool
	detectDuplicates bool
	verbose          bool
	plain            bool
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "mediasort [flags] SOURCE DEST",
		Short: "Sort photos and videos into date folders by capture time",
		Long: "mediasort inspects the embedded capture metadata of photos and videos\n" +
			"(EXIF, MP4 movie headers) and files them into a date-derived folder\n" +
			"tree under the destination, without ever overwriting existing files.",
		Args:          cobra.MaximumNArgs(2),
		RunE:          run,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.Flags().StringVar(&flags.configFile, "config", "", "path to the config file (default ~/.mediasortrc)")
	rootCmd.Flags().BoolVarP(&flags.recursive, "recursive", "r", false, "descend into subfolders of the source")
	rootCmd.Flags().BoolVar(&flags.move, "move", false, "move files instead of copying them")
	rootCmd.Flags().StringVar(&flags.scheme, "scheme", "", "folder scheme: year, year-month, year-month-day, hierarchical")
	rootCmd.Flags().BoolVar(&flags.skipLog, "skip-log", true, "write a skip report to the destination when files are skipped")
	rootCmd.Flags().BoolVar(&flags.detectDuplicates, "detect-duplicates", false, "skip files whose clash target has identical content")
	rootCmd.Flags().BoolVarP(&flags.verbose, "verbose", "v", false, "verbose output")
	rootCmd.Flags().BoolVar(&flags.plain, "plain", false, "plain text output instead of the interactive view")

	if err := rootCmd.Execute(); err != nil {
		exitWithError(err)
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfg := config.Default()

	configPath := flags.configFile
	if configPath == "" {
		configPath = config.DefaultPath()
	}
	if err := config.LoadFile(&cfg, configPath); err != nil {
		return appErrors.Wrap(appErrors.InvalidConfig, "config", configPath, err)
	}
	config.ApplyEnv(&cfg)

	if len(args) > 0 {
		cfg.SourceDir = args[0]
	}
	if len(args) > 1 {
		cfg.DestDir = args[1]
	}
	if cmd.Flags().Changed("recursive") {
		cfg.Recursive = flags.recursive
	}
	if cmd.Flags().Changed("move") {
		cfg.Move = flags.move
	}
	if flags.scheme != "" {
		cfg.Scheme = flags.scheme
	}
	if cmd.Flags().Changed("skip-log") {
		cfg.WriteSkipLog = flags.skipLog
	}
	if cmd.Flags().Changed("detect-duplicates") {
		cfg.DetectDuplicates = flags.detectDuplicates
	}
	if flags.verbose {
		cfg.Verbose = true
	}
	if flags.plain {
		cfg.Plain = true
	}

	if err := cfg.Validate(); err != nil {
		return appErrors.Wrap(appErrors.InvalidConfig, "config", "", err)
	}

	filesystem := osfs.OSFS{}
	if _, err := filesystem.Stat(cfg.SourceDir); err != nil {
		return appErrors.Wrap(appErrors.NotFound, "stat", cfg.SourceDir, err)
	}

	logger := logging.New(os.Stderr, cfg.Verbose)
	sorter := &app.Sorter{
		FS: filesystem,
		Resolver: app.DateResolver{
			FS:     filesystem,
			Image:  exif.Reader{},
			Video:  mp4.Reader{},
			Logger: logger,
		},
		SkipLog: skiplog.Writer{},
		Logger:  logger,
	}

	opts := app.Options{
		Recursive:        cfg.Recursive,
		Move:             cfg.Move,
		Scheme:           cfg.FolderScheme(),
		WriteSkipLog:     cfg.WriteSkipLog,
		DetectDuplicates: cfg.DetectDuplicates,
	}

	if cfg.Plain || !isatty.IsTerminal(os.Stdout.Fd()) {
		return runPlain(sorter, cfg, opts)
	}
	return runTUI(sorter, cfg, opts)
}

func runPlain(sorter *app.Sorter, cfg config.Config, opts app.Options) error {
	printer := presentation.Printer{Writer: os.Stdout, Verbose: cfg.Verbose}
	sorter.OnProgress = printer.PrintProgress

	summary, err := sorter.Run(context.Background(), cfg.SourceDir, cfg.DestDir, opts)
	if err != nil {
		return appErrors.Wrap(appErrors.InvalidConfig, "sort", cfg.SourceDir, err)
	}

	printer.PrintSummary(summary)
	return nil
}

func runTUI(sorter *app.Sorter, cfg config.Config, opts app.Options) error {
	model := tui.NewModel(tui.Config{
		SourceDir: cfg.SourceDir,
		DestDir:   cfg.DestDir,
		Move:      cfg.Move,
	})
	program := tea.NewProgram(model)

	// The sorter runs on its own goroutine; progress updates are pushed to
	// the UI and never awaited.
	sorter.OnPhase = func(phase app.Phase) {
		go program.Send(tui.PhaseMsg{Phase: phase})
	}
	sorter.OnProgress = func(done, total int, file string) {
		go program.Send(tui.ProgressMsg{Done: done, Total: total, File: file})
	}

	go func() {
		summary, err := sorter.Run(context.Background(), cfg.SourceDir, cfg.DestDir, opts)
		if err != nil {
			program.Send(tui.ErrorMsg{Err: err})
			return
		}
		program.Send(tui.DoneMsg{Summary: summary})
	}()

	final, err := program.Run()
	if err != nil {
		return appErrors.Wrap(appErrors.Internal, "ui", "", err)
	}
	if m, ok := final.(tui.Model); ok && m.Err != nil {
		return appErrors.Wrap(appErrors.InvalidConfig, "sort", cfg.SourceDir, m.Err)
	}
	return nil
}

func exitWithError(err error) {
	fmt.Fprintln(os.Stderr, appErrors.UserMessage(err))
	os.Exit(1)
}
