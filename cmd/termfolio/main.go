package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/kraitsura/termfolio/pkg/config"
	"github.com/kraitsura/termfolio/pkg/loader"
	"github.com/kraitsura/termfolio/pkg/ui"
	"github.com/kraitsura/termfolio/pkg/watcher"
)

// Version is set via ldflags at build time.
var Version = "dev"

type options struct {
	cfgFile string
	watch   bool
	compact bool
	desktop bool
	logFile string
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var opts options
	root := &cobra.Command{
		Use:   "termfolio [document.yml]",
		Short: "Browse a portfolio document as a set of terminal windows",
		Long: `termfolio shows the panels of a portfolio document as windows inside the
terminal. Wide terminals get free-floating windows that can be focused,
dragged and tabbed; narrow terminals get a scrolling column where focus
follows what is on screen.

Without an argument termfolio opens ` + loader.DefaultDocumentName + ` in the current directory.`,
		Args:          cobra.MaximumNArgs(1),
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), opts, args)
		},
	}
	root.PersistentFlags().StringVar(&opts.cfgFile, "config", config.DefaultPath, "config file path")
	root.Flags().BoolVarP(&opts.watch, "watch", "w", false, "reload the document when it changes")
	root.Flags().BoolVar(&opts.compact, "compact", false, "always use the compact layout")
	root.Flags().BoolVar(&opts.desktop, "desktop", false, "always use the desktop layout")
	root.Flags().StringVar(&opts.logFile, "log", "", "write diagnostics to this file")
	root.MarkFlagsMutuallyExclusive("compact", "desktop")

	root.AddCommand(newConfigCmd(&opts))
	return root
}

func run(ctx context.Context, opts options, args []string) error {
	cfg, err := config.Load(opts.cfgFile)
	if err != nil {
		return err
	}
	switch {
	case opts.compact:
		cfg.Mode = "compact"
	case opts.desktop:
		cfg.Mode = "desktop"
	}
	if opts.logFile != "" {
		cfg.LogFile = opts.logFile
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("termfolio needs an interactive terminal")
	}

	// The terminal belongs to the TUI; diagnostics go to the log file or
	// nowhere.
	if cfg.LogFile != "" {
		f, err := tea.LogToFile(cfg.LogFile, "termfolio")
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}

	var res *loader.Result
	if len(args) == 1 {
		res, err = loader.LoadDocumentFromFile(args[0])
	} else {
		res, err = loader.LoadDocument("")
	}
	if err != nil {
		return err
	}

	m := ui.NewModel(res, res.Path, cfg, ui.DefaultTheme(lipgloss.DefaultRenderer()))

	if opts.watch {
		w, err := watcher.New(res.Path, cfg.WatchDebounce)
		if err != nil {
			return err
		}
		defer w.Close()
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()
		go w.Run(ctx)
		m.SetWatchEvents(w.Events())
	}

	p := tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithReportFocus(),
		tea.WithContext(ctx),
	)
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("running termfolio: %w", err)
	}
	return nil
}
