package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"grider/internal/app"
	"grider/internal/config"
	"grider/internal/storage"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type globalOptions struct {
	configPath string
	collate    string
	titleRows  int
}

func (o *globalOptions) path() string {
	if o.configPath != "" {
		return o.configPath
	}
	return config.Path()
}

// load reads the config file and applies the flags the user set.
func (o *globalOptions) load(cmd *cobra.Command) *config.Config {
	cfg := config.Load(o.path())
	if cmd.Flags().Changed("collate") {
		cfg.Collation = o.collate
	}
	if cmd.Flags().Changed("title-rows") {
		cfg.TitleRows = max(0, o.titleRows)
	}
	return cfg
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}
	root := &cobra.Command{
		Use:   "grider [file]",
		Short: "Terminal spreadsheet with sorting and filtering",
		Long: `grider edits CSV, XLSX and .grider sheets in the terminal.
The sort, filter and items subcommands run without a terminal.`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(opts.load(cmd), args)
		},
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "Config file (default: $XDG_CONFIG_HOME/grider/config.yaml)")
	root.PersistentFlags().StringVar(&opts.collate, "collate", "", "Locale for text order, e.g. en or de (default: byte order)")
	root.PersistentFlags().IntVar(&opts.titleRows, "title-rows", 0, "Rows at the top excluded from column sorts and filters")

	root.AddCommand(newSortCmd(opts), newFilterCmd(opts), newItemsCmd(opts), newConfigCmd(opts))
	return root
}

func runTUI(cfg *config.Config, args []string) error {
	a := app.NewApp(cfg)
	if len(args) == 1 {
		if err := a.Open(args[0], storage.FormatOf(args[0])); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("open %s: %w", args[0], err)
			}
			a.Status = "new file " + args[0]
		}
	}

	s, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("cannot create screen: %w", err)
	}
	if err := s.Init(); err != nil {
		return fmt.Errorf("cannot init screen: %w", err)
	}
	defer s.Fini()
	s.EnableMouse()
	s.Clear()

	if cfg.Splash {
		app.Splash(s, 150*time.Millisecond)
	}

	for !a.Quit {
		a.EnsureCursorVisible(s)
		a.Draw(s)
		switch ev := s.PollEvent().(type) {
		case *tcell.EventKey:
			a.HandleKeyEvent(s, ev)
		case *tcell.EventResize:
			s.Sync()
		}
	}
	return nil
}
