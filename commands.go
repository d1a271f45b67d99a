package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"grider/internal/app"
	"grider/internal/config"
	"grider/internal/grid"
	"grider/internal/sorting"
	"grider/internal/storage"
)

// openSheet loads file into a headless App.
func openSheet(opts *globalOptions, cmd *cobra.Command, file string) (*app.App, error) {
	a := app.NewApp(opts.load(cmd))
	if err := a.Open(file, storage.FormatOf(file)); err != nil {
		return nil, fmt.Errorf("open %s: %w", file, err)
	}
	return a, nil
}

// saveSheet writes a back to out, or over file when out is empty.
func saveSheet(a *app.App, file, out string) error {
	if out == "" {
		out = file
	}
	if err := storage.Save(a.Document(), out, storage.FormatOf(out)); err != nil {
		return fmt.Errorf("save %s: %w", out, err)
	}
	return nil
}

func newSortCmd(opts *globalOptions) *cobra.Command {
	var (
		rangeAddr string
		by        string
		desc      bool
		output    string
	)
	cmd := &cobra.Command{
		Use:   "sort FILE",
		Short: "Sort rows of a sheet by one or more columns",
		Long: `Sort the rows of a range by key columns, first key first.
Without --range every row below the title rows is sorted.
Empty cells always end up last.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openSheet(opts, cmd, args[0])
			if err != nil {
				return err
			}
			order := sorting.Ascending
			if desc {
				order = sorting.Descending
			}
			keys := strings.Split(by, ",")
			switch {
			case rangeAddr != "":
				err = a.SortRange(rangeAddr, keys, order)
			case len(keys) == 1:
				err = a.SortColumn(keys[0], order)
			default:
				err = a.SortRange(contentAddr(a), keys, order)
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), a.Status)
			return saveSheet(a, args[0], output)
		},
	}
	cmd.Flags().StringVar(&rangeAddr, "range", "", "Range to sort as A1:D9 or a defined name")
	cmd.Flags().StringVar(&by, "by", "A", "Key columns, e.g. B or B,C")
	cmd.Flags().BoolVar(&desc, "desc", false, "Sort descending")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default: overwrite FILE)")
	return cmd
}

// contentAddr is the address of the rows below the title rows.
func contentAddr(a *app.App) string {
	maxR, maxC := a.Grid.Bounds()
	if maxR < a.TitleRows || maxC < 0 {
		return ""
	}
	return grid.Span(a.TitleRows, 0, maxR, maxC).String()
}

func newFilterCmd(opts *globalOptions) *cobra.Command {
	var (
		col    string
		keep   []string
		output string
	)
	cmd := &cobra.Command{
		Use:   "filter FILE",
		Short: "Hide the rows whose column text is not kept",
		Long: `Hide every row below the title rows whose text in --col is not one
of --keep. Hidden rows are stored in .grider and .xlsx outputs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openSheet(opts, cmd, args[0])
			if err != nil {
				return err
			}
			c, ok := grid.NameToCol(col)
			if !ok {
				return &grid.AddressError{Address: col}
			}
			if err := a.SetFilter(c, keep...); err != nil {
				return err
			}
			hidden := 0
			for _, st := range a.Rows {
				if st.Hidden() {
					hidden++
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d rows hidden\n", hidden)
			return saveSheet(a, args[0], output)
		},
	}
	cmd.Flags().StringVar(&col, "col", "A", "Column to filter on")
	cmd.Flags().StringSliceVar(&keep, "keep", nil, "Texts to keep visible (default: all)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default: overwrite FILE)")
	return cmd
}

func newItemsCmd(opts *globalOptions) *cobra.Command {
	var col string
	cmd := &cobra.Command{
		Use:   "items FILE",
		Short: "List the distinct texts of a column in sort order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openSheet(opts, cmd, args[0])
			if err != nil {
				return err
			}
			c, ok := grid.NameToCol(col)
			if !ok {
				return &grid.AddressError{Address: col}
			}
			items, err := a.Items(c)
			if err != nil {
				return err
			}
			for _, it := range items {
				fmt.Fprintln(cmd.OutOrStdout(), it)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&col, "col", "A", "Column to list")
	return cmd
}

func newConfigCmd(opts *globalOptions) *cobra.Command {
	var save bool
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the settings in effect, or save them",
		Long: `Print the settings read from the config file with the command line
flags applied. With --save they are written back to the config file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.load(cmd)
			if save {
				if err := config.Save(cfg, opts.path()); err != nil {
					return fmt.Errorf("save config: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "saved "+opts.path())
				return nil
			}
			data, err := yaml.Marshal(cfg)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	cmd.Flags().BoolVar(&save, "save", false, "Write the settings to the config file")
	return cmd
}
