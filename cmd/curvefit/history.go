package main

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/curvefit/config"
	"github.com/YuminosukeSato/curvefit/label"
	"github.com/YuminosukeSato/curvefit/store"
)

type historyOptions struct {
	db    string
	limit int
	id    int64
	at    []float64
}

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	opts := &historyOptions{}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List saved fits or evaluate one of them",
		Long: `History lists the fits saved with --db or --save, newest first.

With --id and --at the saved fit is rebuilt and evaluated at the given
abscissae without fitting again:
  curvefit history --id 3 --at 7,8`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runHistory(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.db, "db", config.DefaultDBPath(), "History database")
	f.IntVarP(&opts.limit, "limit", "n", 20, "Maximum number of fits listed (0 lists all)")
	f.Int64Var(&opts.id, "id", 0, "Fit to evaluate")
	f.Float64SliceVar(&opts.at, "at", nil, "Abscissae to evaluate the fit at (with --id)")

	return cmd
}

func runHistory(cmd *cobra.Command, opts *historyOptions) error {
	ctx := cmd.Context()
	db, err := store.Open(opts.db)
	if err != nil {
		return err
	}
	defer db.Close()

	if opts.id > 0 {
		return evalRecord(cmd, db, opts)
	}

	records, err := db.List(ctx, opts.limit)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no fits saved in", opts.db)
		return nil
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tSTATUS\tR²\tMODEL")
	for _, r := range records {
		r2 := "-"
		if r.R2 != nil {
			r2 = label.Significant(*r.R2, label.R2Digits)
		}
		model := r.Label
		if model == "" {
			model = r.Equation
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n",
			r.ID, r.CreatedAt.Local().Format("2006-01-02 15:04"), r.Status, r2, model)
	}
	return tw.Flush()
}

func evalRecord(cmd *cobra.Command, db *store.Store, opts *historyOptions) error {
	rec, err := db.Get(cmd.Context(), opts.id)
	if err != nil {
		return err
	}
	reg, err := store.Restore(rec)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s\n", rec.Label)
	for _, x := range opts.at {
		y, err := reg.Eval(x)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "x = %s\ty = %s\n",
			strconv.FormatFloat(x, 'g', -1, 64), label.FormatFloat(y))
	}
	return nil
}
