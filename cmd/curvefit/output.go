package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/curvefit/chart"
	"github.com/YuminosukeSato/curvefit/pkg/errors"
	"github.com/YuminosukeSato/curvefit/pkg/log"
	"github.com/YuminosukeSato/curvefit/report"
	"github.com/YuminosukeSato/curvefit/session"
	"github.com/YuminosukeSato/curvefit/store"
)

// outputs describes where the results of a render go.
type outputs struct {
	format    string
	chartPath string
	chartOpts []chart.Option
	dbPath    string
}

// write prints the report, then draws the chart and saves the history when
// requested.
func (o outputs) write(ctx context.Context, cmd *cobra.Command, outs []session.Outcome) error {
	w, err := report.New(o.format, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	if _, err := w.Write(outs); err != nil {
		return errors.Wrap(err, "write report")
	}

	if o.chartPath != "" {
		if err := os.MkdirAll(filepath.Dir(o.chartPath), 0o750); err != nil {
			return errors.Wrap(err, "create chart directory")
		}
		if err := chart.Save(o.chartPath, outs, o.chartOpts...); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "chart written to %s\n", o.chartPath)
	}

	if o.dbPath != "" {
		db, err := store.Open(o.dbPath)
		if err != nil {
			return err
		}
		defer db.Close()
		ids, err := db.Save(ctx, outs)
		if err != nil {
			return err
		}
		log.GetLogger().Info("fits saved", "db", o.dbPath, log.BatchSizeKey, len(ids))
	}
	return nil
}

// failure summarizes failed outcomes as an error.
func failure(outs []session.Outcome) error {
	failed := session.Failed(outs)
	if len(failed) == 0 {
		return nil
	}
	if len(failed) == 1 && len(outs) == 1 {
		return failed[0].Err
	}
	return errors.Newf("%d of %d models failed", len(failed), len(outs))
}
