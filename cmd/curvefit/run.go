package main

import (
	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/curvefit/config"
	"github.com/YuminosukeSato/curvefit/pkg/log"
	"github.com/YuminosukeSato/curvefit/session"
)

type runOptions struct {
	out         string
	format      string
	strict      bool
	concurrency int
	db          string
	save        bool
}

// NewRunCmd creates the run command.
func NewRunCmd() *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run <job.yaml|job.hcl>",
		Short: "Fit and draw every model of a job file",
		Long: `Run loads a YAML or HCL job file, fits all of its models and draws them in
one chart, tiled or superposed as the job's render block says.

Without --out the chart goes to render.out, or to curvefit.png in the XDG
data directory. With --strict the first failing model aborts the run;
otherwise failures are reported per model and the command exits non-zero
after writing the rest.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runJob(cmd, args[0], opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.out, "out", "o", "", "Chart file (.png, .svg or .pdf)")
	f.StringVarP(&opts.format, "format", "f", "", "Report format (text, markdown, json); overrides render.format")
	f.BoolVar(&opts.strict, "strict", false, "Stop at the first failing model")
	f.IntVarP(&opts.concurrency, "concurrency", "j", 0, "Models fitted at the same time; overrides the job")
	f.StringVar(&opts.db, "db", "", "History database to save the fits in")
	f.BoolVar(&opts.save, "save", false, "Save the fits in the default history database")

	return cmd
}

func runJob(cmd *cobra.Command, path string, opts *runOptions) error {
	ctx := cmd.Context()
	job, err := config.Load(path)
	if err != nil {
		return err
	}
	if opts.strict {
		job.Policy = session.Strict.String()
	}
	if opts.concurrency > 0 {
		job.Concurrency = opts.concurrency
	}
	if opts.out != "" {
		job.Render.Out = opts.out
	}
	if opts.format != "" {
		job.Render.Format = opts.format
	}
	if err := job.Validate(); err != nil {
		return err
	}

	s, err := job.Session(session.WithLogger(log.GetLogger()))
	if err != nil {
		return err
	}
	outs, err := s.Render(ctx)
	if err != nil {
		return err
	}

	db := opts.db
	if db == "" && opts.save {
		db = config.DefaultDBPath()
	}
	out := outputs{
		format:    job.Render.Format,
		chartPath: job.OutputPath(),
		chartOpts: job.ChartOptions(),
		dbPath:    db,
	}
	if err := out.write(ctx, cmd, outs); err != nil {
		return err
	}
	return failure(outs)
}
