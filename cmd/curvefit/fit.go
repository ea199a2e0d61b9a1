package main

import (
	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/curvefit/config"
	"github.com/YuminosukeSato/curvefit/pkg/log"
	"github.com/YuminosukeSato/curvefit/session"
)

type fitOptions struct {
	model     string
	x, y      []float64
	libraries []string
	title     string
	xLabel    string
	yLabel    string
	xSymbol   string
	ySymbol   string
	digits    int
	guideX    float64
	grid      bool
	axes      bool
	out       string
	format    string
	db        string
	save      bool
}

// NewFitCmd creates the fit command.
func NewFitCmd() *cobra.Command {
	opts := &fitOptions{}

	cmd := &cobra.Command{
		Use:   "fit",
		Short: "Fit one equation to sample data",
		Long: `Fit estimates the parameters of one equation and prints its label.

Examples:
  # Straight line
  curvefit fit --model 'y = a*x + b' --x 0,1,2,3,4,5 --y 1,3,5,7,9.5,10.5

  # Exponential decay with math functions, drawn to a PNG file
  curvefit fit --model 'y = a*math.exp(-x/t)' --libraries math \
    --x 0,1,2,3 --y 5,3.1,1.8,1.1 --out decay.png

  # Markdown report saved in the history database
  curvefit fit --model 'y = a*x**2' --x 1,2,3 --y 2,8,18 --format markdown --save`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runFit(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.model, "model", "m", "", "Equation to fit, e.g. 'y = a*x + b'")
	f.Float64SliceVar(&opts.x, "x", nil, "Comma-separated abscissae")
	f.Float64SliceVar(&opts.y, "y", nil, "Comma-separated ordinates")
	f.StringSliceVarP(&opts.libraries, "libraries", "l", nil, "Libraries to import ('math', 'numpy as n')")
	f.StringVar(&opts.title, "title", "", "Chart title")
	f.StringVar(&opts.xLabel, "x-label", "", "Caption of the x axis")
	f.StringVar(&opts.yLabel, "y-label", "", "Caption of the y axis")
	f.StringVar(&opts.xSymbol, "x-symbol", "", "Symbol printed for x in the label")
	f.StringVar(&opts.ySymbol, "y-symbol", "", "Symbol printed for y in the label")
	f.IntVarP(&opts.digits, "digits", "d", 0, "Significant digits of fitted values (default 3)")
	f.Float64Var(&opts.guideX, "guide-x", 0, "Draw guide lines to the curve at this abscissa")
	f.BoolVar(&opts.grid, "grid", false, "Draw a background grid")
	f.BoolVar(&opts.axes, "axes", false, "Draw the x=0 and y=0 axes")
	f.StringVarP(&opts.out, "out", "o", "", "Chart file (.png, .svg or .pdf)")
	f.StringVarP(&opts.format, "format", "f", "text", "Report format (text, markdown, json)")
	f.StringVar(&opts.db, "db", "", "History database to save the fit in")
	f.BoolVar(&opts.save, "save", false, "Save the fit in the default history database")
	_ = cmd.MarkFlagRequired("model")
	_ = cmd.MarkFlagRequired("x")
	_ = cmd.MarkFlagRequired("y")

	return cmd
}

func runFit(cmd *cobra.Command, opts *fitOptions) error {
	ctx := cmd.Context()
	s := session.New(session.WithPolicy(session.Strict), session.WithLogger(log.GetLogger()))
	if len(opts.libraries) > 0 {
		if err := s.ImportLibraries(opts.libraries...); err != nil {
			return err
		}
	}

	m := config.Model{
		Equation: opts.model,
		X:        opts.x,
		Y:        opts.y,
		Title:    opts.title,
		XLabel:   opts.xLabel,
		YLabel:   opts.yLabel,
		XSymbol:  opts.xSymbol,
		YSymbol:  opts.ySymbol,
		Digits:   opts.digits,
		Grid:     opts.grid,
		Axes:     opts.axes,
	}
	if cmd.Flags().Changed("guide-x") {
		m.GuideX = &opts.guideX
	}
	if err := s.Draw(m.Equation, m.X, m.Y, m.DrawOptions()...); err != nil {
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
	out := outputs{format: opts.format, chartPath: opts.out, dbPath: db}
	return out.write(ctx, cmd, outs)
}
