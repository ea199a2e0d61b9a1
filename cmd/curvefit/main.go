// Package main provides the curvefit CLI.
//
// curvefit fits the free parameters of text equations to sample data,
// prints the fitted labels and draws the curves.
//
// Usage:
//
//	curvefit fit --model 'y = a*x + b' --x 0,1,2,3 --y 1,3,5,7 --out fit.png
//	curvefit run job.yaml
//	curvefit history --limit 10
//
// See --help for all available options.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := Execute(ctx)
	stop()
	os.Exit(code)
}
