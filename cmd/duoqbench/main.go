// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Command duoqbench moves items between goroutines and loop tasks through
// one duoq queue and reports throughput and cross-domain wakeups.
//
// Usage:
//
//	duoqbench [-config scenario.yaml] [-duration 2s] [-maxsize 64]
//	          [-order fifo|lifo|priority] [-thread-producers N] ...
//	          [-nowait] [-json] [-progress]
//
// Flags given on the command line override values from the file.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/schollz/progressbar/v3"
)

func main() {
	cfg, err := parseArgs(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "duoqbench: %v\n", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var tick func(time.Duration)
	var bar *progressbar.ProgressBar
	if cfg.Progress {
		bar = newProgressBar(cfg.Duration)
		tick = func(elapsed time.Duration) { _ = bar.Set(int(elapsed.Milliseconds())) }
	}

	res, err := run(ctx, cfg, tick)
	if bar != nil {
		_ = bar.Finish()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "duoqbench: %v\n", err)
		os.Exit(1)
	}

	report := newReport(res, gatherSystemInfo())
	if cfg.JSON {
		err = writeJSON(os.Stdout, report)
	} else {
		err = writeText(os.Stdout, report)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "duoqbench: %v\n", err)
		os.Exit(1)
	}
}

func newProgressBar(d time.Duration) *progressbar.ProgressBar {
	return progressbar.NewOptions(int(d.Milliseconds()),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription("running"),
		progressbar.OptionSetWidth(20),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)
}
