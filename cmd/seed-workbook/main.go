package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/recupero/internal/fixtures"
	"github.com/okian/recupero/pkg/logger"
)

// Default configuration constants.
const (
	defaultStudents = 40
	defaultProbes   = 5
	defaultWorkers  = 2
	defaultTimeout  = 2 * time.Minute
	defaultRunLimit = 10 * time.Minute
)

func main() {
	var (
		output   = flag.String("out", "sample.xlsx", "Output .xlsx file")
		sheet    = flag.String("sheet", "Recuperos", "Name of the first worksheet")
		students = flag.Int("students", defaultStudents, "Number of distinct students")
		seed     = flag.Uint64("seed", 1, "Seed for deterministic generation")
		baseURL  = flag.String("url", "", "Base URL of a running dashboard to probe")
		probes   = flag.Int("probes", defaultProbes, "Number of students to analyze when probing")
		workers  = flag.Int("workers", defaultWorkers, "Number of concurrent probe workers")
		timeout  = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		verbose  = flag.Bool("verbose", false, "Log every probe result")
		help     = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		fixtures.ShowHelp()
		return
	}

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunLimit)
	defer cancel()
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := &fixtures.Config{
		Output:   *output,
		Sheet:    *sheet,
		Students: *students,
		Seed:     *seed,
		BaseURL:  *baseURL,
		Probes:   *probes,
		Workers:  max(*workers, 1),
		Timeout:  *timeout,
		Verbose:  *verbose,
	}

	if _, err := fixtures.Run(ctx, cfg); err != nil {
		logger.Get().Error(ctx, "seed failed", logger.Error(err))
		os.Exit(1)
	}
}
