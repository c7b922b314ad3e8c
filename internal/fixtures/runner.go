package fixtures

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/okian/recupero/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0o750
)

// Run generates a workbook and, when cfg.BaseURL is set, probes the
// dashboard with a sample of its students.
func Run(ctx context.Context, cfg *Config) (*Stats, error) {
	stats := &Stats{StartTime: time.Now()}

	logger.Get().Info(ctx, "generating sample workbook",
		logger.String("output", cfg.Output),
		logger.Int("students", cfg.Students),
		logger.Any("seed", cfg.Seed))

	rows := Generate(cfg, stats)

	if dir := filepath.Dir(cfg.Output); dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := writeWorkbook(cfg.Output, cfg.Sheet, rows); err != nil {
		return nil, fmt.Errorf("workbook generation failed: %w", err)
	}

	if cfg.BaseURL != "" {
		queries := Students(rows)
		if cfg.Probes > 0 && cfg.Probes < len(queries) {
			queries = queries[:cfg.Probes]
		}
		for i, q := range queries {
			queries[i] = FirstName(q)
		}
		// One query that matches nobody.
		queries = append(queries, "Zzz")

		if err := probe(ctx, cfg, queries, stats); err != nil {
			return stats, fmt.Errorf("probe failed: %w", err)
		}
	}

	stats.Duration = time.Since(stats.StartTime)
	displayFinalStats(stats)
	return stats, nil
}

func displayFinalStats(stats *Stats) {
	fmt.Printf(`
Workbook
   Students: %d
   Rows:     %d
   Si:       %d
   No:       %d
   Other:    %d
`, stats.Students, stats.Rows, stats.Resolved, stats.Pending, stats.OffEnum)

	if stats.Probed > 0 {
		fmt.Printf("Probe\n   Analyses: %d\n   Failed:   %d\n", stats.Probed, stats.Failed)
		states := make([]string, 0, len(stats.States))
		for s := range stats.States {
			states = append(states, s)
		}
		sort.Strings(states)
		for _, s := range states {
			fmt.Printf("   %-9s %d\n", s+":", stats.States[s])
		}
	}
	fmt.Printf("Duration: %v\n", stats.Duration.Round(time.Millisecond))
}
