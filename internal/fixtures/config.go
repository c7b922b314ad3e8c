// Package fixtures generates sample remediation-exam workbooks and probes a
// running dashboard with them.
package fixtures

import "time"

// Config holds configuration for the seed tool.
type Config struct {
	Output   string        // Path of the .xlsx file to write
	Sheet    string        // Name of the first worksheet
	Students int           // Number of distinct students
	Seed     uint64        // Seed for deterministic generation
	BaseURL  string        // Dashboard to probe; empty skips probing
	Probes   int           // Number of students to analyze when probing
	Workers  int           // Number of concurrent probe workers
	Timeout  time.Duration // HTTP request timeout
	Verbose  bool          // Enable verbose logging
}

// Row is one worksheet row.
type Row struct {
	Student   string
	Subject   string
	Recovered string
}

// Stats holds run statistics.
type Stats struct {
	Students  int
	Rows      int
	Resolved  int
	Pending   int
	OffEnum   int
	Probed    int
	States    map[string]int
	Failed    int
	StartTime time.Time
	Duration  time.Duration
}
