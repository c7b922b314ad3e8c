package fixtures

import "os"

// ShowHelp prints usage information for the seed tool.
func ShowHelp() {
	os.Stdout.WriteString(`Recupero Seed Tool
==================

Writes a sample remediation-exam workbook for local runs with
source.driver=workbook, and optionally probes a running dashboard.

Usage:
  go run ./cmd/seed-workbook [options]

Options:
  -out string
        Output .xlsx file (default "sample.xlsx")
  -sheet string
        Name of the first worksheet (default "Recuperos")
  -students int
        Number of distinct students (default 40)
  -seed uint
        Seed for deterministic generation (default 1)
  -url string
        Base URL of a running dashboard to probe (default: no probe)
  -probes int
        Number of students to analyze when probing (default 5)
  -workers int
        Number of concurrent probe workers (default 2)
  -timeout duration
        HTTP request timeout (default 2m)
  -verbose
        Log every probe result
  -help
        Show this help

Examples:
  go run ./cmd/seed-workbook -out data/recuperos.xlsx -students 100
  RECUPERO_SOURCE__DRIVER=workbook RECUPERO_SOURCE__WORKBOOK_PATH=data/recuperos.xlsx go run ./cmd
  go run ./cmd/seed-workbook -out data/recuperos.xlsx -url http://localhost:9080 -probes 3
`)
}
