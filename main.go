// =============================================================================
// Daily Sales Report - Main Entry Point
// =============================================================================
//
// This is the main entry point for the Daily Sales Report CLI. It delegates
// command execution to the cmd package.
//
// USAGE:
//   salesreport process     - Generate today's sales report
//   salesreport version     - Display the application version
//
// ARCHITECTURE:
//   - cmd/           : CLI command definitions (Cobra)
//   - internal/      : The report pipeline and its supporting packages
//   - pkg/           : Shared file utilities
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/daily-sales-report/cmd"
)

func main() {
	cmd.Execute()
}
