// Package model defines the domain types and value objects for the
// groundwork CLI.
//
// This package contains pure data structures with no external
// dependencies. The bootstrap steps (StepID), their per-run outcomes
// (StepResult, RunReport), the process exit-code contract (ExitCode),
// and the step-aware error type (CLIError) all live here so that every
// other package can share them without import cycles.
package model
