// Package pipeline runs the ordered bootstrap steps.
//
// The runner is a plain sequential pipeline: steps execute in
// declaration order, the first failure halts the run, and every
// remaining step is reported as skipped. An optional Observer receives
// lifecycle events so the CLI can render progress without the pipeline
// knowing anything about terminals.
package pipeline
