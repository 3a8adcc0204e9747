// Package launch invokes the external sync program and surfaces its
// exit status. It supports a single run (the default) and an interval
// service mode that re-runs the program until the process is
// interrupted.
package launch
