// Package python manages the Python side of the bootstrap: probing the
// PATH for a usable interpreter, creating and resolving the project's
// virtual environment, and installing the pinned dependency manifest
// with the environment's own pip.
//
// All child processes are spawned through a small exec wrapper that
// captures stderr into error messages and honors context cancellation.
// Errors cross the package boundary as model.CLIError values carrying
// the bootstrap step they belong to.
package python
