// Package source keeps the project's working tree current with its
// remote. It wraps go-git (github.com/go-git/go-git/v5) to fetch the
// configured remote, check out the configured branch (creating the
// local branch from the remote ref when needed) and fast-forward pull.
//
// Using go-git means the launcher works on machines without a git
// binary installed; the trade-off is that only fast-forward updates
// are supported, which matches the launcher's fatal-on-failure policy.
package source
