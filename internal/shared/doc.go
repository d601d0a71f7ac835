// Package shared holds utilities used across packages that belong to
// no specific layer. Currently this is testutil, the slog test helpers
// the package-level tests share.
package shared
