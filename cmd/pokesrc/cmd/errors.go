package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/corey/pokesrc/internal/adapters/bbolt"
	"github.com/corey/pokesrc/internal/app"
)

// isDBLockError returns true if the error chain contains a bbolt lock timeout.
func isDBLockError(err error) bool {
	return err != nil && bbolt.IsLocked(err)
}

// diagnoseDBLock returns actionable guidance when the cache cannot be
// opened because another process holds it. A port file means a server
// started from this directory is (or was) running.
func diagnoseDBLock(root string) string {
	paths := app.NewPaths(root)
	if data, err := os.ReadFile(paths.PortFile); err == nil {
		return fmt.Sprintf("cache is locked, probably by `pokesrc serve` (port %s)\n"+
			"  → query the server instead:  curl 'http://127.0.0.1:%s/api/pokemon?q=...'\n"+
			"  → or skip the cache:         pokesrc --no-cache ...",
			strings.TrimSpace(string(data)), strings.TrimSpace(string(data)))
	}
	return "cache is locked by another process\n" +
		"  → find the process:  ps aux | grep 'pokesrc'\n" +
		"  → or skip the cache: pokesrc --no-cache ..."
}
