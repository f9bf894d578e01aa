// Package testutil provides testing utilities for neurones tests.
package testutil

import (
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"testing"
)

// RequirePOSIXShell skips the test on platforms without /bin/sh. Stub agent
// binaries are shell scripts.
func RequirePOSIXShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("stub agents require a POSIX shell")
	}
}

// WriteStubAgent writes an executable shell script standing in for an agent
// CLI and returns its path. The script body runs under /bin/sh with the
// full agent argv; most stubs ignore their arguments.
func WriteStubAgent(t *testing.T, dir, name, script string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script+"\n"), 0o755); err != nil {
		t.Fatalf("failed to write stub agent %s: %v", name, err)
	}
	return path
}

// CountingScript returns a stub body that appends one line to counterFile
// per invocation and prints firstOutput until the call count reaches
// switchAfter, then prints laterOutput. Used to script rate-limit-then-
// succeed and plan-then-synthesize sequences.
func CountingScript(counterFile, firstOutput, laterOutput string, switchAfter int) string {
	return `echo run >> "` + counterFile + `"
count=$(wc -l < "` + counterFile + `")
if [ "$count" -le ` + strconv.Itoa(switchAfter) + ` ]; then
  cat <<'NEURONES_EOF'
` + firstOutput + `
NEURONES_EOF
else
  cat <<'NEURONES_EOF'
` + laterOutput + `
NEURONES_EOF
fi`
}
