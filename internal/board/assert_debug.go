//go:build debug

package board

import "fmt"

// Assert panics with msg when cond is false. Only present in debug builds
// (go build -tags debug); compiled out entirely otherwise so release builds
// pay nothing for invariant checks.
func Assert(cond bool, msg string, args ...any) {
	if !cond {
		panic("assertion failed: " + fmt.Sprintf(msg, args...))
	}
}
