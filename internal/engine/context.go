package engine

import (
	"fmt"
	"strings"
)

// --- Round context and helpers ----------------------------------------
type roundContext struct {
	summary []string
}

func newRoundContext() *roundContext {
	return &roundContext{summary: make([]string, 0, 16)}
}

func (rc *roundContext) add(msg string) { rc.summary = append(rc.summary, msg) }

func (rc *roundContext) addf(format string, args ...any) {
	rc.add(fmt.Sprintf(format, args...))
}

// lines returns a copy of the accumulated messages.
func (rc *roundContext) lines() []string {
	return append([]string(nil), rc.summary...)
}

// joinSummary returns the accumulated summary as a single string.
func (rc *roundContext) joinSummary() string {
	return strings.Join(rc.summary, "\n")
}
