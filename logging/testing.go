package logging

import (
	"testing"

	"go.uber.org/zap/zaptest"
)

// NewTestLogger returns a logger that writes through the test object so log
// lines are associated with the right test.
func NewTestLogger(tb testing.TB) Logger {
	return &impl{zaptest.NewLogger(tb).Sugar()}
}
