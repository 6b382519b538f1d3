package logging

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"go.viam.com/test"
)

func TestSublogger(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	logger := &impl{zap.New(core).Sugar().Named("root")}

	sub := logger.Sublogger("child")
	sub.Infow("hello", "k", "v")
	logger.Debug("root message")

	entries := logs.All()
	test.That(t, entries, test.ShouldHaveLength, 2)
	test.That(t, entries[0].LoggerName, test.ShouldEqual, "root.child")
	test.That(t, entries[0].Message, test.ShouldEqual, "hello")
	test.That(t, entries[1].LoggerName, test.ShouldEqual, "root")
}

func TestNewLogger(t *testing.T) {
	logger := NewLogger("test")
	test.That(t, logger, test.ShouldNotBeNil)
	logger = NewDebugLogger("test")
	test.That(t, logger, test.ShouldNotBeNil)
}
