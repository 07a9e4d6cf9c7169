// Package audit keeps the append-only record of each alert's outcome.
package audit

import (
	"go.uber.org/zap"

	"whalerelay/internal/model"
)

// Sink accepts publish records. Implementations must be safe for
// concurrent use: multiple alerts may reach a terminal state at once.
type Sink interface {
	Write(record model.PublishRecord) error
}

// MultiSink fans a record out to several sinks. A failing sink is
// logged and skipped; the audit trail never fails an alert.
type MultiSink struct {
	sinks  []Sink
	logger *zap.Logger
}

// NewMultiSink builds a MultiSink over the given sinks.
func NewMultiSink(logger *zap.Logger, sinks ...Sink) *MultiSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MultiSink{sinks: sinks, logger: logger}
}

// Write delivers the record to every sink.
func (m *MultiSink) Write(record model.PublishRecord) error {
	for _, s := range m.sinks {
		if err := s.Write(record); err != nil {
			m.logger.Error("audit sink write failed", zap.String("rule", record.RuleName), zap.Error(err))
		}
	}
	return nil
}
