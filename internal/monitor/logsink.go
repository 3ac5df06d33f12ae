package monitor

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rwortham/instinct/internal/domain"
)

// LogSink is a Monitor that writes one structured log line per dispatch
// event. It is always present in the default Composite, wired ahead of the
// metrics sink.
type LogSink struct {
	logger zerolog.Logger
}

// NewLogSink wraps the given logger, or the package-global zerolog logger
// if nil.
func NewLogSink(logger *zerolog.Logger) *LogSink {
	if logger == nil {
		return &LogSink{logger: log.Logger}
	}
	return &LogSink{logger: *logger}
}

func (s *LogSink) event(level zerolog.Level, node domain.Node) {
	s.logger.WithLevel(level).
		Uint16("element_id", uint16(node.ID())).
		Str("kind", node.Kind().String()).
		Msg("node dispatch")
}

func (s *LogSink) OnExecuted(node domain.Node) {
	s.event(zerolog.DebugLevel, node)
}

func (s *LogSink) OnSuccess(node domain.Node) {
	s.event(zerolog.InfoLevel, node)
}

func (s *LogSink) OnInProgress(node domain.Node) {
	s.event(zerolog.DebugLevel, node)
}

func (s *LogSink) OnFail(node domain.Node) {
	s.event(zerolog.WarnLevel, node)
}

func (s *LogSink) OnError(node domain.Node) {
	s.event(zerolog.ErrorLevel, node)
}

func (s *LogSink) OnSense(releaser domain.Releaser, senseValue int32) {
	s.logger.Debug().
		Uint16("sense_id", uint16(releaser.SenseID)).
		Int32("sense_value", senseValue).
		Msg("sense read")
}

var _ domain.Monitor = (*LogSink)(nil)
