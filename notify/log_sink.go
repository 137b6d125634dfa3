package notify

import "github.com/rs/zerolog"

var _ Sink = LogSink{}

// LogSink writes notifications and redirects to a logger.
type LogSink struct {
	Logger zerolog.Logger
}

func (s LogSink) Notify(t Type, message string) {
	var event *zerolog.Event
	switch t {
	case TypeError:
		event = s.Logger.Error()
	case TypeSuccess:
		event = s.Logger.Info().Bool("success", true)
	default:
		event = s.Logger.Info()
	}
	event.Msg(message)
}

func (s LogSink) Redirect(path string) {
	s.Logger.Info().Str("path", path).Msg("redirect")
}
