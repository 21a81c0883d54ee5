package log

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ZerologLogger implements ratelimit.Logger using zerolog.
type ZerologLogger struct {
	logger zerolog.Logger
}

// NewZerolog creates a ZerologLogger from l. A nil l falls back to
// zerolog's global logger.
func NewZerolog(l *zerolog.Logger) *ZerologLogger {
	if l == nil {
		l = &log.Logger
	}
	return &ZerologLogger{logger: *l}
}

func (z *ZerologLogger) Debugf(format string, args ...any) { z.logger.Debug().Msgf(format, args...) }
func (z *ZerologLogger) Warnf(format string, args ...any)  { z.logger.Warn().Msgf(format, args...) }
func (z *ZerologLogger) Errorf(format string, args ...any) { z.logger.Error().Msgf(format, args...) }
