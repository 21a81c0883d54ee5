// Package log collects Logger adapters for the rate-limiting engine's
// ratelimit.Logger interface, one per supported logging library: the
// standard library, zap, zerolog and logrus. Each adapter is a thin
// wrapper that maps Debugf/Warnf/Errorf onto the target library's
// levelled API.
package log

import "log"

// StdLogger implements ratelimit.Logger using the standard library's
// *log.Logger, prefixing each line with its level.
type StdLogger struct {
	logger *log.Logger
}

// New creates a StdLogger. A nil l falls back to log.Default().
func New(l *log.Logger) *StdLogger {
	if l == nil {
		l = log.Default()
	}
	return &StdLogger{logger: l}
}

func (s *StdLogger) Debugf(format string, args ...any) {
	s.logger.Printf("[DEBUG] "+format, args...)
}

func (s *StdLogger) Warnf(format string, args ...any) {
	s.logger.Printf("[WARN] "+format, args...)
}

func (s *StdLogger) Errorf(format string, args ...any) {
	s.logger.Printf("[ERROR] "+format, args...)
}
