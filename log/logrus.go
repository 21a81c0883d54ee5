package log

import "github.com/sirupsen/logrus"

// LogrusLogger implements ratelimit.Logger using logrus.
type LogrusLogger struct {
	logger *logrus.Entry
}

// NewLogrus creates a LogrusLogger from l. A nil l falls back to a
// fresh logrus.New().
func NewLogrus(l *logrus.Logger) *LogrusLogger {
	if l == nil {
		l = logrus.New()
	}
	return &LogrusLogger{logger: logrus.NewEntry(l)}
}

func (l *LogrusLogger) Debugf(format string, args ...any) { l.logger.Debugf(format, args...) }
func (l *LogrusLogger) Warnf(format string, args ...any)  { l.logger.Warnf(format, args...) }
func (l *LogrusLogger) Errorf(format string, args ...any) { l.logger.Errorf(format, args...) }
