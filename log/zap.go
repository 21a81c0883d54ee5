package log

import "go.uber.org/zap"

// ZapLogger implements ratelimit.Logger using a zap.SugaredLogger.
type ZapLogger struct {
	logger *zap.SugaredLogger
}

// NewZap creates a ZapLogger from l. A nil l falls back to zap.NewNop().
func NewZap(l *zap.Logger) *ZapLogger {
	if l == nil {
		l = zap.NewNop()
	}
	return &ZapLogger{logger: l.Sugar()}
}

func (z *ZapLogger) Debugf(format string, args ...any) { z.logger.Debugf(format, args...) }
func (z *ZapLogger) Warnf(format string, args ...any)  { z.logger.Warnf(format, args...) }
func (z *ZapLogger) Errorf(format string, args ...any) { z.logger.Errorf(format, args...) }
