package logging

import (
	"go.temporal.io/sdk/log"
	"go.uber.org/zap"
)

// TemporalAdapter exposes a zap logger through the Temporal SDK's keyval
// logging interface so client and worker internals share the service's
// JSON log stream.
type TemporalAdapter struct {
	zl *zap.SugaredLogger
}

var _ log.Logger = (*TemporalAdapter)(nil)

func NewTemporalAdapter(logger *zap.Logger) *TemporalAdapter {
	if logger == nil {
		logger = zap.L()
	}
	// Skip one frame so call sites inside the SDK are reported, not the adapter.
	return &TemporalAdapter{zl: logger.WithOptions(zap.AddCallerSkip(1)).Sugar()}
}

func (a *TemporalAdapter) Debug(msg string, keyvals ...interface{}) {
	a.zl.Debugw(msg, normalize(keyvals)...)
}

func (a *TemporalAdapter) Info(msg string, keyvals ...interface{}) {
	a.zl.Infow(msg, normalize(keyvals)...)
}

func (a *TemporalAdapter) Warn(msg string, keyvals ...interface{}) {
	a.zl.Warnw(msg, normalize(keyvals)...)
}

func (a *TemporalAdapter) Error(msg string, keyvals ...interface{}) {
	a.zl.Errorw(msg, normalize(keyvals)...)
}

// normalize pads odd-length keyval lists so zap's sugared logger does not
// report a dangling key.
func normalize(keyvals []interface{}) []interface{} {
	if len(keyvals)%2 == 0 {
		return keyvals
	}
	return append(keyvals, "(missing)")
}
