package logging

import (
	"context"
	"sync/atomic"
)

// MirrorFunc receives every emitted log record in addition to the zap
// sink. The observability package installs one to forward logs to
// OpenTelemetry when Uptrace log export is enabled.
type MirrorFunc func(ctx context.Context, level Level, msg string, args ...any)

type mirrorHolder struct {
	fn MirrorFunc
}

var mirror atomic.Value

// SetMirror installs fn as the process-wide log mirror. Passing nil
// removes it.
func SetMirror(fn MirrorFunc) {
	mirror.Store(mirrorHolder{fn: fn})
}

func activeMirror() MirrorFunc {
	holder, ok := mirror.Load().(mirrorHolder)
	if !ok {
		return nil
	}
	return holder.fn
}
