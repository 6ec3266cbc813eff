package notify

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/culturatoken/ctk-platform/internal/logger"
)

// Level classifies a user-facing notice
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
)

// Notice is a short user-facing message about the outcome of an operation
type Notice struct {
	Level   Level
	Message string
}

// Notifier delivers user-facing notices. The session emits one notice per
// completed or failed operation; delivery (log line, websocket push) is an
// implementation concern.
type Notifier interface {
	Notify(ctx context.Context, notice Notice)
}

// LogNotifier writes notices to the application log
type LogNotifier struct{}

// NewLogNotifier creates a notifier backed by the global logger
func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (n *LogNotifier) Notify(ctx context.Context, notice Notice) {
	fields := []zap.Field{zap.String("level", string(notice.Level))}
	switch notice.Level {
	case LevelError:
		logger.WarnCtx(ctx, notice.Message, fields...)
	default:
		logger.InfoCtx(ctx, notice.Message, fields...)
	}
}

// Recorder captures notices in memory for assertions
type Recorder struct {
	mu      sync.Mutex
	notices []Notice
}

// NewRecorder creates an in-memory notifier
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Notify(_ context.Context, notice Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, notice)
}

// Notices returns a copy of the captured notices in delivery order
func (r *Recorder) Notices() []Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notice, len(r.notices))
	copy(out, r.notices)
	return out
}

// Reset drops the captured notices
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = nil
}
