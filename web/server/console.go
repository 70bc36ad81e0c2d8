package server

import (
	"fmt"
	"time"

	"github.com/df07/go-blackhole-raytracer/pkg/renderer"
)

// Level classifies a console message
type Level string

const (
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// ConsoleMessage is one line of the viewer console, sent as a "console" SSE event
type ConsoleMessage struct {
	StreamID  string    `json:"streamId"`
	Level     Level     `json:"level"`
	Frame     *int      `json:"frame,omitempty"` // Set when the message concerns one frame
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// WebLogger forwards log lines of one stream to its console channel and stdout.
// Sends never block: when the viewer falls behind, messages are dropped.
type WebLogger struct {
	streamID    string
	consoleChan chan<- ConsoleMessage
}

// NewWebLogger creates a logger for one SSE stream. A nil channel logs to stdout only.
func NewWebLogger(streamID string, consoleChan chan<- ConsoleMessage) *WebLogger {
	return &WebLogger{
		streamID:    streamID,
		consoleChan: consoleChan,
	}
}

// Printf logs an informational message
func (wl *WebLogger) Printf(format string, args ...interface{}) {
	wl.send(LevelInfo, nil, fmt.Sprintf(format, args...))
}

// FrameWarnf logs a warning about one frame
func (wl *WebLogger) FrameWarnf(frame int, format string, args ...interface{}) {
	wl.send(LevelWarning, &frame, fmt.Sprintf(format, args...))
}

// FrameErrorf logs a failure of one frame
func (wl *WebLogger) FrameErrorf(frame int, format string, args ...interface{}) {
	wl.send(LevelError, &frame, fmt.Sprintf(format, args...))
}

func (wl *WebLogger) send(level Level, frame *int, message string) {
	if level == LevelInfo {
		fmt.Printf("[%s] %s", wl.streamID, message)
	} else {
		fmt.Printf("[%s] %s: %s", wl.streamID, level, message)
	}

	if wl.consoleChan == nil {
		return
	}
	select {
	case wl.consoleChan <- ConsoleMessage{
		StreamID:  wl.streamID,
		Level:     level,
		Frame:     frame,
		Message:   message,
		Timestamp: time.Now(),
	}:
	default:
	}
}

// frameBudget warns when frames render slower than the stream interval.
// A run of consecutive slow frames produces a single warning.
type frameBudget struct {
	interval time.Duration
	over     bool
}

// check reports whether frame started a new run of slow frames, warning through logger if so
func (b *frameBudget) check(logger *WebLogger, frame renderer.FrameResult) bool {
	slow := frame.Stats.Duration > b.interval
	started := slow && !b.over
	b.over = slow
	if started {
		logger.FrameWarnf(frame.Number, "Frame %d took %v, longer than the %v frame interval (scale 1/%d)\n",
			frame.Number, frame.Stats.Duration.Round(time.Millisecond), b.interval, frame.Stats.Scale)
	}
	return started
}
