package server

import (
	"fmt"
	"time"

	"github.com/df07/go-raydiance/pkg/core"
)

// ConsoleMessage represents a console message with timestamp
type ConsoleMessage struct {
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"` // "debug", "info", "notice", "warning", "error"
}

// WebLogger implements core.Logger by sending messages to a console channel
// and forwarding them to the server's own logger
type WebLogger struct {
	renderID    string
	base        core.Logger
	consoleChan chan<- ConsoleMessage
}

// NewWebLogger creates a new web logger for a specific render
func NewWebLogger(renderID string, base core.Logger, consoleChan chan<- ConsoleMessage) *WebLogger {
	if base == nil {
		base = core.NopLogger{}
	}
	return &WebLogger{
		renderID:    renderID,
		base:        base,
		consoleChan: consoleChan,
	}
}

func (wl *WebLogger) send(level, format string, args ...interface{}) {
	if wl.consoleChan == nil {
		return
	}
	// Non-blocking: a slow client loses console lines, never render time
	select {
	case wl.consoleChan <- ConsoleMessage{
		Message:   fmt.Sprintf(format, args...),
		Timestamp: time.Now(),
		Level:     level,
	}:
	default:
	}
}

// Debugf is kept off the console
func (wl *WebLogger) Debugf(format string, args ...interface{}) {
	wl.base.Debugf("[%s] "+format, append([]interface{}{wl.renderID}, args...)...)
}

func (wl *WebLogger) Infof(format string, args ...interface{}) {
	wl.base.Infof("[%s] "+format, append([]interface{}{wl.renderID}, args...)...)
	wl.send("info", format, args...)
}

func (wl *WebLogger) Noticef(format string, args ...interface{}) {
	wl.base.Noticef("[%s] "+format, append([]interface{}{wl.renderID}, args...)...)
	wl.send("notice", format, args...)
}

func (wl *WebLogger) Warningf(format string, args ...interface{}) {
	wl.base.Warningf("[%s] "+format, append([]interface{}{wl.renderID}, args...)...)
	wl.send("warning", format, args...)
}

func (wl *WebLogger) Errorf(format string, args ...interface{}) {
	wl.base.Errorf("[%s] "+format, append([]interface{}{wl.renderID}, args...)...)
	wl.send("error", format, args...)
}
