package connect

import (
	"sync"
	"time"

	"k8s.io/utils/clock"
)

// NoticeBoard shows transient error notices and clears them after a timeout.
// Showing a notice cancels the pending clear of the previous one, so only the
// newest notice's timer can clear the board.
type NoticeBoard struct {
	sink    Sink
	timeout time.Duration
	clk     clock.WithDelayedExecution

	mu      sync.Mutex
	current string
	timer   clock.Timer
	gen     uint64
}

// NewNoticeBoard creates a board that emits NoticeChanged events to sink.
// A nil clk uses the wall clock.
func NewNoticeBoard(sink Sink, timeout time.Duration, clk clock.WithDelayedExecution) *NoticeBoard {
	if clk == nil {
		clk = clock.RealClock{}
	}
	if timeout <= 0 {
		timeout = DefaultErrorMessageTimeout
	}
	return &NoticeBoard{sink: sink, timeout: timeout, clk: clk}
}

// Show publishes msg and schedules it to be cleared.
func (b *NoticeBoard) Show(msg string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.stopLocked()
	b.gen++
	gen := b.gen
	b.current = msg
	b.sink.Emit(NoticeChanged{Message: msg})

	b.timer = b.clk.AfterFunc(b.timeout, func() { b.expire(gen) })
}

// Current returns the notice that is showing, or "".
func (b *NoticeBoard) Current() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current
}

// Close cancels a pending clear without touching the current notice.
func (b *NoticeBoard) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.stopLocked()
	b.gen++
}

func (b *NoticeBoard) expire(gen uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	// A timer that fired while Show was replacing it must not clear the newer notice.
	if gen != b.gen {
		return
	}
	b.timer = nil
	b.current = ""
	b.sink.Emit(NoticeChanged{Message: ""})
}

func (b *NoticeBoard) stopLocked() {
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
}
