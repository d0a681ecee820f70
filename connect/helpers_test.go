package connect

import (
	"context"
	"sync"
	"testing"
	"time"

	testingclock "k8s.io/utils/clock/testing"

	"github.com/meikuraledutech/graphrel"
)

const testTimeout = 5 * time.Second

// recorder is a Sink that keeps every event in order.
type recorder struct {
	mu     sync.Mutex
	events []Event
	onEmit func(Event)
}

func (r *recorder) Emit(ev Event) {
	r.mu.Lock()
	r.events = append(r.events, ev)
	hook := r.onEmit
	r.mu.Unlock()
	if hook != nil {
		hook(ev)
	}
}

func (r *recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

func (r *recorder) notices() []string {
	var out []string
	for _, ev := range r.Events() {
		if n, ok := ev.(NoticeChanged); ok {
			out = append(out, n.Message)
		}
	}
	return out
}

func countOf[T Event](r *recorder) int {
	n := 0
	for _, ev := range r.Events() {
		if _, ok := ev.(T); ok {
			n++
		}
	}
	return n
}

// fakeTransport records requests and answers with a canned response.
// When gate is set, CreateRel signals started and blocks until gate is closed.
type fakeTransport struct {
	mu      sync.Mutex
	calls   []graphrel.CreateRelRequest
	resp    *Response
	err     error
	started chan struct{}
	gate    chan struct{}
}

func (f *fakeTransport) CreateRel(ctx context.Context, req graphrel.CreateRelRequest) (*Response, error) {
	f.mu.Lock()
	f.calls = append(f.calls, req)
	f.mu.Unlock()

	if f.gate != nil {
		f.started <- struct{}{}
		<-f.gate
	}
	return f.resp, f.err
}

func (f *fakeTransport) Calls() []graphrel.CreateRelRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]graphrel.CreateRelRequest(nil), f.calls...)
}

func ptr(s string) *string { return &s }

type fixture struct {
	rec       *recorder
	clock     *testingclock.FakeClock
	board     *NoticeBoard
	transport *fakeTransport
	dialogue  *Dialogue
}

func newFixture(t *testing.T, endpoints Endpoints, transport *fakeTransport, opts ...Option) *fixture {
	t.Helper()
	cfg := Config{Host: "http://store.invalid", ErrorMessageTimeout: testTimeout}
	f := &fixture{
		rec:       &recorder{},
		clock:     testingclock.NewFakeClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)),
		transport: transport,
	}
	f.board = NewNoticeBoard(f.rec, cfg.ErrorMessageTimeout, f.clock)
	f.dialogue = f.open(endpoints, transport, opts...)
	return f
}

// open starts another Dialogue on the fixture's sink and board, the way a
// host opens a fresh control for every add.
func (f *fixture) open(endpoints Endpoints, transport *fakeTransport, opts ...Option) *Dialogue {
	cfg := Config{Host: "http://store.invalid", ErrorMessageTimeout: testTimeout}
	opts = append([]Option{WithTransport(transport)}, opts...)
	return New(cfg, endpoints, f.rec, f.board, opts...)
}
