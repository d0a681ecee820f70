package connect

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/meikuraledutech/graphrel"
)

var bothSelected = Endpoints{First: ptr("n1"), Second: ptr("n2")}

func okResponse(body string) *Response {
	return &Response{StatusCode: 200, Body: []byte(body)}
}

func TestDraftDirection(t *testing.T) {
	assert.Equal(t, graphrel.DirectionAway, Draft{Name: "x"}.Direction())
	assert.Equal(t, graphrel.DirectionNeutral, Draft{Name: "x", DoubleSided: true}.Direction())
}

func TestSubmitRejectsBlankName(t *testing.T) {
	for _, name := range []string{"", " ", "\t", "  \n "} {
		t.Run("name="+name, func(t *testing.T) {
			f := newFixture(t, bothSelected, &fakeTransport{resp: okResponse(`{}`)})

			outcome := f.dialogue.Submit(context.Background(), Draft{Name: name})

			assert.Equal(t, OutcomeInvalid, outcome)
			assert.Empty(t, f.transport.Calls())
			assert.Equal(t, MsgNameNotSet, f.board.Current())
			assert.Equal(t, []string{MsgNameNotSet}, f.rec.notices())
			assert.Zero(t, countOf[Hidden](f.rec), "control stays open for correction")
			assert.Zero(t, countOf[ResetRequested](f.rec))

			f.clock.Step(testTimeout)
			require.Eventually(t, func() bool { return f.board.Current() == "" }, time.Second, time.Millisecond)
			assert.Equal(t, []string{MsgNameNotSet, ""}, f.rec.notices())
		})
	}
}

func TestSubmitMissingEndpoint(t *testing.T) {
	tests := []struct {
		name      string
		endpoints Endpoints
	}{
		{"first missing", Endpoints{Second: ptr("n2")}},
		{"second missing", Endpoints{First: ptr("n1")}},
		{"both missing", Endpoints{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.WarnLevel)
			f := newFixture(t, tt.endpoints, &fakeTransport{resp: okResponse(`{}`)}, WithLogger(zap.New(core)))

			// The endpoint check runs before the name is looked at.
			outcome := f.dialogue.Submit(context.Background(), Draft{Name: ""})

			assert.Equal(t, OutcomeMissingEndpoint, outcome)
			assert.Empty(t, f.transport.Calls())
			assert.Equal(t, []Event{ResetRequested{}, Hidden{}}, f.rec.Events())
			assert.Empty(t, f.rec.notices())
			assert.Empty(t, f.board.Current())

			require.Equal(t, 1, logs.Len())
			assert.Equal(t, "first or second node is not set", logs.All()[0].Message)
		})
	}
}

func TestSubmitSuccess(t *testing.T) {
	body := `{"id":"r1","name":"knows","fromId":"n1","toId":"n2","direction":"AWAY"}`
	f := newFixture(t, bothSelected, &fakeTransport{resp: okResponse(body)}, WithLogger(zaptest.NewLogger(t)))

	outcome := f.dialogue.Submit(context.Background(), Draft{Name: "knows"})

	assert.Equal(t, OutcomeCreated, outcome)
	require.Len(t, f.transport.Calls(), 1)
	assert.Equal(t, graphrel.CreateRelRequest{
		Name: "knows", FromID: "n1", ToID: "n2", Direction: graphrel.DirectionAway,
	}, f.transport.Calls()[0])

	assert.Equal(t, []Event{
		RelationshipCreated{Relationship: graphrel.Relationship{
			ID: "r1", Name: "knows", FromID: "n1", ToID: "n2", Direction: graphrel.DirectionAway,
			Raw: json.RawMessage(body),
		}},
		Hidden{},
	}, f.rec.Events())
	assert.Empty(t, f.rec.notices())
	assert.False(t, f.dialogue.Submitting())
}

func TestSubmitDoubleSided(t *testing.T) {
	f := newFixture(t, bothSelected, &fakeTransport{resp: okResponse(`{"id":"r2"}`)})

	f.dialogue.Submit(context.Background(), Draft{Name: "friends", DoubleSided: true})

	require.Len(t, f.transport.Calls(), 1)
	assert.Equal(t, graphrel.DirectionNeutral, f.transport.Calls()[0].Direction)
}

func TestSubmitRemoteRejection(t *testing.T) {
	for _, status := range []int{400, 404, 500, 503} {
		t.Run(statusMessage(status), func(t *testing.T) {
			f := newFixture(t, bothSelected, &fakeTransport{resp: &Response{StatusCode: status, Body: []byte("not json")}})

			outcome := f.dialogue.Submit(context.Background(), Draft{Name: "knows"})

			assert.Equal(t, OutcomeRejected, outcome)
			assert.Equal(t, statusMessage(status), f.board.Current())
			assert.Equal(t, 1, countOf[ResetRequested](f.rec))
			assert.Equal(t, 1, countOf[Hidden](f.rec))
			assert.Zero(t, countOf[RelationshipCreated](f.rec))

			f.clock.Step(testTimeout)
			require.Eventually(t, func() bool { return f.board.Current() == "" }, time.Second, time.Millisecond)
		})
	}
}

func TestSubmit503Message(t *testing.T) {
	f := newFixture(t, bothSelected, &fakeTransport{resp: &Response{StatusCode: 503}})

	f.dialogue.Submit(context.Background(), Draft{Name: "knows"})

	assert.Equal(t, []Event{
		NoticeChanged{Message: "error: 503"},
		ResetRequested{},
		Hidden{},
	}, f.rec.Events())
}

func TestSubmitTransportFailure(t *testing.T) {
	f := newFixture(t, bothSelected, &fakeTransport{err: errors.New("connection refused")})

	outcome := f.dialogue.Submit(context.Background(), Draft{Name: "knows"})

	assert.Equal(t, OutcomeFailed, outcome)
	assert.Equal(t, MsgRequestFailed, f.board.Current())
	assert.Equal(t, 1, countOf[ResetRequested](f.rec))
	assert.Equal(t, 1, countOf[Hidden](f.rec))
	assert.False(t, f.dialogue.Submitting())
}

func TestSubmitUndecodableSuccessBody(t *testing.T) {
	f := newFixture(t, bothSelected, &fakeTransport{resp: okResponse(`<html>`)})

	outcome := f.dialogue.Submit(context.Background(), Draft{Name: "knows"})

	assert.Equal(t, OutcomeFailed, outcome)
	assert.Zero(t, countOf[RelationshipCreated](f.rec))
	assert.Equal(t, MsgRequestFailed, f.board.Current())
}

func TestSubmittingOnlyWhileInFlight(t *testing.T) {
	transport := &fakeTransport{
		resp:    okResponse(`{"id":"r1"}`),
		started: make(chan struct{}),
		gate:    make(chan struct{}),
	}
	f := newFixture(t, bothSelected, transport)

	var submittingAtHide []bool
	f.rec.onEmit = func(ev Event) {
		if _, ok := ev.(Hidden); ok {
			submittingAtHide = append(submittingAtHide, f.dialogue.Submitting())
		}
	}

	assert.False(t, f.dialogue.Submitting())
	assert.Equal(t, Affordance{Label: LabelCreate, Enabled: true}, f.dialogue.Affordance())

	done := make(chan Outcome)
	go func() { done <- f.dialogue.Submit(context.Background(), Draft{Name: "knows"}) }()

	<-transport.started
	assert.True(t, f.dialogue.Submitting())
	assert.Equal(t, Affordance{Label: LabelWaiting, Enabled: false}, f.dialogue.Affordance())

	// A second click while in flight is ignored.
	assert.Equal(t, OutcomeBusy, f.dialogue.Submit(context.Background(), Draft{Name: "other"}))
	assert.Empty(t, f.rec.Events())

	close(transport.gate)
	assert.Equal(t, OutcomeCreated, <-done)

	assert.False(t, f.dialogue.Submitting())
	assert.Equal(t, Affordance{Label: LabelCreate, Enabled: true}, f.dialogue.Affordance())
	assert.Equal(t, []bool{false}, submittingAtHide)
	assert.Len(t, transport.Calls(), 1)
}

func TestSequentialSubmissionsAreIndependent(t *testing.T) {
	f := newFixture(t, bothSelected, &fakeTransport{resp: okResponse(`{"id":"r1"}`)})
	ctx := context.Background()

	require.Equal(t, OutcomeCreated, f.dialogue.Submit(ctx, Draft{Name: "knows"}))
	require.Equal(t, OutcomeCreated, f.dialogue.Submit(ctx, Draft{Name: "knows"}))
	require.Equal(t, OutcomeCreated, f.dialogue.Submit(ctx, Draft{Name: "likes", DoubleSided: true}))
	require.Equal(t, OutcomeCreated, f.dialogue.Submit(ctx, Draft{Name: "knows"}))

	want := []graphrel.CreateRelRequest{
		{Name: "knows", FromID: "n1", ToID: "n2", Direction: graphrel.DirectionAway},
		{Name: "knows", FromID: "n1", ToID: "n2", Direction: graphrel.DirectionAway},
		{Name: "likes", FromID: "n1", ToID: "n2", Direction: graphrel.DirectionNeutral},
		{Name: "knows", FromID: "n1", ToID: "n2", Direction: graphrel.DirectionAway},
	}
	assert.Equal(t, want, f.transport.Calls())
	assert.Equal(t, 4, countOf[Hidden](f.rec))
}

func TestSubmitSendsNameAsTyped(t *testing.T) {
	f := newFixture(t, bothSelected, &fakeTransport{resp: okResponse(`{"id":"r1"}`)})

	f.dialogue.Submit(context.Background(), Draft{Name: "  knows "})

	require.Len(t, f.transport.Calls(), 1)
	assert.Equal(t, "  knows ", f.transport.Calls()[0].Name)
}

func TestSubmitKeepsStoreBody(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		wantID string
	}{
		{"extra fields", `{"id":"r1","name":"knows","weight":3,"props":{"a":1}}`, "r1"},
		{"numeric id", `{"id":5,"name":"knows","fromId":"n1","toId":"n2","direction":"AWAY"}`, "5"},
		{"unix createdAt", `{"id":"r1","createdAt":1700000000}`, "r1"},
		{"date-only createdAt", `{"id":"r1","createdAt":"2024-01-01"}`, "r1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, bothSelected, &fakeTransport{resp: okResponse(tt.body)})

			outcome := f.dialogue.Submit(context.Background(), Draft{Name: "knows"})

			require.Equal(t, OutcomeCreated, outcome)
			assert.Empty(t, f.rec.notices())
			assert.Zero(t, countOf[ResetRequested](f.rec))
			require.Equal(t, 1, countOf[RelationshipCreated](f.rec))

			rel := f.rec.Events()[0].(RelationshipCreated).Relationship
			assert.Equal(t, tt.wantID, rel.ID)
			assert.JSONEq(t, tt.body, string(rel.Raw))
		})
	}
}

func TestDialoguesShareNoticeBoard(t *testing.T) {
	f := newFixture(t, bothSelected, &fakeTransport{resp: &Response{StatusCode: 503}})
	second := f.open(bothSelected, &fakeTransport{resp: &Response{StatusCode: 500}})
	ctx := context.Background()

	require.Equal(t, OutcomeRejected, f.dialogue.Submit(ctx, Draft{Name: "knows"}))
	f.clock.Step(testTimeout * 3 / 5)
	require.Equal(t, OutcomeRejected, second.Submit(ctx, Draft{Name: "knows"}))

	// Past the first notice's lifetime, within the second's.
	f.clock.Step(testTimeout * 3 / 5)
	assert.Never(t, func() bool { return f.board.Current() != "error: 500" }, 50*time.Millisecond, time.Millisecond)
	assert.Equal(t, []string{"error: 503", "error: 500"}, f.rec.notices())

	f.clock.Step(testTimeout * 2 / 5)
	require.Eventually(t, func() bool { return f.board.Current() == "" }, time.Second, time.Millisecond)
	assert.Equal(t, []string{"error: 503", "error: 500", ""}, f.rec.notices())
}

func TestNewRequiresNoticeBoard(t *testing.T) {
	assert.Panics(t, func() {
		New(Config{Host: "http://store.invalid"}, bothSelected, &recorder{}, nil)
	})
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "created", OutcomeCreated.String())
	assert.Equal(t, "missing endpoint", OutcomeMissingEndpoint.String())
	assert.Equal(t, "unknown", Outcome(99).String())
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, Config{Host: "http://localhost:3000"}.Validate())
	assert.Error(t, Config{}.Validate())
	assert.Error(t, Config{Host: "http://x", RequestTimeout: -time.Second}.Validate())
}
