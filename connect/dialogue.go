package connect

import (
	"context"
	"net/http"
	"sync"

	"go.uber.org/zap"

	"github.com/meikuraledutech/graphrel"
)

// Outcome is how a Submit call ended.
type Outcome int

const (
	// OutcomeCreated means the store returned 200 and the relationship was emitted.
	OutcomeCreated Outcome = iota
	// OutcomeRejected means the store answered with a non-200 status.
	OutcomeRejected
	// OutcomeFailed means no usable response arrived.
	OutcomeFailed
	// OutcomeInvalid means the name was empty; nothing was sent.
	OutcomeInvalid
	// OutcomeMissingEndpoint means a node was not selected; nothing was sent.
	OutcomeMissingEndpoint
	// OutcomeBusy means a request was already in flight; nothing was sent.
	OutcomeBusy
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCreated:
		return "created"
	case OutcomeRejected:
		return "rejected"
	case OutcomeFailed:
		return "failed"
	case OutcomeInvalid:
		return "invalid"
	case OutcomeMissingEndpoint:
		return "missing endpoint"
	case OutcomeBusy:
		return "busy"
	default:
		return "unknown"
	}
}

// Affordance labels.
const (
	LabelCreate  = "Create"
	LabelWaiting = "Please wait..."
)

// Affordance describes the submit button.
type Affordance struct {
	Label   string
	Enabled bool
}

// Endpoints are the two selected nodes. Nil means not selected yet.
// First is the source, Second the target.
type Endpoints struct {
	First  *string
	Second *string
}

// Dialogue is one instance of the create-relationship control.
// At most one creation request is in flight per Dialogue.
type Dialogue struct {
	cfg       Config
	endpoints Endpoints
	sink      Sink
	transport Transport
	notices   *NoticeBoard
	log       *zap.Logger

	mu         sync.Mutex
	submitting bool
}

// Option configures a Dialogue.
type Option func(*Dialogue)

// WithTransport replaces the default fiber transport.
func WithTransport(t Transport) Option {
	return func(d *Dialogue) { d.transport = t }
}

// WithLogger sets the logger for diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(d *Dialogue) {
		if l != nil {
			d.log = l.Named("connect")
		}
	}
}

// New creates a Dialogue between the given endpoints. Events go to sink and
// notices to the host's board, which must be shared by every Dialogue the
// host opens so that only the newest notice's timer can clear it.
func New(cfg Config, endpoints Endpoints, sink Sink, notices *NoticeBoard, opts ...Option) *Dialogue {
	if notices == nil {
		panic("connect: New requires a NoticeBoard")
	}
	d := &Dialogue{
		cfg:       cfg,
		endpoints: endpoints,
		sink:      sink,
		notices:   notices,
		log:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.transport == nil {
		d.transport = NewFiberTransport(cfg)
	}
	return d
}

// Submitting reports whether a creation request is in flight.
func (d *Dialogue) Submitting() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.submitting
}

// Affordance returns the submit button state.
func (d *Dialogue) Affordance() Affordance {
	if d.Submitting() {
		return Affordance{Label: LabelWaiting, Enabled: false}
	}
	return Affordance{Label: LabelCreate, Enabled: true}
}

// Submit validates draft and, if it passes, performs one creation exchange.
// Every outcome that reaches the network, and a missing endpoint, ends with
// a Hidden event. An empty name only shows a notice and leaves the control open.
func (d *Dialogue) Submit(ctx context.Context, draft Draft) Outcome {
	d.mu.Lock()
	if d.submitting {
		d.mu.Unlock()
		return OutcomeBusy
	}

	if d.endpoints.First == nil || d.endpoints.Second == nil {
		d.mu.Unlock()
		d.log.Warn("first or second node is not set",
			zap.Bool("first_set", d.endpoints.First != nil),
			zap.Bool("second_set", d.endpoints.Second != nil),
		)
		d.sink.Emit(ResetRequested{})
		d.sink.Emit(Hidden{})
		return OutcomeMissingEndpoint
	}

	if !draft.nameSet() {
		d.mu.Unlock()
		d.notices.Show(MsgNameNotSet)
		return OutcomeInvalid
	}

	d.submitting = true
	d.mu.Unlock()

	outcome := d.dispatch(ctx, graphrel.CreateRelRequest{
		Name:      draft.Name,
		ToID:      *d.endpoints.Second,
		FromID:    *d.endpoints.First,
		Direction: draft.Direction(),
	})

	d.mu.Lock()
	d.submitting = false
	d.mu.Unlock()

	d.sink.Emit(Hidden{})
	return outcome
}

func (d *Dialogue) dispatch(ctx context.Context, req graphrel.CreateRelRequest) Outcome {
	resp, err := d.transport.CreateRel(ctx, req)
	if err != nil {
		d.log.Error("create relationship request failed", zap.Error(err))
		return d.fail(MsgRequestFailed, OutcomeFailed)
	}
	return d.reconcile(resp)
}

func (d *Dialogue) reconcile(resp *Response) Outcome {
	if resp.StatusCode != http.StatusOK {
		d.log.Warn("store rejected relationship", zap.Int("status", resp.StatusCode))
		return d.fail(statusMessage(resp.StatusCode), OutcomeRejected)
	}

	rel, err := graphrel.DecodeRelationship(resp.Body)
	if err != nil {
		d.log.Error("decode relationship", zap.Error(err))
		return d.fail(MsgRequestFailed, OutcomeFailed)
	}

	d.log.Debug("relationship created", zap.String("id", rel.ID), zap.String("name", rel.Name))
	d.sink.Emit(RelationshipCreated{Relationship: rel})
	return OutcomeCreated
}

func (d *Dialogue) fail(msg string, outcome Outcome) Outcome {
	d.notices.Show(msg)
	d.sink.Emit(ResetRequested{})
	return outcome
}
