package specialize

// EventKind discriminates recorded hook events.
type EventKind uint8

const (
	EventAssertConstPC EventKind = iota
	EventPushContext
	EventUpdateContext
	EventPopContext
)

// String returns a human-readable name for EventKind.
func (k EventKind) String() string {
	switch k {
	case EventAssertConstPC:
		return "assert-const-pc"
	case EventPushContext:
		return "push-context"
	case EventUpdateContext:
		return "update-context"
	case EventPopContext:
		return "pop-context"
	default:
		return "unknown"
	}
}

// Event is one observed hook call.
type Event struct {
	Kind EventKind
	PC   uint32
	Site SourceTag
}

// Recorder is an integration that records all hook traffic while
// otherwise behaving like Fallback. It exists for specializer
// development and for tests that assert on the structural information
// the engine exposes: context brackets, per-step counter reports, and
// constancy assertions.
type Recorder struct {
	Fallback
	events []Event
}

// NewRecorder creates a recording integration.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Events returns every recorded hook call, in call order.
func (r *Recorder) Events() []Event {
	return r.events
}

// Reset discards recorded events.
func (r *Recorder) Reset() {
	r.events = r.events[:0]
}

// AssertConstPC records the assertion.
func (r *Recorder) AssertConstPC(pc uint32, site SourceTag) {
	r.events = append(r.events, Event{Kind: EventAssertConstPC, PC: pc, Site: site})
}

// PushContext records the context push.
func (r *Recorder) PushContext(pc uint32) {
	r.events = append(r.events, Event{Kind: EventPushContext, PC: pc})
}

// UpdateContext records the per-step counter report.
func (r *Recorder) UpdateContext(pc uint32) {
	r.events = append(r.events, Event{Kind: EventUpdateContext, PC: pc})
}

// PopContext records the context pop.
func (r *Recorder) PopContext() {
	r.events = append(r.events, Event{Kind: EventPopContext})
}
