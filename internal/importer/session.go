package importer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Phase is the stage an import attempt has reached.
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseValidating Phase = "validating"
	PhaseReading    Phase = "reading"
	PhaseParsing    Phase = "parsing"
	PhaseSubmitting Phase = "submitting"
	PhaseSettled    Phase = "settled"
)

// Upload is a user-selected file as received from the browser.
type Upload struct {
	Name     string
	MIMEType string
	Size     int64
	Content  io.Reader
}

// Snapshot is a copy of a session's import state.
type Snapshot struct {
	ImportID string   `json:"import_id,omitempty"`
	Phase    Phase    `json:"phase"`
	Busy     bool     `json:"busy"`
	Feedback Feedback `json:"feedback"`
	Rows     int      `json:"rows,omitempty"`
	Receipt  *Receipt `json:"receipt,omitempty"`
}

// Importer holds the pipeline collaborators shared by every session.
type Importer struct {
	submitter Submitter
	limiter   *Limiter
	maxBytes  int64
	timeout   time.Duration
	logger    *slog.Logger
}

// Option configures an Importer.
type Option func(*Importer)

// WithLimiter bounds concurrent imports across sessions.
func WithLimiter(l *Limiter) Option {
	return func(i *Importer) { i.limiter = l }
}

// WithMaxBytes rejects files larger than n bytes. Zero means no limit.
func WithMaxBytes(n int64) Option {
	return func(i *Importer) { i.maxBytes = n }
}

// WithTimeout bounds the submission stage. Zero means no bound.
func WithTimeout(d time.Duration) Option {
	return func(i *Importer) { i.timeout = d }
}

// WithLogger sets the diagnostic logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(i *Importer) { i.logger = l }
}

// NewImporter builds the shared pipeline around submitter.
func NewImporter(submitter Submitter, opts ...Option) *Importer {
	imp := &Importer{submitter: submitter}
	for _, opt := range opts {
		opt(imp)
	}
	if imp.logger == nil {
		imp.logger = slog.Default()
	}
	return imp
}

// Limiter returns the process-wide limiter, or nil when imports are unbounded.
func (imp *Importer) Limiter() *Limiter {
	return imp.limiter
}

// NewSession creates the import state for one page instance.
func (imp *Importer) NewSession() *Session {
	return &Session{
		importer: imp,
		phase:    PhaseIdle,
		feedback: NoFeedback(),
	}
}

// Session is the import state owned by one page instance: the feedback
// banner, the busy flag and the current phase. It is safe for concurrent use.
type Session struct {
	importer *Importer

	mu        sync.Mutex
	importID  string
	phase     Phase
	busy      bool
	feedback  Feedback
	rows      int
	receipt   *Receipt
	listeners []chan Snapshot
}

// Import runs one attempt to completion and returns the settled snapshot
// together with the error that settled it (nil on success).
//
// If an attempt is already running the call returns ErrBusy and leaves the
// session untouched. Feedback is cleared before any work starts. Once the
// file has been parsed the submission is detached from ctx cancellation so
// the attempt always settles. A panic in a collaborator settles the attempt
// with an error instead of unwinding past the session.
func (s *Session) Import(ctx context.Context, up Upload) (snap Snapshot, err error) {
	importID, ok := s.begin()
	if !ok {
		return s.Snapshot(), ErrBusy
	}

	imp := s.importer
	logger := imp.logger.With("import_id", importID, "file", up.Name, "mime_type", up.MIMEType)

	var (
		data    Dataset
		receipt Receipt
	)
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("import panicked: %v", r)
		}
		snap = s.settle(len(data), receipt, err)
		if err != nil {
			logger.Warn("import failed", "error", err, "code", snap.Feedback.Code)
		} else {
			logger.Info("import succeeded", "rows", len(data), "receipt_id", receipt.ID)
		}
	}()

	format, err := DetectFormat(up.MIMEType)
	if err != nil {
		return snap, err
	}

	if imp.limiter != nil {
		if err = imp.limiter.Acquire(ctx); err != nil {
			return snap, err
		}
		defer imp.limiter.Release()
	}

	s.setPhase(PhaseReading)
	text, err := ReadContent(ctx, up.Content, imp.maxBytes)
	if err != nil {
		return snap, err
	}

	s.setPhase(PhaseParsing)
	data, err = Parse(text, format)
	if err != nil {
		logger.Error("parse failed", "format", format, "error", err)
		return snap, err
	}
	logger.Debug("parsed dataset", "format", format, "rows", len(data), "bytes", len(text))

	s.setPhase(PhaseSubmitting)
	subCtx := context.WithoutCancel(ctx)
	if imp.timeout > 0 {
		var cancel context.CancelFunc
		subCtx, cancel = context.WithTimeout(subCtx, imp.timeout)
		defer cancel()
	}
	receipt, err = imp.submitter.Submit(subCtx, data)
	return snap, err
}

// Fail settles an attempt that was rejected before a file could be handed
// to Import. Like Import it replaces the previous feedback, here with err,
// and returns ErrBusy without touching the session while an attempt runs.
func (s *Session) Fail(err error) (Snapshot, error) {
	if err == nil {
		err = ErrRead
	}
	if _, ok := s.begin(); !ok {
		return s.Snapshot(), ErrBusy
	}
	return s.settle(0, Receipt{}, err), err
}

// Dismiss clears the feedback. A running attempt is not affected; an idle
// or settled session returns to PhaseIdle.
func (s *Session) Dismiss() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.feedback = NoFeedback()
	if !s.busy {
		s.phase = PhaseIdle
	}
	return s.snapshotLocked()
}

// Snapshot returns the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Busy reports whether an attempt is in flight.
func (s *Session) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

// Subscribe returns a channel that receives the current snapshot followed by
// every phase change of the running attempt. It is closed when the attempt
// settles, or immediately after the first snapshot when the session is idle.
func (s *Session) Subscribe() <-chan Snapshot {
	ch := make(chan Snapshot, 8)

	s.mu.Lock()
	defer s.mu.Unlock()

	ch <- s.snapshotLocked()
	if !s.busy {
		close(ch)
		return ch
	}
	s.listeners = append(s.listeners, ch)
	return ch
}

func (s *Session) begin() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.busy {
		return "", false
	}
	s.importID = uuid.NewString()
	s.busy = true
	s.phase = PhaseValidating
	s.feedback = NoFeedback()
	s.rows = 0
	s.receipt = nil
	s.notifyLocked()
	return s.importID, true
}

func (s *Session) setPhase(p Phase) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.phase = p
	s.notifyLocked()
}

func (s *Session) settle(rows int, receipt Receipt, err error) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.busy = false
	s.phase = PhaseSettled
	if err != nil {
		s.feedback = ErrorFeedback(err)
	} else {
		s.rows = rows
		s.receipt = &receipt
		s.feedback = SuccessFeedback(rows)
	}
	s.notifyLocked()

	for _, ch := range s.listeners {
		close(ch)
	}
	s.listeners = nil
	return s.snapshotLocked()
}

// notifyLocked sends the current snapshot without blocking; a slow listener
// misses intermediate phases but always sees the close.
func (s *Session) notifyLocked() {
	snap := s.snapshotLocked()
	for _, ch := range s.listeners {
		select {
		case ch <- snap:
		default:
		}
	}
}

func (s *Session) snapshotLocked() Snapshot {
	snap := Snapshot{
		ImportID: s.importID,
		Phase:    s.phase,
		Busy:     s.busy,
		Feedback: s.feedback,
		Rows:     s.rows,
	}
	if s.receipt != nil {
		r := *s.receipt
		snap.Receipt = &r
	}
	return snap
}
