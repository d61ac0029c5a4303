package server

import (
	"context"
	"image"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/ZacxDev/layout-composer/internal/editor"
	"github.com/ZacxDev/layout-composer/internal/export"
	"github.com/ZacxDev/layout-composer/internal/ffmpeg"
	"github.com/ZacxDev/layout-composer/internal/geometry"
	"github.com/ZacxDev/layout-composer/internal/layout"
	"github.com/ZacxDev/layout-composer/internal/template"
)

var ErrSessionClosed = errors.New("session closed")

const subscriberBuffer = 16

// Snapshot is what clients see of a session after every change.
type Snapshot struct {
	ID      string          `json:"id"`
	Layout  layout.Document `json:"layout"`
	Mode    string          `json:"mode"`
	Command string          `json:"command"`
	Empty   bool            `json:"empty"`
	Copied  bool            `json:"copied"`
}

// Session owns one editor state. All access goes through a single goroutine,
// so the state itself needs no locking.
type Session struct {
	ID string

	editor    *editor.Editor
	clipboard *export.Clipboard
	logger    *slog.Logger

	ops  chan func()
	quit chan struct{}
	done chan struct{}
	once sync.Once

	// owned by run
	state    editor.State
	template image.Image
	subs     map[string]chan Snapshot
}

func newSession(e *editor.Editor, clip *export.Clipboard, s editor.State, logger *slog.Logger) *Session {
	id := uuid.NewString()
	sess := &Session{
		ID:        id,
		editor:    e,
		clipboard: clip,
		logger:    logger.With("session", id),
		ops:       make(chan func()),
		quit:      make(chan struct{}),
		done:      make(chan struct{}),
		state:     s,
		subs:      make(map[string]chan Snapshot),
	}
	go sess.run()
	return sess
}

func (s *Session) run() {
	defer close(s.done)
	for {
		select {
		case op := <-s.ops:
			op()
		case <-s.quit:
			for id, ch := range s.subs {
				close(ch)
				delete(s.subs, id)
			}
			s.clipboard.Stop()
			return
		}
	}
}

// do runs op on the session goroutine and waits for it.
func (s *Session) do(ctx context.Context, op func()) error {
	finished := make(chan struct{})
	select {
	case s.ops <- func() { op(); close(finished) }:
	case <-s.done:
		return ErrSessionClosed
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops the session goroutine and closes every subscription.
func (s *Session) Close() {
	s.once.Do(func() { close(s.quit) })
	<-s.done
}

func (s *Session) snapshot() Snapshot {
	cmd := s.editor.Compile(s.state)
	return Snapshot{
		ID:      s.ID,
		Layout:  layout.FromState(s.state),
		Mode:    s.state.Interaction.Mode.String(),
		Command: cmd,
		Empty:   cmd == ffmpeg.NoLayersMessage,
		Copied:  s.clipboard.Copied(),
	}
}

func (s *Session) broadcast(snap Snapshot) {
	for id, ch := range s.subs {
		select {
		case ch <- snap:
		default:
			s.logger.Warn("subscriber buffer full, dropping snapshot", "subscriber", id)
		}
	}
}

// Snapshot returns the current view of the session.
func (s *Session) Snapshot(ctx context.Context) (Snapshot, error) {
	var snap Snapshot
	err := s.do(ctx, func() { snap = s.snapshot() })
	return snap, err
}

// Apply dispatches actions in order and notifies subscribers once.
func (s *Session) Apply(ctx context.Context, actions []editor.Action) (Snapshot, error) {
	var snap Snapshot
	err := s.do(ctx, func() {
		s.state = s.editor.Replay(s.state, actions)
		snap = s.snapshot()
		if len(actions) > 0 {
			s.logger.Debug("applied actions", "count", len(actions), "layers", len(s.state.Layers))
			s.broadcast(snap)
		}
	})
	return snap, err
}

// Command returns the compiled ffmpeg command.
func (s *Session) Command(ctx context.Context) (string, error) {
	var cmd string
	err := s.do(ctx, func() { cmd = s.editor.Compile(s.state) })
	return cmd, err
}

// Copy puts the compiled command on the clipboard.
func (s *Session) Copy(ctx context.Context) (Snapshot, error) {
	var (
		snap    Snapshot
		copyErr error
	)
	err := s.do(ctx, func() {
		if copyErr = s.clipboard.Copy(s.editor.Compile(s.state)); copyErr != nil {
			return
		}
		snap = s.snapshot()
		s.broadcast(snap)
	})
	if err != nil {
		return Snapshot{}, err
	}
	return snap, copyErr
}

// SetTemplate installs img as the template overlay.
func (s *Session) SetTemplate(ctx context.Context, img image.Image, meta template.Image) (Snapshot, error) {
	var snap Snapshot
	err := s.do(ctx, func() {
		s.state = s.editor.LoadTemplate(s.state, meta.Name, meta.Size)
		s.template = img
		snap = s.snapshot()
		s.broadcast(snap)
	})
	return snap, err
}

// ClearTemplate removes the template overlay.
func (s *Session) ClearTemplate(ctx context.Context) (Snapshot, error) {
	var snap Snapshot
	err := s.do(ctx, func() {
		s.state = s.editor.ClearTemplate(s.state)
		s.template = nil
		snap = s.snapshot()
		s.broadcast(snap)
	})
	return snap, err
}

// View returns the state and template image for rendering outside the
// session goroutine.
func (s *Session) View(ctx context.Context) (editor.State, image.Image, error) {
	var (
		st  editor.State
		img image.Image
	)
	err := s.do(ctx, func() {
		st, img = s.state, s.template
		if !st.Template.Present {
			img = nil
		}
	})
	return st, img, err
}

// Cursor names the pointer cursor at p.
func (s *Session) Cursor(ctx context.Context, p geometry.Point) (string, error) {
	var cursor string
	err := s.do(ctx, func() { cursor = s.editor.Cursor(s.state, p) })
	return cursor, err
}

// Subscribe registers for snapshots. The returned snapshot is the state at
// the time of subscription.
func (s *Session) Subscribe(ctx context.Context) (string, <-chan Snapshot, Snapshot, error) {
	id := uuid.NewString()
	ch := make(chan Snapshot, subscriberBuffer)
	var snap Snapshot
	err := s.do(ctx, func() {
		s.subs[id] = ch
		snap = s.snapshot()
	})
	if err != nil {
		return "", nil, Snapshot{}, err
	}
	return id, ch, snap, nil
}

// Unsubscribe closes the subscription id.
func (s *Session) Unsubscribe(id string) {
	_ = s.do(context.Background(), func() {
		if ch, ok := s.subs[id]; ok {
			close(ch)
			delete(s.subs, id)
		}
	})
}

// Sessions is the set of live sessions.
type Sessions struct {
	mu sync.RWMutex
	m  map[string]*Session
}

func NewSessions() *Sessions {
	return &Sessions{m: make(map[string]*Session)}
}

func (ss *Sessions) Add(s *Session) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	ss.m[s.ID] = s
}

func (ss *Sessions) Get(id string) (*Session, bool) {
	ss.mu.RLock()
	defer ss.mu.RUnlock()
	s, ok := ss.m[id]
	return s, ok
}

// Delete closes and forgets the session.
func (ss *Sessions) Delete(id string) bool {
	ss.mu.Lock()
	s, ok := ss.m[id]
	delete(ss.m, id)
	ss.mu.Unlock()

	if ok {
		s.Close()
	}
	return ok
}

func (ss *Sessions) Len() int {
	ss.mu.RLock()
	defer ss.mu.RUnlock()
	return len(ss.m)
}

// CloseAll closes every session.
func (ss *Sessions) CloseAll() {
	ss.mu.Lock()
	all := ss.m
	ss.m = make(map[string]*Session)
	ss.mu.Unlock()

	for _, s := range all {
		s.Close()
	}
}
