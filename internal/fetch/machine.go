// Package fetch holds the loading/error/ready state machine every view
// component drives its backend calls through.
package fetch

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusError
	StatusReady
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusError:
		return "error"
	case StatusReady:
		return "ready"
	default:
		return "idle"
	}
}

// Snapshot is one immutable view of a Machine. Data holds the last payload
// that was fetched successfully and survives later errors.
type Snapshot[T any] struct {
	Status  Status
	Loading bool
	Err     bool
	Data    T
	HasData bool
	// Seq is the run that produced this snapshot. Zero before any run.
	Seq uint64
}

type Option func(*options)

type options struct {
	logger       *zap.Logger
	discardStale bool
	idle         bool
}

func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithDiscardStale drops the result of a run when a newer run was started
// before it finished. Without it the last response to arrive wins.
func WithDiscardStale(enabled bool) Option {
	return func(o *options) {
		o.discardStale = enabled
	}
}

// StartIdle makes the initial status Idle instead of Loading, for components
// that only fetch when told to.
func StartIdle() Option {
	return func(o *options) {
		o.idle = true
	}
}

type Machine[T any] struct {
	name         string
	logger       *zap.Logger
	discardStale bool

	// pubMu serializes state changes with their notifications so subscribers
	// observe snapshots in the order they were produced.
	pubMu   sync.Mutex
	mu      sync.Mutex
	current Snapshot[T]
	started uint64
	subs    []subscriber[T]
	nextSub uint64
}

type subscriber[T any] struct {
	id uint64
	fn func(Snapshot[T])
}

func New[T any](name string, opts ...Option) *Machine[T] {
	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	m := &Machine[T]{
		name:         name,
		logger:       o.logger.With(zap.String("component", name)),
		discardStale: o.discardStale,
	}
	if o.idle {
		m.current.Status = StatusIdle
	} else {
		m.current.Status = StatusLoading
		m.current.Loading = true
	}
	return m
}

func (m *Machine[T]) Name() string {
	return m.name
}

func (m *Machine[T]) Snapshot() Snapshot[T] {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Subscribe registers fn for every future snapshot. Subscribers are called in
// registration order, synchronously on the goroutine that changed the state,
// and must not call back into the Machine's mutating methods.
func (m *Machine[T]) Subscribe(fn func(Snapshot[T])) (cancel func()) {
	m.mu.Lock()
	m.nextSub++
	id := m.nextSub
	m.subs = append(m.subs, subscriber[T]{id: id, fn: fn})
	m.mu.Unlock()
	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			defer m.mu.Unlock()
			for i, sub := range m.subs {
				if sub.id == id {
					m.subs = append(m.subs[:i:i], m.subs[i+1:]...)
					return
				}
			}
		})
	}
}

// Run performs one fetch attempt. The previous payload is only replaced when
// fn succeeds; the loading flag is cleared whatever the outcome. The error
// from fn is returned after it has been recorded in the state.
func (m *Machine[T]) Run(ctx context.Context, fn func(context.Context) (T, error)) error {
	seq := m.begin()

	data, err := fn(ctx)

	m.pubMu.Lock()
	defer m.pubMu.Unlock()

	m.mu.Lock()
	if m.discardStale && seq < m.started {
		newest := m.started
		m.mu.Unlock()
		m.logger.Debug("discarding stale response",
			zap.Uint64("seq", seq),
			zap.Uint64("newest", newest),
			zap.Error(err),
		)
		return err
	}
	if err != nil {
		m.current.Status = StatusError
		m.current.Err = true
	} else {
		m.current.Status = StatusReady
		m.current.Err = false
		m.current.Data = data
		m.current.HasData = true
	}
	m.current.Loading = false
	m.current.Seq = seq
	snap, subs := m.current, m.subscribers()
	m.mu.Unlock()

	if err != nil {
		m.logger.Warn("fetch failed", zap.Uint64("seq", seq), zap.Error(err))
	}
	notify(subs, snap)
	return err
}

// Set replaces the payload without a fetch, e.g. when a parent hands a
// component new input.
func (m *Machine[T]) Set(data T) {
	m.pubMu.Lock()
	defer m.pubMu.Unlock()

	m.mu.Lock()
	m.current.Status = StatusReady
	m.current.Loading = false
	m.current.Err = false
	m.current.Data = data
	m.current.HasData = true
	snap, subs := m.current, m.subscribers()
	m.mu.Unlock()

	notify(subs, snap)
}

// Reject moves to the error state without issuing a request. The payload is
// kept.
func (m *Machine[T]) Reject(err error) {
	m.pubMu.Lock()
	defer m.pubMu.Unlock()

	m.mu.Lock()
	m.current.Status = StatusError
	m.current.Loading = false
	m.current.Err = true
	snap, subs := m.current, m.subscribers()
	m.mu.Unlock()

	m.logger.Info("rejected without fetch", zap.Error(err))
	notify(subs, snap)
}

func (m *Machine[T]) begin() uint64 {
	m.pubMu.Lock()
	defer m.pubMu.Unlock()

	m.mu.Lock()
	m.started++
	seq := m.started
	m.current.Status = StatusLoading
	m.current.Loading = true
	m.current.Err = false
	snap, subs := m.current, m.subscribers()
	m.mu.Unlock()

	notify(subs, snap)
	return seq
}

func (m *Machine[T]) subscribers() []func(Snapshot[T]) {
	subs := make([]func(Snapshot[T]), 0, len(m.subs))
	for _, sub := range m.subs {
		subs = append(subs, sub.fn)
	}
	return subs
}

func notify[T any](subs []func(Snapshot[T]), snap Snapshot[T]) {
	for _, fn := range subs {
		fn(snap)
	}
}
