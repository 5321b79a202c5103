package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"gpubook/internal/events"
	"gpubook/internal/metrics"
	"gpubook/internal/models"
)

// Store is the persistence collaborator the scheduler runs against.
type Store interface {
	FindByResourceAndDates(ctx context.Context, node, gpu int, dates ...time.Time) ([]models.Booking, error)
	FindByEmail(ctx context.Context, email string) ([]models.Booking, error)
	FindByNode(ctx context.Context, node int) ([]models.Booking, error)
	GetByID(ctx context.Context, id int64) (*models.Booking, error)
	Insert(ctx context.Context, b *models.Booking) (int64, error)
	DeleteByID(ctx context.Context, id int64) (bool, error)
}

// FeedCache caches rendered calendar feeds per node. Implementations must
// tolerate being backed by an unavailable cache (degrade to misses).
type FeedCache interface {
	GetEvents(ctx context.Context, node int) ([]models.Event, bool)
	SetEvents(ctx context.Context, node int, evs []models.Event)
	Invalidate(ctx context.Context, node int)
}

// Pool describes the fixed set of bookable resources.
type Pool struct {
	Nodes       []int
	GPUsPerNode int
}

// ContainsNode reports whether the node is part of the pool.
func (p Pool) ContainsNode(node int) bool {
	for _, n := range p.Nodes {
		if n == node {
			return true
		}
	}
	return false
}

// ValidGPU reports whether the GPU slot number exists on every pool node.
func (p Pool) ValidGPU(gpu int) bool {
	return gpu >= 1 && gpu <= p.GPUsPerNode
}

// Request is a candidate booking, field syntax already validated upstream.
type Request struct {
	Email         string
	Node          int
	GPU           int
	StartDate     time.Time
	StartHour     int
	DurationHours int
}

// Scheduler decides booking conflicts and commits accepted bookings.
type Scheduler struct {
	store  Store
	pool   Pool
	locks  *resourceLocks
	bus    *events.EventBus
	cache  FeedCache
	now    func() time.Time
	logger *zerolog.Logger
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithEventBus publishes booking lifecycle events to the bus.
func WithEventBus(bus *events.EventBus) Option {
	return func(s *Scheduler) { s.bus = bus }
}

// WithFeedCache caches calendar feeds and invalidates them on writes.
func WithFeedCache(cache FeedCache) Option {
	return func(s *Scheduler) { s.cache = cache }
}

// WithNow overrides the clock, for tests.
func WithNow(now func() time.Time) Option {
	return func(s *Scheduler) { s.now = now }
}

// New constructs a Scheduler over the given store and resource pool.
func New(store Store, pool Pool, logger *zerolog.Logger, opts ...Option) *Scheduler {
	s := &Scheduler{
		store:  store,
		pool:   pool,
		locks:  newResourceLocks(),
		now:    time.Now,
		logger: logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit checks the candidate against all stored bookings for its resource
// and commits it if no interval overlaps. Conflicts and past-date requests
// are expected outcomes, reported as typed errors, never faults.
func (s *Scheduler) Submit(ctx context.Context, req Request) (*models.Booking, error) {
	if err := s.validate(req); err != nil {
		metrics.IncBookingSubmitted(metrics.OutcomeInvalid)
		return nil, err
	}

	candidate := &models.Booking{
		Email:         req.Email,
		Node:          req.Node,
		GPU:           req.GPU,
		StartDate:     dateOnly(req.StartDate),
		StartHour:     req.StartHour,
		DurationHours: req.DurationHours,
	}
	candidate.Finalize()

	// Serialize fetch-check-commit per resource: without this, two
	// concurrent submissions could both pass the check and both commit.
	unlock := s.locks.Lock(req.Node, req.GPU)
	defer unlock()

	// Conservative superset of possible conflicts: durations are capped at
	// 24h, so any overlapping booking has a start or end date landing on
	// the candidate's start or end date.
	pool, err := s.store.FindByResourceAndDates(ctx, req.Node, req.GPU,
		candidate.StartDate, candidate.EndDate)
	if err != nil {
		metrics.IncBookingSubmitted(metrics.OutcomeError)
		return nil, fmt.Errorf("fetch conflict pool: %w", err)
	}

	candStart, candEnd := candidate.Span(candidate.StartDate)
	for i := range pool {
		existStart, existEnd := pool[i].Span(candidate.StartDate)
		if models.Overlaps(candStart, candEnd, existStart, existEnd) {
			metrics.IncBookingSubmitted(metrics.OutcomeConflict)
			s.logger.Info().
				Int("node", req.Node).Int("gpu", req.GPU).
				Int64("conflicting_id", pool[i].ID).
				Msg("booking rejected: slot conflict")
			return nil, &ConflictError{Existing: pool[i]}
		}
	}

	id, err := s.store.Insert(ctx, candidate)
	if err != nil {
		metrics.IncBookingSubmitted(metrics.OutcomeError)
		return nil, fmt.Errorf("insert booking: %w", err)
	}
	candidate.ID = id

	metrics.IncBookingSubmitted(metrics.OutcomeAccepted)
	_ = s.bus.PublishJSON(events.TypeBookingCreated, candidate)
	s.invalidateFeed(ctx, req.Node)

	s.logger.Info().
		Int64("booking_id", id).
		Int("node", req.Node).Int("gpu", req.GPU).
		Str("start", candidate.Start).Str("end", candidate.End).
		Msg("booking committed")
	return candidate, nil
}

// Cancel removes a booking by id. The requester must name their own booking:
// the stored contact email has to match. A mismatch is reported as not
// found so ids cannot be probed.
func (s *Scheduler) Cancel(ctx context.Context, id int64, email string) error {
	b, err := s.store.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("lookup booking %d: %w", id, err)
	}
	if b == nil || b.Email != email {
		return ErrNotFound
	}

	deleted, err := s.store.DeleteByID(ctx, id)
	if err != nil {
		return fmt.Errorf("delete booking %d: %w", id, err)
	}
	if !deleted {
		return ErrNotFound
	}

	metrics.IncBookingCancelled()
	_ = s.bus.PublishJSON(events.TypeBookingCancelled, b)
	s.invalidateFeed(ctx, b.Node)

	s.logger.Info().Int64("booking_id", id).Msg("booking cancelled")
	return nil
}

// Events renders every booking on the node as a calendar event. The result
// is a finite snapshot, re-queryable at any time.
func (s *Scheduler) Events(ctx context.Context, node int) ([]models.Event, error) {
	if s.cache != nil {
		if evs, ok := s.cache.GetEvents(ctx, node); ok {
			return evs, nil
		}
	}

	bookings, err := s.store.FindByNode(ctx, node)
	if err != nil {
		return nil, fmt.Errorf("list bookings for node %d: %w", node, err)
	}

	evs := make([]models.Event, 0, len(bookings))
	for i := range bookings {
		evs = append(evs, models.EventFor(&bookings[i]))
	}

	if s.cache != nil {
		s.cache.SetEvents(ctx, node, evs)
	}
	return evs, nil
}

// BookingsByEmail lists bookings held under a contact email, for the
// cancellation flow.
func (s *Scheduler) BookingsByEmail(ctx context.Context, email string) ([]models.Booking, error) {
	return s.store.FindByEmail(ctx, email)
}

// BookingsByNode lists raw booking records on a node, for reporting.
func (s *Scheduler) BookingsByNode(ctx context.Context, node int) ([]models.Booking, error) {
	return s.store.FindByNode(ctx, node)
}

// Pool returns the configured resource pool.
func (s *Scheduler) Pool() Pool {
	return s.pool
}

func (s *Scheduler) validate(req Request) error {
	if req.StartHour < 0 || req.StartHour > 23 {
		return fmt.Errorf("%w: start hour %d out of range", ErrInvalidRequest, req.StartHour)
	}
	if req.DurationHours < 1 || req.DurationHours > 24 {
		return fmt.Errorf("%w: duration %d out of range", ErrInvalidRequest, req.DurationHours)
	}
	if !s.pool.ContainsNode(req.Node) {
		return fmt.Errorf("%w: unknown node %d", ErrInvalidRequest, req.Node)
	}
	if !s.pool.ValidGPU(req.GPU) {
		return fmt.Errorf("%w: unknown GPU %d", ErrInvalidRequest, req.GPU)
	}
	if dateOnly(req.StartDate).Before(dateOnly(s.now())) {
		return ErrPastDate
	}
	return nil
}

func (s *Scheduler) invalidateFeed(ctx context.Context, node int) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, node)
	}
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
