// Package seatmap holds the authoritative state of every seat of every showtime.
package seatmap

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/metinatakli/showtime-booking/internal/domain"
)

type Option func(*MemoryStore)

// WithClock overrides the time source used for hold expiry.
func WithClock(now func() time.Time) Option {
	return func(s *MemoryStore) {
		if now != nil {
			s.now = now
		}
	}
}

// MemoryStore keeps seat state in process memory, partitioned by showtime.
// Each partition has its own lock so showtimes never contend with each other.
type MemoryStore struct {
	mu        sync.Mutex
	showtimes map[int64]*partition
	holds     map[string]int64
	now       func() time.Time
}

type partition struct {
	mu    sync.RWMutex
	seats map[string]seat
	holds map[string]*domain.Hold
}

type seat struct {
	state  domain.SeatState
	holdID string
}

func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{
		showtimes: make(map[int64]*partition),
		holds:     make(map[string]int64),
		now:       time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *MemoryStore) partition(showtimeID int64) *partition {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.showtimes[showtimeID]
	if !ok {
		p = &partition{
			seats: make(map[string]seat),
			holds: make(map[string]*domain.Hold),
		}
		s.showtimes[showtimeID] = p
	}

	return p
}

func (s *MemoryStore) indexHold(holdID string, showtimeID int64) {
	s.mu.Lock()
	s.holds[holdID] = showtimeID
	s.mu.Unlock()
}

func (s *MemoryStore) unindexHolds(holdIDs ...string) {
	if len(holdIDs) == 0 {
		return
	}

	s.mu.Lock()
	for _, id := range holdIDs {
		delete(s.holds, id)
	}
	s.mu.Unlock()
}

// expire drops holds whose TTL has passed. Caller must hold p.mu for writing.
func (s *MemoryStore) expire(p *partition) int {
	now := s.now()

	var expired []string
	for id, hold := range p.holds {
		if hold.Expired(now) {
			expired = append(expired, id)
		}
	}

	for _, id := range expired {
		p.dropHold(id)
	}

	s.unindexHolds(expired...)

	return len(expired)
}

func (p *partition) dropHold(holdID string) {
	hold, ok := p.holds[holdID]
	if !ok {
		return
	}

	for _, label := range hold.Seats {
		if st, ok := p.seats[label]; ok && st.state == domain.SeatHeld && st.holdID == holdID {
			delete(p.seats, label)
		}
	}

	delete(p.holds, holdID)
}

func (s *MemoryStore) SeatStates(
	ctx context.Context,
	showtimeID int64,
	layout domain.SeatLayout) (domain.SeatStates, error) {

	p := s.partition(showtimeID)
	now := s.now()

	p.mu.RLock()
	defer p.mu.RUnlock()

	states := make(domain.SeatStates, layout.Total())
	for _, label := range layout.Labels() {
		states[label] = domain.SeatAvailable
	}

	for label, st := range p.seats {
		if _, ok := states[label]; !ok {
			continue
		}

		if st.state == domain.SeatHeld {
			if hold, ok := p.holds[st.holdID]; !ok || hold.Expired(now) {
				continue
			}
		}

		states[label] = st.state
	}

	return states, nil
}

func (s *MemoryStore) TryHold(ctx context.Context, hold *domain.Hold) error {
	p := s.partition(hold.ShowtimeID)

	p.mu.Lock()
	defer p.mu.Unlock()

	s.expire(p)

	if _, exists := p.holds[hold.ID]; exists {
		return fmt.Errorf("hold %s already exists", hold.ID)
	}

	var conflicts []string
	for _, label := range hold.Seats {
		if _, taken := p.seats[label]; taken {
			conflicts = append(conflicts, label)
		}
	}

	if len(conflicts) > 0 {
		return &domain.SeatConflictError{Seats: conflicts}
	}

	for _, label := range hold.Seats {
		p.seats[label] = seat{state: domain.SeatHeld, holdID: hold.ID}
	}

	stored := *hold
	stored.Seats = slices.Clone(hold.Seats)
	p.holds[hold.ID] = &stored

	s.indexHold(hold.ID, hold.ShowtimeID)

	return nil
}

func (s *MemoryStore) Hold(ctx context.Context, holdID string) (*domain.Hold, error) {
	s.mu.Lock()
	showtimeID, ok := s.holds[holdID]
	s.mu.Unlock()

	if !ok {
		return nil, domain.ErrHoldExpired
	}

	p := s.partition(showtimeID)

	p.mu.RLock()
	defer p.mu.RUnlock()

	hold, ok := p.holds[holdID]
	if !ok || hold.Expired(s.now()) {
		return nil, domain.ErrHoldExpired
	}

	found := *hold
	found.Seats = slices.Clone(hold.Seats)

	return &found, nil
}

func (s *MemoryStore) Commit(ctx context.Context, showtimeID int64, holdID string) ([]string, error) {
	p := s.partition(showtimeID)

	p.mu.Lock()
	defer p.mu.Unlock()

	s.expire(p)

	hold, ok := p.holds[holdID]
	if !ok {
		return nil, domain.ErrHoldExpired
	}

	for _, label := range hold.Seats {
		p.seats[label] = seat{state: domain.SeatBooked}
	}

	delete(p.holds, holdID)
	s.unindexHolds(holdID)

	return slices.Clone(hold.Seats), nil
}

func (s *MemoryStore) ReleaseHold(ctx context.Context, showtimeID int64, holdID string) error {
	p := s.partition(showtimeID)

	p.mu.Lock()
	defer p.mu.Unlock()

	p.dropHold(holdID)
	s.unindexHolds(holdID)

	return nil
}

func (s *MemoryStore) ReleaseSeats(ctx context.Context, showtimeID int64, labels []string) error {
	p := s.partition(showtimeID)

	p.mu.Lock()
	defer p.mu.Unlock()

	for _, label := range labels {
		if st, ok := p.seats[label]; ok && st.state == domain.SeatBooked {
			delete(p.seats, label)
		}
	}

	return nil
}

func (s *MemoryStore) Book(ctx context.Context, showtimeID int64, labels []string) error {
	p := s.partition(showtimeID)

	p.mu.Lock()
	defer p.mu.Unlock()

	s.expire(p)

	var conflicts []string
	for _, label := range labels {
		if _, taken := p.seats[label]; taken {
			conflicts = append(conflicts, label)
		}
	}

	if len(conflicts) > 0 {
		return &domain.SeatConflictError{Seats: conflicts}
	}

	for _, label := range labels {
		p.seats[label] = seat{state: domain.SeatBooked}
	}

	return nil
}

func (s *MemoryStore) Sweep(ctx context.Context) (int, error) {
	s.mu.Lock()
	partitions := make([]*partition, 0, len(s.showtimes))
	for _, p := range s.showtimes {
		partitions = append(partitions, p)
	}
	s.mu.Unlock()

	swept := 0
	for _, p := range partitions {
		if err := ctx.Err(); err != nil {
			return swept, err
		}

		p.mu.Lock()
		swept += s.expire(p)
		p.mu.Unlock()
	}

	return swept, nil
}

// DropShowtime forgets every seat and hold of a deleted showtime.
func (s *MemoryStore) DropShowtime(ctx context.Context, showtimeID int64) error {
	s.mu.Lock()
	p, ok := s.showtimes[showtimeID]
	delete(s.showtimes, showtimeID)
	s.mu.Unlock()

	if !ok {
		return nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	holdIDs := make([]string, 0, len(p.holds))
	for id := range p.holds {
		holdIDs = append(holdIDs, id)
	}
	s.unindexHolds(holdIDs...)

	return nil
}
