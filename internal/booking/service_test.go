package booking

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hasib2202/event-buddy/internal/model"
)

// memStore is an in-memory Store used to exercise the service without a
// database.  InTx serializes transactions with a mutex and applies fn to
// a copy of the state, swapping it in only on success, so rollback
// semantics match the real store.
type memStore struct {
	mu        sync.Mutex
	events    map[uint64]*model.Event
	bookings  map[uint64]*model.Booking
	users     map[uint64]model.BookingUser
	nextID    uint64
	txStarted int
}

func newMemStore() *memStore {
	return &memStore{
		events:   map[uint64]*model.Event{},
		bookings: map[uint64]*model.Booking{},
		users:    map[uint64]model.BookingUser{},
		nextID:   1,
	}
}

func (m *memStore) addEvent(ev model.Event) {
	m.events[ev.ID] = &ev
}

func (m *memStore) addUser(u model.BookingUser) {
	m.users[u.ID] = u
}

func (m *memStore) InTx(ctx context.Context, fn func(tx Tx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.txStarted++

	shadow := &memStore{
		events:   map[uint64]*model.Event{},
		bookings: map[uint64]*model.Booking{},
		users:    m.users,
		nextID:   m.nextID,
	}
	for id, ev := range m.events {
		cp := *ev
		shadow.events[id] = &cp
	}
	for id, b := range m.bookings {
		cp := *b
		shadow.bookings[id] = &cp
	}

	if err := fn(&memTx{s: shadow}); err != nil {
		return err
	}
	m.events = shadow.events
	m.bookings = shadow.bookings
	m.nextID = shadow.nextID
	return nil
}

func (m *memStore) BookingByID(ctx context.Context, bookingID uint64) (*model.BookingDetail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[bookingID]
	if !ok {
		return nil, ErrBookingNotFound
	}
	return &model.BookingDetail{
		ID:          b.ID,
		Seats:       b.Seats,
		BookingDate: b.BookingDate,
		User:        m.users[b.UserID],
		Event:       *m.events[b.EventID],
	}, nil
}

func (m *memStore) BookingsByUser(ctx context.Context, userID uint64) ([]model.BookingDetail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.BookingDetail
	for _, b := range m.bookings {
		if b.UserID != userID {
			continue
		}
		out = append(out, model.BookingDetail{
			ID:          b.ID,
			Seats:       b.Seats,
			BookingDate: b.BookingDate,
			User:        m.users[b.UserID],
			Event:       *m.events[b.EventID],
		})
	}
	// newest first by id, insertion order doubles as time order here
	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out); j++ {
			if out[j].ID > out[i].ID {
				out[i], out[j] = out[j], out[i]
			}
		}
	}
	return out, nil
}

func (m *memStore) available(id uint64) uint32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.events[id].AvailableSeats
}

func (m *memStore) bookingCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.bookings)
}

type memTx struct {
	s *memStore
}

func (t *memTx) EventForUpdate(ctx context.Context, eventID uint64) (*model.Event, error) {
	ev, ok := t.s.events[eventID]
	if !ok {
		return nil, ErrEventNotFound
	}
	cp := *ev
	return &cp, nil
}

func (t *memTx) DecrementSeats(ctx context.Context, eventID uint64, seats uint32) error {
	ev := t.s.events[eventID]
	if ev.AvailableSeats < seats {
		return ErrNotEnoughSeats
	}
	ev.AvailableSeats -= seats
	return nil
}

func (t *memTx) IncrementSeats(ctx context.Context, eventID uint64, seats uint32) error {
	ev := t.s.events[eventID]
	restored := ev.AvailableSeats + seats
	if restored > ev.TotalSeats {
		restored = ev.TotalSeats
	}
	ev.AvailableSeats = restored
	return nil
}

func (t *memTx) InsertBooking(ctx context.Context, userID, eventID uint64, seats uint32) (uint64, error) {
	id := t.s.nextID
	t.s.nextID++
	t.s.bookings[id] = &model.Booking{
		ID:          id,
		Seats:       seats,
		BookingDate: time.Now().UTC(),
		UserID:      userID,
		EventID:     eventID,
	}
	return id, nil
}

func (t *memTx) BookingForUpdate(ctx context.Context, bookingID uint64) (*model.Booking, error) {
	b, ok := t.s.bookings[bookingID]
	if !ok {
		return nil, ErrBookingNotFound
	}
	cp := *b
	return &cp, nil
}

func (t *memTx) DeleteBooking(ctx context.Context, bookingID uint64) error {
	delete(t.s.bookings, bookingID)
	return nil
}

func futureEvent(id uint64, total, available uint32) model.Event {
	d := time.Now().UTC().AddDate(0, 0, 7)
	return model.Event{
		ID:             id,
		Title:          "Go Meetup",
		EventDate:      time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC),
		EventTime:      "19:00",
		Location:       "Dhaka",
		TotalSeats:     total,
		AvailableSeats: available,
	}
}

func newTestService(store *memStore) *Service {
	return NewService(store, DefaultSeatPolicy())
}

func TestReserveSuccess(t *testing.T) {
	store := newMemStore()
	store.addEvent(futureEvent(1, 100, 100))
	store.addUser(model.BookingUser{ID: 7, Name: "Amina", Email: "amina@example.com", Role: model.RoleUser})
	svc := newTestService(store)

	detail, err := svc.Reserve(context.Background(), 1, 2, 7)
	require.NoError(t, err)
	require.NotNil(t, detail)
	assert.Equal(t, uint32(2), detail.Seats)
	assert.Equal(t, uint64(7), detail.User.ID)
	assert.Equal(t, uint64(1), detail.Event.ID)
	assert.Equal(t, uint32(98), store.available(1))
}

func TestReserveEventNotFound(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)

	_, err := svc.Reserve(context.Background(), 42, 2, 7)
	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestReservePastEvent(t *testing.T) {
	store := newMemStore()
	ev := futureEvent(1, 10, 10)
	past := time.Now().UTC().AddDate(0, 0, -1)
	ev.EventDate = time.Date(past.Year(), past.Month(), past.Day(), 0, 0, 0, 0, time.UTC)
	store.addEvent(ev)
	svc := newTestService(store)

	_, err := svc.Reserve(context.Background(), 1, 2, 7)
	assert.ErrorIs(t, err, ErrPastEvent)
	assert.Equal(t, uint32(10), store.available(1))
}

func TestReserveSameDayLaterTimeAllowed(t *testing.T) {
	store := newMemStore()
	ev := futureEvent(1, 10, 10)
	store.addEvent(ev)
	store.addUser(model.BookingUser{ID: 7})
	svc := newTestService(store)
	// Freeze the clock one hour before the event starts.
	start, err := ev.StartsAt()
	require.NoError(t, err)
	svc.now = func() time.Time { return start.Add(-time.Hour) }

	_, err = svc.Reserve(context.Background(), 1, 1, 7)
	assert.NoError(t, err)

	// One minute after start it counts as past.
	svc.now = func() time.Time { return start.Add(time.Minute) }
	_, err = svc.Reserve(context.Background(), 1, 1, 7)
	assert.ErrorIs(t, err, ErrPastEvent)
}

func TestReserveSeatPolicyBounds(t *testing.T) {
	store := newMemStore()
	store.addEvent(futureEvent(1, 100, 100))
	store.addUser(model.BookingUser{ID: 7})
	svc := newTestService(store)

	for _, seats := range []int{0, -1, 5, 50} {
		_, err := svc.Reserve(context.Background(), 1, seats, 7)
		var sce *SeatCountError
		require.ErrorAs(t, err, &sce, "seats=%d", seats)
		assert.Equal(t, seats, sce.Seats)
	}
	assert.Equal(t, uint32(100), store.available(1))
	assert.Zero(t, store.bookingCount())
}

func TestReserveNotEnoughSeats(t *testing.T) {
	store := newMemStore()
	store.addEvent(futureEvent(1, 10, 3))
	store.addUser(model.BookingUser{ID: 7})
	svc := newTestService(store)

	_, err := svc.Reserve(context.Background(), 1, 4, 7)
	assert.ErrorIs(t, err, ErrNotEnoughSeats)
	assert.Equal(t, uint32(3), store.available(1))
	assert.Zero(t, store.bookingCount())
}

func TestReserveMissingIdentity(t *testing.T) {
	store := newMemStore()
	store.addEvent(futureEvent(1, 10, 10))
	svc := newTestService(store)

	_, err := svc.Reserve(context.Background(), 1, 2, 0)
	assert.ErrorIs(t, err, ErrMissingIdentity)
	assert.Equal(t, uint32(10), store.available(1))
}

func TestReserveConcurrentNoOversell(t *testing.T) {
	store := newMemStore()
	store.addEvent(futureEvent(1, 10, 10))
	store.addUser(model.BookingUser{ID: 1})
	store.addUser(model.BookingUser{ID: 2})
	svc := NewService(store, SeatPolicy{MinSeats: 1, MaxSeats: 10})

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Reserve(context.Background(), 1, 6, uint64(i+1))
		}(i)
	}
	wg.Wait()

	var ok, insufficient int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, ErrNotEnoughSeats):
			insufficient++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, ok, "exactly one of two 6-seat requests on 10 seats may win")
	assert.Equal(t, 1, insufficient)
	assert.Equal(t, uint32(4), store.available(1))
	assert.Equal(t, 1, store.bookingCount())
}

func TestCancelRestoresSeats(t *testing.T) {
	store := newMemStore()
	store.addEvent(futureEvent(1, 10, 10))
	store.addUser(model.BookingUser{ID: 7})
	svc := newTestService(store)

	detail, err := svc.Reserve(context.Background(), 1, 3, 7)
	require.NoError(t, err)
	assert.Equal(t, uint32(7), store.available(1))

	require.NoError(t, svc.Cancel(context.Background(), detail.ID, 7))
	assert.Equal(t, uint32(10), store.available(1))

	items, err := svc.ListForUser(context.Background(), 7)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestCancelRestorationBoundedByCapacity(t *testing.T) {
	store := newMemStore()
	store.addEvent(futureEvent(1, 10, 10))
	store.addUser(model.BookingUser{ID: 7})
	svc := newTestService(store)

	detail, err := svc.Reserve(context.Background(), 1, 4, 7)
	require.NoError(t, err)

	// An admin shrinking capacity after the booking must not let the
	// cancel push availability above the new total.
	store.mu.Lock()
	store.events[1].TotalSeats = 5
	store.events[1].AvailableSeats = 2
	store.mu.Unlock()

	require.NoError(t, svc.Cancel(context.Background(), detail.ID, 7))
	assert.Equal(t, uint32(5), store.available(1))
}

func TestCancelNotFound(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store)

	err := svc.Cancel(context.Background(), 99, 7)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestCancelOtherUsersBooking(t *testing.T) {
	store := newMemStore()
	store.addEvent(futureEvent(1, 10, 10))
	store.addUser(model.BookingUser{ID: 7})
	svc := newTestService(store)

	detail, err := svc.Reserve(context.Background(), 1, 2, 7)
	require.NoError(t, err)

	err = svc.Cancel(context.Background(), detail.ID, 8)
	assert.ErrorIs(t, err, ErrForbidden)
	// Nothing changed for the owner.
	assert.Equal(t, uint32(8), store.available(1))
	assert.Equal(t, 1, store.bookingCount())
}

func TestListForUserNewestFirst(t *testing.T) {
	store := newMemStore()
	store.addEvent(futureEvent(1, 100, 100))
	store.addUser(model.BookingUser{ID: 7})
	svc := newTestService(store)

	first, err := svc.Reserve(context.Background(), 1, 1, 7)
	require.NoError(t, err)
	second, err := svc.Reserve(context.Background(), 1, 2, 7)
	require.NoError(t, err)

	items, err := svc.ListForUser(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, second.ID, items[0].ID)
	assert.Equal(t, first.ID, items[1].ID)
}

// conflictStore wraps memStore and fails the first n transactions with a
// transient conflict, mimicking a deadlock victim being retried.
type conflictStore struct {
	*memStore
	remaining int
	attempts  int
}

func (c *conflictStore) InTx(ctx context.Context, fn func(tx Tx) error) error {
	c.attempts++
	if c.remaining > 0 {
		c.remaining--
		return fmt.Errorf("%w: Error 1213: Deadlock found when trying to get lock", ErrTxConflict)
	}
	return c.memStore.InTx(ctx, fn)
}

func TestReserveRetriesTransientConflict(t *testing.T) {
	inner := newMemStore()
	inner.addEvent(futureEvent(1, 10, 10))
	inner.addUser(model.BookingUser{ID: 7})
	store := &conflictStore{memStore: inner, remaining: 2}
	svc := NewService(store, DefaultSeatPolicy())

	detail, err := svc.Reserve(context.Background(), 1, 2, 7)
	require.NoError(t, err)
	assert.Equal(t, uint32(8), inner.available(1))
	assert.NotZero(t, detail.ID)
	assert.Equal(t, 3, store.attempts)
}

func TestReserveGivesUpAfterRepeatedConflicts(t *testing.T) {
	inner := newMemStore()
	inner.addEvent(futureEvent(1, 10, 10))
	store := &conflictStore{memStore: inner, remaining: 100}
	svc := NewService(store, DefaultSeatPolicy())

	_, err := svc.Reserve(context.Background(), 1, 2, 7)
	assert.ErrorIs(t, err, ErrTxConflict)
	assert.Equal(t, maxTxAttempts, store.attempts)
	assert.Equal(t, uint32(10), inner.available(1))
}
