package booking

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shareit-go/shareit-backend/internal/item"
	"github.com/shareit-go/shareit-backend/internal/pkg/request"
	"github.com/shareit-go/shareit-backend/internal/user"
)

// memoryRepo is an in-memory Repository. List reuses Filter.Matches so the
// tests exercise the same predicate the SQL translation is built from.
type memoryRepo struct {
	mu       sync.Mutex
	bookings map[string]*Booking
	users    map[string]*user.User
	items    map[string]*item.Item
	seq      int
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		bookings: map[string]*Booking{},
		users:    map[string]*user.User{},
		items:    map[string]*item.Item{},
	}
}

func (r *memoryRepo) denormalize(b *Booking) *Booking {
	out := *b
	if it, ok := r.items[b.ItemID]; ok {
		out.ItemName = it.Name
		out.ItemOwnerID = it.OwnerID
	}
	if u, ok := r.users[b.BookerID]; ok {
		out.BookerName = u.Name
	}
	return &out
}

func (r *memoryRepo) Create(_ context.Context, b *Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	b.ID = uuid.NewString()
	b.CreatedAt = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(r.seq) * time.Second)

	stored := *b
	r.bookings[b.ID] = &stored
	return nil
}

func (r *memoryRepo) GetByID(_ context.Context, id string) (*Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.bookings[id]
	if !ok {
		return nil, ErrNotFound
	}
	return r.denormalize(b), nil
}

func (r *memoryRepo) List(_ context.Context, f Filter) ([]*Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*Booking
	for _, b := range r.bookings {
		d := r.denormalize(b)
		if f.BookerID != "" && d.BookerID != f.BookerID {
			continue
		}
		if len(f.ItemIDs) > 0 && !contains(f.ItemIDs, d.ItemID) {
			continue
		}
		if !f.Matches(d) {
			continue
		}
		out = append(out, d)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Start.After(out[j].Start)
	})

	if f.From >= len(out) {
		return []*Booking{}, nil
	}
	out = out[f.From:]
	if f.Size > 0 && f.Size < len(out) {
		out = out[:f.Size]
	}
	return out, nil
}

func (r *memoryRepo) UpdateStatusIfWaiting(_ context.Context, id string, status Status) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.bookings[id]
	if !ok || b.Status != StatusWaiting {
		return false, nil
	}
	b.Status = status
	return true, nil
}

func (r *memoryRepo) LastForItem(_ context.Context, itemID string, now time.Time) (*item.BookingRef, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var best *Booking
	for _, b := range r.bookings {
		if b.ItemID != itemID || b.Status != StatusApproved || !b.Start.Before(now) {
			continue
		}
		if best == nil || b.Start.After(best.Start) {
			best = b
		}
	}
	return toRef(best), nil
}

func (r *memoryRepo) NextForItem(_ context.Context, itemID string, now time.Time) (*item.BookingRef, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var best *Booking
	for _, b := range r.bookings {
		if b.ItemID != itemID || b.Status != StatusApproved || !b.Start.After(now) {
			continue
		}
		if best == nil || b.Start.Before(best.Start) {
			best = b
		}
	}
	return toRef(best), nil
}

func (r *memoryRepo) HasPastApproved(_ context.Context, bookerID, itemID string, now time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, b := range r.bookings {
		if b.BookerID == bookerID && b.ItemID == itemID && b.Status == StatusApproved && b.End.Before(now) {
			return true, nil
		}
	}
	return false, nil
}

func toRef(b *Booking) *item.BookingRef {
	if b == nil {
		return nil
	}
	return &item.BookingRef{ID: b.ID, Start: b.Start, End: b.End, BookerID: b.BookerID}
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

type userCatalog struct{ repo *memoryRepo }

func (c userCatalog) GetByID(_ context.Context, id string) (*user.User, error) {
	u, ok := c.repo.users[id]
	if !ok {
		return nil, user.ErrNotFound
	}
	return u, nil
}

type itemCatalog struct{ repo *memoryRepo }

func (c itemCatalog) GetByID(_ context.Context, id string) (*item.Item, error) {
	it, ok := c.repo.items[id]
	if !ok {
		return nil, item.ErrNotFound
	}
	return it, nil
}

func (c itemCatalog) IDsByOwner(_ context.Context, ownerID string) ([]string, error) {
	var ids []string
	for id, it := range c.repo.items {
		if it.OwnerID == ownerID {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

type fixture struct {
	repo *memoryRepo
	svc  *service
	now  time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	repo := newMemoryRepo()
	svc := NewService(repo, userCatalog{repo}, itemCatalog{repo}, zap.NewNop()).(*service)

	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	return &fixture{repo: repo, svc: svc, now: now}
}

func (f *fixture) addUser(name string) *user.User {
	u := &user.User{ID: uuid.NewString(), Name: name, Email: name + "@test.local"}
	f.repo.users[u.ID] = u
	return u
}

func (f *fixture) addItem(ownerID, name string, available bool) *item.Item {
	it := &item.Item{ID: uuid.NewString(), OwnerID: ownerID, Name: name, Available: available}
	f.repo.items[it.ID] = it
	return it
}

// seed inserts a booking directly, bypassing the service's validation, to set
// up past intervals and terminal statuses.
func (f *fixture) seed(itemID, bookerID string, start, end time.Time, status Status) *Booking {
	b := &Booking{ItemID: itemID, BookerID: bookerID, Start: start, End: end, Status: status}
	_ = f.repo.Create(context.Background(), b)
	return b
}

func TestServiceCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("new booking starts WAITING with denormalized names", func(t *testing.T) {
		f := newFixture(t)
		owner := f.addUser("owner")
		booker := f.addUser("booker")
		it := f.addItem(owner.ID, "drill", true)

		b, err := f.svc.Create(ctx, booker.ID, CreateRequest{
			ItemID: it.ID,
			Start:  f.now.Add(time.Hour),
			End:    f.now.Add(2 * time.Hour),
		})
		require.NoError(t, err)
		assert.Equal(t, StatusWaiting, b.Status)
		assert.Equal(t, "drill", b.ItemName)
		assert.Equal(t, owner.ID, b.ItemOwnerID)
		assert.Equal(t, "booker", b.BookerName)
	})

	t.Run("start must be before end", func(t *testing.T) {
		f := newFixture(t)
		owner := f.addUser("owner")
		booker := f.addUser("booker")
		it := f.addItem(owner.ID, "drill", true)

		_, err := f.svc.Create(ctx, booker.ID, CreateRequest{
			ItemID: it.ID,
			Start:  f.now.Add(2 * time.Hour),
			End:    f.now.Add(time.Hour),
		})
		assert.ErrorIs(t, err, ErrInvalidTimeRange)

		// Zero-length intervals are rejected too.
		_, err = f.svc.Create(ctx, booker.ID, CreateRequest{
			ItemID: it.ID,
			Start:  f.now.Add(time.Hour),
			End:    f.now.Add(time.Hour),
		})
		assert.ErrorIs(t, err, ErrInvalidTimeRange)
	})

	t.Run("start must not be in the past", func(t *testing.T) {
		f := newFixture(t)
		owner := f.addUser("owner")
		booker := f.addUser("booker")
		it := f.addItem(owner.ID, "drill", true)

		_, err := f.svc.Create(ctx, booker.ID, CreateRequest{
			ItemID: it.ID,
			Start:  f.now.Add(-time.Minute),
			End:    f.now.Add(time.Hour),
		})
		assert.ErrorIs(t, err, ErrStartTimePast)
	})

	t.Run("unknown booker is 404", func(t *testing.T) {
		f := newFixture(t)
		owner := f.addUser("owner")
		it := f.addItem(owner.ID, "drill", true)

		_, err := f.svc.Create(ctx, uuid.NewString(), CreateRequest{
			ItemID: it.ID,
			Start:  f.now.Add(time.Hour),
			End:    f.now.Add(2 * time.Hour),
		})
		assert.ErrorIs(t, err, user.ErrNotFound)
	})

	t.Run("unknown item is 404", func(t *testing.T) {
		f := newFixture(t)
		booker := f.addUser("booker")

		_, err := f.svc.Create(ctx, booker.ID, CreateRequest{
			ItemID: uuid.NewString(),
			Start:  f.now.Add(time.Hour),
			End:    f.now.Add(2 * time.Hour),
		})
		assert.ErrorIs(t, err, item.ErrNotFound)
	})

	t.Run("owner cannot book own item", func(t *testing.T) {
		f := newFixture(t)
		owner := f.addUser("owner")
		it := f.addItem(owner.ID, "drill", true)

		_, err := f.svc.Create(ctx, owner.ID, CreateRequest{
			ItemID: it.ID,
			Start:  f.now.Add(time.Hour),
			End:    f.now.Add(2 * time.Hour),
		})
		assert.ErrorIs(t, err, ErrSelfBooking)
		assert.Empty(t, f.repo.bookings, "nothing persisted")
	})

	t.Run("unavailable item is rejected", func(t *testing.T) {
		f := newFixture(t)
		owner := f.addUser("owner")
		booker := f.addUser("booker")
		it := f.addItem(owner.ID, "drill", false)

		_, err := f.svc.Create(ctx, booker.ID, CreateRequest{
			ItemID: it.ID,
			Start:  f.now.Add(time.Hour),
			End:    f.now.Add(2 * time.Hour),
		})
		assert.ErrorIs(t, err, ErrItemUnavailable)
	})

	t.Run("overlapping bookings on one item are accepted", func(t *testing.T) {
		f := newFixture(t)
		owner := f.addUser("owner")
		a := f.addUser("alice")
		b := f.addUser("bob")
		it := f.addItem(owner.ID, "drill", true)

		req := CreateRequest{ItemID: it.ID, Start: f.now.Add(time.Hour), End: f.now.Add(2 * time.Hour)}
		_, err := f.svc.Create(ctx, a.ID, req)
		require.NoError(t, err)
		_, err = f.svc.Create(ctx, b.ID, req)
		require.NoError(t, err)
		assert.Len(t, f.repo.bookings, 2)
	})
}

func TestServiceDecide(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*fixture, *user.User, *user.User, *Booking) {
		f := newFixture(t)
		owner := f.addUser("owner")
		booker := f.addUser("booker")
		it := f.addItem(owner.ID, "drill", true)
		b := f.seed(it.ID, booker.ID, f.now.Add(time.Hour), f.now.Add(2*time.Hour), StatusWaiting)
		return f, owner, booker, b
	}

	t.Run("owner approves", func(t *testing.T) {
		f, owner, _, b := setup(t)

		decided, err := f.svc.Decide(ctx, owner.ID, b.ID, true)
		require.NoError(t, err)
		assert.Equal(t, StatusApproved, decided.Status)
		assert.Equal(t, StatusApproved, f.repo.bookings[b.ID].Status)
	})

	t.Run("owner rejects", func(t *testing.T) {
		f, owner, _, b := setup(t)

		decided, err := f.svc.Decide(ctx, owner.ID, b.ID, false)
		require.NoError(t, err)
		assert.Equal(t, StatusRejected, decided.Status)
	})

	t.Run("booker cannot decide and nothing changes", func(t *testing.T) {
		f, _, booker, b := setup(t)

		_, err := f.svc.Decide(ctx, booker.ID, b.ID, true)
		assert.ErrorIs(t, err, ErrNotItemOwner)
		assert.Equal(t, StatusWaiting, f.repo.bookings[b.ID].Status)
	})

	t.Run("stranger cannot decide", func(t *testing.T) {
		f, _, _, b := setup(t)
		stranger := f.addUser("stranger")

		_, err := f.svc.Decide(ctx, stranger.ID, b.ID, true)
		assert.ErrorIs(t, err, ErrNotItemOwner)
	})

	t.Run("second decision fails and keeps the first outcome", func(t *testing.T) {
		f, owner, _, b := setup(t)

		_, err := f.svc.Decide(ctx, owner.ID, b.ID, true)
		require.NoError(t, err)

		_, err = f.svc.Decide(ctx, owner.ID, b.ID, false)
		assert.ErrorIs(t, err, ErrNotWaiting)
		assert.Equal(t, StatusApproved, f.repo.bookings[b.ID].Status)
	})

	t.Run("concurrent decisions resolve to exactly one winner", func(t *testing.T) {
		f, owner, _, b := setup(t)

		var wg sync.WaitGroup
		errs := make([]error, 2)
		for i, approved := range []bool{true, false} {
			wg.Add(1)
			go func(i int, approved bool) {
				defer wg.Done()
				_, errs[i] = f.svc.Decide(ctx, owner.ID, b.ID, approved)
			}(i, approved)
		}
		wg.Wait()

		var won, lost int
		for _, err := range errs {
			if err == nil {
				won++
			} else {
				assert.ErrorIs(t, err, ErrNotWaiting)
				lost++
			}
		}
		assert.Equal(t, 1, won)
		assert.Equal(t, 1, lost)
		assert.NotEqual(t, StatusWaiting, f.repo.bookings[b.ID].Status)
	})

	t.Run("unknown booking is 404", func(t *testing.T) {
		f, owner, _, _ := setup(t)

		_, err := f.svc.Decide(ctx, owner.ID, uuid.NewString(), true)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestServiceGetByID(t *testing.T) {
	ctx := context.Background()

	f := newFixture(t)
	owner := f.addUser("owner")
	booker := f.addUser("booker")
	stranger := f.addUser("stranger")
	it := f.addItem(owner.ID, "drill", true)
	b := f.seed(it.ID, booker.ID, f.now.Add(time.Hour), f.now.Add(2*time.Hour), StatusWaiting)

	t.Run("booker can view", func(t *testing.T) {
		got, err := f.svc.GetByID(ctx, booker.ID, b.ID)
		require.NoError(t, err)
		assert.Equal(t, b.ID, got.ID)
	})

	t.Run("owner can view", func(t *testing.T) {
		_, err := f.svc.GetByID(ctx, owner.ID, b.ID)
		require.NoError(t, err)
	})

	t.Run("stranger cannot view", func(t *testing.T) {
		_, err := f.svc.GetByID(ctx, stranger.ID, b.ID)
		assert.ErrorIs(t, err, ErrNotOwnerOrBooker)
	})

	t.Run("unknown user is 404", func(t *testing.T) {
		_, err := f.svc.GetByID(ctx, uuid.NewString(), b.ID)
		assert.ErrorIs(t, err, user.ErrNotFound)
	})
}

func TestServiceList(t *testing.T) {
	ctx := context.Background()

	// One booker, one owner, five bookings spanning every temporal class and
	// terminal status.
	f := newFixture(t)
	owner := f.addUser("owner")
	booker := f.addUser("booker")
	other := f.addUser("other")
	it := f.addItem(owner.ID, "drill", true)

	past := f.seed(it.ID, booker.ID, f.now.Add(-48*time.Hour), f.now.Add(-24*time.Hour), StatusApproved)
	current := f.seed(it.ID, booker.ID, f.now.Add(-time.Hour), f.now.Add(time.Hour), StatusApproved)
	future := f.seed(it.ID, booker.ID, f.now.Add(24*time.Hour), f.now.Add(48*time.Hour), StatusApproved)
	waiting := f.seed(it.ID, booker.ID, f.now.Add(72*time.Hour), f.now.Add(96*time.Hour), StatusWaiting)
	rejected := f.seed(it.ID, booker.ID, f.now.Add(120*time.Hour), f.now.Add(144*time.Hour), StatusRejected)

	// Noise from another booker; visible to the owner, not to "booker".
	otherFuture := f.seed(it.ID, other.ID, f.now.Add(36*time.Hour), f.now.Add(40*time.Hour), StatusWaiting)

	ids := func(bs []*Booking) []string {
		out := make([]string, len(bs))
		for i, b := range bs {
			out[i] = b.ID
		}
		return out
	}

	t.Run("booker ALL is ordered by start descending", func(t *testing.T) {
		got, err := f.svc.ListForBooker(ctx, booker.ID, StateAll, request.DefaultPage())
		require.NoError(t, err)
		assert.Equal(t, []string{rejected.ID, waiting.ID, future.ID, current.ID, past.ID}, ids(got))
	})

	t.Run("booker temporal states", func(t *testing.T) {
		got, err := f.svc.ListForBooker(ctx, booker.ID, StatePast, request.DefaultPage())
		require.NoError(t, err)
		assert.Equal(t, []string{past.ID}, ids(got))

		got, err = f.svc.ListForBooker(ctx, booker.ID, StateCurrent, request.DefaultPage())
		require.NoError(t, err)
		assert.Equal(t, []string{current.ID}, ids(got))

		got, err = f.svc.ListForBooker(ctx, booker.ID, StateFuture, request.DefaultPage())
		require.NoError(t, err)
		assert.Equal(t, []string{rejected.ID, waiting.ID, future.ID}, ids(got))
	})

	t.Run("booker status states", func(t *testing.T) {
		got, err := f.svc.ListForBooker(ctx, booker.ID, StateWaiting, request.DefaultPage())
		require.NoError(t, err)
		assert.Equal(t, []string{waiting.ID}, ids(got))

		got, err = f.svc.ListForBooker(ctx, booker.ID, StateRejected, request.DefaultPage())
		require.NoError(t, err)
		assert.Equal(t, []string{rejected.ID}, ids(got))
	})

	t.Run("ALL covers the union of every other state", func(t *testing.T) {
		all, err := f.svc.ListForBooker(ctx, booker.ID, StateAll, request.Page{From: 0, Size: 100})
		require.NoError(t, err)

		union := map[string]bool{}
		for _, st := range []RequestState{StateCurrent, StatePast, StateFuture, StateWaiting, StateRejected} {
			part, err := f.svc.ListForBooker(ctx, booker.ID, st, request.Page{From: 0, Size: 100})
			require.NoError(t, err)
			for _, b := range part {
				union[b.ID] = true
			}
		}

		assert.Len(t, union, len(all))
		for _, b := range all {
			assert.True(t, union[b.ID])
		}
	})

	t.Run("owner sees all bookings of own items", func(t *testing.T) {
		got, err := f.svc.ListForOwner(ctx, owner.ID, StateAll, request.Page{From: 0, Size: 100})
		require.NoError(t, err)
		assert.Len(t, got, 6)
		assert.Contains(t, ids(got), otherFuture.ID)
	})

	t.Run("owner WAITING includes every booker", func(t *testing.T) {
		got, err := f.svc.ListForOwner(ctx, owner.ID, StateWaiting, request.DefaultPage())
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{waiting.ID, otherFuture.ID}, ids(got))
	})

	t.Run("user without items gets an empty list", func(t *testing.T) {
		got, err := f.svc.ListForOwner(ctx, other.ID, StateAll, request.DefaultPage())
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("pagination windows the ordered result", func(t *testing.T) {
		got, err := f.svc.ListForBooker(ctx, booker.ID, StateAll, request.Page{From: 1, Size: 2})
		require.NoError(t, err)
		assert.Equal(t, []string{waiting.ID, future.ID}, ids(got))

		got, err = f.svc.ListForBooker(ctx, booker.ID, StateAll, request.Page{From: 10, Size: 2})
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("unknown user is 404 for both listings", func(t *testing.T) {
		_, err := f.svc.ListForBooker(ctx, uuid.NewString(), StateAll, request.DefaultPage())
		assert.ErrorIs(t, err, user.ErrNotFound)

		_, err = f.svc.ListForOwner(ctx, uuid.NewString(), StateAll, request.DefaultPage())
		assert.ErrorIs(t, err, user.ErrNotFound)
	})
}

func TestSummarizer(t *testing.T) {
	ctx := context.Background()

	f := newFixture(t)
	owner := f.addUser("owner")
	booker := f.addUser("booker")
	it := f.addItem(owner.ID, "drill", true)

	t.Run("no approved bookings yields nil on both sides", func(t *testing.T) {
		last, err := f.repo.LastForItem(ctx, it.ID, f.now)
		require.NoError(t, err)
		assert.Nil(t, last)

		next, err := f.repo.NextForItem(ctx, it.ID, f.now)
		require.NoError(t, err)
		assert.Nil(t, next)
	})

	older := f.seed(it.ID, booker.ID, f.now.Add(-72*time.Hour), f.now.Add(-48*time.Hour), StatusApproved)
	recent := f.seed(it.ID, booker.ID, f.now.Add(-24*time.Hour), f.now.Add(-12*time.Hour), StatusApproved)
	soon := f.seed(it.ID, booker.ID, f.now.Add(12*time.Hour), f.now.Add(24*time.Hour), StatusApproved)
	later := f.seed(it.ID, booker.ID, f.now.Add(48*time.Hour), f.now.Add(72*time.Hour), StatusApproved)
	f.seed(it.ID, booker.ID, f.now.Add(-6*time.Hour), f.now.Add(-3*time.Hour), StatusRejected)
	f.seed(it.ID, booker.ID, f.now.Add(6*time.Hour), f.now.Add(9*time.Hour), StatusWaiting)

	t.Run("last is the most recent past approved start", func(t *testing.T) {
		last, err := f.repo.LastForItem(ctx, it.ID, f.now)
		require.NoError(t, err)
		require.NotNil(t, last)
		assert.Equal(t, recent.ID, last.ID)
		assert.NotEqual(t, older.ID, last.ID)
	})

	t.Run("next is the nearest future approved start", func(t *testing.T) {
		next, err := f.repo.NextForItem(ctx, it.ID, f.now)
		require.NoError(t, err)
		require.NotNil(t, next)
		assert.Equal(t, soon.ID, next.ID)
		assert.NotEqual(t, later.ID, next.ID)
	})

	t.Run("a booking starting exactly now is neither last nor next", func(t *testing.T) {
		boundary := f.seed(it.ID, booker.ID, f.now, f.now.Add(time.Hour), StatusApproved)

		last, err := f.repo.LastForItem(ctx, it.ID, f.now)
		require.NoError(t, err)
		assert.NotEqual(t, boundary.ID, last.ID)

		next, err := f.repo.NextForItem(ctx, it.ID, f.now)
		require.NoError(t, err)
		assert.NotEqual(t, boundary.ID, next.ID)
	})

	t.Run("past approved booking enables commenting", func(t *testing.T) {
		ok, err := f.repo.HasPastApproved(ctx, booker.ID, it.ID, f.now)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = f.repo.HasPastApproved(ctx, owner.ID, it.ID, f.now)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}
