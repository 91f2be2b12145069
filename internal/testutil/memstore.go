package testutil

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/easy-books/easy-books-server/internal/model"
)

// UserStore is an in-memory model.UserStore.
type UserStore struct {
	mu    sync.Mutex
	users map[uuid.UUID]model.User
}

// NewUserStore creates an empty UserStore.
func NewUserStore() *UserStore {
	return &UserStore{users: make(map[uuid.UUID]model.User)}
}

func (s *UserStore) GetByUsername(_ context.Context, username string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == username {
			return u, nil
		}
	}
	return model.User{}, model.ErrNotFound
}

func (s *UserStore) GetByID(_ context.Context, id uuid.UUID) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return model.User{}, model.ErrNotFound
	}
	return u, nil
}

func (s *UserStore) Create(_ context.Context, user model.User) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == user.Username {
			return model.User{}, model.ErrConflict
		}
	}
	now := time.Now().UTC()
	user.CreatedAt, user.UpdatedAt = now, now
	s.users[user.ID] = user
	return user, nil
}

// ItemStore is an in-memory model.ItemStore with the same ownership and
// versioning rules as the postgres repository.
type ItemStore[P any] struct {
	mu    sync.Mutex
	items map[uuid.UUID]model.Item[P]
	clock time.Time
}

// NewItemStore creates an empty ItemStore.
func NewItemStore[P any]() *ItemStore[P] {
	return &ItemStore[P]{
		items: make(map[uuid.UUID]model.Item[P]),
		clock: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// tick returns strictly increasing timestamps so orderings are stable.
func (s *ItemStore[P]) tick() time.Time {
	s.clock = s.clock.Add(time.Millisecond)
	return s.clock
}

func (s *ItemStore[P]) Create(_ context.Context, item model.Item[P]) (model.Item[P], error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[item.ID]; ok {
		return model.Item[P]{}, model.ErrConflict
	}
	now := s.tick()
	item.Version = 1
	item.CreatedAt, item.UpdatedAt = now, now
	s.items[item.ID] = item
	return item, nil
}

func (s *ItemStore[P]) Get(_ context.Context, ownerID, id uuid.UUID) (model.Item[P], error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[id]
	if !ok || item.OwnerID != ownerID {
		return model.Item[P]{}, model.ErrNotFound
	}
	return item, nil
}

func (s *ItemStore[P]) List(_ context.Context, ownerID uuid.UUID, params model.ListParams) ([]model.Item[P], int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var owned []model.Item[P]
	for _, item := range s.items {
		if item.OwnerID == ownerID {
			owned = append(owned, item)
		}
	}

	key := func(i model.Item[P]) time.Time { return i.CreatedAt }
	if params.OrderBy == model.OrderByUpdatedAt {
		key = func(i model.Item[P]) time.Time { return i.UpdatedAt }
	}
	slices.SortFunc(owned, func(a, b model.Item[P]) int {
		c := key(a).Compare(key(b))
		if c == 0 {
			c = slices.Compare(a.ID[:], b.ID[:])
		}
		if params.Descending {
			return -c
		}
		return c
	})

	total := len(owned)
	start := min(params.Offset, total)
	end := total
	if params.Limit > 0 {
		end = min(start+params.Limit, total)
	}
	return owned[start:end], total, nil
}

func (s *ItemStore[P]) Update(
	_ context.Context,
	ownerID, id uuid.UUID,
	expectedVersion *int64,
	mutate func(model.Item[P]) (P, error),
) (model.Item[P], error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[id]
	if !ok || item.OwnerID != ownerID {
		return model.Item[P]{}, model.ErrNotFound
	}
	if expectedVersion != nil && *expectedVersion != item.Version {
		return model.Item[P]{}, model.ErrVersionConflict
	}

	payload, err := mutate(item)
	if err != nil {
		return model.Item[P]{}, err
	}

	item.Payload = payload
	item.Version++
	item.UpdatedAt = s.tick()
	s.items[id] = item
	return item, nil
}

func (s *ItemStore[P]) Delete(_ context.Context, ownerID, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[id]
	if !ok || item.OwnerID != ownerID {
		return model.ErrNotFound
	}
	delete(s.items, id)
	return nil
}
