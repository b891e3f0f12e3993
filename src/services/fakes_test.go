package services

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/socialite-app/backend/src/models"
	"github.com/socialite-app/backend/src/stores"
)

// In-memory stores mirroring the single-document atomicity of the Mongo
// implementations: every method locks, mutates one record, unlocks.

type fakeUserStore struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[primitive.ObjectID]models.User)}
}

func (f *fakeUserStore) put(user models.User) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[user.Id] = user
}

func (f *fakeUserStore) FindByID(_ context.Context, id primitive.ObjectID) (models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return models.User{}, stores.ErrNotFound
	}
	return user, nil
}

func (f *fakeUserStore) FriendIDs(_ context.Context, id primitive.ObjectID) ([]primitive.ObjectID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return nil, stores.ErrNotFound
	}
	return append([]primitive.ObjectID(nil), user.Friends...), nil
}

func (f *fakeUserStore) AddFriend(_ context.Context, id, friendId primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return stores.ErrNotFound
	}
	for _, existing := range user.Friends {
		if existing == friendId {
			return nil
		}
	}
	user.Friends = append(user.Friends, friendId)
	f.users[id] = user
	return nil
}

func (f *fakeUserStore) RemoveFriend(_ context.Context, id, friendId primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return stores.ErrNotFound
	}
	kept := user.Friends[:0]
	for _, existing := range user.Friends {
		if existing != friendId {
			kept = append(kept, existing)
		}
	}
	user.Friends = kept
	f.users[id] = user
	return nil
}

func (f *fakeUserStore) FindCandidates(_ context.Context, exclude []primitive.ObjectID, limit int64) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	excluded := make(map[primitive.ObjectID]bool, len(exclude))
	for _, id := range exclude {
		excluded[id] = true
	}

	var candidates []models.User
	for _, user := range f.users {
		if !excluded[user.Id] {
			candidates = append(candidates, user)
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].Id.Hex() < candidates[j].Id.Hex()
	})
	if int64(len(candidates)) > limit {
		candidates = candidates[:limit]
	}
	return candidates, nil
}

type fakeRequestStore struct {
	mu       sync.Mutex
	requests map[primitive.ObjectID]models.FriendRequest
	// beforeInsert and afterFind fire once to interleave a competing
	// operation into the middle of a service call.
	beforeInsert func()
	afterFind    func()
}

func newFakeRequestStore() *fakeRequestStore {
	return &fakeRequestStore{requests: make(map[primitive.ObjectID]models.FriendRequest)}
}

func (f *fakeRequestStore) Insert(_ context.Context, req models.FriendRequest) error {
	f.runHook(&f.beforeInsert)
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.requests {
		if existing.PairKey == req.PairKey {
			return stores.ErrDuplicatePair
		}
	}
	f.requests[req.Id] = req
	return nil
}

func (f *fakeRequestStore) FindByID(_ context.Context, id primitive.ObjectID) (models.FriendRequest, error) {
	f.mu.Lock()
	req, ok := f.requests[id]
	f.mu.Unlock()
	f.runHook(&f.afterFind)
	if !ok {
		return models.FriendRequest{}, stores.ErrNotFound
	}
	return req, nil
}

// runHook takes and runs the hook in slot, if any, outside the lock so
// the hook can call back into the store.
func (f *fakeRequestStore) runHook(slot *func()) {
	f.mu.Lock()
	hook := *slot
	*slot = nil
	f.mu.Unlock()
	if hook != nil {
		hook()
	}
}

func (f *fakeRequestStore) FindPendingBetween(_ context.Context, a, b primitive.ObjectID) (models.FriendRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := models.PairKey(a, b)
	for _, req := range f.requests {
		if req.PairKey == key && req.Status == models.RequestStatusPending {
			return req, nil
		}
	}
	return models.FriendRequest{}, stores.ErrNotFound
}

func (f *fakeRequestStore) ClaimPending(_ context.Context, id primitive.ObjectID) (models.FriendRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	req, ok := f.requests[id]
	if !ok || req.Status != models.RequestStatusPending {
		return models.FriendRequest{}, stores.ErrNotFound
	}
	delete(f.requests, id)
	return req, nil
}

func (f *fakeRequestStore) DeleteForPair(_ context.Context, a, b primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := models.PairKey(a, b)
	for id, req := range f.requests {
		if req.PairKey == key {
			delete(f.requests, id)
		}
	}
	return nil
}

func (f *fakeRequestStore) ListPendingFor(_ context.Context, userId primitive.ObjectID) ([]models.FriendRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var pending []models.FriendRequest
	for _, req := range f.requests {
		if req.Status != models.RequestStatusPending {
			continue
		}
		if req.Sender == userId || req.Recipient == userId {
			pending = append(pending, req)
		}
	}
	sort.Slice(pending, func(i, j int) bool {
		return pending[i].CreatedAt.After(pending[j].CreatedAt)
	})
	return pending, nil
}

func (f *fakeRequestStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

type fakeNotificationStore struct {
	mu     sync.Mutex
	notifs map[primitive.ObjectID]models.Notification
	// failFor makes Insert fail for the listed recipients, to exercise
	// partial fan-out behavior.
	failFor map[primitive.ObjectID]error
}

func newFakeNotificationStore() *fakeNotificationStore {
	return &fakeNotificationStore{
		notifs:  make(map[primitive.ObjectID]models.Notification),
		failFor: make(map[primitive.ObjectID]error),
	}
}

func (f *fakeNotificationStore) Insert(_ context.Context, n models.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.failFor[n.Recipient]; ok {
		return err
	}
	f.notifs[n.Id] = n
	return nil
}

func (f *fakeNotificationStore) ListForRecipient(_ context.Context, recipient primitive.ObjectID) ([]models.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []models.Notification
	for _, n := range f.notifs {
		if n.Recipient == recipient {
			result = append(result, n)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (f *fakeNotificationStore) MarkRead(_ context.Context, id, recipient primitive.ObjectID) (models.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n, ok := f.notifs[id]
	if !ok || n.Recipient != recipient {
		return models.Notification{}, stores.ErrNotFound
	}
	n.Read = true
	n.UpdatedAt = time.Now()
	f.notifs[id] = n
	return n, nil
}

func (f *fakeNotificationStore) MarkAllRead(_ context.Context, recipient primitive.ObjectID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var updated int64
	for id, n := range f.notifs {
		if n.Recipient == recipient && !n.Read {
			n.Read = true
			f.notifs[id] = n
			updated++
		}
	}
	return updated, nil
}

func (f *fakeNotificationStore) DeleteByID(_ context.Context, id, recipient primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	n, ok := f.notifs[id]
	if !ok || n.Recipient != recipient {
		return stores.ErrNotFound
	}
	delete(f.notifs, id)
	return nil
}

func (f *fakeNotificationStore) DeleteByReference(_ context.Context, reference primitive.ObjectID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var deleted int64
	for id, n := range f.notifs {
		if n.Reference == reference {
			delete(f.notifs, id)
			deleted++
		}
	}
	return deleted, nil
}

func (f *fakeNotificationStore) CountUnread(_ context.Context, recipient primitive.ObjectID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for _, n := range f.notifs {
		if n.Recipient == recipient && !n.Read {
			count++
		}
	}
	return count, nil
}

func (f *fakeNotificationStore) all() []models.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := make([]models.Notification, 0, len(f.notifs))
	for _, n := range f.notifs {
		result = append(result, n)
	}
	return result
}

// engine bundles a fully wired service stack over the fakes.
type engine struct {
	users    *fakeUserStore
	requests *fakeRequestStore
	notifs   *fakeNotificationStore

	friends       *FriendService
	notifications *NotificationService
	queries       *QueryService
}

func newEngine() *engine {
	users := newFakeUserStore()
	requests := newFakeRequestStore()
	notifs := newFakeNotificationStore()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	notifications := NewNotificationService(users, notifs, nil, logger)

	return &engine{
		users:         users,
		requests:      requests,
		notifs:        notifs,
		friends:       NewFriendService(users, requests, notifications, logger),
		notifications: notifications,
		queries:       NewQueryService(users, requests),
	}
}

func (e *engine) addUser(username string) primitive.ObjectID {
	user := models.User{
		Id:        primitive.NewObjectID(),
		Username:  username,
		CreatedAt: time.Now(),
	}
	e.users.put(user)
	return user.Id
}
