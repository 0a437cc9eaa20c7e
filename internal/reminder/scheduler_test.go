package reminder_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"toddybot/internal/regen"
	"toddybot/internal/reminder"
	"toddybot/internal/store"
)

type fakeRepo struct {
	mu            sync.Mutex
	records       map[string]map[reminder.Kind]reminder.Reminder
	deactivations int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{records: map[string]map[reminder.Kind]reminder.Reminder{}}
}

func (r *fakeRepo) Load(ctx context.Context) ([]reminder.Reminder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []reminder.Reminder{}
	for _, kinds := range r.records {
		for _, record := range kinds {
			out = append(out, record)
		}
	}
	return out, nil
}

func (r *fakeRepo) Save(ctx context.Context, record reminder.Reminder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.records[record.PlayerID] == nil {
		r.records[record.PlayerID] = map[reminder.Kind]reminder.Reminder{}
	}
	r.records[record.PlayerID][record.Kind] = record
	return nil
}

func (r *fakeRepo) Deactivate(ctx context.Context, playerID string, kind reminder.Kind) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deactivations++
	record := r.records[playerID][kind]
	record.Active = false
	r.records[playerID][kind] = record
	return nil
}

func (r *fakeRepo) Prune(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for playerID, kinds := range r.records {
		for kind, record := range kinds {
			if !record.Active {
				delete(kinds, kind)
			}
		}
		if len(kinds) == 0 {
			delete(r.records, playerID)
		}
	}
	return nil
}

func (r *fakeRepo) active(playerID string, kind reminder.Kind) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.records[playerID][kind].Active
}

func (r *fakeRepo) deactivationCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.deactivations
}

type fakeNotifier struct {
	mu       sync.Mutex
	notified []string
	dead     map[string]bool
	fail     bool
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{dead: map[string]bool{}}
}

func (n *fakeNotifier) Notify(channelID string, playerID string, kind reminder.Kind) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.fail {
		return errors.New("missing permissions")
	}
	n.notified = append(n.notified, playerID+"/"+string(kind))
	return nil
}

func (n *fakeNotifier) Resolve(channelID string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return !n.dead[channelID]
}

func (n *fakeNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.notified)
}

type fakeLevels struct {
	mu     sync.Mutex
	levels map[string]regen.Level
}

func newFakeLevels() *fakeLevels {
	return &fakeLevels{levels: map[string]regen.Level{}}
}

func (l *fakeLevels) set(playerID string, kind reminder.Kind, level regen.Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.levels[playerID+"/"+string(kind)] = level
}

func (l *fakeLevels) get(ctx context.Context, playerID string, kind reminder.Kind) (regen.Level, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.levels[playerID+"/"+string(kind)], nil
}

func newScheduler(repo reminder.Repository, notifier reminder.Notifier, levels *fakeLevels) *reminder.Scheduler {
	return reminder.NewScheduler(repo, notifier, levels.get, 5*time.Millisecond, 20*time.Millisecond)
}

func eventually(t *testing.T, condition func() bool) {
	t.Helper()
	require.Eventually(t, condition, time.Second, time.Millisecond)
}

func TestNotifiesOnceWhenFull(t *testing.T) {
	ctx := context.Background()
	repo, notifier, levels := newFakeRepo(), newFakeNotifier(), newFakeLevels()
	s := newScheduler(repo, notifier, levels)
	defer s.Stop()

	levels.set("p1", reminder.KIND_ENERGY, regen.Level{Current: 5, Max: 10, UntilFull: 10 * time.Millisecond})

	activated, err := s.Activate(ctx, "p1", reminder.KIND_ENERGY, "chan")
	require.NoError(t, err)
	assert.True(t, activated)
	assert.True(t, repo.active("p1", reminder.KIND_ENERGY))

	// Activating again while active is a quiet no-op
	activated, err = s.Activate(ctx, "p1", reminder.KIND_ENERGY, "chan")
	require.NoError(t, err)
	assert.False(t, activated)

	levels.set("p1", reminder.KIND_ENERGY, regen.Level{Current: 10, Max: 10})
	eventually(t, func() bool { return notifier.count() == 1 })

	assert.False(t, repo.active("p1", reminder.KIND_ENERGY))
	assert.Equal(t, 0, s.Active())

	// Never a second notification for the same activation
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 1, notifier.count())
}

func TestReschedulesWhileFilling(t *testing.T) {
	ctx := context.Background()
	repo, notifier, levels := newFakeRepo(), newFakeNotifier(), newFakeLevels()
	s := newScheduler(repo, notifier, levels)
	defer s.Stop()

	levels.set("p1", reminder.KIND_STAMINA, regen.Level{Current: 1, Max: 10, UntilFull: time.Hour})

	_, err := s.Activate(ctx, "p1", reminder.KIND_STAMINA, "chan")
	require.NoError(t, err)

	// The hour-long wait clamps to maxWait, so rechecks keep landing
	// while the resource is still filling, without notifying
	time.Sleep(60 * time.Millisecond)
	assert.Zero(t, notifier.count())
	assert.Equal(t, 1, s.Active())

	levels.set("p1", reminder.KIND_STAMINA, regen.Level{Current: 10, Max: 10})
	eventually(t, func() bool { return notifier.count() == 1 })
}

func TestActivateWhenAlreadyFull(t *testing.T) {
	ctx := context.Background()
	repo, notifier, levels := newFakeRepo(), newFakeNotifier(), newFakeLevels()
	s := newScheduler(repo, notifier, levels)
	defer s.Stop()

	levels.set("p1", reminder.KIND_ENERGY, regen.Level{Current: 10, Max: 10})

	_, err := s.Activate(ctx, "p1", reminder.KIND_ENERGY, "chan")
	assert.ErrorIs(t, err, reminder.ErrAlreadyFull)
	assert.Zero(t, s.Active())
}

func TestDeactivateIsIdempotent(t *testing.T) {
	ctx := context.Background()
	repo, notifier, levels := newFakeRepo(), newFakeNotifier(), newFakeLevels()
	s := newScheduler(repo, notifier, levels)
	defer s.Stop()

	levels.set("p1", reminder.KIND_ENERGY, regen.Level{Current: 5, Max: 10, UntilFull: time.Hour})
	_, err := s.Activate(ctx, "p1", reminder.KIND_ENERGY, "chan")
	require.NoError(t, err)

	require.NoError(t, s.Deactivate(ctx, "p1", reminder.KIND_ENERGY))
	assert.False(t, repo.active("p1", reminder.KIND_ENERGY))
	assert.Equal(t, 1, repo.deactivationCount())

	// Second call: no error, no second persistence write
	require.NoError(t, s.Deactivate(ctx, "p1", reminder.KIND_ENERGY))
	assert.Equal(t, 1, repo.deactivationCount())

	// The cancelled timer never notifies
	levels.set("p1", reminder.KIND_ENERGY, regen.Level{Current: 10, Max: 10})
	time.Sleep(50 * time.Millisecond)
	assert.Zero(t, notifier.count())
}

func TestSendFailureStillDeactivates(t *testing.T) {
	ctx := context.Background()
	repo, notifier, levels := newFakeRepo(), newFakeNotifier(), newFakeLevels()
	notifier.fail = true
	s := newScheduler(repo, notifier, levels)
	defer s.Stop()

	levels.set("p1", reminder.KIND_ENERGY, regen.Level{Current: 5, Max: 10, UntilFull: 10 * time.Millisecond})
	_, err := s.Activate(ctx, "p1", reminder.KIND_ENERGY, "chan")
	require.NoError(t, err)

	levels.set("p1", reminder.KIND_ENERGY, regen.Level{Current: 10, Max: 10})
	eventually(t, func() bool { return !repo.active("p1", reminder.KIND_ENERGY) })

	// At-most-once: delivery failed yet the reminder is spent
	assert.Zero(t, notifier.count())
	assert.Zero(t, s.Active())
}

func TestUnresolvableChannelStoresWithoutTimer(t *testing.T) {
	ctx := context.Background()
	repo, notifier, levels := newFakeRepo(), newFakeNotifier(), newFakeLevels()
	notifier.dead["chan"] = true
	s := newScheduler(repo, notifier, levels)
	defer s.Stop()

	levels.set("p1", reminder.KIND_ENERGY, regen.Level{Current: 5, Max: 10, UntilFull: 10 * time.Millisecond})
	activated, err := s.Activate(ctx, "p1", reminder.KIND_ENERGY, "chan")
	require.NoError(t, err)
	assert.True(t, activated)

	// Record persisted as active for the next restore, but nothing
	// fires in this process
	assert.True(t, repo.active("p1", reminder.KIND_ENERGY))
	levels.set("p1", reminder.KIND_ENERGY, regen.Level{Current: 10, Max: 10})
	time.Sleep(50 * time.Millisecond)
	assert.Zero(t, notifier.count())

	// Deactivation still clears the stored record
	require.NoError(t, s.Deactivate(ctx, "p1", reminder.KIND_ENERGY))
	assert.False(t, repo.active("p1", reminder.KIND_ENERGY))
}

func TestRestore(t *testing.T) {
	ctx := context.Background()
	repo, notifier, levels := newFakeRepo(), newFakeNotifier(), newFakeLevels()
	notifier.dead["gone"] = true

	require.NoError(t, repo.Save(ctx, reminder.Reminder{PlayerID: "p1", Kind: reminder.KIND_ENERGY, ChannelID: "chan", Active: true}))
	require.NoError(t, repo.Save(ctx, reminder.Reminder{PlayerID: "p2", Kind: reminder.KIND_STAMINA, ChannelID: "gone", Active: true}))
	require.NoError(t, repo.Save(ctx, reminder.Reminder{PlayerID: "p3", Kind: reminder.KIND_ENERGY, ChannelID: "chan", Active: false}))

	levels.set("p1", reminder.KIND_ENERGY, regen.Level{Current: 5, Max: 10, UntilFull: 10 * time.Millisecond})

	s := newScheduler(repo, notifier, levels)
	defer s.Stop()
	require.NoError(t, s.Restore(ctx))

	// The reachable active record got a timer, the unreachable one
	// was demoted in storage, the inactive one was ignored
	assert.Equal(t, 1, s.Active())
	assert.False(t, repo.active("p2", reminder.KIND_STAMINA))

	levels.set("p1", reminder.KIND_ENERGY, regen.Level{Current: 10, Max: 10})
	eventually(t, func() bool { return notifier.count() == 1 })
}

func TestStoreRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := reminder.NewStoreRepository(store.NewMemory())

	require.NoError(t, repo.Save(ctx, reminder.Reminder{PlayerID: "p1", Kind: reminder.KIND_ENERGY, ChannelID: "chan", Active: true}))
	require.NoError(t, repo.Save(ctx, reminder.Reminder{PlayerID: "p1", Kind: reminder.KIND_STAMINA, ChannelID: "chan", Active: true}))

	require.NoError(t, repo.Deactivate(ctx, "p1", reminder.KIND_STAMINA))
	// Unknown records deactivate quietly
	require.NoError(t, repo.Deactivate(ctx, "p9", reminder.KIND_ENERGY))

	records, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)

	byKind := map[reminder.Kind]reminder.Reminder{}
	for _, record := range records {
		byKind[record.Kind] = record
	}
	assert.True(t, byKind[reminder.KIND_ENERGY].Active)
	assert.False(t, byKind[reminder.KIND_STAMINA].Active)
	assert.Equal(t, "chan", byKind[reminder.KIND_ENERGY].ChannelID)
}

func TestStoreRepositoryPrune(t *testing.T) {
	ctx := context.Background()
	repo := reminder.NewStoreRepository(store.NewMemory())

	require.NoError(t, repo.Save(ctx, reminder.Reminder{PlayerID: "p1", Kind: reminder.KIND_ENERGY, ChannelID: "chan", Active: true}))
	require.NoError(t, repo.Save(ctx, reminder.Reminder{PlayerID: "p1", Kind: reminder.KIND_STAMINA, ChannelID: "chan", Active: true}))
	require.NoError(t, repo.Save(ctx, reminder.Reminder{PlayerID: "p2", Kind: reminder.KIND_ENERGY, ChannelID: "chan", Active: true}))

	require.NoError(t, repo.Deactivate(ctx, "p1", reminder.KIND_STAMINA))
	require.NoError(t, repo.Deactivate(ctx, "p2", reminder.KIND_ENERGY))

	require.NoError(t, repo.Prune(ctx))

	// Only the active record survives, the rest is gone for good
	records, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "p1", records[0].PlayerID)
	assert.Equal(t, reminder.KIND_ENERGY, records[0].Kind)
	assert.True(t, records[0].Active)

	// Nothing inactive left, so a second prune writes nothing
	require.NoError(t, repo.Prune(ctx))
	records, err = repo.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}
