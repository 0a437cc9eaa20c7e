package reminder

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ErrAlreadyFull rejects an activation for a resource that has
// nothing left to regenerate
var ErrAlreadyFull = errors.New("resource is already full")

const levelTimeout = 5 * time.Second

// entry is the in-memory half of one active reminder. The token ties
// a scheduled timer to its activation: a fire callback holding a stale
// token belongs to a cancelled activation and must no-op
type entry struct {
	token     uuid.UUID
	channelID string
	timer     *time.Timer
}

// Scheduler notifies a player once per activation when a tracked
// resource refills. Instead of polling every player it sleeps until
// the computed refill time and rechecks on wake
type Scheduler struct {
	mu       sync.Mutex
	repo     Repository
	notifier Notifier
	level    LevelFunc
	minWait  time.Duration
	maxWait  time.Duration
	entries  map[string]map[Kind]*entry
}

func NewScheduler(repo Repository, notifier Notifier, level LevelFunc, minWait, maxWait time.Duration) *Scheduler {
	if minWait <= 0 {
		minWait = time.Second
	}
	if maxWait < minWait {
		maxWait = minWait
	}
	return &Scheduler{
		repo:     repo,
		notifier: notifier,
		level:    level,
		minWait:  minWait,
		maxWait:  maxWait,
		entries:  map[string]map[Kind]*entry{},
	}
}

// Activate opts a player into a refill notification. Returns false
// without error if the reminder was already active
func (s *Scheduler) Activate(ctx context.Context, playerID string, kind Kind, channelID string) (bool, error) {

	level, err := s.level(ctx, playerID, kind)
	if err != nil {
		return false, fmt.Errorf("reading %s level of %s: %w", kind, playerID, err)
	}
	if level.UntilFull == 0 {
		return false, ErrAlreadyFull
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.entries[playerID][kind] != nil {
		log.Debug().Msg(fmt.Sprintf("Reminder %s/%s is already active", playerID, kind))
		return false, nil
	}

	// Persist first: if the channel cannot be resolved the record
	// stays active in storage and is recovered on the next restore
	record := Reminder{PlayerID: playerID, Kind: kind, ChannelID: channelID, Active: true}
	if err := s.repo.Save(ctx, record); err != nil {
		return false, err
	}

	if s.entries[playerID] == nil {
		s.entries[playerID] = map[Kind]*entry{}
	}
	if !s.notifier.Resolve(channelID) {
		log.Warn().Msg(fmt.Sprintf("Channel %s not resolvable, reminder %s/%s stored without a timer", channelID, playerID, kind))
		s.entries[playerID][kind] = &entry{token: uuid.New(), channelID: channelID}
		return true, nil
	}

	s.arm(playerID, kind, channelID, level.UntilFull)
	log.Info().Msg(fmt.Sprintf("Reminder %s/%s activated on channel %s", playerID, kind, channelID))
	return true, nil
}

// Deactivate cancels a reminder. Calling it again is a no-op: no
// error and no second persistence write
func (s *Scheduler) Deactivate(ctx context.Context, playerID string, kind Kind) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.entries[playerID][kind]
	if e == nil {
		return nil
	}
	if e.timer != nil {
		e.timer.Stop()
	}
	s.drop(playerID, kind)

	return s.repo.Deactivate(ctx, playerID, kind)
}

// Restore reloads every active record from storage after a restart,
// re-arming those whose channel still resolves and demoting the rest
func (s *Scheduler) Restore(ctx context.Context) error {
	records, err := s.repo.Load(ctx)
	if err != nil {
		return fmt.Errorf("loading reminders: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	restored := 0
	for _, record := range records {
		if !record.Active {
			continue
		}
		if !s.notifier.Resolve(record.ChannelID) {
			log.Warn().Msg(fmt.Sprintf("Demoting reminder %s/%s, channel %s is gone", record.PlayerID, record.Kind, record.ChannelID))
			if err := s.repo.Deactivate(ctx, record.PlayerID, record.Kind); err != nil {
				log.Error().Err(err).Msg("Could not persist reminder demotion")
			}
			continue
		}

		wait := s.minWait
		if level, err := s.level(ctx, record.PlayerID, record.Kind); err == nil {
			wait = level.UntilFull
		}
		if s.entries[record.PlayerID] == nil {
			s.entries[record.PlayerID] = map[Kind]*entry{}
		}
		s.arm(record.PlayerID, record.Kind, record.ChannelID, wait)
		restored++
	}

	log.Info().Msg(fmt.Sprintf("Restored %d reminders", restored))
	return nil
}

// Housekeeping prunes inactive records from the stored mirror.
// In-memory entries are untouched, so it is safe to run while
// timers are in flight
func (s *Scheduler) Housekeeping(ctx context.Context) {
	if err := s.repo.Prune(ctx); err != nil {
		log.Error().Err(err).Msg("Could not prune the reminder mirror")
		return
	}
	log.Debug().Msg(fmt.Sprintf("Reminder mirror pruned, %d active", s.Active()))
}

// Active reports the number of reminders with live timers
func (s *Scheduler) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, kinds := range s.entries {
		count += len(kinds)
	}
	return count
}

// Stop cancels every timer without touching storage, for shutdown
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for playerID, kinds := range s.entries {
		for kind, e := range kinds {
			if e.timer != nil {
				e.timer.Stop()
			}
			delete(kinds, kind)
		}
		delete(s.entries, playerID)
	}
}

// arm schedules the next recheck. Caller holds the lock
func (s *Scheduler) arm(playerID string, kind Kind, channelID string, wait time.Duration) {
	if wait < s.minWait {
		wait = s.minWait
	}
	if wait > s.maxWait {
		wait = s.maxWait
	}
	token := uuid.New()
	e := &entry{token: token, channelID: channelID}
	e.timer = time.AfterFunc(wait, func() { s.fire(playerID, kind, token) })
	s.entries[playerID][kind] = e
}

// drop removes the in-memory entry, releasing the player slot once
// both kinds are gone. Caller holds the lock
func (s *Scheduler) drop(playerID string, kind Kind) {
	delete(s.entries[playerID], kind)
	if len(s.entries[playerID]) == 0 {
		delete(s.entries, playerID)
	}
}

// fire runs when a timer elapses: recheck the resource, reschedule if
// it is still filling, otherwise notify exactly once and deactivate
func (s *Scheduler) fire(playerID string, kind Kind, token uuid.UUID) {
	s.mu.Lock()

	e := s.entries[playerID][kind]
	if e == nil || e.token != token {
		// Deactivated while this callback was in flight
		s.mu.Unlock()
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), levelTimeout)
	defer cancel()

	level, err := s.level(ctx, playerID, kind)
	if err != nil {
		log.Error().Err(err).Msg(fmt.Sprintf("Could not recheck %s of %s, retrying later", kind, playerID))
		s.arm(playerID, kind, e.channelID, s.minWait)
		s.mu.Unlock()
		return
	}

	if level.UntilFull > 0 {
		s.arm(playerID, kind, e.channelID, level.UntilFull)
		s.mu.Unlock()
		return
	}

	// The resource is full. Deactivate before sending so that a send
	// and a concurrent manual deactivation cannot double-notify
	channelID := e.channelID
	s.drop(playerID, kind)
	if err := s.repo.Deactivate(ctx, playerID, kind); err != nil {
		log.Error().Err(err).Msg("Could not persist reminder deactivation")
	}
	s.mu.Unlock()

	// Best effort delivery: a failed send still counts as fired
	if err := s.notifier.Notify(channelID, playerID, kind); err != nil {
		log.Warn().Err(err).Msg(fmt.Sprintf("Could not notify %s about %s refill", playerID, kind))
		return
	}
	log.Info().Msg(fmt.Sprintf("Notified %s that %s is full", playerID, kind))
}
