package reminder

import (
	"context"

	"toddybot/internal/regen"
)

// Kind of resource a reminder tracks
type Kind string

const (
	KIND_ENERGY  Kind = "energy"
	KIND_STAMINA Kind = "stamina"
)

// Reminder is one refill notification request. It stays in storage
// after firing with Active set to false
type Reminder struct {
	PlayerID  string `json:"playerId"`
	Kind      Kind   `json:"kind"`
	ChannelID string `json:"channelId"`
	Active    bool   `json:"active"`
}

// Repository mirrors the reminder map to persistent storage so a
// restart can rebuild the timers. Prune drops inactive records so
// the mirror does not grow with every reminder ever fired
type Repository interface {
	Load(ctx context.Context) ([]Reminder, error)
	Save(ctx context.Context, r Reminder) error
	Deactivate(ctx context.Context, playerID string, kind Kind) error
	Prune(ctx context.Context) error
}

// Notifier delivers the refill message. Resolve reports whether the
// target channel is still reachable
type Notifier interface {
	Notify(channelID string, playerID string, kind Kind) error
	Resolve(channelID string) bool
}

// LevelFunc reports the current level of one resource of one player
type LevelFunc func(ctx context.Context, playerID string, kind Kind) (regen.Level, error)
