package store

import (
	"context"
	"time"
)

// Machine is the per-player mining machine document
type Machine struct {
	Energy       int64
	EnergyAnchor time.Time
	EnergyMax    int64
	Equipped     []Modifier
}

// Modifier is an equipped machine part that changes the energy capacity
type Modifier struct {
	ID          string `json:"id"`
	EnergyBonus int64  `json:"energyBonus"`
}

// Player is the per-player document
type Player struct {
	Tier          string
	StaminaFullAt time.Time
	Coins         int64
	Bank          int64
	Points        int64
	Tokens        int64
	Badges        []string
	Frame         string
	Company       string
	WorksDone     int64
}

// Town is the single shared town document
type Town struct {
	Population int64
	Treasury   int64
}

// RichEntry is one row of the rich list
type RichEntry struct {
	PlayerID string
	Coins    int64
}

// Store is the persistence gateway used by every game module.
// Documents spring into existence on first write; reading a missing
// document returns the zero value, never an error. Any method may fail
// with a wrapped transport error, which callers must not treat as zero
type Store interface {
	Machine(ctx context.Context, playerID string) (Machine, error)
	SetMachineEnergy(ctx context.Context, playerID string, value int64, anchor time.Time) error
	SetEnergyMax(ctx context.Context, playerID string, max int64) error
	SetEquipped(ctx context.Context, playerID string, mods []Modifier) error

	Player(ctx context.Context, playerID string) (Player, error)
	SetStaminaFullAt(ctx context.Context, playerID string, fullAt time.Time) error
	SetTier(ctx context.Context, playerID string, tier string) error
	IncrCoins(ctx context.Context, playerID string, delta int64) (int64, error)
	IncrBank(ctx context.Context, playerID string, delta int64) (int64, error)
	IncrPoints(ctx context.Context, playerID string, delta int64) (int64, error)
	IncrTokens(ctx context.Context, playerID string, delta int64) (int64, error)
	AddBadge(ctx context.Context, playerID string, badge string) error
	SetFrame(ctx context.Context, playerID string, frame string) error
	SetCompany(ctx context.Context, playerID string, company string) error
	IncrWorks(ctx context.Context, playerID string, delta int64) (int64, error)

	Items(ctx context.Context, playerID string) (map[string]int64, error)
	IncrItem(ctx context.Context, playerID string, item string, delta int64) (int64, error)

	Town(ctx context.Context) (Town, error)
	IncrPopulation(ctx context.Context, delta int64) (int64, error)
	IncrTreasury(ctx context.Context, delta int64) (int64, error)

	BumpRich(ctx context.Context, playerID string, delta int64) error
	TopRich(ctx context.Context, n int) ([]RichEntry, error)

	RemindersBlob(ctx context.Context) ([]byte, error)
	SaveRemindersBlob(ctx context.Context, blob []byte) error
}
