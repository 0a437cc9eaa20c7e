package economy

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"toddybot/internal/config"
	"toddybot/internal/regen"
	"toddybot/internal/store"
)

// Service implements the game economy on top of the persistence
// gateway. Delta mutations (coins, points, item counts) are atomic in
// the store; clamped writes (energy, stamina) read before writing and
// are therefore serialized per player with a keyed mutex
type Service struct {
	store store.Store
	game  *config.GameConfig
	locks sync.Map

	// Now is the clock used for regeneration math, replaceable in tests
	Now func() time.Time
}

func NewService(st store.Store, game *config.GameConfig) *Service {
	return &Service{store: st, game: game, Now: time.Now}
}

// lock returns the mutex guarding clamped writes for one player
func (s *Service) lock(playerID string) *sync.Mutex {
	mu, _ := s.locks.LoadOrStore(playerID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// energyParams derives the capacity and regeneration interval for a
// player's machine: stored base (or the configured default) plus the
// bonuses of every equipped modifier, interval looked up by tier
func (s *Service) energyParams(machine store.Machine, tier string) regen.Params {
	max := machine.EnergyMax
	if max <= 0 {
		max = s.game.EnergyBase
	}
	for _, mod := range machine.Equipped {
		max += mod.EnergyBonus
	}
	return regen.Params{Max: max, Interval: s.game.EnergyInterval(tier)}
}

func (s *Service) staminaParams(tier string) regen.Params {
	return regen.Params{Max: s.game.StaminaMax, Interval: s.game.StaminaInterval(tier)}
}

// energyLevel reads the machine and player documents and computes the
// current energy. Callers that intend to write must hold the lock
func (s *Service) energyLevel(ctx context.Context, playerID string) (regen.Level, regen.Params, error) {
	machine, err := s.store.Machine(ctx, playerID)
	if err != nil {
		return regen.Level{}, regen.Params{}, err
	}
	player, err := s.store.Player(ctx, playerID)
	if err != nil {
		return regen.Level{}, regen.Params{}, err
	}
	params := s.energyParams(machine, player.Tier)
	state := regen.EnergyState{Current: machine.Energy, LastUpdate: machine.EnergyAnchor}
	return regen.Energy(state, params, s.Now()), params, nil
}

// Energy answers how much energy the player's machine has right now.
// The read never writes the regenerated value back: the result is a
// pure function of the stored anchor, so repeated reads cannot drift
func (s *Service) Energy(ctx context.Context, playerID string) (regen.Level, error) {
	level, _, err := s.energyLevel(ctx, playerID)
	return level, err
}

// SetEnergy clamps the value to the capacity and re-anchors the
// regeneration timestamp
func (s *Service) SetEnergy(ctx context.Context, playerID string, value int64) error {
	mu := s.lock(playerID)
	mu.Lock()
	defer mu.Unlock()
	return s.setEnergyLocked(ctx, playerID, value)
}

func (s *Service) setEnergyLocked(ctx context.Context, playerID string, value int64) error {
	machine, err := s.store.Machine(ctx, playerID)
	if err != nil {
		return err
	}
	player, err := s.store.Player(ctx, playerID)
	if err != nil {
		return err
	}
	params := s.energyParams(machine, player.Tier)
	state := regen.AnchorEnergy(value, params, s.Now())
	return s.store.SetMachineEnergy(ctx, playerID, state.Current, state.LastUpdate)
}

// AddEnergy grants energy on top of the current computed level
func (s *Service) AddEnergy(ctx context.Context, playerID string, delta int64) error {
	if delta < 0 {
		delta = 0
	}
	mu := s.lock(playerID)
	mu.Lock()
	defer mu.Unlock()
	level, _, err := s.energyLevel(ctx, playerID)
	if err != nil {
		return err
	}
	return s.setEnergyLocked(ctx, playerID, level.Current+delta)
}

// SpendEnergy deducts energy, failing without a write if the machine
// does not hold enough
func (s *Service) SpendEnergy(ctx context.Context, playerID string, cost int64) error {
	if cost < 0 {
		cost = 0
	}
	mu := s.lock(playerID)
	mu.Lock()
	defer mu.Unlock()
	return s.spendEnergyLocked(ctx, playerID, cost)
}

func (s *Service) spendEnergyLocked(ctx context.Context, playerID string, cost int64) error {
	level, _, err := s.energyLevel(ctx, playerID)
	if err != nil {
		return err
	}
	if level.Current < cost {
		return ErrInsufficientEnergy
	}
	return s.setEnergyLocked(ctx, playerID, level.Current-cost)
}

// Stamina answers how much stamina the player has right now. A player
// that was never written reads as full
func (s *Service) Stamina(ctx context.Context, playerID string) (regen.Level, error) {
	player, err := s.store.Player(ctx, playerID)
	if err != nil {
		return regen.Level{}, err
	}
	return regen.Stamina(player.StaminaFullAt, s.staminaParams(player.Tier), s.Now()), nil
}

// StaminaTime returns how long until the player's stamina is full.
// Zero exactly when the stamina is at its maximum
func (s *Service) StaminaTime(ctx context.Context, playerID string) (time.Duration, error) {
	level, err := s.Stamina(ctx, playerID)
	if err != nil {
		return 0, err
	}
	return level.UntilFull, nil
}

// SetStamina translates the desired value into a full-at timestamp
func (s *Service) SetStamina(ctx context.Context, playerID string, value int64) error {
	mu := s.lock(playerID)
	mu.Lock()
	defer mu.Unlock()
	return s.setStaminaLocked(ctx, playerID, value)
}

func (s *Service) setStaminaLocked(ctx context.Context, playerID string, value int64) error {
	player, err := s.store.Player(ctx, playerID)
	if err != nil {
		return err
	}
	fullAt := regen.AnchorStamina(value, s.staminaParams(player.Tier), s.Now())
	return s.store.SetStaminaFullAt(ctx, playerID, fullAt)
}

// SpendStamina deducts stamina, failing without a write if the player
// does not hold enough
func (s *Service) SpendStamina(ctx context.Context, playerID string, cost int64) error {
	if cost < 0 {
		cost = 0
	}
	mu := s.lock(playerID)
	mu.Lock()
	defer mu.Unlock()
	player, err := s.store.Player(ctx, playerID)
	if err != nil {
		return err
	}
	level := regen.Stamina(player.StaminaFullAt, s.staminaParams(player.Tier), s.Now())
	if level.Current < cost {
		return ErrInsufficientStamina
	}
	return s.setStaminaLocked(ctx, playerID, level.Current-cost)
}

// Level looks up the current level of one resource kind, feeding the
// refill reminders
func (s *Service) Level(ctx context.Context, playerID string, kind string) (regen.Level, error) {
	if kind == "stamina" {
		return s.Stamina(ctx, playerID)
	}
	return s.Energy(ctx, playerID)
}

// Profile is the aggregate shown by the profile command
type Profile struct {
	Player  store.Player
	Energy  regen.Level
	Stamina regen.Level
	Items   int64
}

func (s *Service) Profile(ctx context.Context, playerID string) (Profile, error) {
	player, err := s.store.Player(ctx, playerID)
	if err != nil {
		return Profile{}, err
	}
	energy, err := s.Energy(ctx, playerID)
	if err != nil {
		return Profile{}, err
	}
	stamina := regen.Stamina(player.StaminaFullAt, s.staminaParams(player.Tier), s.Now())
	items, err := s.store.Items(ctx, playerID)
	if err != nil {
		return Profile{}, err
	}
	var count int64
	for _, n := range items {
		count += n
	}
	log.Debug().Msg("Built profile for player " + playerID)
	return Profile{Player: player, Energy: energy, Stamina: stamina, Items: count}, nil
}
