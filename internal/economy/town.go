package economy

import (
	"context"
	"slices"

	"toddybot/internal/store"
)

// Settle registers the player as a town citizen. Settling twice is a
// no-op; the citizen badge doubles as the membership record
func (s *Service) Settle(ctx context.Context, playerID string) (bool, error) {
	player, err := s.store.Player(ctx, playerID)
	if err != nil {
		return false, err
	}
	if slices.Contains(player.Badges, BADGE_CITIZEN) {
		return false, nil
	}
	if err := s.store.AddBadge(ctx, playerID, BADGE_CITIZEN); err != nil {
		return false, err
	}
	if _, err := s.store.IncrPopulation(ctx, 1); err != nil {
		return false, err
	}
	return true, nil
}

// Contribute moves tokens from the player into the town treasury
func (s *Service) Contribute(ctx context.Context, playerID string, amount int64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	mu := s.lock(playerID)
	mu.Lock()
	defer mu.Unlock()

	player, err := s.store.Player(ctx, playerID)
	if err != nil {
		return err
	}
	if player.Tokens < amount {
		return ErrInsufficientTokens
	}
	if _, err := s.store.IncrTokens(ctx, playerID, -amount); err != nil {
		return err
	}
	_, err = s.store.IncrTreasury(ctx, amount)
	return err
}

// TownStatus reports the shared town document
func (s *Service) TownStatus(ctx context.Context) (store.Town, error) {
	return s.store.Town(ctx)
}
