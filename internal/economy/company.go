package economy

import (
	"context"

	"github.com/rs/zerolog/log"

	"toddybot/internal/store"
)

// Badges granted by milestones
const (
	BADGE_CITIZEN = "citizen"
	BADGE_WORKER  = "worker"
	BADGE_VETERAN = "veteran"
)

// JoinCompany signs the player into a company so work shifts pay out
func (s *Service) JoinCompany(ctx context.Context, playerID string, company string) error {
	if company == "" {
		return ErrNoCompany
	}
	return s.store.SetCompany(ctx, playerID, company)
}

// WorkResult is the outcome of one shift
type WorkResult struct {
	Company   string
	Wage      int64
	WorksDone int64
}

// Work spends machine energy on one shift and pays the tier wage.
// Milestone badges are granted as the shift counter passes them
func (s *Service) Work(ctx context.Context, playerID string) (WorkResult, error) {
	mu := s.lock(playerID)
	mu.Lock()
	defer mu.Unlock()

	player, err := s.store.Player(ctx, playerID)
	if err != nil {
		return WorkResult{}, err
	}
	if player.Company == "" {
		return WorkResult{}, ErrNoCompany
	}

	if err := s.spendEnergyLocked(ctx, playerID, s.game.WorkEnergyCost); err != nil {
		return WorkResult{}, err
	}

	wage := s.game.Wage(player.Tier)
	if _, err := s.AddCoins(ctx, playerID, wage); err != nil {
		return WorkResult{}, err
	}
	works, err := s.store.IncrWorks(ctx, playerID, 1)
	if err != nil {
		return WorkResult{}, err
	}

	switch works {
	case 10:
		err = s.store.AddBadge(ctx, playerID, BADGE_WORKER)
	case 100:
		err = s.store.AddBadge(ctx, playerID, BADGE_VETERAN)
	}
	if err != nil {
		// The wage already landed, so the shift still counts
		log.Error().Err(err).Msg("Could not grant milestone badge to " + playerID)
	}

	return WorkResult{Company: player.Company, Wage: wage, WorksDone: works}, nil
}

// CompanyStatus reports the player's company and shift count
func (s *Service) CompanyStatus(ctx context.Context, playerID string) (store.Player, error) {
	return s.store.Player(ctx, playerID)
}
