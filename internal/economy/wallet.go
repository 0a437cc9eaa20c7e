package economy

import (
	"context"

	"toddybot/internal/store"
)

// Wallet is the liquid and banked balance of a player
type Wallet struct {
	Coins  int64
	Bank   int64
	Points int64
	Tokens int64
}

func (s *Service) Wallet(ctx context.Context, playerID string) (Wallet, error) {
	player, err := s.store.Player(ctx, playerID)
	if err != nil {
		return Wallet{}, err
	}
	return Wallet{Coins: player.Coins, Bank: player.Bank, Points: player.Points, Tokens: player.Tokens}, nil
}

// AddCoins credits coins atomically and mirrors the delta into the
// rich list so the ranking never needs a full scan
func (s *Service) AddCoins(ctx context.Context, playerID string, delta int64) (int64, error) {
	balance, err := s.store.IncrCoins(ctx, playerID, delta)
	if err != nil {
		return 0, err
	}
	if err := s.store.BumpRich(ctx, playerID, delta); err != nil {
		return balance, err
	}
	return balance, nil
}

func (s *Service) AddPoints(ctx context.Context, playerID string, delta int64) (int64, error) {
	return s.store.IncrPoints(ctx, playerID, delta)
}

func (s *Service) AddTokens(ctx context.Context, playerID string, delta int64) (int64, error) {
	return s.store.IncrTokens(ctx, playerID, delta)
}

// Deposit moves coins into the bank. The balance check reads before
// writing, so it runs under the player lock
func (s *Service) Deposit(ctx context.Context, playerID string, amount int64) error {
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
	if player.Coins < amount {
		return ErrInsufficientFunds
	}
	if _, err := s.AddCoins(ctx, playerID, -amount); err != nil {
		return err
	}
	_, err = s.store.IncrBank(ctx, playerID, amount)
	return err
}

// Withdraw moves coins out of the bank
func (s *Service) Withdraw(ctx context.Context, playerID string, amount int64) error {
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
	if player.Bank < amount {
		return ErrInsufficientFunds
	}
	if _, err := s.store.IncrBank(ctx, playerID, -amount); err != nil {
		return err
	}
	_, err = s.AddCoins(ctx, playerID, amount)
	return err
}

// Top returns the richest players
func (s *Service) Top(ctx context.Context, n int) ([]store.RichEntry, error) {
	return s.store.TopRich(ctx, n)
}
