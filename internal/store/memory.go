package store

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"
)

// Memory is an in-process Store. It backs the tests and lets the bot
// run without a Redis instance, at the cost of losing state on exit
type Memory struct {
	mu        sync.Mutex
	machines  map[string]Machine
	players   map[string]Player
	items     map[string]map[string]int64
	town      Town
	rich      map[string]int64
	reminders []byte
}

func NewMemory() *Memory {
	return &Memory{
		machines: map[string]Machine{},
		players:  map[string]Player{},
		items:    map[string]map[string]int64{},
		rich:     map[string]int64{},
	}
}

func (s *Memory) Machine(ctx context.Context, playerID string) (Machine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.machines[playerID], nil
}

func (s *Memory) SetMachineEnergy(ctx context.Context, playerID string, value int64, anchor time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	machine := s.machines[playerID]
	machine.Energy = value
	machine.EnergyAnchor = anchor
	s.machines[playerID] = machine
	return nil
}

func (s *Memory) SetEnergyMax(ctx context.Context, playerID string, max int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	machine := s.machines[playerID]
	machine.EnergyMax = max
	s.machines[playerID] = machine
	return nil
}

func (s *Memory) SetEquipped(ctx context.Context, playerID string, mods []Modifier) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	machine := s.machines[playerID]
	machine.Equipped = slices.Clone(mods)
	s.machines[playerID] = machine
	return nil
}

func (s *Memory) Player(ctx context.Context, playerID string) (Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.players[playerID], nil
}

func (s *Memory) SetStaminaFullAt(ctx context.Context, playerID string, fullAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	player := s.players[playerID]
	player.StaminaFullAt = fullAt
	s.players[playerID] = player
	return nil
}

func (s *Memory) SetTier(ctx context.Context, playerID string, tier string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	player := s.players[playerID]
	player.Tier = tier
	s.players[playerID] = player
	return nil
}

func (s *Memory) incrPlayer(playerID string, apply func(*Player) *int64, delta int64) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	player := s.players[playerID]
	field := apply(&player)
	*field += delta
	s.players[playerID] = player
	return *field
}

func (s *Memory) IncrCoins(ctx context.Context, playerID string, delta int64) (int64, error) {
	return s.incrPlayer(playerID, func(p *Player) *int64 { return &p.Coins }, delta), nil
}

func (s *Memory) IncrBank(ctx context.Context, playerID string, delta int64) (int64, error) {
	return s.incrPlayer(playerID, func(p *Player) *int64 { return &p.Bank }, delta), nil
}

func (s *Memory) IncrPoints(ctx context.Context, playerID string, delta int64) (int64, error) {
	return s.incrPlayer(playerID, func(p *Player) *int64 { return &p.Points }, delta), nil
}

func (s *Memory) IncrTokens(ctx context.Context, playerID string, delta int64) (int64, error) {
	return s.incrPlayer(playerID, func(p *Player) *int64 { return &p.Tokens }, delta), nil
}

func (s *Memory) IncrWorks(ctx context.Context, playerID string, delta int64) (int64, error) {
	return s.incrPlayer(playerID, func(p *Player) *int64 { return &p.WorksDone }, delta), nil
}

func (s *Memory) AddBadge(ctx context.Context, playerID string, badge string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	player := s.players[playerID]
	if !slices.Contains(player.Badges, badge) {
		player.Badges = append(player.Badges, badge)
		s.players[playerID] = player
	}
	return nil
}

func (s *Memory) SetFrame(ctx context.Context, playerID string, frame string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	player := s.players[playerID]
	player.Frame = frame
	s.players[playerID] = player
	return nil
}

func (s *Memory) SetCompany(ctx context.Context, playerID string, company string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	player := s.players[playerID]
	player.Company = company
	s.players[playerID] = player
	return nil
}

func (s *Memory) Items(ctx context.Context, playerID string) (map[string]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make(map[string]int64, len(s.items[playerID]))
	for item, count := range s.items[playerID] {
		if count > 0 {
			items[item] = count
		}
	}
	return items, nil
}

func (s *Memory) IncrItem(ctx context.Context, playerID string, item string, delta int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.items[playerID] == nil {
		s.items[playerID] = map[string]int64{}
	}
	s.items[playerID][item] += delta
	return s.items[playerID][item], nil
}

func (s *Memory) Town(ctx context.Context) (Town, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.town, nil
}

func (s *Memory) IncrPopulation(ctx context.Context, delta int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.town.Population += delta
	return s.town.Population, nil
}

func (s *Memory) IncrTreasury(ctx context.Context, delta int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.town.Treasury += delta
	return s.town.Treasury, nil
}

func (s *Memory) BumpRich(ctx context.Context, playerID string, delta int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rich[playerID] += delta
	return nil
}

func (s *Memory) TopRich(ctx context.Context, n int) ([]RichEntry, error) {
	if n <= 0 {
		return []RichEntry{}, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	entries := make([]RichEntry, 0, len(s.rich))
	for playerID, coins := range s.rich {
		entries = append(entries, RichEntry{PlayerID: playerID, Coins: coins})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Coins != entries[j].Coins {
			return entries[i].Coins > entries[j].Coins
		}
		return entries[i].PlayerID < entries[j].PlayerID
	})
	if len(entries) > n {
		entries = entries[:n]
	}
	return entries, nil
}

func (s *Memory) RemindersBlob(ctx context.Context) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reminders, nil
}

func (s *Memory) SaveRemindersBlob(ctx context.Context, blob []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reminders = slices.Clone(blob)
	return nil
}
