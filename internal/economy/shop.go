package economy

import (
	"context"
	"math"
	"math/rand"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"toddybot/internal/store"
)

type ItemKind int

const (
	KIND_GOODS ItemKind = iota
	KIND_MODIFIER
	KIND_FRAME
	KIND_CRATE
)

// ShopItem is one entry of the static catalog
type ShopItem struct {
	ID          string
	Name        string
	Price       int64
	Kind        ItemKind
	EnergyBonus int64
}

// Catalog is the full shop. Modifiers equip directly into the mining
// machine and raise its energy capacity; frames and crates land in the
// inventory
var Catalog = []ShopItem{
	{ID: "pickaxe", Name: "Pickaxe", Price: 150, Kind: KIND_GOODS},
	{ID: "drill", Name: "Mining drill", Price: 600, Kind: KIND_GOODS},
	{ID: "battery", Name: "Auxiliary battery", Price: 900, Kind: KIND_MODIFIER, EnergyBonus: 25},
	{ID: "turbine", Name: "Steam turbine", Price: 2200, Kind: KIND_MODIFIER, EnergyBonus: 50},
	{ID: "frame-gold", Name: "Golden frame", Price: 1200, Kind: KIND_FRAME},
	{ID: "frame-neon", Name: "Neon frame", Price: 3500, Kind: KIND_FRAME},
	{ID: "crate-common", Name: "Common crate", Price: 300, Kind: KIND_CRATE},
	{ID: "crate-rare", Name: "Rare crate", Price: 1000, Kind: KIND_CRATE},
}

// CatalogItem finds a shop entry by its id
func CatalogItem(itemID string) (ShopItem, bool) {
	for _, item := range Catalog {
		if item.ID == strings.ToLower(itemID) {
			return item, true
		}
	}
	return ShopItem{}, false
}

// Buy debits the price and delivers the purchase. Modifiers never
// stack in quantity; everything else respects qty
func (s *Service) Buy(ctx context.Context, playerID string, itemID string, qty int64) error {
	item, ok := CatalogItem(itemID)
	if !ok {
		return ErrUnknownItem
	}
	if qty <= 0 {
		return ErrInvalidAmount
	}
	if item.Kind == KIND_MODIFIER || item.Kind == KIND_FRAME {
		qty = 1
	}
	// The total has to stay representable, or the funds check below
	// would compare against an overflowed negative number
	if item.Price > 0 && qty > math.MaxInt64/item.Price {
		return ErrInvalidAmount
	}
	total := item.Price * qty

	mu := s.lock(playerID)
	mu.Lock()
	defer mu.Unlock()

	player, err := s.store.Player(ctx, playerID)
	if err != nil {
		return err
	}
	if player.Coins < total {
		return ErrInsufficientFunds
	}
	if _, err := s.AddCoins(ctx, playerID, -total); err != nil {
		return err
	}

	switch item.Kind {
	case KIND_MODIFIER:
		machine, err := s.store.Machine(ctx, playerID)
		if err != nil {
			return err
		}
		mods := append(machine.Equipped, store.Modifier{ID: item.ID, EnergyBonus: item.EnergyBonus})
		if err := s.store.SetEquipped(ctx, playerID, mods); err != nil {
			return err
		}
	default:
		if _, err := s.store.IncrItem(ctx, playerID, item.ID, qty); err != nil {
			return err
		}
	}

	log.Info().Msg("Player " + playerID + " bought " + item.ID)
	return nil
}

// Inventory returns the player's items, crates included
func (s *Service) Inventory(ctx context.Context, playerID string) (map[string]int64, error) {
	return s.store.Items(ctx, playerID)
}

// GiveItem credits items without a purchase, for admin grants and
// crate rewards
func (s *Service) GiveItem(ctx context.Context, playerID string, itemID string, qty int64) error {
	if qty <= 0 {
		return ErrInvalidAmount
	}
	_, err := s.store.IncrItem(ctx, playerID, itemID, qty)
	return err
}

// EquipFrame activates a frame the player owns
func (s *Service) EquipFrame(ctx context.Context, playerID string, frameID string) error {
	item, ok := CatalogItem(frameID)
	if !ok || item.Kind != KIND_FRAME {
		return ErrUnknownItem
	}
	items, err := s.store.Items(ctx, playerID)
	if err != nil {
		return err
	}
	if items[item.ID] <= 0 {
		return ErrNotOwned
	}
	return s.store.SetFrame(ctx, playerID, item.ID)
}

// CrateReward is the outcome of opening one crate
type CrateReward struct {
	Receipt uuid.UUID
	Coins   int64
	Points  int64
	ItemID  string
}

var crateRewards = map[string][]CrateReward{
	"crate-common": {
		{Coins: 100},
		{Coins: 250},
		{Points: 5},
		{ItemID: "pickaxe"},
	},
	"crate-rare": {
		{Coins: 600},
		{Coins: 1200},
		{Points: 30},
		{ItemID: "drill"},
	},
}

// OpenCrate consumes one crate and rolls a reward from its table.
// The receipt identifies the roll in logs and responses
func (s *Service) OpenCrate(ctx context.Context, playerID string, crateID string) (CrateReward, error) {
	table, ok := crateRewards[strings.ToLower(crateID)]
	if !ok {
		return CrateReward{}, ErrUnknownItem
	}

	mu := s.lock(playerID)
	mu.Lock()
	defer mu.Unlock()

	items, err := s.store.Items(ctx, playerID)
	if err != nil {
		return CrateReward{}, err
	}
	if items[strings.ToLower(crateID)] <= 0 {
		return CrateReward{}, ErrNoCrate
	}
	if _, err := s.store.IncrItem(ctx, playerID, strings.ToLower(crateID), -1); err != nil {
		return CrateReward{}, err
	}

	reward := table[rand.Intn(len(table))]
	reward.Receipt = uuid.New()

	if reward.Coins > 0 {
		if _, err := s.AddCoins(ctx, playerID, reward.Coins); err != nil {
			return CrateReward{}, err
		}
	}
	if reward.Points > 0 {
		if _, err := s.store.IncrPoints(ctx, playerID, reward.Points); err != nil {
			return CrateReward{}, err
		}
	}
	if reward.ItemID != "" {
		if _, err := s.store.IncrItem(ctx, playerID, reward.ItemID, 1); err != nil {
			return CrateReward{}, err
		}
	}

	log.Info().Msg("Crate " + crateID + " opened by " + playerID + " with receipt " + reward.Receipt.String())
	return reward, nil
}
