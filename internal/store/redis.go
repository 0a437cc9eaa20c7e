package store

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"toddybot/internal/config"
)

// Redis implements Store on top of a Redis instance. Each document is
// a hash; delta mutations use HIncrBy so they are atomic server-side
type Redis struct {
	client *redis.Client
	appID  string
}

// NewRedis connects to Redis and verifies the connection
func NewRedis(cfg *config.RedisConfig, appID string) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}

	return &Redis{client: client, appID: appID}, nil
}

// Close closes the underlying connection pool
func (s *Redis) Close() error {
	return s.client.Close()
}

func (s *Redis) machineKey(playerID string) string {
	return fmt.Sprintf("machines:%s", playerID)
}

func (s *Redis) playerKey(playerID string) string {
	return fmt.Sprintf("players:%s", playerID)
}

func (s *Redis) inventoryKey(playerID string) string {
	return fmt.Sprintf("inventory:%s", playerID)
}

func (s *Redis) globalsKey() string {
	return fmt.Sprintf("globals:%s", s.appID)
}

const townKey = "town"
const richKey = "rich"

func (s *Redis) Machine(ctx context.Context, playerID string) (Machine, error) {
	fields, err := s.client.HGetAll(ctx, s.machineKey(playerID)).Result()
	if err != nil {
		return Machine{}, fmt.Errorf("reading machine %s: %w", playerID, err)
	}

	var machine Machine
	machine.Energy = parseInt(fields["energy"])
	machine.EnergyAnchor = parseTime(fields["energy_anchor"])
	machine.EnergyMax = parseInt(fields["energy_max"])
	if raw, ok := fields["equipped"]; ok && raw != "" {
		if err := json.Unmarshal([]byte(raw), &machine.Equipped); err != nil {
			return Machine{}, fmt.Errorf("decoding equipped list of %s: %w", playerID, err)
		}
	}
	return machine, nil
}

func (s *Redis) SetMachineEnergy(ctx context.Context, playerID string, value int64, anchor time.Time) error {
	err := s.client.HSet(ctx, s.machineKey(playerID),
		"energy", value,
		"energy_anchor", anchor.UnixMilli(),
	).Err()
	if err != nil {
		return fmt.Errorf("setting energy of %s: %w", playerID, err)
	}
	return nil
}

func (s *Redis) SetEnergyMax(ctx context.Context, playerID string, max int64) error {
	if err := s.client.HSet(ctx, s.machineKey(playerID), "energy_max", max).Err(); err != nil {
		return fmt.Errorf("setting energy capacity of %s: %w", playerID, err)
	}
	return nil
}

func (s *Redis) SetEquipped(ctx context.Context, playerID string, mods []Modifier) error {
	raw, err := json.Marshal(mods)
	if err != nil {
		return fmt.Errorf("encoding equipped list of %s: %w", playerID, err)
	}
	if err := s.client.HSet(ctx, s.machineKey(playerID), "equipped", raw).Err(); err != nil {
		return fmt.Errorf("setting equipped list of %s: %w", playerID, err)
	}
	return nil
}

func (s *Redis) Player(ctx context.Context, playerID string) (Player, error) {
	fields, err := s.client.HGetAll(ctx, s.playerKey(playerID)).Result()
	if err != nil {
		return Player{}, fmt.Errorf("reading player %s: %w", playerID, err)
	}

	var player Player
	player.Tier = fields["tier"]
	player.StaminaFullAt = parseTime(fields["stamina_full_at"])
	player.Coins = parseInt(fields["coins"])
	player.Bank = parseInt(fields["bank"])
	player.Points = parseInt(fields["points"])
	player.Tokens = parseInt(fields["tokens"])
	player.Frame = fields["frame"]
	player.Company = fields["company"]
	player.WorksDone = parseInt(fields["works_done"])
	if raw, ok := fields["badges"]; ok && raw != "" {
		if err := json.Unmarshal([]byte(raw), &player.Badges); err != nil {
			return Player{}, fmt.Errorf("decoding badges of %s: %w", playerID, err)
		}
	}
	return player, nil
}

func (s *Redis) SetStaminaFullAt(ctx context.Context, playerID string, fullAt time.Time) error {
	if err := s.client.HSet(ctx, s.playerKey(playerID), "stamina_full_at", fullAt.UnixMilli()).Err(); err != nil {
		return fmt.Errorf("setting stamina timestamp of %s: %w", playerID, err)
	}
	return nil
}

func (s *Redis) SetTier(ctx context.Context, playerID string, tier string) error {
	if err := s.client.HSet(ctx, s.playerKey(playerID), "tier", tier).Err(); err != nil {
		return fmt.Errorf("setting tier of %s: %w", playerID, err)
	}
	return nil
}

func (s *Redis) incrPlayerField(ctx context.Context, playerID string, field string, delta int64) (int64, error) {
	value, err := s.client.HIncrBy(ctx, s.playerKey(playerID), field, delta).Result()
	if err != nil {
		return 0, fmt.Errorf("incrementing %s of %s: %w", field, playerID, err)
	}
	return value, nil
}

func (s *Redis) IncrCoins(ctx context.Context, playerID string, delta int64) (int64, error) {
	return s.incrPlayerField(ctx, playerID, "coins", delta)
}

func (s *Redis) IncrBank(ctx context.Context, playerID string, delta int64) (int64, error) {
	return s.incrPlayerField(ctx, playerID, "bank", delta)
}

func (s *Redis) IncrPoints(ctx context.Context, playerID string, delta int64) (int64, error) {
	return s.incrPlayerField(ctx, playerID, "points", delta)
}

func (s *Redis) IncrTokens(ctx context.Context, playerID string, delta int64) (int64, error) {
	return s.incrPlayerField(ctx, playerID, "tokens", delta)
}

func (s *Redis) IncrWorks(ctx context.Context, playerID string, delta int64) (int64, error) {
	return s.incrPlayerField(ctx, playerID, "works_done", delta)
}

// AddBadge reads and rewrites the badge list. Badges are granted
// rarely and only by the bot itself, so the read-modify-write is fine
func (s *Redis) AddBadge(ctx context.Context, playerID string, badge string) error {
	player, err := s.Player(ctx, playerID)
	if err != nil {
		return err
	}
	if slices.Contains(player.Badges, badge) {
		return nil
	}
	raw, err := json.Marshal(append(player.Badges, badge))
	if err != nil {
		return fmt.Errorf("encoding badges of %s: %w", playerID, err)
	}
	if err := s.client.HSet(ctx, s.playerKey(playerID), "badges", raw).Err(); err != nil {
		return fmt.Errorf("setting badges of %s: %w", playerID, err)
	}
	return nil
}

func (s *Redis) SetFrame(ctx context.Context, playerID string, frame string) error {
	if err := s.client.HSet(ctx, s.playerKey(playerID), "frame", frame).Err(); err != nil {
		return fmt.Errorf("setting frame of %s: %w", playerID, err)
	}
	return nil
}

func (s *Redis) SetCompany(ctx context.Context, playerID string, company string) error {
	if err := s.client.HSet(ctx, s.playerKey(playerID), "company", company).Err(); err != nil {
		return fmt.Errorf("setting company of %s: %w", playerID, err)
	}
	return nil
}

func (s *Redis) Items(ctx context.Context, playerID string) (map[string]int64, error) {
	fields, err := s.client.HGetAll(ctx, s.inventoryKey(playerID)).Result()
	if err != nil {
		return nil, fmt.Errorf("reading inventory of %s: %w", playerID, err)
	}
	items := make(map[string]int64, len(fields))
	for item, count := range fields {
		if n := parseInt(count); n > 0 {
			items[item] = n
		}
	}
	return items, nil
}

func (s *Redis) IncrItem(ctx context.Context, playerID string, item string, delta int64) (int64, error) {
	count, err := s.client.HIncrBy(ctx, s.inventoryKey(playerID), item, delta).Result()
	if err != nil {
		return 0, fmt.Errorf("incrementing item %s of %s: %w", item, playerID, err)
	}
	return count, nil
}

func (s *Redis) Town(ctx context.Context) (Town, error) {
	fields, err := s.client.HGetAll(ctx, townKey).Result()
	if err != nil {
		return Town{}, fmt.Errorf("reading town: %w", err)
	}
	return Town{
		Population: parseInt(fields["population"]),
		Treasury:   parseInt(fields["treasury"]),
	}, nil
}

func (s *Redis) IncrPopulation(ctx context.Context, delta int64) (int64, error) {
	value, err := s.client.HIncrBy(ctx, townKey, "population", delta).Result()
	if err != nil {
		return 0, fmt.Errorf("incrementing population: %w", err)
	}
	return value, nil
}

func (s *Redis) IncrTreasury(ctx context.Context, delta int64) (int64, error) {
	value, err := s.client.HIncrBy(ctx, townKey, "treasury", delta).Result()
	if err != nil {
		return 0, fmt.Errorf("incrementing treasury: %w", err)
	}
	return value, nil
}

func (s *Redis) BumpRich(ctx context.Context, playerID string, delta int64) error {
	if err := s.client.ZIncrBy(ctx, richKey, float64(delta), playerID).Err(); err != nil {
		return fmt.Errorf("bumping rich list: %w", err)
	}
	return nil
}

func (s *Redis) TopRich(ctx context.Context, n int) ([]RichEntry, error) {
	// ZREVRANGE with a negative end would return the whole set
	if n <= 0 {
		return []RichEntry{}, nil
	}
	results, err := s.client.ZRevRangeWithScores(ctx, richKey, 0, int64(n-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("reading rich list: %w", err)
	}
	entries := make([]RichEntry, len(results))
	for i, result := range results {
		entries[i] = RichEntry{
			PlayerID: result.Member.(string),
			Coins:    int64(result.Score),
		}
	}
	return entries, nil
}

func (s *Redis) RemindersBlob(ctx context.Context) ([]byte, error) {
	raw, err := s.client.HGet(ctx, s.globalsKey(), "remember").Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading reminders: %w", err)
	}
	return []byte(raw), nil
}

func (s *Redis) SaveRemindersBlob(ctx context.Context, blob []byte) error {
	if err := s.client.HSet(ctx, s.globalsKey(), "remember", blob).Err(); err != nil {
		return fmt.Errorf("saving reminders: %w", err)
	}
	return nil
}

func parseInt(raw string) int64 {
	value, _ := strconv.ParseInt(raw, 10, 64)
	return value
}

func parseTime(raw string) time.Time {
	ms := parseInt(raw)
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms)
}
