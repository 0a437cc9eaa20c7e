package economy_test

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"toddybot/internal/config"
	"toddybot/internal/economy"
	"toddybot/internal/store"
)

var t0 = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func newService() (*economy.Service, *store.Memory, *time.Time) {
	st := store.NewMemory()
	svc := economy.NewService(st, &config.DefaultConfig().Game)
	now := t0
	svc.Now = func() time.Time { return now }
	return svc, st, &now
}

func TestEnergyLifecycle(t *testing.T) {
	ctx := context.Background()
	svc, _, now := newService()

	require.NoError(t, svc.SetEnergy(ctx, "p1", 40))

	*now = t0.Add(150 * time.Second)
	level, err := svc.Energy(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(42), level.Current)
	assert.Equal(t, int64(100), level.Max)

	// Reads never re-anchor: the same instant yields the same level
	again, err := svc.Energy(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, level, again)

	*now = t0.Add(6000 * time.Second)
	level, err = svc.Energy(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(100), level.Current)
	assert.Equal(t, time.Duration(0), level.UntilFull)
}

func TestSpendEnergy(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService()

	require.NoError(t, svc.SetEnergy(ctx, "p1", 30))

	assert.ErrorIs(t, svc.SpendEnergy(ctx, "p1", 31), economy.ErrInsufficientEnergy)

	require.NoError(t, svc.SpendEnergy(ctx, "p1", 30))
	level, err := svc.Energy(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), level.Current)
}

func TestEnergyCapacityWithModifiers(t *testing.T) {
	ctx := context.Background()
	svc, st, _ := newService()

	require.NoError(t, st.SetEquipped(ctx, "p1", []store.Modifier{
		{ID: "battery", EnergyBonus: 25},
		{ID: "turbine", EnergyBonus: 50},
	}))

	require.NoError(t, svc.SetEnergy(ctx, "p1", 999))
	level, err := svc.Energy(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(175), level.Current)
	assert.Equal(t, int64(175), level.Max)
}

func TestStaminaFreshPlayerIsFull(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService()

	level, err := svc.Stamina(ctx, "nobody")
	require.NoError(t, err)
	assert.Equal(t, int64(1000), level.Current)

	wait, err := svc.StaminaTime(ctx, "nobody")
	require.NoError(t, err)
	assert.Equal(t, time.Duration(0), wait)
}

func TestStaminaSpendAndRegenerate(t *testing.T) {
	ctx := context.Background()
	svc, _, now := newService()

	require.NoError(t, svc.SetStamina(ctx, "p1", 950))
	wait, err := svc.StaminaTime(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 1_500_000*time.Millisecond, wait)

	require.NoError(t, svc.SpendStamina(ctx, "p1", 50))
	level, err := svc.Stamina(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(900), level.Current)

	assert.ErrorIs(t, svc.SpendStamina(ctx, "p1", 901), economy.ErrInsufficientStamina)

	*now = now.Add(time.Hour)
	level, err = svc.Stamina(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(1000), level.Current)
}

func TestDepositWithdrawConservation(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService()

	_, err := svc.AddCoins(ctx, "p1", 500)
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Deposit(ctx, "p1", 501), economy.ErrInsufficientFunds)
	assert.ErrorIs(t, svc.Deposit(ctx, "p1", 0), economy.ErrInvalidAmount)

	require.NoError(t, svc.Deposit(ctx, "p1", 300))
	wallet, err := svc.Wallet(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(200), wallet.Coins)
	assert.Equal(t, int64(300), wallet.Bank)

	assert.ErrorIs(t, svc.Withdraw(ctx, "p1", 301), economy.ErrInsufficientFunds)

	require.NoError(t, svc.Withdraw(ctx, "p1", 300))
	wallet, err = svc.Wallet(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(500), wallet.Coins)
	assert.Equal(t, int64(0), wallet.Bank)
}

func TestBuyRefusalLeavesBalancesUntouched(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService()

	_, err := svc.AddCoins(ctx, "p1", 100)
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Buy(ctx, "p1", "pickaxe", 1), economy.ErrInsufficientFunds)
	assert.ErrorIs(t, svc.Buy(ctx, "p1", "no-such-thing", 1), economy.ErrUnknownItem)

	wallet, err := svc.Wallet(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(100), wallet.Coins)

	items, err := svc.Inventory(ctx, "p1")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestBuyHugeQuantityIsRejected(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService()

	// A quantity whose total overflows int64 must fail the same way
	// any other invalid amount does, never slip past the funds check
	err := svc.Buy(ctx, "p1", "pickaxe", 1<<62+1)
	assert.ErrorIs(t, err, economy.ErrInvalidAmount)

	err = svc.Buy(ctx, "p1", "pickaxe", math.MaxInt64)
	assert.ErrorIs(t, err, economy.ErrInvalidAmount)

	wallet, err := svc.Wallet(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), wallet.Coins)

	items, err := svc.Inventory(ctx, "p1")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestBuyGoodsAndModifier(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService()

	_, err := svc.AddCoins(ctx, "p1", 2000)
	require.NoError(t, err)

	require.NoError(t, svc.Buy(ctx, "p1", "pickaxe", 2))
	items, err := svc.Inventory(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), items["pickaxe"])

	require.NoError(t, svc.Buy(ctx, "p1", "battery", 1))
	level, err := svc.Energy(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(125), level.Max)

	wallet, err := svc.Wallet(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(2000-2*150-900), wallet.Coins)
}

func TestOpenCrate(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService()

	_, err := svc.OpenCrate(ctx, "p1", "crate-common")
	assert.ErrorIs(t, err, economy.ErrNoCrate)

	_, err = svc.AddCoins(ctx, "p1", 300)
	require.NoError(t, err)
	require.NoError(t, svc.Buy(ctx, "p1", "crate-common", 1))

	reward, err := svc.OpenCrate(ctx, "p1", "crate-common")
	require.NoError(t, err)
	assert.NotEqual(t, [16]byte{}, [16]byte(reward.Receipt))
	assert.True(t, reward.Coins > 0 || reward.Points > 0 || reward.ItemID != "")

	items, err := svc.Inventory(ctx, "p1")
	require.NoError(t, err)
	assert.Zero(t, items["crate-common"])
}

func TestEquipFrame(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService()

	assert.ErrorIs(t, svc.EquipFrame(ctx, "p1", "frame-gold"), economy.ErrNotOwned)
	assert.ErrorIs(t, svc.EquipFrame(ctx, "p1", "pickaxe"), economy.ErrUnknownItem)

	_, err := svc.AddCoins(ctx, "p1", 1200)
	require.NoError(t, err)
	require.NoError(t, svc.Buy(ctx, "p1", "frame-gold", 1))
	require.NoError(t, svc.EquipFrame(ctx, "p1", "frame-gold"))

	profile, err := svc.Profile(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "frame-gold", profile.Player.Frame)
}

func TestWork(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService()

	_, err := svc.Work(ctx, "p1")
	assert.ErrorIs(t, err, economy.ErrNoCompany)

	require.NoError(t, svc.JoinCompany(ctx, "p1", "mines of toddy"))
	require.NoError(t, svc.SetEnergy(ctx, "p1", 15))

	result, err := svc.Work(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "mines of toddy", result.Company)
	assert.Equal(t, int64(120), result.Wage)
	assert.Equal(t, int64(1), result.WorksDone)

	level, err := svc.Energy(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(5), level.Current)

	// Second shift cannot be paid for
	_, err = svc.Work(ctx, "p1")
	assert.ErrorIs(t, err, economy.ErrInsufficientEnergy)
}

func TestSettleAndContribute(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService()

	settled, err := svc.Settle(ctx, "p1")
	require.NoError(t, err)
	assert.True(t, settled)

	settled, err = svc.Settle(ctx, "p1")
	require.NoError(t, err)
	assert.False(t, settled)

	town, err := svc.TownStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), town.Population)

	assert.ErrorIs(t, svc.Contribute(ctx, "p1", 10), economy.ErrInsufficientTokens)

	_, err = svc.AddTokens(ctx, "p1", 25)
	require.NoError(t, err)
	require.NoError(t, svc.Contribute(ctx, "p1", 10))

	town, err = svc.TownStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(10), town.Treasury)

	wallet, err := svc.Wallet(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(15), wallet.Tokens)
}

func TestTopRich(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService()

	for id, coins := range map[string]int64{"a": 100, "b": 300, "c": 200} {
		_, err := svc.AddCoins(ctx, id, coins)
		require.NoError(t, err)
	}

	top, err := svc.Top(ctx, 2)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "b", top[0].PlayerID)
	assert.Equal(t, "c", top[1].PlayerID)

	// A non-positive size asks for nobody
	top, err = svc.Top(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, top)
}
