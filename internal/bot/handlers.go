package bot

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"toddybot/internal/reminder"
)

func (bot *Bot) energy(ctx context.Context, playerID string) []Response {
	level, err := bot.economy.Energy(ctx, playerID)
	if err != nil {
		log.Error().Err(err).Msg("Could not read energy of " + playerID)
		return ResourceUnavailable()
	}
	return EnergyStatus(level)
}

func (bot *Bot) stamina(ctx context.Context, playerID string) []Response {
	level, err := bot.economy.Stamina(ctx, playerID)
	if err != nil {
		log.Error().Err(err).Msg("Could not read stamina of " + playerID)
		return ResourceUnavailable()
	}
	return StaminaStatus(level)
}

func (bot *Bot) profile(ctx context.Context, playerID string, userName string) []Response {
	profile, err := bot.economy.Profile(ctx, playerID)
	if err != nil {
		log.Error().Err(err).Msg("Could not build profile of " + playerID)
		return ResourceUnavailable()
	}
	return ProfileMessage(userName, profile)
}

func (bot *Bot) balance(ctx context.Context, playerID string) []Response {
	wallet, err := bot.economy.Wallet(ctx, playerID)
	if err != nil {
		log.Error().Err(err).Msg("Could not read wallet of " + playerID)
		return ResourceUnavailable()
	}
	return BalanceMessage(wallet)
}

func (bot *Bot) deposit(ctx context.Context, playerID string, amount int64) []Response {
	if err := bot.economy.Deposit(ctx, playerID, amount); err != nil {
		return FailureMessage(err)
	}
	return Deposited(amount)
}

func (bot *Bot) withdraw(ctx context.Context, playerID string, amount int64) []Response {
	if err := bot.economy.Withdraw(ctx, playerID, amount); err != nil {
		return FailureMessage(err)
	}
	return Withdrawn(amount)
}

func (bot *Bot) buy(ctx context.Context, playerID string, purchase Purchase) []Response {
	if err := bot.economy.Buy(ctx, playerID, purchase.ItemID, purchase.Qty); err != nil {
		return FailureMessage(err)
	}
	return Bought(purchase.ItemID, purchase.Qty)
}

func (bot *Bot) inventory(ctx context.Context, playerID string) []Response {
	items, err := bot.economy.Inventory(ctx, playerID)
	if err != nil {
		log.Error().Err(err).Msg("Could not read inventory of " + playerID)
		return ResourceUnavailable()
	}
	return InventoryMessage(items)
}

func (bot *Bot) crate(ctx context.Context, playerID string, crateID string) []Response {
	reward, err := bot.economy.OpenCrate(ctx, playerID, crateID)
	if err != nil {
		return FailureMessage(err)
	}
	return CrateOpened(reward)
}

func (bot *Bot) equip(ctx context.Context, playerID string, frameID string) []Response {
	if err := bot.economy.EquipFrame(ctx, playerID, frameID); err != nil {
		return FailureMessage(err)
	}
	return FrameEquipped(frameID)
}

func (bot *Bot) work(ctx context.Context, playerID string) []Response {
	result, err := bot.economy.Work(ctx, playerID)
	if err != nil {
		return FailureMessage(err)
	}
	return Worked(result)
}

func (bot *Bot) join(ctx context.Context, playerID string, company string) []Response {
	if err := bot.economy.JoinCompany(ctx, playerID, company); err != nil {
		return FailureMessage(err)
	}
	log.Info().Msg(fmt.Sprintf("Player %s joined company %s", playerID, company))
	return JoinedCompany(company)
}

func (bot *Bot) company(ctx context.Context, playerID string) []Response {
	player, err := bot.economy.CompanyStatus(ctx, playerID)
	if err != nil {
		log.Error().Err(err).Msg("Could not read company of " + playerID)
		return ResourceUnavailable()
	}
	return CompanyMessage(player)
}

func (bot *Bot) town(ctx context.Context) []Response {
	town, err := bot.economy.TownStatus(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Could not read town status")
		return ResourceUnavailable()
	}
	return TownMessage(town)
}

func (bot *Bot) settle(ctx context.Context, playerID string) []Response {
	isNew, err := bot.economy.Settle(ctx, playerID)
	if err != nil {
		return FailureMessage(err)
	}
	return Settled(isNew)
}

func (bot *Bot) contribute(ctx context.Context, playerID string, amount int64) []Response {
	if err := bot.economy.Contribute(ctx, playerID, amount); err != nil {
		return FailureMessage(err)
	}
	return Contributed(amount)
}

func (bot *Bot) top(ctx context.Context) []Response {
	entries, err := bot.economy.Top(ctx, bot.topSize)
	if err != nil {
		log.Error().Err(err).Msg("Could not read the rich list")
		return ResourceUnavailable()
	}
	return TopMessage(entries)
}

func (bot *Bot) remind(ctx context.Context, playerID string, channelID string, kind reminder.Kind) []Response {
	activated, err := bot.reminders.Activate(ctx, playerID, kind, channelID)
	if err != nil {
		return FailureMessage(err)
	}
	if !activated {
		return ReminderAlreadySet(kind)
	}
	return ReminderSet(kind)
}

func (bot *Bot) unremind(ctx context.Context, playerID string, kind reminder.Kind) []Response {
	if err := bot.reminders.Deactivate(ctx, playerID, kind); err != nil {
		log.Error().Err(err).Msg("Could not deactivate reminder of " + playerID)
		return ResourceUnavailable()
	}
	return ReminderCleared(kind)
}
