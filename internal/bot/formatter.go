package bot

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"toddybot/internal/economy"
	"toddybot/internal/regen"
	"toddybot/internal/reminder"
	"toddybot/internal/store"
)

// Use "amber" color for the bot
const color int = 0xffbf00

func InputNotValid(errorMessage string) []Response {
	return []Response{ResponseString{fmt.Sprintf("Input not valid: \n> %s", errorMessage)}}
}

// ResourceUnavailable covers storage failures: never pretend the
// resource is empty or full, just ask the player to retry
func ResourceUnavailable() []Response {
	return []Response{ResponseString{"I could not reach the vault right now, try again in a moment"}}
}

// FailureMessage translates the expected economy refusals. Anything
// unexpected falls back to the storage failure message
func FailureMessage(err error) []Response {
	switch {
	case errors.Is(err, economy.ErrInsufficientFunds):
		return []Response{ResponseString{"You do not have enough coins for that"}}
	case errors.Is(err, economy.ErrInsufficientEnergy):
		return []Response{ResponseString{"Your machine does not have enough energy"}}
	case errors.Is(err, economy.ErrInsufficientStamina):
		return []Response{ResponseString{"You are too tired for that"}}
	case errors.Is(err, economy.ErrInsufficientTokens):
		return []Response{ResponseString{"You do not have enough tokens"}}
	case errors.Is(err, economy.ErrUnknownItem):
		return []Response{ResponseString{"I do not sell that. Check `shop` for the catalog"}}
	case errors.Is(err, economy.ErrNotOwned):
		return []Response{ResponseString{"You do not own that item"}}
	case errors.Is(err, economy.ErrNoCompany):
		return []Response{ResponseString{"You need a company first: `join <company name>`"}}
	case errors.Is(err, economy.ErrNoCrate):
		return []Response{ResponseString{"You do not have that crate"}}
	case errors.Is(err, economy.ErrInvalidAmount):
		return []Response{ResponseString{"The amount has to be a positive number"}}
	case errors.Is(err, reminder.ErrAlreadyFull):
		return []Response{ResponseString{"That resource is already full, nothing to wait for"}}
	default:
		return ResourceUnavailable()
	}
}

func formatWait(wait time.Duration) string {
	if wait == 0 {
		return "full"
	}
	return fmt.Sprintf("full in %s", wait.Round(time.Second))
}

func EnergyStatus(level regen.Level) []Response {
	content := fmt.Sprintf("Your machine holds **%d/%d** energy (%s)", level.Current, level.Max, formatWait(level.UntilFull))
	return []Response{ResponseString{content}}
}

func StaminaStatus(level regen.Level) []Response {
	content := fmt.Sprintf("You have **%d/%d** stamina (%s)", level.Current, level.Max, formatWait(level.UntilFull))
	return []Response{ResponseString{content}}
}

func ProfileMessage(userName string, profile economy.Profile) []Response {
	embed := discordgo.MessageEmbed{Title: fmt.Sprintf("Profile of %s", userName), Color: color}
	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
		Name:   "Wallet",
		Value:  fmt.Sprintf("%d coins (%d banked), %d points, %d tokens", profile.Player.Coins, profile.Player.Bank, profile.Player.Points, profile.Player.Tokens),
		Inline: false,
	})
	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
		Name:   "Resources",
		Value:  fmt.Sprintf("Energy %d/%d, stamina %d/%d", profile.Energy.Current, profile.Energy.Max, profile.Stamina.Current, profile.Stamina.Max),
		Inline: false,
	})
	badges := "None"
	if len(profile.Player.Badges) > 0 {
		badges = strings.Join(profile.Player.Badges, ", ")
	}
	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
		Name:   "Badges",
		Value:  badges,
		Inline: false,
	})
	frame := profile.Player.Frame
	if frame == "" {
		frame = "none"
	}
	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
		Name:   "Details",
		Value:  fmt.Sprintf("Frame: %s. Items: %d. Shifts worked: %d", frame, profile.Items, profile.Player.WorksDone),
		Inline: false,
	})
	return []Response{ResponseEmbed{embed}}
}

func BalanceMessage(wallet economy.Wallet) []Response {
	content := fmt.Sprintf("Wallet: **%d** coins. Bank: **%d** coins. Points: **%d**. Tokens: **%d**",
		wallet.Coins, wallet.Bank, wallet.Points, wallet.Tokens)
	return []Response{ResponseString{content}}
}

func Deposited(amount int64) []Response {
	return []Response{ResponseString{fmt.Sprintf("Deposited **%d** coins into the bank", amount)}}
}

func Withdrawn(amount int64) []Response {
	return []Response{ResponseString{fmt.Sprintf("Withdrew **%d** coins from the bank", amount)}}
}

func ShopMessage() []Response {
	embed := discordgo.MessageEmbed{Title: "Shop", Color: color}
	for _, item := range economy.Catalog {
		value := fmt.Sprintf("%d coins", item.Price)
		if item.Kind == economy.KIND_MODIFIER {
			value += fmt.Sprintf(", +%d energy capacity", item.EnergyBonus)
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   fmt.Sprintf("`%s`: %s", item.ID, item.Name),
			Value:  value,
			Inline: false,
		})
	}
	return []Response{ResponseEmbed{embed}}
}

func Bought(itemID string, qty int64) []Response {
	if qty == 1 {
		return []Response{ResponseString{fmt.Sprintf("You bought `%s`", itemID)}}
	}
	return []Response{ResponseString{fmt.Sprintf("You bought %dx `%s`", qty, itemID)}}
}

func InventoryMessage(items map[string]int64) []Response {
	if len(items) == 0 {
		return []Response{ResponseString{"Your inventory is empty"}}
	}
	ids := make([]string, 0, len(items))
	for id := range items {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	lines := make([]string, len(ids))
	for i, id := range ids {
		lines[i] = fmt.Sprintf("%dx `%s`", items[id], id)
	}
	return []Response{ResponseString{strings.Join(lines, "\n")}}
}

func CrateOpened(reward economy.CrateReward) []Response {
	parts := []string{}
	if reward.Coins > 0 {
		parts = append(parts, fmt.Sprintf("**%d** coins", reward.Coins))
	}
	if reward.Points > 0 {
		parts = append(parts, fmt.Sprintf("**%d** points", reward.Points))
	}
	if reward.ItemID != "" {
		parts = append(parts, fmt.Sprintf("a `%s`", reward.ItemID))
	}
	content := fmt.Sprintf("The crate contained %s (receipt `%s`)", strings.Join(parts, " and "), reward.Receipt)
	return []Response{ResponseString{content}}
}

func FrameEquipped(frameID string) []Response {
	return []Response{ResponseString{fmt.Sprintf("Frame `%s` equipped", frameID)}}
}

func Worked(result economy.WorkResult) []Response {
	content := fmt.Sprintf("You worked a shift at **%s** and earned **%d** coins (shift number %d)",
		result.Company, result.Wage, result.WorksDone)
	return []Response{ResponseString{content}}
}

func JoinedCompany(company string) []Response {
	return []Response{ResponseString{fmt.Sprintf("You now work at **%s**. Use `work` to run a shift", company)}}
}

func CompanyMessage(player store.Player) []Response {
	if player.Company == "" {
		return []Response{ResponseString{"You do not work anywhere yet. Use `join <company name>`"}}
	}
	content := fmt.Sprintf("You work at **%s** and have completed **%d** shifts", player.Company, player.WorksDone)
	return []Response{ResponseString{content}}
}

func TownMessage(town store.Town) []Response {
	content := fmt.Sprintf("The town has **%d** citizens and **%d** tokens in its treasury", town.Population, town.Treasury)
	return []Response{ResponseString{content}}
}

func Settled(isNew bool) []Response {
	if !isNew {
		return []Response{ResponseString{"You are already a citizen of the town"}}
	}
	return []Response{ResponseString{"Welcome to the town, citizen!"}}
}

func Contributed(amount int64) []Response {
	return []Response{ResponseString{fmt.Sprintf("You contributed **%d** tokens to the town treasury", amount)}}
}

func TopMessage(entries []store.RichEntry) []Response {
	if len(entries) == 0 {
		return []Response{ResponseString{"Nobody has any coins yet"}}
	}
	embed := discordgo.MessageEmbed{Title: "Richest players", Color: color}
	lines := make([]string, len(entries))
	for i, entry := range entries {
		lines[i] = fmt.Sprintf("%d. <@%s> with %d coins", i+1, entry.PlayerID, entry.Coins)
	}
	embed.Description = strings.Join(lines, "\n")
	return []Response{ResponseEmbed{embed}}
}

func ReminderSet(kind reminder.Kind) []Response {
	return []Response{ResponseString{fmt.Sprintf("I will ping you here when your %s is full", kind)}}
}

func ReminderAlreadySet(kind reminder.Kind) []Response {
	return []Response{ResponseString{fmt.Sprintf("You already have a %s reminder running", kind)}}
}

func ReminderCleared(kind reminder.Kind) []Response {
	return []Response{ResponseString{fmt.Sprintf("Your %s reminder is off", kind)}}
}

func ReminderFired(playerID string, kind reminder.Kind) string {
	return fmt.Sprintf("<@%s> your %s is full again!", playerID, kind)
}

func CooldownMessage(wait time.Duration) []Response {
	return []Response{ResponseString{fmt.Sprintf("Slow down! Try again in %s", wait.Round(time.Second))}}
}

func HelpMessage() []Response {
	embed := discordgo.MessageEmbed{Title: "Commands available", Color: color}
	add := func(name string, value string) {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: name, Value: value, Inline: false})
	}
	add("`energy` / `stamina`", "Show a resource and how long until it refills")
	add("`profile`", "Show your wallet, resources, badges and frame")
	add("`balance` / `deposit <n>` / `withdraw <n>`", "Manage your coins and the bank")
	add("`shop` / `buy <item> [qty]`", "Browse the catalog and buy items, modifiers, frames or crates")
	add("`inventory` / `crate <id>` / `equip <frame>`", "Use what you own")
	add("`join <company>` / `work` / `company`", "Work shifts for coins, spending machine energy")
	add("`town` / `settle` / `contribute <n>`", "Join the town and grow its treasury")
	add("`top`", "The richest players")
	add("`remind <energy|stamina>` / `unremind <...>`", "One ping when the resource refills")
	return []Response{ResponseEmbed{embed}}
}
