package bot

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"

	"toddybot/internal/common"
	"toddybot/internal/config"
	"toddybot/internal/economy"
	"toddybot/internal/regen"
	"toddybot/internal/reminder"
)

const commandTimeout = 10 * time.Second
const mainCycle = time.Minute
const housekeepingTimeout = 10 * time.Minute

// Bot wires the gateway session to the economy service and the
// reminder scheduler. Handlers receive their collaborators through
// this struct, never through package globals
type Bot struct {
	token     string
	prefix    string
	economy   *economy.Service
	reminders *reminder.Scheduler
	notifier  *discordNotifier
	cooldown  *common.Cooldown
	topSize   int
}

func NewBot(cfg *config.Config, econ *economy.Service, repo reminder.Repository) *Bot {

	var bot Bot
	bot.token = cfg.Discord.Token
	bot.prefix = cfg.Discord.Prefix
	bot.economy = econ
	bot.cooldown = common.NewCooldown(cfg.Cooldown.Requests, cfg.Cooldown.Window)
	bot.topSize = 10

	// The notifier is bound to the session once the bot logs in;
	// until then every channel resolves as unreachable
	bot.notifier = &discordNotifier{}
	level := func(ctx context.Context, playerID string, kind reminder.Kind) (regen.Level, error) {
		return econ.Level(ctx, playerID, string(kind))
	}
	bot.reminders = reminder.NewScheduler(repo, bot.notifier, level, cfg.Reminder.MinWait, cfg.Reminder.MaxWait)

	return &bot
}

func (bot *Bot) Run() error {
	discord, err := discordgo.New("Bot " + bot.token)
	if err != nil {
		return fmt.Errorf("creating discord session: %w", err)
	}
	discord.Identify.Intents = discordgo.IntentGuilds | discordgo.IntentGuildMessages | discordgo.IntentMessageContent

	discord.AddHandler(bot.Receive)

	if err := discord.Open(); err != nil {
		return fmt.Errorf("opening discord session: %w", err)
	}
	defer discord.Close()

	bot.notifier.bind(discord)
	defer bot.reminders.Stop()

	// Timers for reminders that survived the last shutdown
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	if err := bot.reminders.Restore(ctx); err != nil {
		log.Error().Err(err).Msg("Could not restore reminders")
	}
	cancel()

	housekeeping := common.NewTimedExecutor(housekeepingTimeout, bot.housekeeping)
	ticker := time.NewTicker(mainCycle)
	defer ticker.Stop()
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-ticker.C:
				housekeeping.Execute()
			case <-done:
				return
			}
		}
	}()
	defer close(done)

	log.Info().Msg("Bot is running")
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c
	log.Info().Msg("Shutting down")

	return nil
}

func (bot *Bot) housekeeping() {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()
	bot.reminders.Housekeeping(ctx)
	log.Info().Msg(fmt.Sprintf("Housekeeping done, %d active reminders", bot.reminders.Active()))
}

func (bot *Bot) Receive(discord *discordgo.Session, message *discordgo.MessageCreate) {

	// Reject my own messages
	if message.Author.ID == discord.State.User.ID {
		return
	}

	// Ignore messages from private channels
	if message.GuildID == "" {
		return
	}

	parseResult := Parse(bot.prefix, message.Content)
	if parseResult.parseid == PARSEID_NO_BOT_PREFIX {
		return
	}

	if allowed, wait := bot.cooldown.Allowed(message.Author.ID); !allowed {
		log.Debug().Msg(fmt.Sprintf("Cooldown rejected a command from %s", message.Author.ID))
		bot.sendResponses(discord, message.ChannelID, CooldownMessage(wait))
		return
	}

	if parseResult.parseid != PARSEID_OK {
		log.Debug().Msg(fmt.Sprintf("Wrong input: '%s'. Reason: %s", message.Content, parseResult.errorMessage))
		bot.sendResponses(discord, message.ChannelID, InputNotValid(parseResult.errorMessage))
		return
	}

	log.Debug().Msg(fmt.Sprintf("Command understood: %s", message.Content))
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	playerID := message.Author.ID
	var responses []Response
	switch parseResult.command {
	case COMMAND_ENERGY:
		responses = bot.energy(ctx, playerID)
	case COMMAND_STAMINA:
		responses = bot.stamina(ctx, playerID)
	case COMMAND_PROFILE:
		responses = bot.profile(ctx, playerID, message.Author.Username)
	case COMMAND_BALANCE:
		responses = bot.balance(ctx, playerID)
	case COMMAND_DEPOSIT:
		responses = bot.deposit(ctx, playerID, parseResult.arguments.(int64))
	case COMMAND_WITHDRAW:
		responses = bot.withdraw(ctx, playerID, parseResult.arguments.(int64))
	case COMMAND_SHOP:
		responses = ShopMessage()
	case COMMAND_BUY:
		responses = bot.buy(ctx, playerID, parseResult.arguments.(Purchase))
	case COMMAND_INVENTORY:
		responses = bot.inventory(ctx, playerID)
	case COMMAND_CRATE:
		responses = bot.crate(ctx, playerID, parseResult.arguments.(string))
	case COMMAND_EQUIP:
		responses = bot.equip(ctx, playerID, parseResult.arguments.(string))
	case COMMAND_WORK:
		responses = bot.work(ctx, playerID)
	case COMMAND_JOIN:
		responses = bot.join(ctx, playerID, parseResult.arguments.(string))
	case COMMAND_COMPANY:
		responses = bot.company(ctx, playerID)
	case COMMAND_TOWN:
		responses = bot.town(ctx)
	case COMMAND_SETTLE:
		responses = bot.settle(ctx, playerID)
	case COMMAND_CONTRIBUTE:
		responses = bot.contribute(ctx, playerID, parseResult.arguments.(int64))
	case COMMAND_TOP:
		responses = bot.top(ctx)
	case COMMAND_REMIND:
		responses = bot.remind(ctx, playerID, message.ChannelID, parseResult.arguments.(reminder.Kind))
	case COMMAND_UNREMIND:
		responses = bot.unremind(ctx, playerID, parseResult.arguments.(reminder.Kind))
	case COMMAND_HELP:
		responses = HelpMessage()
	default:
		panic(fmt.Sprintf("Command %d is not one of the possible ones", parseResult.command))
	}
	bot.sendResponses(discord, message.ChannelID, responses)
}

func (bot *Bot) sendResponses(discord *discordgo.Session, channelId string, responses []Response) {
	for _, response := range responses {
		response.Send(channelId, discord)
	}
}
