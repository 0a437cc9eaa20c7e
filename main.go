package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"toddybot/internal/bot"
	"toddybot/internal/config"
	"toddybot/internal/economy"
	"toddybot/internal/reminder"
	"toddybot/internal/store"
)

func main() {

	configPath := "config.yaml"
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Error().Err(err).Msg("Could not load configuration")
		os.Exit(1)
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	// Document store
	st, err := store.NewRedis(&cfg.Redis, cfg.Discord.AppID)
	if err != nil {
		log.Error().Err(err).Msg("Could not connect to the document store")
		os.Exit(1)
	}
	defer st.Close()

	// Game economy on top of the store
	econ := economy.NewService(st, &cfg.Game)

	// Refill reminders, mirrored into the store for restarts
	repo := reminder.NewStoreRepository(st)

	// Bot
	toddy := bot.NewBot(cfg, econ, repo)
	if err := toddy.Run(); err != nil {
		log.Error().Err(err).Msg("Bot stopped with an error")
		os.Exit(1)
	}
}
