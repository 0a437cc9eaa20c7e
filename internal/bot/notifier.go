package bot

import (
	"fmt"
	"sync"

	"github.com/bwmarrin/discordgo"

	"toddybot/internal/reminder"
)

// discordNotifier delivers refill reminders through the gateway
// session. The session is bound once the bot logs in
type discordNotifier struct {
	mu      sync.Mutex
	session *discordgo.Session
}

func (n *discordNotifier) bind(session *discordgo.Session) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.session = session
}

func (n *discordNotifier) get() *discordgo.Session {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.session
}

func (n *discordNotifier) Resolve(channelID string) bool {
	session := n.get()
	if session == nil {
		return false
	}
	if _, err := session.State.Channel(channelID); err == nil {
		return true
	}
	_, err := session.Channel(channelID)
	return err == nil
}

func (n *discordNotifier) Notify(channelID string, playerID string, kind reminder.Kind) error {
	session := n.get()
	if session == nil {
		return fmt.Errorf("no session bound")
	}
	if _, err := session.ChannelMessageSend(channelID, ReminderFired(playerID, kind)); err != nil {
		return fmt.Errorf("sending reminder to channel %s: %w", channelID, err)
	}
	return nil
}
