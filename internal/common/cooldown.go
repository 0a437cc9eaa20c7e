package common

import (
	"sync"
	"time"
)

// Cooldown applies one restriction per user, so a player mashing a
// command cannot flood the bot with writes
type Cooldown struct {
	mu          sync.Mutex
	restriction Restriction
	history     map[string][]time.Time
}

func NewCooldown(requests int, window time.Duration) *Cooldown {
	return &Cooldown{
		restriction: Restriction{Requests: requests, Duration: window},
		history:     map[string][]time.Time{},
	}
}

// Allowed decides if the user may issue a command right now. Allowed
// requests enter the user's history; rejected ones do not
func (c *Cooldown) Allowed(userID string) (bool, time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	c.trim(userID, now)

	analysis := c.restriction.Analyse(c.history[userID], now)
	if !analysis.Allowed {
		return false, analysis.Wait
	}
	c.history[userID] = append(c.history[userID], now)
	return true, 0
}

// trim drops requests too old to matter, releasing the user's slot
// entirely once the history empties
func (c *Cooldown) trim(userID string, now time.Time) {
	history := c.history[userID]
	index := 0
	for i := len(history) - 1; i >= 0; i-- {
		if now.Sub(history[i]) > c.restriction.Duration {
			index = i + 1
			break
		}
	}
	if index == len(history) {
		delete(c.history, userID)
		return
	}
	c.history[userID] = history[index:]
}
