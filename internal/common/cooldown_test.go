package common_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"toddybot/internal/common"
)

func TestCooldownLimitsBursts(t *testing.T) {
	cooldown := common.NewCooldown(3, time.Minute)

	for i := 0; i < 3; i++ {
		allowed, _ := cooldown.Allowed("u1")
		assert.True(t, allowed, "request %d", i)
	}

	allowed, wait := cooldown.Allowed("u1")
	assert.False(t, allowed)
	assert.Greater(t, wait, time.Duration(0))

	// Other users are unaffected
	allowed, _ = cooldown.Allowed("u2")
	assert.True(t, allowed)
}

func TestCooldownWindowExpires(t *testing.T) {
	cooldown := common.NewCooldown(1, 10*time.Millisecond)

	allowed, _ := cooldown.Allowed("u1")
	assert.True(t, allowed)
	allowed, _ = cooldown.Allowed("u1")
	assert.False(t, allowed)

	time.Sleep(15 * time.Millisecond)
	allowed, _ = cooldown.Allowed("u1")
	assert.True(t, allowed)
}
