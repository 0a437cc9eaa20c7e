package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"toddybot/internal/reminder"
)

func TestParseIgnoresForeignMessages(t *testing.T) {
	result := Parse("toddy", "hello everyone")
	assert.Equal(t, PARSEID_NO_BOT_PREFIX, result.parseid)
}

func TestParseCommands(t *testing.T) {
	cases := []struct {
		name      string
		message   string
		command   int
		parseid   int
		arguments interface{}
	}{
		{"bare prefix", "toddy", 0, PARSEID_NO_COMMAND, nil},
		{"unknown", "toddy dance", 0, PARSEID_COMMAND_NOT_RECOGNISED, nil},
		{"energy", "toddy energy", COMMAND_ENERGY, PARSEID_OK, nil},
		{"stamina", "toddy stamina", COMMAND_STAMINA, PARSEID_OK, nil},
		{"profile", "toddy profile", COMMAND_PROFILE, PARSEID_OK, nil},
		{"deposit", "toddy deposit 250", COMMAND_DEPOSIT, PARSEID_OK, int64(250)},
		{"deposit junk", "toddy deposit lots", COMMAND_DEPOSIT, PARSEID_NOT_AN_AMOUNT, nil},
		{"deposit negative", "toddy deposit -5", COMMAND_DEPOSIT, PARSEID_NOT_AN_AMOUNT, nil},
		{"deposit missing", "toddy deposit", COMMAND_DEPOSIT, PARSEID_NO_INPUT, nil},
		{"withdraw", "toddy withdraw 10", COMMAND_WITHDRAW, PARSEID_OK, int64(10)},
		{"buy default qty", "toddy buy pickaxe", COMMAND_BUY, PARSEID_OK, Purchase{ItemID: "pickaxe", Qty: 1}},
		{"buy with qty", "toddy buy Pickaxe 3", COMMAND_BUY, PARSEID_OK, Purchase{ItemID: "pickaxe", Qty: 3}},
		{"buy bad qty", "toddy buy pickaxe zero", COMMAND_BUY, PARSEID_NOT_AN_AMOUNT, nil},
		{"crate", "toddy crate crate-common", COMMAND_CRATE, PARSEID_OK, "crate-common"},
		{"equip", "toddy equip frame-gold", COMMAND_EQUIP, PARSEID_OK, "frame-gold"},
		{"join multiword", "toddy join mines of toddy", COMMAND_JOIN, PARSEID_OK, "mines of toddy"},
		{"work", "toddy work", COMMAND_WORK, PARSEID_OK, nil},
		{"contribute", "toddy contribute 7", COMMAND_CONTRIBUTE, PARSEID_OK, int64(7)},
		{"remind energy", "toddy remind energy", COMMAND_REMIND, PARSEID_OK, reminder.KIND_ENERGY},
		{"remind alias", "toddy remind energia", COMMAND_REMIND, PARSEID_OK, reminder.KIND_ENERGY},
		{"remind stamina", "toddy remind stamina", COMMAND_REMIND, PARSEID_OK, reminder.KIND_STAMINA},
		{"remind junk", "toddy remind mana", COMMAND_REMIND, PARSEID_NOT_A_KIND, nil},
		{"unremind", "toddy unremind stamina", COMMAND_UNREMIND, PARSEID_OK, reminder.KIND_STAMINA},
		{"help", "toddy help", COMMAND_HELP, PARSEID_OK, nil},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			result := Parse("toddy", c.message)
			assert.Equal(t, c.parseid, result.parseid)
			if c.parseid == PARSEID_OK {
				assert.Equal(t, c.command, result.command)
				assert.Equal(t, c.arguments, result.arguments)
			}
			if c.parseid != PARSEID_OK && c.parseid != PARSEID_NO_BOT_PREFIX {
				assert.NotEmpty(t, result.errorMessage)
			}
		})
	}
}
