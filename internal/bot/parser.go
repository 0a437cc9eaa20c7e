package bot

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"toddybot/internal/reminder"
)

const (
	COMMAND_ENERGY = iota
	COMMAND_STAMINA
	COMMAND_PROFILE
	COMMAND_BALANCE
	COMMAND_DEPOSIT
	COMMAND_WITHDRAW
	COMMAND_SHOP
	COMMAND_BUY
	COMMAND_INVENTORY
	COMMAND_CRATE
	COMMAND_EQUIP
	COMMAND_WORK
	COMMAND_JOIN
	COMMAND_COMPANY
	COMMAND_TOWN
	COMMAND_SETTLE
	COMMAND_CONTRIBUTE
	COMMAND_TOP
	COMMAND_REMIND
	COMMAND_UNREMIND
	COMMAND_HELP
)

const (
	PARSEID_OK = iota
	PARSEID_NO_BOT_PREFIX
	PARSEID_NO_COMMAND
	PARSEID_COMMAND_NOT_RECOGNISED
	PARSEID_NO_INPUT
	PARSEID_NOT_AN_AMOUNT
	PARSEID_NOT_A_KIND
)

var errorMessages map[int]string = map[int]string{
	PARSEID_NO_COMMAND:             "No command provided",
	PARSEID_COMMAND_NOT_RECOGNISED: "Command `%s` not recognised",
	PARSEID_NO_INPUT:               "Command `%s` requires an argument",
	PARSEID_NOT_AN_AMOUNT:          "Input `%s` is not a positive amount",
	PARSEID_NOT_A_KIND:             "Input `%s` is not a resource (energy or stamina)",
}

type ParseResult struct {
	command      int
	parseid      int
	errorMessage string
	arguments    interface{}
}

// Purchase is the argument pair of the buy command
type Purchase struct {
	ItemID string
	Qty    int64
}

func Parse(prefix string, message string) ParseResult {

	noInput := func(command int, commandString string) ParseResult {
		parseid := PARSEID_NO_INPUT
		return ParseResult{command: command, parseid: parseid, errorMessage: fmt.Sprintf(errorMessages[parseid], commandString)}
	}

	// The message has to start with the bot prefix
	if !strings.HasPrefix(message, prefix) {
		log.Debug().Msg("Reject message not intended for the bot")
		return ParseResult{parseid: PARSEID_NO_BOT_PREFIX}
	}

	// Get the command if valid
	words := strings.Fields(strings.TrimSpace(message[len(prefix):]))
	if len(words) == 0 {
		parseid := PARSEID_NO_COMMAND
		return ParseResult{parseid: parseid, errorMessage: errorMessages[parseid]}
	}
	commandString := strings.ToLower(words[0])
	words = words[1:]

	switch commandString {
	case "energy":
		return ParseResult{command: COMMAND_ENERGY, parseid: PARSEID_OK}
	case "stamina":
		return ParseResult{command: COMMAND_STAMINA, parseid: PARSEID_OK}
	case "profile":
		return ParseResult{command: COMMAND_PROFILE, parseid: PARSEID_OK}
	case "balance":
		return ParseResult{command: COMMAND_BALANCE, parseid: PARSEID_OK}
	case "deposit":
		// toddy deposit <amount>
		if len(words) == 0 {
			return noInput(COMMAND_DEPOSIT, commandString)
		}
		return parseAmount(COMMAND_DEPOSIT, words[0])
	case "withdraw":
		// toddy withdraw <amount>
		if len(words) == 0 {
			return noInput(COMMAND_WITHDRAW, commandString)
		}
		return parseAmount(COMMAND_WITHDRAW, words[0])
	case "shop":
		return ParseResult{command: COMMAND_SHOP, parseid: PARSEID_OK}
	case "buy":
		// toddy buy <item> [qty]
		if len(words) == 0 {
			return noInput(COMMAND_BUY, commandString)
		}
		qty := int64(1)
		if len(words) > 1 {
			parsed, err := strconv.ParseInt(words[1], 10, 64)
			if err != nil || parsed <= 0 {
				parseid := PARSEID_NOT_AN_AMOUNT
				return ParseResult{command: COMMAND_BUY, parseid: parseid, errorMessage: fmt.Sprintf(errorMessages[parseid], words[1])}
			}
			qty = parsed
		}
		return ParseResult{command: COMMAND_BUY, parseid: PARSEID_OK, arguments: Purchase{ItemID: strings.ToLower(words[0]), Qty: qty}}
	case "inventory":
		return ParseResult{command: COMMAND_INVENTORY, parseid: PARSEID_OK}
	case "crate":
		// toddy crate <crate_id>
		if len(words) == 0 {
			return noInput(COMMAND_CRATE, commandString)
		}
		return ParseResult{command: COMMAND_CRATE, parseid: PARSEID_OK, arguments: strings.ToLower(words[0])}
	case "equip":
		// toddy equip <frame_id>
		if len(words) == 0 {
			return noInput(COMMAND_EQUIP, commandString)
		}
		return ParseResult{command: COMMAND_EQUIP, parseid: PARSEID_OK, arguments: strings.ToLower(words[0])}
	case "work":
		return ParseResult{command: COMMAND_WORK, parseid: PARSEID_OK}
	case "join":
		// toddy join <company name>
		if len(words) == 0 {
			return noInput(COMMAND_JOIN, commandString)
		}
		return ParseResult{command: COMMAND_JOIN, parseid: PARSEID_OK, arguments: strings.Join(words, " ")}
	case "company":
		return ParseResult{command: COMMAND_COMPANY, parseid: PARSEID_OK}
	case "town":
		return ParseResult{command: COMMAND_TOWN, parseid: PARSEID_OK}
	case "settle":
		return ParseResult{command: COMMAND_SETTLE, parseid: PARSEID_OK}
	case "contribute":
		// toddy contribute <amount>
		if len(words) == 0 {
			return noInput(COMMAND_CONTRIBUTE, commandString)
		}
		return parseAmount(COMMAND_CONTRIBUTE, words[0])
	case "top":
		return ParseResult{command: COMMAND_TOP, parseid: PARSEID_OK}
	case "remind":
		// toddy remind <energy|stamina>
		if len(words) == 0 {
			return noInput(COMMAND_REMIND, commandString)
		}
		return parseKind(COMMAND_REMIND, words[0])
	case "unremind":
		// toddy unremind <energy|stamina>
		if len(words) == 0 {
			return noInput(COMMAND_UNREMIND, commandString)
		}
		return parseKind(COMMAND_UNREMIND, words[0])
	case "help":
		return ParseResult{command: COMMAND_HELP, parseid: PARSEID_OK}
	default:
		parseid := PARSEID_COMMAND_NOT_RECOGNISED
		return ParseResult{parseid: parseid, errorMessage: fmt.Sprintf(errorMessages[parseid], commandString)}
	}
}

func parseAmount(command int, word string) ParseResult {
	amount, err := strconv.ParseInt(word, 10, 64)
	if err != nil || amount <= 0 {
		parseid := PARSEID_NOT_AN_AMOUNT
		return ParseResult{command: command, parseid: parseid, errorMessage: fmt.Sprintf(errorMessages[parseid], word)}
	}
	return ParseResult{command: command, parseid: PARSEID_OK, arguments: amount}
}

func parseKind(command int, word string) ParseResult {
	switch strings.ToLower(word) {
	case "energy", "energia":
		return ParseResult{command: command, parseid: PARSEID_OK, arguments: reminder.KIND_ENERGY}
	case "stamina":
		return ParseResult{command: command, parseid: PARSEID_OK, arguments: reminder.KIND_STAMINA}
	default:
		parseid := PARSEID_NOT_A_KIND
		return ParseResult{command: command, parseid: parseid, errorMessage: fmt.Sprintf(errorMessages[parseid], word)}
	}
}
