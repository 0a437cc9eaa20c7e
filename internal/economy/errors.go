package economy

import "errors"

var (
	ErrInsufficientFunds   = errors.New("not enough coins")
	ErrInsufficientEnergy  = errors.New("not enough energy")
	ErrInsufficientStamina = errors.New("not enough stamina")
	ErrInsufficientTokens  = errors.New("not enough tokens")
	ErrUnknownItem         = errors.New("unknown shop item")
	ErrNotOwned            = errors.New("item not owned")
	ErrNoCompany           = errors.New("player has no company")
	ErrNoCrate             = errors.New("no such crate in inventory")
	ErrInvalidAmount       = errors.New("amount must be positive")
)
