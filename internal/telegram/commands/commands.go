package commands

import (
	tele "gopkg.in/telebot.v4"
)

// Command binds a bot command handler with its menu metadata.
type Command struct {
	Handler     tele.HandlerFunc
	Description string
	// OwnerOnly restricts the command to the configured owner chat.
	OwnerOnly bool
	// Hidden keeps the command out of the Telegram command menu.
	Hidden  bool
	Aliases []string
}
