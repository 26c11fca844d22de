package relay

import (
	"errors"
	"regexp"
	"strconv"

	tele "gopkg.in/telebot.v4"
)

var migratedRe = regexp.MustCompile(`[Nn]ew chat id:?\s*(-?\d+)`)

// migratedChatID extracts the replacement chat id after a group was
// upgraded to a supergroup. The structured telebot error is preferred;
// the error-text scan covers responses that arrive as plain API errors.
func migratedChatID(err error) (int64, bool) {
	if err == nil {
		return 0, false
	}

	var groupErr tele.GroupError
	if errors.As(err, &groupErr) && groupErr.MigratedTo != 0 {
		return groupErr.MigratedTo, true
	}

	m := migratedRe.FindStringSubmatch(err.Error())
	if m == nil {
		return 0, false
	}
	id, parseErr := strconv.ParseInt(m[1], 10, 64)
	if parseErr != nil || id == 0 {
		return 0, false
	}
	return id, true
}
