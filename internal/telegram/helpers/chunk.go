package helpers

import "strings"

// MessageLimit is Telegram's maximum message length in characters.
const MessageLimit = 4096

// Chunk splits long text into pieces that fit one Telegram message,
// preferring newline boundaries so formatted blocks stay readable.
func Chunk(text string) []string {
	runes := []rune(text)
	if len(runes) <= MessageLimit {
		return []string{text}
	}

	var chunks []string
	for len(runes) > MessageLimit {
		cut := MessageLimit
		if idx := lastNewline(runes[:MessageLimit]); idx > 0 {
			cut = idx
		}
		chunks = append(chunks, strings.TrimRight(string(runes[:cut]), "\n"))
		runes = runes[cut:]
		for len(runes) > 0 && runes[0] == '\n' {
			runes = runes[1:]
		}
	}
	if len(runes) > 0 {
		chunks = append(chunks, string(runes))
	}
	return chunks
}

func lastNewline(runes []rune) int {
	for i := len(runes) - 1; i >= 0; i-- {
		if runes[i] == '\n' {
			return i
		}
	}
	return -1
}
