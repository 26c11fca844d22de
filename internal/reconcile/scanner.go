package reconcile

import (
	"regexp"
	"strconv"
)

// Marker patterns match the announcement format used when an application
// or offer is posted to an admin chat. Changing the announcement text
// requires updating these together.
var (
	appMarkerRe    = regexp.MustCompile(`НОВАЯ ЗАЯВКА \(ID: (\d+)\)`)
	clientMarkerRe = regexp.MustCompile(`🆔 ID: (\d+)`)
)

// TextScanner extracts id markers with the announcement regexps.
type TextScanner struct{}

// ApplicationID finds the application-id marker in announcement text.
func (TextScanner) ApplicationID(text string) (int64, bool) {
	return scan(appMarkerRe, text)
}

// ClientID finds the client-id marker in announcement text.
func (TextScanner) ClientID(text string) (int64, bool) {
	return scan(clientMarkerRe, text)
}

func scan(re *regexp.Regexp, text string) (int64, bool) {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	id, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
