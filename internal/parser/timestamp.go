package parser

import (
	"strings"
	"time"
)

// timestampLayouts is the fixed ordered list of textual layouts tried when
// parsing a timestamp field. First match wins.
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05.999999Z07:00",
	"02/Jan/2006:15:04:05 -0700",
	"02/Jan/2006:15:04:05",
	"Jan _2 15:04:05",
	"2006-01-02 15:04:05.999999",
}

// parseTimestamp tries each known layout in order and falls back to the
// current time when none matches. An unparseable timestamp is not an error.
func parseTimestamp(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Now()
	}
	for _, layout := range timestampLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		// Syslog timestamps carry no year; pin them to the current one.
		if t.Year() == 0 {
			now := time.Now()
			t = t.AddDate(now.Year(), 0, 0)
		}
		return t
	}
	return time.Now()
}
