package parser

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/dirshaye/LogInsight/internal/model"
)

// Format identifies a recognized log line format.
type Format string

const (
	FormatApache  Format = "apache"
	FormatNginx   Format = "nginx"
	FormatSyslog  Format = "syslog"
	FormatGeneric Format = "generic"
	FormatJSON    Format = "json"
)

// sampleSize is how many leading lines format detection looks at.
const sampleSize = 10

// detectThreshold is the fraction of sampled lines a pattern must match.
const detectThreshold = 0.7

// pattern pairs a format name with its compiled regex. Patterns are tried
// in this fixed order during detection; the first one matching enough of
// the sample wins.
type pattern struct {
	format Format
	re     *regexp.Regexp
}

var patterns = []pattern{
	{FormatApache, regexp.MustCompile(`^(?P<ip>\S+) \S+ \S+ \[(?P<timestamp>[^\]]+)\] "(?P<method>\S+) (?P<url>\S+) (?P<protocol>[^"]+)" (?P<status>\d+) (?P<size>\S+)`)},
	{FormatNginx, regexp.MustCompile(`^(?P<ip>\S+) - - \[(?P<timestamp>[^\]]+)\] "(?P<method>\S+) (?P<url>\S+) (?P<protocol>[^"]+)" (?P<status>\d+) (?P<size>\d+)`)},
	{FormatSyslog, regexp.MustCompile(`^(?P<timestamp>\w+\s+\d+\s+\d+:\d+:\d+) (?P<hostname>\S+) (?P<process>\S+): (?P<message>.*)`)},
	{FormatGeneric, regexp.MustCompile(`^(?P<timestamp>\d{4}-\d{2}-\d{2}[ T]\d{2}:\d{2}:\d{2}(?:\.\d+)?(?:Z|[+-]\d{2}:\d{2})?)\s+(?P<level>\w+)\s+(?P<message>.*)`)},
}

var (
	reISOTime  = regexp.MustCompile(`\d{4}-\d{2}-\d{2}[ T]\d{2}:\d{2}:\d{2}`)
	reSeverity = regexp.MustCompile(`(?i)\b(DEBUG|INFO|WARN|WARNING|ERROR|FATAL|TRACE|CRITICAL)\b`)
)

// DetectFormat matches each pattern against the non-empty sample lines and
// returns the first format matching at least 70% of them. If none qualifies
// but the first few lines all decode as JSON objects, the JSON format is
// selected. Otherwise it falls back to generic.
func DetectFormat(sample []string) Format {
	lines := make([]string, 0, len(sample))
	for _, l := range sample {
		if s := strings.TrimSpace(l); s != "" {
			lines = append(lines, s)
		}
	}
	if len(lines) > sampleSize {
		lines = lines[:sampleSize]
	}
	if len(lines) == 0 {
		return FormatGeneric
	}

	for _, p := range patterns {
		matches := 0
		for _, l := range lines {
			if p.re.MatchString(l) {
				matches++
			}
		}
		if float64(matches) >= detectThreshold*float64(len(lines)) {
			return p.format
		}
	}

	// JSON probe: the first few lines must all be standalone objects.
	probe := lines
	if len(probe) > 5 {
		probe = probe[:5]
	}
	allJSON := true
	for _, l := range probe {
		var obj map[string]any
		if err := json.Unmarshal([]byte(l), &obj); err != nil {
			allJSON = false
			break
		}
	}
	if allJSON {
		return FormatJSON
	}

	return FormatGeneric
}

// Parser converts raw log lines into structured LogEntry values.
// A Parser value is cheap to construct and holds no mutable state, so each
// worker can own an independent instance.
type Parser struct {
	byFormat map[Format]*regexp.Regexp
}

// New creates a Parser with all format patterns compiled.
func New() *Parser {
	byFormat := make(map[Format]*regexp.Regexp, len(patterns))
	for _, p := range patterns {
		byFormat[p.format] = p.re
	}
	return &Parser{byFormat: byFormat}
}

// ParseLine parses one raw line in the given format. It returns false for
// empty or whitespace-only lines; callers must skip those rather than treat
// them as entries. A line the format's pattern cannot handle degrades to the
// generic extraction; ParseLine never fails on malformed input.
func (p *Parser) ParseLine(line string, format Format) (model.LogEntry, bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return model.LogEntry{}, false
	}

	if format == FormatJSON {
		return p.parseJSONLine(line), true
	}
	return p.parsePatternLine(line, format), true
}

// parseJSONLine decodes the line as a JSON object, reading well-known
// alternate key names for the core fields. Remaining keys go to Metadata.
func (p *Parser) parseJSONLine(line string) model.LogEntry {
	var data map[string]any
	if err := json.Unmarshal([]byte(line), &data); err != nil {
		return p.parseGenericLine(line)
	}

	entry := model.LogEntry{
		Timestamp: parseTimestamp(strFieldOf(data, "timestamp", "time", "@timestamp")),
		Level:     "INFO",
		Message:   line,
		Metadata:  make(map[string]string),
	}
	if v, ok := strField(data, "level"); ok {
		entry.Level = strings.ToUpper(v)
	}
	if v, ok := strField(data, "message", "msg"); ok {
		entry.Message = v
	}
	if v, ok := strField(data, "source", "logger"); ok {
		entry.Source = v
	}

	known := map[string]bool{
		"timestamp": true, "time": true, "@timestamp": true,
		"level": true, "message": true, "msg": true,
		"source": true, "logger": true,
	}
	for k, v := range data {
		if !known[k] {
			entry.Metadata[k] = fmt.Sprintf("%v", v)
		}
	}
	return entry
}

// parsePatternLine applies the format's regex; named captures map to entry
// fields and any unclaimed capture names become metadata.
func (p *Parser) parsePatternLine(line string, format Format) model.LogEntry {
	re, ok := p.byFormat[format]
	if !ok {
		return p.parseGenericLine(line)
	}
	matches := re.FindStringSubmatch(line)
	if matches == nil {
		return p.parseGenericLine(line)
	}

	groups := make(map[string]string)
	for i, name := range re.SubexpNames() {
		if i == 0 || name == "" {
			continue
		}
		groups[name] = matches[i]
	}

	entry := model.LogEntry{
		Timestamp: parseTimestamp(groups["timestamp"]),
		Level:     "INFO",
		Message:   line,
		Metadata:  make(map[string]string),
	}
	if v, ok := groups["level"]; ok {
		entry.Level = strings.ToUpper(v)
	}
	if v, ok := groups["message"]; ok {
		entry.Message = v
	}
	if v := groups["hostname"]; v != "" {
		entry.Source = v
	} else if v := groups["process"]; v != "" {
		entry.Source = v
	}

	claimed := map[string]bool{
		"timestamp": true, "level": true, "message": true,
		"hostname": true, "process": true,
	}
	for k, v := range groups {
		if !claimed[k] {
			entry.Metadata[k] = v
		}
	}
	return entry
}

// parseGenericLine is the unconditional fallback: look anywhere in the line
// for an ISO-like date-time and a severity keyword, and keep the full line
// as the message. Defaults are "now" and INFO.
func (p *Parser) parseGenericLine(line string) model.LogEntry {
	entry := model.LogEntry{
		Timestamp: time.Now(),
		Level:     "INFO",
		Message:   line,
		Metadata:  make(map[string]string),
	}
	if m := reISOTime.FindString(line); m != "" {
		entry.Timestamp = parseTimestamp(m)
	}
	if m := reSeverity.FindString(line); m != "" {
		entry.Level = strings.ToUpper(m)
	}
	return entry
}

// strField returns the first matching non-empty string value from a map.
func strField(data map[string]any, keys ...string) (string, bool) {
	for _, k := range keys {
		if v, ok := data[k]; ok {
			s := fmt.Sprintf("%v", v)
			if s != "" {
				return s, true
			}
		}
	}
	return "", false
}

func strFieldOf(data map[string]any, keys ...string) string {
	s, _ := strField(data, keys...)
	return s
}
