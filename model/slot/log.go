package slot

import (
	"strings"
	"time"
)

// TimeLayout is used to render log entry timestamps
const TimeLayout = "2006-01-02 15:04:05.000000"

// NoLog is returned when reading a log of an unknown slot
const NoLog = "no log"

// LogEntry represents a single timestamped slot log line
type LogEntry struct {
	Time time.Time `json:"time"`
	Text string    `json:"text"`
}

// String renders entry as "<timestamp>: <text>"
func (e LogEntry) String() string {
	return e.Time.Format(TimeLayout) + ": " + e.Text
}

// Join renders entries separated by new line
func Join(entries []LogEntry) string {
	builder := strings.Builder{}
	for i, entry := range entries {
		if i > 0 {
			builder.WriteByte('\n')
		}
		builder.WriteString(entry.String())
	}
	return builder.String()
}
