package access

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/dreamkkun/retention/internal/store"
)

const accessLogFile = "access.log"

// Entry is one access-log line.
type Entry struct {
	Time   time.Time `json:"time"`
	IP     string    `json:"ip"`
	Method string    `json:"method"`
	Path   string    `json:"path"`
	Status int       `json:"status"`
}

// Log appends request records to the flat-file access log as JSON lines.
type Log struct {
	st  *store.Store
	log *slog.Logger
}

// NewLog creates an access log writing through st.
func NewLog(st *store.Store, log *slog.Logger) *Log {
	return &Log{st: st, log: log}
}

// Record persists one entry. Persistence failures are logged and
// swallowed: the access log must never fail a request.
func (l *Log) Record(e Entry) {
	line, err := json.Marshal(e)
	if err != nil {
		return
	}
	if err := l.st.AppendLine(accessLogFile, string(line)); err != nil {
		l.log.Warn("access log write failed", "error", err)
	}
}
