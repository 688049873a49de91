package session

import (
	"time"
)

// Repository for the session table
type Repository interface {
	Write(sessions []Session) error
	Read() ([]Session, error)
}

// Session is one cowrie session reconstructed from its events. A zero
// StartTime or EndTime means no event of the session carried a
// parseable timestamp.
type Session struct {
	ID               string
	SrcIP            string
	StartTime        time.Time
	EndTime          time.Time
	DurationSeconds  float64
	NumCommands      int64
	NumLoginAttempts int64
	LoginSuccess     bool
	ClientVersion    string
	Hassh            string
	ProtocolErrors   int64
}

// Columns of the session table, in order
var Columns = []string{
	"session_id",
	"src_ip",
	"start_time",
	"end_time",
	"duration_seconds",
	"num_commands",
	"num_login_attempts",
	"login_success",
	"client_version",
	"hassh",
	"protocol_errors",
}
