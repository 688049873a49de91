package session

import (
	"strconv"
	"time"

	"github.com/phantomnet/phantomnet/database"
	pt "github.com/phantomnet/phantomnet/parser/parsetypes"
	"github.com/phantomnet/phantomnet/resources"
	"github.com/phantomnet/phantomnet/util"
	log "github.com/sirupsen/logrus"
)

type repo struct {
	db    *database.DB
	table string
	log   *log.Logger
}

// NewCSVRepository create new repository backed by the session table
func NewCSVRepository(res *resources.Resources) Repository {
	return &repo{
		db:    res.DB,
		table: res.Config.T.Structure.SessionTable,
		log:   res.Log,
	}
}

// Write replaces the session table
func (r *repo) Write(sessions []Session) error {
	return r.db.Write(r.table, Columns, ToRows(sessions))
}

// Read loads the session table
func (r *repo) Read() ([]Session, error) {
	table, err := r.db.Read(r.table)
	if err != nil {
		return nil, err
	}
	return FromTable(table)
}

// ToRows renders sessions as table rows in Columns order
func ToRows(sessions []Session) [][]string {
	rows := make([][]string, 0, len(sessions))
	for _, s := range sessions {
		rows = append(rows, []string{
			s.ID,
			s.SrcIP,
			formatTime(s.StartTime),
			formatTime(s.EndTime),
			util.FormatFloat(s.DurationSeconds),
			strconv.FormatInt(s.NumCommands, 10),
			strconv.FormatInt(s.NumLoginAttempts, 10),
			strconv.FormatBool(s.LoginSuccess),
			s.ClientVersion,
			s.Hassh,
			strconv.FormatInt(s.ProtocolErrors, 10),
		})
	}
	return rows
}

// FromTable reads sessions back out of a session table. Missing numeric
// columns read as 0; session_id and src_ip are required.
func FromTable(table *database.Table) ([]Session, error) {
	if err := table.Require("session_id", "src_ip"); err != nil {
		return nil, err
	}
	sessions := make([]Session, 0, table.Len())
	for i := 0; i < table.Len(); i++ {
		sessions = append(sessions, Session{
			ID:               table.String(i, "session_id"),
			SrcIP:            table.String(i, "src_ip"),
			StartTime:        parseTime(table.String(i, "start_time")),
			EndTime:          parseTime(table.String(i, "end_time")),
			DurationSeconds:  table.Float(i, "duration_seconds"),
			NumCommands:      table.Int(i, "num_commands"),
			NumLoginAttempts: table.Int(i, "num_login_attempts"),
			LoginSuccess:     table.Bool(i, "login_success"),
			ClientVersion:    table.String(i, "client_version"),
			Hassh:            table.String(i, "hassh"),
			ProtocolErrors:   table.Int(i, "protocol_errors"),
		})
	}
	return sessions, nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(raw string) time.Time {
	t, _, _ := pt.ParseTimestampString(raw)
	return t
}
