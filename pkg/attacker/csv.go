package attacker

import (
	"strconv"

	"github.com/phantomnet/phantomnet/database"
	"github.com/phantomnet/phantomnet/resources"
	"github.com/phantomnet/phantomnet/util"
)

type repo struct {
	db    *database.DB
	table string
}

// NewCSVRepository create new repository backed by the attacker table
func NewCSVRepository(res *resources.Resources) Repository {
	return &repo{
		db:    res.DB,
		table: res.Config.T.Structure.AttackerTable,
	}
}

// Write replaces the attacker table
func (r *repo) Write(profiles []Profile) error {
	return r.db.Write(r.table, Columns, ToRows(profiles))
}

// Read loads the attacker table
func (r *repo) Read() ([]Profile, error) {
	table, err := r.db.Read(r.table)
	if err != nil {
		return nil, err
	}
	return FromTable(table)
}

// ToRow renders one profile in Columns order
func ToRow(p Profile) []string {
	return []string{
		p.SrcIP,
		strconv.FormatInt(p.NumSessions, 10),
		util.FormatFloat(p.AvgDuration),
		util.FormatFloat(p.StdDuration),
		strconv.FormatInt(p.TotalCommands, 10),
		strconv.FormatInt(p.SessionsWithCommands, 10),
		util.FormatFloat(p.LoginSuccessRate),
		strconv.FormatInt(p.UniqueClientVersions, 10),
		strconv.FormatInt(p.UniqueHassh, 10),
		util.FormatFloat(p.ProtocolErrorRate),
	}
}

// ToRows renders profiles in Columns order
func ToRows(profiles []Profile) [][]string {
	rows := make([][]string, 0, len(profiles))
	for _, p := range profiles {
		rows = append(rows, ToRow(p))
	}
	return rows
}

// FromTable reads profiles out of any table carrying the attacker columns.
// Missing numeric columns read as 0; src_ip is required.
func FromTable(table *database.Table) ([]Profile, error) {
	if err := table.Require("src_ip"); err != nil {
		return nil, err
	}
	profiles := make([]Profile, 0, table.Len())
	for i := 0; i < table.Len(); i++ {
		profiles = append(profiles, RowProfile(table, i))
	}
	return profiles, nil
}

// RowProfile reads the profile stored in row i of table
func RowProfile(table *database.Table, i int) Profile {
	return Profile{
		SrcIP:                table.String(i, "src_ip"),
		NumSessions:          table.Int(i, "num_sessions"),
		AvgDuration:          table.Float(i, "avg_duration"),
		StdDuration:          table.Float(i, "std_duration"),
		TotalCommands:        table.Int(i, "total_commands"),
		SessionsWithCommands: table.Int(i, "sessions_with_commands"),
		LoginSuccessRate:     table.Float(i, "login_success_rate"),
		UniqueClientVersions: table.Int(i, "unique_client_versions"),
		UniqueHassh:          table.Int(i, "unique_hassh"),
		ProtocolErrorRate:    table.Float(i, "protocol_error_rate"),
	}
}
