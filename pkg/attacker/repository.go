package attacker

// Repository for attacker profile tables
type Repository interface {
	Write(profiles []Profile) error
	Read() ([]Profile, error)
}

// Profile rolls up every session of one source address
type Profile struct {
	SrcIP                string
	NumSessions          int64
	AvgDuration          float64
	StdDuration          float64
	TotalCommands        int64
	SessionsWithCommands int64
	LoginSuccessRate     float64
	UniqueClientVersions int64
	UniqueHassh          int64
	ProtocolErrorRate    float64
}

// Columns of the attacker table, in order
var Columns = []string{
	"src_ip",
	"num_sessions",
	"avg_duration",
	"std_duration",
	"total_commands",
	"sessions_with_commands",
	"login_success_rate",
	"unique_client_versions",
	"unique_hassh",
	"protocol_error_rate",
}
