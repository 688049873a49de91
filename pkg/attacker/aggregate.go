package attacker

import (
	"github.com/phantomnet/phantomnet/pkg/session"
	"github.com/phantomnet/phantomnet/util"
	"gonum.org/v1/gonum/stat"
)

// input gathers the sessions of one source address
type input struct {
	durations      []float64
	totalCommands  int64
	withCommands   int64
	successes      float64
	protocolErrors float64
	versions       map[string]struct{}
	hasshes        map[string]struct{}
}

// Aggregate groups sessions by source address into profiles sorted by address
func Aggregate(sessions []session.Session) []Profile {
	inputs := make(map[string]*input)
	for _, s := range sessions {
		in, ok := inputs[s.SrcIP]
		if !ok {
			in = &input{
				versions: make(map[string]struct{}),
				hasshes:  make(map[string]struct{}),
			}
			inputs[s.SrcIP] = in
		}
		in.durations = append(in.durations, s.DurationSeconds)
		in.totalCommands += s.NumCommands
		if s.NumCommands > 0 {
			in.withCommands++
		}
		if s.LoginSuccess {
			in.successes++
		}
		in.protocolErrors += float64(s.ProtocolErrors)
		if s.ClientVersion != "" {
			in.versions[s.ClientVersion] = struct{}{}
		}
		if s.Hassh != "" {
			in.hasshes[s.Hassh] = struct{}{}
		}
	}

	profiles := make([]Profile, 0, len(inputs))
	for _, ip := range util.SortedKeys(inputs) {
		profiles = append(profiles, summarize(ip, inputs[ip]))
	}
	return profiles
}

func summarize(ip string, in *input) Profile {
	n := float64(len(in.durations))

	// the sample deviation of a single session is undefined, report 0
	std := 0.0
	if len(in.durations) > 1 {
		std = util.ZeroIfNaN(stat.StdDev(in.durations, nil))
	}

	return Profile{
		SrcIP:                ip,
		NumSessions:          int64(len(in.durations)),
		AvgDuration:          util.ZeroIfNaN(stat.Mean(in.durations, nil)),
		StdDuration:          std,
		TotalCommands:        in.totalCommands,
		SessionsWithCommands: in.withCommands,
		LoginSuccessRate:     in.successes / n,
		UniqueClientVersions: int64(len(in.versions)),
		UniqueHassh:          int64(len(in.hasshes)),
		ProtocolErrorRate:    in.protocolErrors / n,
	}
}
