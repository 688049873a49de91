package label

import (
	"github.com/phantomnet/phantomnet/pkg/attacker"
)

// Heuristic categories
const (
	Noise               = "noise"
	CredentialStuffer   = "credential_stuffer"
	InteractiveAttacker = "interactive_attacker"
	Scanner             = "scanner"
	Unknown             = "unknown"
)

// Rule assigns Category to every profile it matches
type Rule struct {
	Name     string
	Category string
	Match    func(attacker.Profile) bool
}

// Rules are evaluated top down; the first match wins. A profile
// matching none of them is Unknown.
var Rules = []Rule{
	{
		Name:     "single-short-session",
		Category: Noise,
		Match: func(p attacker.Profile) bool {
			return p.NumSessions <= 1 && p.AvgDuration < 1
		},
	},
	{
		Name:     "many-sessions-no-commands",
		Category: CredentialStuffer,
		Match: func(p attacker.Profile) bool {
			return p.NumSessions >= 5 && p.TotalCommands == 0
		},
	},
	{
		Name:     "commands-in-long-sessions",
		Category: InteractiveAttacker,
		Match: func(p attacker.Profile) bool {
			return p.SessionsWithCommands > 0 && p.AvgDuration > 10
		},
	},
	{
		Name:     "repeated-short-sessions",
		Category: Scanner,
		Match: func(p attacker.Profile) bool {
			return p.NumSessions >= 3 && p.AvgDuration < 1
		},
	},
}

// Label returns the category of the first rule matching p and that
// rule's name. The rule name is empty for Unknown.
func Label(p attacker.Profile) (category string, rule string) {
	for _, r := range Rules {
		if r.Match(p) {
			return r.Category, r.Name
		}
	}
	return Unknown, ""
}
