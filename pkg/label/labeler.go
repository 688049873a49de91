package label

import (
	"github.com/phantomnet/phantomnet/database"
	"github.com/phantomnet/phantomnet/pkg/attacker"
	"github.com/phantomnet/phantomnet/resources"
	log "github.com/sirupsen/logrus"
)

// Labeled is an attacker profile with its heuristic category
type Labeled struct {
	attacker.Profile
	Label string
}

// Columns of the labeled attacker table, in order
var Columns = append(append([]string{}, attacker.Columns...), "heuristic_label")

// Labeler applies Rules to attacker profiles
type Labeler struct {
	log *log.Logger
}

// NewLabeler creates a Labeler which reports each decision at debug level
func NewLabeler(logger *log.Logger) *Labeler {
	return &Labeler{log: logger}
}

// LabelAll labels every profile, preserving order
func (l *Labeler) LabelAll(profiles []attacker.Profile) []Labeled {
	labeled := make([]Labeled, 0, len(profiles))
	for _, p := range profiles {
		category, rule := Label(p)
		l.log.WithFields(log.Fields{
			"src_ip": p.SrcIP,
			"label":  category,
			"rule":   rule,
		}).Debug("Labeled attacker")
		labeled = append(labeled, Labeled{Profile: p, Label: category})
	}
	return labeled
}

// Counts tallies how many profiles carry each label
func Counts(labeled []Labeled) map[string]int {
	counts := make(map[string]int)
	for _, l := range labeled {
		counts[l.Label]++
	}
	return counts
}

// Write replaces the labeled attacker table
func Write(res *resources.Resources, labeled []Labeled) error {
	rows := make([][]string, 0, len(labeled))
	for _, l := range labeled {
		rows = append(rows, append(attacker.ToRow(l.Profile), l.Label))
	}
	return res.DB.Write(res.Config.T.Analysis.LabeledTable, Columns, rows)
}

// Read loads the labeled attacker table. A missing label column
// reads as Unknown.
func Read(res *resources.Resources) ([]Labeled, error) {
	table, err := res.DB.Read(res.Config.T.Analysis.LabeledTable)
	if err != nil {
		return nil, err
	}
	return FromTable(table)
}

// FromTable reads labeled profiles out of a table
func FromTable(table *database.Table) ([]Labeled, error) {
	if err := table.Require("src_ip"); err != nil {
		return nil, err
	}
	labeled := make([]Labeled, 0, table.Len())
	for i := 0; i < table.Len(); i++ {
		category := table.String(i, "heuristic_label")
		if category == "" {
			category = Unknown
		}
		labeled = append(labeled, Labeled{
			Profile: attacker.RowProfile(table, i),
			Label:   category,
		})
	}
	return labeled, nil
}
