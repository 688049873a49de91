package commands

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/phantomnet/phantomnet/database"
	"github.com/phantomnet/phantomnet/pkg/attacker"
	"github.com/phantomnet/phantomnet/pkg/label"
	"github.com/phantomnet/phantomnet/resources"
	"github.com/urfave/cli"
)

var attackerHeaders = []string{
	"Source", "Sessions", "Avg Duration", "Std Duration", "Commands",
	"Sessions With Commands", "Login Success Rate", "Client Versions",
	"HASSHes", "Protocol Error Rate", "Label",
}

func init() {
	command := cli.Command{
		Name:  "show-attackers",
		Usage: "Print the attacker profiles, most active first",
		UsageText: "phantomnet show-attackers [command options]\n\n" +
			"The labeled table is printed when it exists, otherwise the unlabeled one.",
		Flags: withPathFlags(
			humanFlag,
			limitFlag,
			noLimitFlag,
			delimFlag,
			cli.StringFlag{
				Name:  "label",
				Usage: "Only print attackers labeled `LABEL`",
			},
		),
		Action: func(c *cli.Context) error {
			res := initResources(c)

			data, err := getAttackers(res)
			if database.IsNotExist(err) {
				return exitError(res, skipStage("No attacker table found. Run aggregate first."))
			}
			if err != nil {
				return exitError(res, err)
			}

			if want := c.String("label"); want != "" {
				var kept []label.Labeled
				for _, l := range data {
					if l.Label == want {
						kept = append(kept, l)
					}
				}
				data = kept
			}

			if len(data) == 0 {
				return cli.NewExitError("No results were found", -1)
			}
			sortAttackers(data)
			data = data[:rowLimit(len(data), c.Int("limit"), c.Bool("no-limit"))]

			if c.Bool("human-readable") {
				showAttackersHuman(os.Stdout, data)
				return nil
			}
			showAttackers(os.Stdout, data, c.String("delimiter"))
			return nil
		},
	}
	bootstrapCommands(command)
}

// getAttackers reads the labeled table, falling back to the unlabeled
// attacker table with empty labels
func getAttackers(res *resources.Resources) ([]label.Labeled, error) {
	labeled, err := label.Read(res)
	if err == nil || !database.IsNotExist(err) {
		return labeled, err
	}

	profiles, err := attacker.NewCSVRepository(res).Read()
	if err != nil {
		return nil, err
	}
	labeled = make([]label.Labeled, 0, len(profiles))
	for _, p := range profiles {
		labeled = append(labeled, label.Labeled{Profile: p})
	}
	return labeled, nil
}

// sortAttackers orders by session count, then address
func sortAttackers(data []label.Labeled) {
	sort.SliceStable(data, func(a, b int) bool {
		if data[a].NumSessions != data[b].NumSessions {
			return data[a].NumSessions > data[b].NumSessions
		}
		return data[a].SrcIP < data[b].SrcIP
	})
}

func attackerRow(l label.Labeled) []string {
	return []string{
		l.SrcIP,
		i(l.NumSessions),
		f(l.AvgDuration),
		f(l.StdDuration),
		i(l.TotalCommands),
		i(l.SessionsWithCommands),
		f(l.LoginSuccessRate),
		i(l.UniqueClientVersions),
		i(l.UniqueHassh),
		f(l.ProtocolErrorRate),
		l.Label,
	}
}

func showAttackers(w io.Writer, data []label.Labeled, delim string) {
	fmt.Fprintln(w, strings.Join(attackerHeaders, delim))
	for _, l := range data {
		fmt.Fprintln(w, strings.Join(attackerRow(l), delim))
	}
}

func showAttackersHuman(w io.Writer, data []label.Labeled) {
	table := tablewriter.NewWriter(w)
	table.SetHeader(attackerHeaders)
	for _, l := range data {
		table.Append(attackerRow(l))
	}
	table.Render()
}
