package commands

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/phantomnet/phantomnet/database"
	"github.com/phantomnet/phantomnet/pkg/anomaly"
	"github.com/urfave/cli"
)

var anomalyHeaders = []string{"Source", "Score", "Anomaly"}

func init() {
	command := cli.Command{
		Name:  "show-anomalies",
		Usage: "Print the anomaly scores, most anomalous first",
		Flags: withPathFlags(
			humanFlag,
			limitFlag,
			noLimitFlag,
			delimFlag,
			cli.BoolFlag{
				Name:  "flagged-only, f",
				Usage: "Only print the attackers flagged as anomalous",
			},
		),
		Action: func(c *cli.Context) error {
			res := initResources(c)

			results, err := anomaly.Read(res)
			if database.IsNotExist(err) {
				return exitError(res, skipStage("No anomaly table found. Run score first."))
			}
			if err != nil {
				return exitError(res, err)
			}

			if c.Bool("flagged-only") {
				var kept []anomaly.Result
				for _, r := range results {
					if r.IsAnomaly {
						kept = append(kept, r)
					}
				}
				results = kept
			}

			if len(results) == 0 {
				return cli.NewExitError("No results were found", -1)
			}
			sortResults(results)
			results = results[:rowLimit(len(results), c.Int("limit"), c.Bool("no-limit"))]

			if c.Bool("human-readable") {
				showAnomaliesHuman(os.Stdout, results)
				return nil
			}
			showAnomalies(os.Stdout, results, c.String("delimiter"))
			return nil
		},
	}
	bootstrapCommands(command)
}

// sortResults orders by score, lowest first, then address
func sortResults(results []anomaly.Result) {
	sort.SliceStable(results, func(a, b int) bool {
		if results[a].Score != results[b].Score {
			return results[a].Score < results[b].Score
		}
		return results[a].IP < results[b].IP
	})
}

func anomalyRow(r anomaly.Result) []string {
	return []string{r.IP, f(r.Score), boolString(r.IsAnomaly)}
}

func showAnomalies(w io.Writer, results []anomaly.Result, delim string) {
	fmt.Fprintln(w, strings.Join(anomalyHeaders, delim))
	for _, r := range results {
		fmt.Fprintln(w, strings.Join(anomalyRow(r), delim))
	}
}

func showAnomaliesHuman(w io.Writer, results []anomaly.Result) {
	table := tablewriter.NewWriter(w)
	table.SetHeader(anomalyHeaders)
	for _, r := range results {
		table.Append(anomalyRow(r))
	}
	table.Render()
}
