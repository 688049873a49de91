package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/phantomnet/phantomnet/database"
	"github.com/phantomnet/phantomnet/pkg/session"
	"github.com/urfave/cli"
)

var sessionHeaders = []string{
	"Session", "Source", "Start", "End", "Duration", "Commands",
	"Login Attempts", "Login Success", "Client Version", "HASSH", "Protocol Errors",
}

func init() {
	command := cli.Command{
		Name:  "show-sessions",
		Usage: "Print the reconstructed sessions",
		Flags: withPathFlags(
			humanFlag,
			limitFlag,
			noLimitFlag,
			delimFlag,
			cli.StringFlag{
				Name:  "ip",
				Usage: "Only print sessions from `SRC_IP`",
			},
		),
		Action: func(c *cli.Context) error {
			res := initResources(c)

			sessions, err := session.NewCSVRepository(res).Read()
			if database.IsNotExist(err) {
				return exitError(res, skipStage("No session table found. Run import first."))
			}
			if err != nil {
				return exitError(res, err)
			}

			if ip := c.String("ip"); ip != "" {
				var kept []session.Session
				for _, s := range sessions {
					if s.SrcIP == ip {
						kept = append(kept, s)
					}
				}
				sessions = kept
			}

			if len(sessions) == 0 {
				return cli.NewExitError("No results were found", -1)
			}
			sessions = sessions[:rowLimit(len(sessions), c.Int("limit"), c.Bool("no-limit"))]

			if c.Bool("human-readable") {
				showSessionsHuman(os.Stdout, sessions)
				return nil
			}
			showSessions(os.Stdout, sessions, c.String("delimiter"))
			return nil
		},
	}
	bootstrapCommands(command)
}

func sessionRow(s session.Session) []string {
	return []string{
		s.ID,
		s.SrcIP,
		timeString(s.StartTime),
		timeString(s.EndTime),
		f(s.DurationSeconds),
		i(s.NumCommands),
		i(s.NumLoginAttempts),
		boolString(s.LoginSuccess),
		s.ClientVersion,
		s.Hassh,
		i(s.ProtocolErrors),
	}
}

func showSessions(w io.Writer, sessions []session.Session, delim string) {
	// Print the headers and analytic values, separated by a delimiter
	fmt.Fprintln(w, strings.Join(sessionHeaders, delim))
	for _, s := range sessions {
		fmt.Fprintln(w, strings.Join(sessionRow(s), delim))
	}
}

func showSessionsHuman(w io.Writer, sessions []session.Session) {
	table := tablewriter.NewWriter(w)
	table.SetHeader(sessionHeaders)
	for _, s := range sessions {
		table.Append(sessionRow(s))
	}
	table.Render()
}
