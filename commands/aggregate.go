package commands

import (
	"fmt"

	"github.com/phantomnet/phantomnet/database"
	"github.com/phantomnet/phantomnet/pkg/attacker"
	"github.com/phantomnet/phantomnet/pkg/session"
	"github.com/phantomnet/phantomnet/resources"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli"
)

func init() {
	command := cli.Command{
		Name:  "aggregate",
		Usage: "Roll the session table up into one profile per source address",
		Flags: withPathFlags(),
		Action: func(c *cli.Context) error {
			res := initResources(c)
			return exitError(res, runAggregate(res))
		},
	}

	bootstrapCommands(command)
}

// runAggregate writes the attacker table from the session table
func runAggregate(res *resources.Resources) error {
	fmt.Println("\t[-] Aggregating sessions by source address ...")

	sessions, err := session.NewCSVRepository(res).Read()
	if database.IsNotExist(err) {
		return skipStage("No session table found. Run import first.")
	}
	if err != nil {
		return fmt.Errorf("could not read session table: %w", err)
	}
	if len(sessions) == 0 {
		return skipStage("The session table is empty. Nothing to aggregate.")
	}

	profiles := attacker.Aggregate(sessions)
	if err := attacker.NewCSVRepository(res).Write(profiles); err != nil {
		return fmt.Errorf("could not write attacker table: %w", err)
	}

	res.Log.WithFields(log.Fields{
		"sessions":  len(sessions),
		"attackers": len(profiles),
	}).Info("Aggregated sessions")
	fmt.Printf("\t[-] Wrote %d attacker profile(s)\n", len(profiles))
	return nil
}
