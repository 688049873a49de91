package commands

import (
	"errors"
	"fmt"

	"github.com/phantomnet/phantomnet/parser"
	"github.com/phantomnet/phantomnet/resources"
	"github.com/urfave/cli"
)

func init() {
	importCommand := cli.Command{
		Name:  "import",
		Usage: "Rebuild the session table from cowrie logs",
		UsageText: "phantomnet import [command options]\n\n" +
			"Logs are read from the snapshot directory, or from the sample file when\n" +
			"the snapshot directory does not exist.",
		Flags: withPathFlags(
			cli.BoolFlag{
				Name:  "ingested",
				Usage: "Read the payloads stored by the ingest server instead",
			},
		),
		Action: func(c *cli.Context) error {
			res := initResources(c)
			return exitError(res, runImport(res, c.Bool("ingested")))
		},
	}

	bootstrapCommands(importCommand)
}

// runImport reads the cowrie logs and writes the session table
func runImport(res *resources.Resources, ingested bool) error {
	fmt.Println("\t[-] Importing cowrie logs ...")
	_, err := parser.NewFSImporter(res).Run(ingested)
	switch {
	case errors.Is(err, parser.ErrNoInput):
		return skipStage("No cowrie logs found. Nothing to import.")
	case errors.Is(err, parser.ErrNoSessions):
		return skipStage("No sessions with a source address were found. The session table was not written.")
	}
	return err
}
