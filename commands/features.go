package commands

import (
	"fmt"

	"github.com/phantomnet/phantomnet/database"
	"github.com/phantomnet/phantomnet/pkg/feature"
	"github.com/phantomnet/phantomnet/resources"
	"github.com/urfave/cli"
)

func init() {
	command := cli.Command{
		Name:  "features",
		Usage: "Build the standardized feature matrix from the labeled attackers",
		Flags: withPathFlags(),
		Action: func(c *cli.Context) error {
			res := initResources(c)
			return exitError(res, runFeatures(res))
		},
	}

	bootstrapCommands(command)
}

// runFeatures writes the feature table from the labeled attacker table
func runFeatures(res *resources.Resources) error {
	fmt.Println("\t[-] Building feature matrix ...")

	table, err := res.DB.Read(res.Config.T.Analysis.LabeledTable)
	if database.IsNotExist(err) {
		return skipStage("No labeled attacker table found. Run label first.")
	}
	if err != nil {
		return fmt.Errorf("could not read labeled attacker table: %w", err)
	}
	if table.Len() == 0 {
		return skipStage("The labeled attacker table is empty. Nothing to normalize.")
	}

	m, err := feature.Extract(table)
	if err != nil {
		return err
	}
	m = m.Standardize()
	if err := feature.Write(res, m); err != nil {
		return fmt.Errorf("could not write feature table: %w", err)
	}

	fmt.Printf("\t[-] Wrote %d x %d feature matrix\n", m.Len(), len(m.Columns))
	return nil
}
