package commands

import (
	"fmt"

	"github.com/phantomnet/phantomnet/database"
	"github.com/phantomnet/phantomnet/pkg/attacker"
	"github.com/phantomnet/phantomnet/pkg/label"
	"github.com/phantomnet/phantomnet/resources"
	"github.com/phantomnet/phantomnet/util"
	"github.com/urfave/cli"
)

func init() {
	command := cli.Command{
		Name:  "label",
		Usage: "Apply the heuristic labels to the attacker profiles",
		Flags: withPathFlags(),
		Action: func(c *cli.Context) error {
			res := initResources(c)
			return exitError(res, runLabel(res))
		},
	}

	bootstrapCommands(command)
}

// runLabel writes the labeled attacker table from the attacker table
func runLabel(res *resources.Resources) error {
	fmt.Println("\t[-] Labeling attacker profiles ...")

	profiles, err := attacker.NewCSVRepository(res).Read()
	if database.IsNotExist(err) {
		return skipStage("No attacker table found. Run aggregate first.")
	}
	if err != nil {
		return fmt.Errorf("could not read attacker table: %w", err)
	}
	if len(profiles) == 0 {
		return skipStage("The attacker table is empty. Nothing to label.")
	}

	labeled := label.NewLabeler(res.Log).LabelAll(profiles)
	if err := label.Write(res, labeled); err != nil {
		return fmt.Errorf("could not write labeled attacker table: %w", err)
	}

	counts := label.Counts(labeled)
	for _, category := range util.SortedKeys(counts) {
		fmt.Printf("\t[-] %s: %d\n", category, counts[category])
	}
	return nil
}
