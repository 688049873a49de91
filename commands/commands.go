package commands

import (
	"errors"
	"fmt"

	"github.com/phantomnet/phantomnet/resources"
	"github.com/urfave/cli"
)

var (
	allCommands []cli.Command

	configFlag = cli.StringFlag{
		Name:  "config, c",
		Usage: "Use a given `CONFIG_FILE` when running this command",
		Value: "",
	}

	rawDirFlag = cli.StringFlag{
		Name:  "raw-dir",
		Usage: "Read cowrie snapshots from `DIR` instead of the configured directory",
	}

	processedDirFlag = cli.StringFlag{
		Name:  "processed-dir",
		Usage: "Read and write tables in `DIR` instead of the configured directory",
	}

	figuresDirFlag = cli.StringFlag{
		Name:  "figures-dir",
		Usage: "Write figures to `DIR` instead of the configured directory",
	}

	humanFlag = cli.BoolFlag{
		Name:  "human-readable, H",
		Usage: "Print a report instead of csv",
	}

	delimFlag = cli.StringFlag{
		Name:  "delimiter, d",
		Usage: "Change the delimitor used for csv output",
		Value: ",",
	}

	limitFlag = cli.IntFlag{
		Name:  "limit",
		Usage: "Print the first `LIMIT` rows",
		Value: 1000,
	}

	noLimitFlag = cli.BoolFlag{
		Name:  "no-limit",
		Usage: "Print all rows",
	}

	pathFlags = []cli.Flag{configFlag, rawDirFlag, processedDirFlag, figuresDirFlag}
)

// stageSkipped marks a stage which found nothing to work on. It is
// reported to the user but does not fail the command.
type stageSkipped struct {
	reason string
}

func (e *stageSkipped) Error() string {
	return e.reason
}

func skipStage(format string, args ...interface{}) error {
	return &stageSkipped{reason: fmt.Sprintf(format, args...)}
}

// Commands provides all of the defined commands to the front end
func Commands() []cli.Command {
	return allCommands
}

// bootstrapCommands simply adds a given command to the allCommands array
func bootstrapCommands(commands ...cli.Command) {
	allCommands = append(allCommands, commands...)
}

// withPathFlags adds the config and directory override flags to flags
func withPathFlags(flags ...cli.Flag) []cli.Flag {
	return append(append([]cli.Flag{}, pathFlags...), flags...)
}

// initResources loads the configuration named by the config flag and
// applies the directory overrides given on the command line
func initResources(c *cli.Context) *resources.Resources {
	res := resources.InitResources(c.String("config"))
	applyPathOverrides(c, res)
	return res
}

func applyPathOverrides(c *cli.Context, res *resources.Resources) {
	if dir := c.String("raw-dir"); dir != "" {
		res.Config.R.Paths.RawDir = dir
	}
	if dir := c.String("processed-dir"); dir != "" {
		res.Config.R.Paths.ProcessedDir = dir
	}
	if dir := c.String("figures-dir"); dir != "" {
		res.Config.R.Paths.FiguresDir = dir
	}
}

// exitError converts the result of a stage into the command's exit. A
// skipped stage prints a warning and exits cleanly.
func exitError(res *resources.Resources, err error) error {
	if err == nil {
		return nil
	}
	var skipped *stageSkipped
	if errors.As(err, &skipped) {
		fmt.Printf("\t[!] %s\n", skipped.reason)
		return nil
	}
	res.Log.Error(err)
	return cli.NewExitError(err.Error(), -1)
}
