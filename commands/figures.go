package commands

import (
	"fmt"

	"github.com/phantomnet/phantomnet/reporting"
	"github.com/phantomnet/phantomnet/resources"
	"github.com/urfave/cli"
)

var openFlag = cli.BoolFlag{
	Name:  "open, o",
	Usage: "Open the report index in a browser once it is written",
}

func init() {
	command := cli.Command{
		Name:  "figures",
		Usage: "Render the descriptive charts and an html index",
		UsageText: "phantomnet figures [command options]\n\n" +
			"Charts whose table or column is missing are skipped.",
		Flags: withPathFlags(openFlag),
		Action: func(c *cli.Context) error {
			res := initResources(c)
			return exitError(res, runFigures(res, c.Bool("open")))
		},
	}

	bootstrapCommands(command)
}

// runFigures renders the report and optionally opens it
func runFigures(res *resources.Resources, openReport bool) error {
	reporter := reporting.NewReporter(res)
	fmt.Printf("\t[-] Rendering figures into %s ...\n", reporter.OutDir())

	result, err := reporter.Render()
	if err != nil {
		return err
	}
	fmt.Printf("\t[-] Wrote %d figure(s), skipped %d\n", len(result.Written), len(result.Skipped))
	fmt.Printf("\t[-] Report index: %s\n", result.Index)

	if openReport {
		if err := reporter.Open(result); err != nil {
			fmt.Printf("\t[!] Could not open %s: %s\n", result.Index, err.Error())
		}
	}
	return nil
}
