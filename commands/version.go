package commands

import (
	"fmt"

	"github.com/blang/semver"
	"github.com/phantomnet/phantomnet/config"
	"github.com/urfave/cli"
)

func init() {
	command := cli.Command{
		Name:  "version",
		Usage: "Show phantomnet version",
		Action: func(c *cli.Context) error {
			v, err := semver.ParseTolerant(config.Version)
			if err != nil {
				return cli.NewExitError(fmt.Sprintf("Invalid version %q: %s", config.Version, err.Error()), -1)
			}
			fmt.Printf("%s version %s\n", c.App.Name, v.String())
			if config.ExactVersion != config.Version {
				fmt.Printf("build %s\n", config.ExactVersion)
			}
			return nil
		},
	}

	bootstrapCommands(command)
}
