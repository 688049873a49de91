package commands

import (
	"fmt"
	"os"

	"github.com/phantomnet/phantomnet/config"
	"github.com/phantomnet/phantomnet/resources"

	"github.com/urfave/cli"
	yaml "gopkg.in/yaml.v2"
)

func init() {
	command := cli.Command{
		Flags: []cli.Flag{
			configFlag,
		},
		Name:   "test-config",
		Usage:  "Check the configuration file for validity",
		Action: testConfiguration,
	}

	bootstrapCommands(command)
}

// testConfiguration prints out the result of parsing the config file
func testConfiguration(c *cli.Context) error {
	// First, print out the config as it was parsed
	conf, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return cli.NewExitError(fmt.Sprintf("Failed to config: %s", err.Error()), -1)
	}

	staticConfig, err := yaml.Marshal(conf.S)
	if err != nil {
		return err
	}

	tableConfig, err := yaml.Marshal(conf.T)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "\n%s\n", string(staticConfig))
	fmt.Fprintf(os.Stdout, "\n%s\n", string(tableConfig))

	// Then print where the pipeline will actually read and write
	fmt.Fprintf(os.Stdout, "\nresolved paths:\n")
	paths := conf.R.Paths
	for _, p := range [][2]string{
		{"raw", paths.RawDir},
		{"sample", paths.SampleFile},
		{"ingest", paths.IngestDir},
		{"processed", paths.ProcessedDir},
		{"figures", paths.FiguresDir},
	} {
		fmt.Fprintf(os.Stdout, "  %s: %s\n", p[0], p[1])
	}

	// Then test initializing external resources like file handles
	resources.InitResources(c.String("config"))

	return nil
}
