package commands

import (
	"errors"
	"fmt"
	"time"

	"github.com/phantomnet/phantomnet/resources"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli"
)

// stage is one step of the pipeline
type stage struct {
	name string
	run  func(res *resources.Resources) error
}

func init() {
	command := cli.Command{
		Name:  "pipeline",
		Usage: "Run every stage from import to figures",
		Flags: withPathFlags(
			cli.BoolFlag{
				Name:  "ingested",
				Usage: "Import the payloads stored by the ingest server",
			},
			openFlag,
		),
		Action: func(c *cli.Context) error {
			res := initResources(c)
			return exitError(res, runPipeline(res, c.Bool("ingested"), c.Bool("open")))
		},
	}

	bootstrapCommands(command)
}

func pipelineStages(ingested, openReport bool) []stage {
	return []stage{
		{"import", func(res *resources.Resources) error { return runImport(res, ingested) }},
		{"aggregate", runAggregate},
		{"label", runLabel},
		{"features", runFeatures},
		{"score", runScore},
		{"figures", func(res *resources.Resources) error { return runFigures(res, openReport) }},
	}
}

// runPipeline runs the stages in order. The first failing or skipped
// stage stops the run and leaves the tables written so far in place.
func runPipeline(res *resources.Resources, ingested, openReport bool) error {
	start := time.Now()
	stages := pipelineStages(ingested, openReport)

	for n, s := range stages {
		fmt.Printf("[+] Stage %d of %d: %s\n", n+1, len(stages), s.name)
		stageStart := time.Now()

		err := s.run(res)
		var skipped *stageSkipped
		if errors.As(err, &skipped) {
			return err
		}
		if err != nil {
			return fmt.Errorf("%s failed: %w", s.name, err)
		}

		res.Log.WithFields(log.Fields{
			"stage":    s.name,
			"duration": time.Since(stageStart).String(),
		}).Debug("Finished stage")
	}

	fmt.Printf("[+] Pipeline finished in %s\n", time.Since(start).Round(time.Millisecond))
	return nil
}
