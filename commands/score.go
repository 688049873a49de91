package commands

import (
	"fmt"

	"github.com/phantomnet/phantomnet/database"
	"github.com/phantomnet/phantomnet/pkg/anomaly"
	"github.com/phantomnet/phantomnet/pkg/feature"
	"github.com/phantomnet/phantomnet/resources"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli"
)

func init() {
	command := cli.Command{
		Name:  "score",
		Usage: "Score the feature matrix with an isolation forest",
		Flags: withPathFlags(),
		Action: func(c *cli.Context) error {
			res := initResources(c)
			return exitError(res, runScore(res))
		},
	}

	bootstrapCommands(command)
}

// runScore writes the anomaly score table from the feature table
func runScore(res *resources.Resources) error {
	fmt.Println("\t[-] Scoring attackers ...")

	m, err := feature.Read(res)
	if database.IsNotExist(err) {
		return skipStage("No feature table found. Run features first.")
	}
	if err != nil {
		return fmt.Errorf("could not read feature table: %w", err)
	}
	if m.Len() == 0 {
		return skipStage("The feature table is empty. Nothing to score.")
	}

	conf := res.Config.S.Anomaly
	results, err := anomaly.Score(m, conf)
	if err != nil {
		return err
	}
	if err := anomaly.Write(res, m.Columns, results); err != nil {
		return fmt.Errorf("could not write anomaly table: %w", err)
	}

	flagged := 0
	for _, r := range results {
		if r.IsAnomaly {
			flagged++
		}
	}
	res.Log.WithFields(log.Fields{
		"attackers":     len(results),
		"anomalies":     flagged,
		"trees":         conf.Trees,
		"sample_size":   conf.SampleSize,
		"contamination": conf.Contamination,
		"seed":          conf.Seed,
	}).Info("Scored attackers")
	fmt.Printf("\t[-] Flagged %d of %d attacker(s) as anomalous\n", flagged, len(results))
	return nil
}
