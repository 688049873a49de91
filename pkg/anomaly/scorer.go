package anomaly

import (
	"fmt"
	"math"
	"strconv"

	"github.com/hed1ad/goguardml/pkg/detectors/iforest"
	"github.com/phantomnet/phantomnet/config"
	"github.com/phantomnet/phantomnet/database"
	"github.com/phantomnet/phantomnet/pkg/feature"
	"github.com/phantomnet/phantomnet/resources"
	"github.com/phantomnet/phantomnet/util"
)

// Result is the anomaly score of one source address. Lower scores are
// more anomalous; IsAnomaly marks scores inside the contamination fraction.
type Result struct {
	IP        string
	Features  []float64
	Score     float64
	IsAnomaly bool
}

// Score fits an isolation forest to the standardized feature matrix and
// scores every row of it. The score is the distance below the forest's
// contamination threshold, so the most isolated rows come out negative.
// A lone row cannot be isolated from anything and scores 0.
func Score(m *feature.Matrix, conf config.AnomalyStaticCfg) ([]Result, error) {
	forest := iforest.New(
		iforest.WithTrees(conf.Trees),
		iforest.WithSampleSize(conf.SampleSize),
		iforest.WithContamination(conf.Contamination),
		iforest.WithSeed(conf.Seed),
	)
	if err := forest.Fit(m.Rows); err != nil {
		return nil, fmt.Errorf("could not fit anomaly model: %w", err)
	}
	predicted, err := forest.Predict(m.Rows)
	if err != nil {
		return nil, fmt.Errorf("could not score anomaly model: %w", err)
	}

	threshold := forest.Threshold()
	results := make([]Result, m.Len())
	for i := range results {
		score := threshold - predicted[i]
		if math.IsNaN(score) {
			score = 0
		}
		results[i] = Result{
			IP:        m.IPs[i],
			Features:  m.Rows[i],
			Score:     score,
			IsAnomaly: score < 0,
		}
	}
	return results, nil
}

// Write replaces the anomaly score table. columns names the feature values
// carried by each result.
func Write(res *resources.Resources, columns []string, results []Result) error {
	header := append(append([]string{}, columns...), "src_ip", "anomaly_score", "is_anomaly")
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		row := make([]string, 0, len(header))
		for _, v := range r.Features {
			row = append(row, util.FormatFloat(v))
		}
		row = append(row, r.IP, util.FormatFloat(r.Score), strconv.FormatBool(r.IsAnomaly))
		rows = append(rows, row)
	}
	return res.DB.Write(res.Config.T.Analysis.AnomalyTable, header, rows)
}

// Read loads the anomaly score table
func Read(res *resources.Resources) ([]Result, error) {
	table, err := res.DB.Read(res.Config.T.Analysis.AnomalyTable)
	if err != nil {
		return nil, err
	}
	return FromTable(table)
}

// FromTable reads results out of an anomaly score table. A missing
// is_anomaly column is derived from the score.
func FromTable(table *database.Table) ([]Result, error) {
	if err := table.Require("src_ip", "anomaly_score"); err != nil {
		return nil, err
	}
	var featureCols []string
	for _, col := range table.Header {
		switch col {
		case "src_ip", "anomaly_score", "is_anomaly":
		default:
			featureCols = append(featureCols, col)
		}
	}

	results := make([]Result, table.Len())
	for i := range results {
		features := make([]float64, len(featureCols))
		for j, col := range featureCols {
			features[j] = table.Float(i, col)
		}
		score := table.Float(i, "anomaly_score")
		isAnomaly := score < 0
		if table.Has("is_anomaly") {
			isAnomaly = table.Bool(i, "is_anomaly")
		}
		results[i] = Result{
			IP:        table.String(i, "src_ip"),
			Features:  features,
			Score:     score,
			IsAnomaly: isAnomaly,
		}
	}
	return results, nil
}
