package reporting

import (
	"fmt"
	"sort"
	"strings"

	"github.com/phantomnet/phantomnet/database"
	pt "github.com/phantomnet/phantomnet/parser/parsetypes"
	"github.com/phantomnet/phantomnet/util"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// inputs holds whichever tables exist. Absent tables are nil.
type inputs struct {
	sessions *database.Table
	labeled  *database.Table
	scores   *database.Table
}

// skipError explains why a figure could not be drawn from the
// available tables
type skipError struct {
	reason string
}

func (e *skipError) Error() string {
	return e.reason
}

func skip(format string, args ...interface{}) error {
	return &skipError{reason: fmt.Sprintf(format, args...)}
}

// need returns a skip error unless table exists and carries columns
func need(table *database.Table, name string, columns ...string) error {
	if table == nil {
		return skip("table %s not found", name)
	}
	for _, col := range columns {
		if !table.Has(col) {
			return skip("table %s has no %s column", name, col)
		}
	}
	return nil
}

// figure is one chart of the report
type figure struct {
	File   string
	Title  string
	Width  vg.Length
	Height vg.Length
	render func(*inputs) (*plot.Plot, error)
}

// figures lists the charts in report order
var figures = []figure{
	{"fig1_sessions_per_day.png", "Cowrie sessions per day", 10 * vg.Inch, 6 * vg.Inch, sessionsPerDay},
	{"fig2_duration_distribution.png", "Distribution of session durations", 10 * vg.Inch, 6 * vg.Inch, durationDistribution},
	{"fig3_login_success_rate.png", "Overall login success rate", 6 * vg.Inch, 6 * vg.Inch, loginSuccessRate},
	{"fig4_top_ips_by_sessions.png", "Top 10 source IPs by session count", 10 * vg.Inch, 6 * vg.Inch, topIPsBySessions},
	{"fig5_top_client_versions.png", "Top SSH client versions observed", 10 * vg.Inch, 6 * vg.Inch, topClientVersions},
	{"fig6_heuristic_label_breakdown.png", "Attacker types (heuristic labels)", 10 * vg.Inch, 6 * vg.Inch, labelBreakdown},
	{"fig7_anomaly_score_distribution.png", "Anomaly score distribution", 10 * vg.Inch, 6 * vg.Inch, anomalyScoreDistribution},
	{"fig8_top_anomalous_ips.png", "Top 10 most anomalous source IPs", 10 * vg.Inch, 6 * vg.Inch, topAnomalousIPs},
}

const sessionsTable = "sessions"

func sessionsPerDay(in *inputs) (*plot.Plot, error) {
	if err := need(in.sessions, sessionsTable, "start_time"); err != nil {
		return nil, err
	}
	counts := make(map[string]int)
	for i := 0; i < in.sessions.Len(); i++ {
		start, _, ok := pt.ParseTimestampString(in.sessions.String(i, "start_time"))
		if !ok {
			continue
		}
		counts[start.UTC().Format(util.DayFormat)]++
	}
	if len(counts) == 0 {
		return nil, skip("no session has a start time")
	}

	days := util.SortedKeys(counts)
	values := make([]float64, len(days))
	for i, day := range days {
		values[i] = float64(counts[day])
	}
	return barChart(chartSpec{
		title:  "Cowrie sessions per day",
		xLabel: "Day (UTC)",
		yLabel: "Number of sessions",
	}, days, values, false, colorDefault)
}

func durationDistribution(in *inputs) (*plot.Plot, error) {
	if err := need(in.sessions, sessionsTable, "duration_seconds"); err != nil {
		return nil, err
	}
	durations := in.sessions.Column("duration_seconds")
	if len(durations) == 0 {
		return nil, skip("no sessions")
	}

	// clip the long tail so the bulk of the distribution stays readable
	limit := util.Percentile(durations, 100)
	if len(durations) > 10 {
		limit = util.Percentile(durations, 99)
	}
	for i, d := range durations {
		if d > limit {
			durations[i] = limit
		}
	}

	p, _, err := histogram(chartSpec{
		title:  "Distribution of session durations (clipped at 99th percentile)",
		xLabel: "Session duration (seconds)",
		yLabel: "Count",
	}, durations, 30, colorDefault)
	return p, err
}

func loginSuccessRate(in *inputs) (*plot.Plot, error) {
	if err := need(in.sessions, sessionsTable, "login_success"); err != nil {
		return nil, err
	}
	if in.sessions.Len() == 0 {
		return nil, skip("no sessions")
	}
	successes := 0.0
	for i := 0; i < in.sessions.Len(); i++ {
		if in.sessions.Bool(i, "login_success") {
			successes++
		}
	}
	rate := successes / float64(in.sessions.Len())

	p, err := barChart(chartSpec{
		title:  "Overall login success rate (session-level)",
		yLabel: "Rate",
	}, []string{"Login Success Rate"}, []float64{rate}, false, colorSteelBlue)
	if err != nil {
		return nil, err
	}

	labels, err := plotter.NewLabels(plotter.XYLabels{
		XYs:    plotter.XYs{{X: 0, Y: rate + 0.05}},
		Labels: []string{fmt.Sprintf("%.2f%%", rate*100)},
	})
	if err != nil {
		return nil, err
	}
	p.Add(labels)
	p.Y.Min = 0
	p.Y.Max = 1
	return p, nil
}

func topIPsBySessions(in *inputs) (*plot.Plot, error) {
	if err := need(in.sessions, sessionsTable, "src_ip"); err != nil {
		return nil, err
	}
	ips := make([]string, 0, in.sessions.Len())
	for i := 0; i < in.sessions.Len(); i++ {
		ips = append(ips, in.sessions.String(i, "src_ip"))
	}
	pairs := valueCounts(ips)
	if len(pairs) == 0 {
		return nil, skip("no sessions")
	}
	if len(pairs) > 10 {
		pairs = pairs[:10]
	}

	labels, values := splitPairs(pairs, true)
	return barChart(chartSpec{
		title:  "Top 10 source IPs by session count",
		xLabel: "Sessions",
		yLabel: "Source IP",
	}, labels, values, true, colorCoral)
}

func topClientVersions(in *inputs) (*plot.Plot, error) {
	if err := need(in.sessions, sessionsTable, "client_version"); err != nil {
		return nil, err
	}
	versions := make([]string, 0, in.sessions.Len())
	for i := 0; i < in.sessions.Len(); i++ {
		v := strings.TrimSpace(in.sessions.String(i, "client_version"))
		if v == "" {
			v = "UNKNOWN"
		}
		versions = append(versions, v)
	}
	pairs := valueCounts(versions)
	if len(pairs) == 0 {
		return nil, skip("no sessions")
	}
	if len(pairs) > 10 {
		pairs = pairs[:10]
	}

	labels, values := splitPairs(pairs, true)
	return barChart(chartSpec{
		title:  "Top SSH client versions observed",
		xLabel: "Count",
		yLabel: "Client version",
	}, labels, values, true, colorMediumSeaGreen)
}

func labelBreakdown(in *inputs) (*plot.Plot, error) {
	if err := need(in.labeled, "attackers_labeled", "heuristic_label"); err != nil {
		return nil, err
	}
	labels := make([]string, 0, in.labeled.Len())
	for i := 0; i < in.labeled.Len(); i++ {
		l := in.labeled.String(i, "heuristic_label")
		if l == "" {
			l = "unknown"
		}
		labels = append(labels, l)
	}
	pairs := valueCounts(labels)
	if len(pairs) == 0 {
		return nil, skip("no labeled attackers")
	}

	names, values := splitPairs(pairs, false)
	return barChart(chartSpec{
		title:  "Attacker types (heuristic labels)",
		xLabel: "Heuristic label",
		yLabel: "Number of source IPs",
	}, names, values, false, colorPurple)
}

// presentScores returns every parseable anomaly score
func presentScores(table *database.Table) []float64 {
	var scores []float64
	for i := 0; i < table.Len(); i++ {
		if strings.TrimSpace(table.String(i, "anomaly_score")) == "" {
			continue
		}
		scores = append(scores, table.Float(i, "anomaly_score"))
	}
	return scores
}

func anomalyScoreDistribution(in *inputs) (*plot.Plot, error) {
	if err := need(in.scores, "anomaly_scores", "anomaly_score"); err != nil {
		return nil, err
	}
	scores := presentScores(in.scores)
	if len(scores) == 0 {
		return nil, skip("no anomaly scores")
	}

	p, h, err := histogram(chartSpec{
		title:  "Anomaly score distribution (higher = more normal)",
		xLabel: "Isolation forest decision score",
		yLabel: "Count",
	}, scores, 25, colorSkyBlue)
	if err != nil {
		return nil, err
	}
	mean := stat.Mean(scores, nil)
	if err := addMeanLine(p, h, mean, fmt.Sprintf("Mean: %.3f", mean)); err != nil {
		return nil, err
	}
	return p, nil
}

func topAnomalousIPs(in *inputs) (*plot.Plot, error) {
	if err := need(in.scores, "anomaly_scores", "anomaly_score", "src_ip"); err != nil {
		return nil, err
	}
	type scored struct {
		ip    string
		score float64
	}
	var rows []scored
	for i := 0; i < in.scores.Len(); i++ {
		if strings.TrimSpace(in.scores.String(i, "anomaly_score")) == "" {
			continue
		}
		rows = append(rows, scored{in.scores.String(i, "src_ip"), in.scores.Float(i, "anomaly_score")})
	}
	if len(rows) == 0 {
		return nil, skip("no anomaly scores")
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].score < rows[j].score })
	if len(rows) > 10 {
		rows = rows[:10]
	}

	labels := make([]string, len(rows))
	values := make([]float64, len(rows))
	for i, r := range rows {
		labels[i] = r.ip
		values[i] = r.score
	}
	return barChart(chartSpec{
		title:  "Top 10 most anomalous source IPs (isolation forest)",
		xLabel: "Anomaly score (lower = more anomalous)",
		yLabel: "Source IP",
	}, labels, values, true, colorFirebrick)
}
