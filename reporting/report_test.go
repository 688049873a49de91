package reporting

import (
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/phantomnet/phantomnet/database"
	"github.com/phantomnet/phantomnet/pkg/session"
	"github.com/phantomnet/phantomnet/resources"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSessions(t *testing.T, res *resources.Resources, n int) {
	t.Helper()
	base := time.Date(2025, 12, 16, 8, 0, 0, 0, time.UTC)
	var sessions []session.Session
	for i := 0; i < n; i++ {
		start := base.Add(time.Duration(i) * 7 * time.Hour)
		sessions = append(sessions, session.Session{
			ID:              fmt.Sprintf("s%03d", i),
			SrcIP:           fmt.Sprintf("10.0.0.%d", i%4),
			StartTime:       start,
			EndTime:         start.Add(time.Duration(i) * time.Second),
			DurationSeconds: float64(i),
			LoginSuccess:    i%3 == 0,
			ClientVersion:   []string{"", "SSH-2.0-Go", "SSH-2.0-libssh"}[i%3],
		})
	}
	require.NoError(t, session.NewCSVRepository(res).Write(sessions))
}

func TestRenderAllFigures(t *testing.T) {
	res := resources.InitTestResources(t)
	writeSessions(t, res, 20)
	require.NoError(t, res.DB.Write(res.Config.T.Analysis.LabeledTable,
		[]string{"src_ip", "num_sessions", "heuristic_label"},
		[][]string{{"10.0.0.0", "5", "scanner"}, {"10.0.0.1", "5", "scanner"}, {"10.0.0.2", "5", ""}},
	))
	require.NoError(t, res.DB.Write(res.Config.T.Analysis.AnomalyTable,
		[]string{"num_sessions", "src_ip", "anomaly_score", "is_anomaly"},
		[][]string{{"1", "10.0.0.0", "-0.12", "true"}, {"0", "10.0.0.1", "0.05", "false"}, {"0", "10.0.0.2", "0.08", "false"}},
	))

	result, err := NewReporter(res).Render()
	require.NoError(t, err)
	assert.Len(t, result.Written, len(figures))
	assert.Empty(t, result.Skipped)

	for _, fig := range figures {
		info, err := os.Stat(filepath.Join(res.Config.R.Paths.FiguresDir, fig.File))
		require.NoError(t, err, fig.File)
		assert.NotZero(t, info.Size(), fig.File)
	}

	index, err := ioutil.ReadFile(result.Index)
	require.NoError(t, err)
	assert.Contains(t, string(index), "fig8_top_anomalous_ips.png")
	assert.FileExists(t, filepath.Join(res.Config.R.Paths.FiguresDir, "style.css"))
}

func TestRenderSkipsMissingInputs(t *testing.T) {
	res := resources.InitTestResources(t)
	writeSessions(t, res, 5)

	result, err := NewReporter(res).Render()
	require.NoError(t, err)
	assert.Len(t, result.Written, 5, "only the session figures can be drawn")

	var skipped []string
	for _, s := range result.Skipped {
		skipped = append(skipped, s.File)
	}
	assert.Equal(t, []string{
		"fig6_heuristic_label_breakdown.png",
		"fig7_anomaly_score_distribution.png",
		"fig8_top_anomalous_ips.png",
	}, skipped)

	index, err := ioutil.ReadFile(result.Index)
	require.NoError(t, err)
	assert.Contains(t, string(index), "Skipped figures")
}

func TestRenderSkipsMissingColumns(t *testing.T) {
	res := resources.InitTestResources(t)
	require.NoError(t, res.DB.Write(res.Config.T.Structure.SessionTable,
		[]string{"session_id", "src_ip"},
		[][]string{{"a", "10.0.0.1"}, {"b", "10.0.0.1"}},
	))

	result, err := NewReporter(res).Render()
	require.NoError(t, err)
	require.Len(t, result.Written, 1)
	assert.True(t, strings.HasSuffix(result.Written[0], "fig4_top_ips_by_sessions.png"))
}

func TestRenderWithoutTables(t *testing.T) {
	res := resources.InitTestResources(t)
	result, err := NewReporter(res).Render()
	require.NoError(t, err)
	assert.Empty(t, result.Written)
	assert.Len(t, result.Skipped, len(figures))
	assert.FileExists(t, result.Index)
}

func TestValueCounts(t *testing.T) {
	pairs := valueCounts([]string{"b", "a", "c", "a", "b", "a"})
	assert.Equal(t, []countPair{{"a", 3}, {"b", 2}, {"c", 1}}, pairs)

	labels, values := splitPairs(pairs, true)
	assert.Equal(t, []string{"c", "b", "a"}, labels, "reversed so the largest bar is drawn last")
	assert.Equal(t, []float64{1, 2, 3}, values)
}

func TestNeed(t *testing.T) {
	table := database.NewTable("sessions.csv", []string{"src_ip"}, nil)
	assert.NoError(t, need(table, "sessions", "src_ip"))
	assert.EqualError(t, need(table, "sessions", "start_time"), "table sessions has no start_time column")
	assert.EqualError(t, need(nil, "sessions"), "table sessions not found")
}
