package commands

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/phantomnet/phantomnet/pkg/anomaly"
	"github.com/phantomnet/phantomnet/pkg/attacker"
	"github.com/phantomnet/phantomnet/pkg/label"
	"github.com/phantomnet/phantomnet/pkg/session"
	"github.com/phantomnet/phantomnet/resources"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli"
)

// honeypotLog builds a snapshot with a mix of behaviours: one long
// interactive session, a credential stuffer and several one-shot scanners
func honeypotLog() string {
	var b strings.Builder
	base := time.Date(2024, 3, 9, 10, 0, 0, 0, time.UTC)
	event := func(id, sid, ip string, at time.Time, extra string) {
		fmt.Fprintf(&b, `{"eventid":%q,"session":%q,"src_ip":%q,"timestamp":%q%s}`+"\n",
			id, sid, ip, at.Format(time.RFC3339Nano), extra)
	}

	event("cowrie.session.connect", "int-1", "198.51.100.1", base, "")
	event("cowrie.client.version", "int-1", "198.51.100.1", base.Add(time.Second), `,"version":"SSH-2.0-OpenSSH_8.9"`)
	event("cowrie.login.success", "int-1", "198.51.100.1", base.Add(2*time.Second), `,"username":"root","password":"toor"`)
	for n := 0; n < 4; n++ {
		event("cowrie.command.input", "int-1", "198.51.100.1", base.Add(time.Duration(10+n*10)*time.Second), `,"input":"ls"`)
	}

	for n := 0; n < 6; n++ {
		id := fmt.Sprintf("cs-%d", n)
		at := base.Add(time.Duration(n) * time.Hour)
		event("cowrie.session.connect", id, "203.0.113.9", at, "")
		event("cowrie.client.kex", id, "203.0.113.9", at.Add(100*time.Millisecond), `,"hassh":"ec7378c1a92f5a8dde7e8b7a1ddf33d1"`)
		event("cowrie.login.failed", id, "203.0.113.9", at.Add(2*time.Second), `,"username":"admin","password":"admin"`)
	}

	for n := 0; n < 5; n++ {
		ip := fmt.Sprintf("192.0.2.%d", n+10)
		id := fmt.Sprintf("scan-%d", n)
		at := base.Add(time.Duration(n) * 24 * time.Hour)
		event("cowrie.session.connect", id, ip, at, "")
		event("cowrie.client.version", id, ip, at.Add(200*time.Millisecond), `,"version":"SSH-2.0-Go","message":"Bad protocol version identification"`)
	}
	return b.String()
}

func writeSnapshot(t *testing.T, res *resources.Resources) {
	t.Helper()
	dir := res.Config.R.Paths.RawDir
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cowrie.json"), []byte(honeypotLog()), 0644))
}

func TestPipeline(t *testing.T) {
	res := resources.InitTestResources(t)
	writeSnapshot(t, res)

	require.NoError(t, runPipeline(res, false, false))

	sessions, err := session.NewCSVRepository(res).Read()
	require.NoError(t, err)
	assert.Len(t, sessions, 12)

	profiles, err := attacker.NewCSVRepository(res).Read()
	require.NoError(t, err)
	assert.Len(t, profiles, 7)

	labeled, err := label.Read(res)
	require.NoError(t, err)
	byIP := map[string]string{}
	for _, l := range labeled {
		byIP[l.SrcIP] = l.Label
	}
	assert.Equal(t, label.InteractiveAttacker, byIP["198.51.100.1"])
	assert.Equal(t, label.CredentialStuffer, byIP["203.0.113.9"])
	assert.Equal(t, label.Noise, byIP["192.0.2.10"])

	results, err := anomaly.Read(res)
	require.NoError(t, err)
	assert.Len(t, results, 7)

	for _, fig := range []string{"fig1_sessions_per_day.png", "fig8_top_anomalous_ips.png", "index.html"} {
		_, err := os.Stat(filepath.Join(res.Config.R.Paths.FiguresDir, fig))
		assert.NoError(t, err, fig)
	}
}

func TestPipelineIsRepeatable(t *testing.T) {
	res := resources.InitTestResources(t)
	writeSnapshot(t, res)

	tables := []string{
		res.Config.T.Structure.SessionTable,
		res.Config.T.Structure.AttackerTable,
		res.Config.T.Analysis.LabeledTable,
		res.Config.T.Analysis.FeatureTable,
		res.Config.T.Analysis.AnomalyTable,
	}
	read := func() map[string]string {
		out := map[string]string{}
		for _, table := range tables {
			b, err := os.ReadFile(res.DB.Path(table))
			require.NoError(t, err)
			out[table] = string(b)
		}
		return out
	}

	require.NoError(t, runPipeline(res, false, false))
	first := read()
	require.NoError(t, runPipeline(res, false, false))
	assert.Equal(t, first, read())
}

func TestPipelineStopsWithoutInput(t *testing.T) {
	res := resources.InitTestResources(t)

	err := runPipeline(res, false, false)
	var skipped *stageSkipped
	require.True(t, errors.As(err, &skipped))
	assert.Nil(t, exitError(res, err), "a skipped stage exits cleanly")
	assert.False(t, res.DB.Exists(res.Config.T.Structure.SessionTable))
}

func TestStagesSkipWithoutUpstreamTable(t *testing.T) {
	res := resources.InitTestResources(t)

	for name, run := range map[string]func(*resources.Resources) error{
		"aggregate": runAggregate,
		"label":     runLabel,
		"features":  runFeatures,
		"score":     runScore,
	} {
		var skipped *stageSkipped
		assert.True(t, errors.As(run(res), &skipped), name)
	}
}

func TestMissingColumnFailsStage(t *testing.T) {
	res := resources.InitTestResources(t)
	require.NoError(t, res.DB.Write(res.Config.T.Structure.SessionTable,
		[]string{"session_id", "duration_seconds"},
		[][]string{{"a", "1"}},
	))

	err := runAggregate(res)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required column src_ip")

	exit := exitError(res, err)
	coder, ok := exit.(cli.ExitCoder)
	require.True(t, ok)
	assert.NotEqual(t, 0, coder.ExitCode())
}

func TestPipelineSingleAttacker(t *testing.T) {
	res := resources.InitTestResources(t)
	base := time.Date(2024, 3, 9, 10, 0, 0, 0, time.UTC)
	var b strings.Builder
	for n, sid := range []string{"solo-1", "solo-2"} {
		at := base.Add(time.Duration(n) * time.Hour)
		fmt.Fprintf(&b, `{"eventid":"cowrie.session.connect","session":%q,"src_ip":"198.51.100.1","timestamp":%q}`+"\n",
			sid, at.Format(time.RFC3339Nano))
		fmt.Fprintf(&b, `{"eventid":"cowrie.login.failed","session":%q,"src_ip":"198.51.100.1","timestamp":%q,"username":"root","password":"root"}`+"\n",
			sid, at.Add(2*time.Second).Format(time.RFC3339Nano))
	}
	dir := res.Config.R.Paths.RawDir
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cowrie.json"), []byte(b.String()), 0644))

	require.NoError(t, runPipeline(res, false, false))

	results, err := anomaly.Read(res)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "198.51.100.1", results[0].IP)
	assert.False(t, results[0].IsAnomaly)

	for _, fig := range []string{"fig1_sessions_per_day.png", "fig8_top_anomalous_ips.png", "index.html"} {
		_, err := os.Stat(filepath.Join(res.Config.R.Paths.FiguresDir, fig))
		assert.NoError(t, err, fig)
	}
}

func TestRowLimit(t *testing.T) {
	assert.Equal(t, 3, rowLimit(10, 3, false))
	assert.Equal(t, 10, rowLimit(10, 3, true))
	assert.Equal(t, 2, rowLimit(2, 3, false))
	assert.Equal(t, 10, rowLimit(10, 0, false))
}

func TestShowAnomaliesOrder(t *testing.T) {
	results := []anomaly.Result{
		{IP: "192.0.2.2", Score: 0.05},
		{IP: "192.0.2.3", Score: -0.1, IsAnomaly: true},
		{IP: "192.0.2.1", Score: 0.05},
	}
	sortResults(results)

	var buf bytes.Buffer
	showAnomalies(&buf, results, "|")
	assert.Equal(t,
		"Source|Score|Anomaly\n"+
			"192.0.2.3|-0.1|true\n"+
			"192.0.2.1|0.05|false\n"+
			"192.0.2.2|0.05|false\n",
		buf.String())
}

func TestShowAttackersFallsBackToUnlabeled(t *testing.T) {
	res := resources.InitTestResources(t)
	require.NoError(t, attacker.NewCSVRepository(res).Write([]attacker.Profile{
		{SrcIP: "192.0.2.1", NumSessions: 1},
		{SrcIP: "192.0.2.2", NumSessions: 4},
	}))

	data, err := getAttackers(res)
	require.NoError(t, err)
	sortAttackers(data)
	require.Len(t, data, 2)
	assert.Equal(t, "192.0.2.2", data[0].SrcIP)
	assert.Empty(t, data[0].Label)

	var buf bytes.Buffer
	showAttackersHuman(&buf, data)
	assert.Contains(t, buf.String(), "192.0.2.2")
}

func TestShowSessions(t *testing.T) {
	start := time.Date(2024, 3, 9, 10, 0, 0, 0, time.UTC)
	var buf bytes.Buffer
	showSessions(&buf, []session.Session{{
		ID:              "a1",
		SrcIP:           "192.0.2.1",
		StartTime:       start,
		EndTime:         start.Add(1500 * time.Millisecond),
		DurationSeconds: 1.5,
		LoginSuccess:    true,
	}}, ",")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "a1,192.0.2.1,2024-03-09T10:00:00Z,2024-03-09T10:00:01Z,1.5,0,0,true,,,0", lines[1])
}
