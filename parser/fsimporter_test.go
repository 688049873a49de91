package parser

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/phantomnet/phantomnet/resources"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const snapshot = `{"eventid":"cowrie.session.connect","session":"s1","src_ip":"10.0.0.1","timestamp":"2024-03-09T10:00:00.000000Z"}
{"eventid":"cowrie.client.version","session":"s1","version":"SSH-2.0-Go","timestamp":"2024-03-09T10:00:01.000000Z"}
{"eventid":"cowrie.login.failed","session":"s1","username":"root","password":"root","timestamp":"2024-03-09T10:00:02.000000Z"}
{"eventid":"cowrie.login.success","session":"s1","username":"root","password":"admin","timestamp":"2024-03-09T10:00:03.000000Z"}
{"eventid":"cowrie.command.input","session":"s1","input":"uname -a","timestamp":"2024-03-09T10:00:05.500000Z"}
not json at all
{"eventid":"cowrie.session.connect","session":"s2","src_ip":"10.0.0.2","timestamp":"2024-03-09 11:00:00"}
{"eventid":"cowrie.direct-tcpip.data","session":"s3","timestamp":"2024-03-09T12:00:00Z"}
`

func writeSnapshot(t *testing.T, res *resources.Resources, name, contents string) {
	t.Helper()
	dir := res.Config.R.Paths.RawDir
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(contents), 0644))
}

func TestImportNoInput(t *testing.T) {
	res := resources.InitTestResources(t)

	_, err := NewFSImporter(res).Run(false)
	assert.ErrorIs(t, err, ErrNoInput)
	assert.False(t, res.DB.Exists(res.Config.T.Structure.SessionTable))
}

func TestImportBuildsSessionTable(t *testing.T) {
	res := resources.InitTestResources(t)
	writeSnapshot(t, res, "cowrie.json", snapshot)

	result, err := NewFSImporter(res).Run(false)
	require.NoError(t, err)

	assert.Equal(t, "snapshots", result.Source.Name)
	assert.Equal(t, 1, result.Read.MalformedLines)
	assert.Equal(t, 1, result.Build.DroppedNoIP)
	require.Len(t, result.Sessions, 2)

	s1 := result.Sessions[0]
	assert.Equal(t, "s1", s1.ID)
	assert.Equal(t, "10.0.0.1", s1.SrcIP)
	assert.Equal(t, 5.5, s1.DurationSeconds)
	assert.Equal(t, int64(2), s1.NumLoginAttempts)
	assert.True(t, s1.LoginSuccess)
	assert.Equal(t, int64(1), s1.NumCommands)
	assert.Equal(t, "SSH-2.0-Go", s1.ClientVersion)

	table, err := res.DB.Read(res.Config.T.Structure.SessionTable)
	require.NoError(t, err)
	assert.Equal(t, 2, table.Len())
	assert.Equal(t, "2024-03-09T11:00:00Z", table.String(1, "start_time"))
}

func TestImportIsIdempotent(t *testing.T) {
	res := resources.InitTestResources(t)
	writeSnapshot(t, res, "cowrie.json", snapshot)
	path := res.DB.Path(res.Config.T.Structure.SessionTable)

	_, err := NewFSImporter(res).Run(false)
	require.NoError(t, err)
	first, err := os.ReadFile(path)
	require.NoError(t, err)

	_, err = NewFSImporter(res).Run(false)
	require.NoError(t, err)
	second, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
}

func TestImportNoSessionsLeavesTableAlone(t *testing.T) {
	res := resources.InitTestResources(t)
	writeSnapshot(t, res, "cowrie.json", `{"eventid":"cowrie.log.closed","session":"x"}`+"\n")

	result, err := NewFSImporter(res).Run(false)
	assert.ErrorIs(t, err, ErrNoSessions)
	require.NotNil(t, result)
	assert.Equal(t, 1, result.Build.DroppedNoIP)
	assert.False(t, res.DB.Exists(res.Config.T.Structure.SessionTable))
}

func TestImportIngestedPayloads(t *testing.T) {
	res := resources.InitTestResources(t)
	dir := res.Config.R.Paths.IngestDir
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(
		filepath.Join(dir, "20240309-140507-000001-aaaaaaaa.json"),
		[]byte(`{"eventid":"cowrie.session.connect","session":"p1","src_ip":"192.0.2.7","timestamp":1710000000}`),
		0644,
	))

	result, err := NewFSImporter(res).Run(true)
	require.NoError(t, err)
	assert.Equal(t, "ingested", result.Source.Name)
	require.Len(t, result.Sessions, 1)
	assert.Equal(t, "192.0.2.7", result.Sessions[0].SrcIP)
	assert.Equal(t, 1, result.Read.TimestampStrategies["unix-epoch"])
}

func TestImportIngestedBatchPayload(t *testing.T) {
	res := resources.InitTestResources(t)
	dir := res.Config.R.Paths.IngestDir
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(
		filepath.Join(dir, "20240309-140507-000001-aaaaaaaa.json"),
		[]byte(`[
  {"eventid": "cowrie.session.connect", "session": "p1", "src_ip": "192.0.2.7", "timestamp": 1710000000},
  {"eventid": "cowrie.session.connect", "session": "p2", "src_ip": "192.0.2.8", "timestamp": 1710000100}
]`),
		0644,
	))
	require.NoError(t, os.WriteFile(
		filepath.Join(dir, "20240309-140508-000002-bbbbbbbb.json"),
		[]byte(`{
  "eventid": "cowrie.session.connect",
  "session": "p3",
  "src_ip": "192.0.2.9",
  "timestamp": 1710000200
}`),
		0644,
	))

	result, err := NewFSImporter(res).Run(true)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Read.MalformedLines)
	assert.Equal(t, 3, result.Read.Events)
	require.Len(t, result.Sessions, 3)
	var ips []string
	for _, s := range result.Sessions {
		ips = append(ips, s.SrcIP)
	}
	assert.ElementsMatch(t, []string{"192.0.2.7", "192.0.2.8", "192.0.2.9"}, ips)
}

func TestImportFiltersExcludedSources(t *testing.T) {
	res := resources.InitTestResources(t)
	res.Config.S.Filtering.NeverInclude = []string{"10.0.0.0/8"}
	res.Config.S.Filtering.AlwaysInclude = []string{"10.0.0.1"}
	writeSnapshot(t, res, "cowrie.json", snapshot)

	result, err := NewFSImporter(res).Run(false)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Filtered)
	require.Len(t, result.Sessions, 1)
	assert.Equal(t, "s1", result.Sessions[0].ID)
}
