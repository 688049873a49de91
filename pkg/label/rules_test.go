package label

import (
	"io/ioutil"
	"testing"

	"github.com/phantomnet/phantomnet/pkg/attacker"
	"github.com/phantomnet/phantomnet/resources"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLabel(t *testing.T) {
	testCases := []struct {
		profile  attacker.Profile
		category string
		rule     string
		msg      string
	}{
		{attacker.Profile{NumSessions: 1, AvgDuration: 0.5}, Noise, "single-short-session", "one short session is noise"},
		{attacker.Profile{NumSessions: 6, AvgDuration: 5, TotalCommands: 0}, CredentialStuffer, "many-sessions-no-commands", "many sessions without commands"},
		{attacker.Profile{NumSessions: 2, AvgDuration: 30, SessionsWithCommands: 1, TotalCommands: 3}, InteractiveAttacker, "commands-in-long-sessions", "commands in long sessions"},
		{attacker.Profile{NumSessions: 3, AvgDuration: 0.2, TotalCommands: 1, SessionsWithCommands: 1}, Scanner, "repeated-short-sessions", "repeated short sessions"},
		{attacker.Profile{NumSessions: 2, AvgDuration: 5}, Unknown, "", "nothing matches"},
		{attacker.Profile{NumSessions: 1, AvgDuration: 1}, Unknown, "", "noise requires avg_duration strictly below 1"},
		{attacker.Profile{NumSessions: 1, AvgDuration: 20, SessionsWithCommands: 1}, InteractiveAttacker, "commands-in-long-sessions", "a single long interactive session"},
		{attacker.Profile{NumSessions: 6, AvgDuration: 0.2, TotalCommands: 0}, CredentialStuffer, "many-sessions-no-commands", "credential stuffing pre-empts scanning"},
		{attacker.Profile{NumSessions: 0, AvgDuration: 0}, Noise, "single-short-session", "noise pre-empts everything"},
		{attacker.Profile{NumSessions: 5, AvgDuration: 12, TotalCommands: 0, SessionsWithCommands: 0}, CredentialStuffer, "many-sessions-no-commands", "credential stuffing pre-empts interactive"},
		{attacker.Profile{NumSessions: 4, AvgDuration: 12, TotalCommands: 0}, Unknown, "", "long sessions without commands are not interactive"},
	}

	for _, test := range testCases {
		category, rule := Label(test.profile)
		assert.Equal(t, test.category, category, test.msg)
		assert.Equal(t, test.rule, rule, test.msg)
	}
}

func TestLabelAllPreservesOrder(t *testing.T) {
	logger := log.New()
	logger.Out = ioutil.Discard
	profiles := []attacker.Profile{
		{SrcIP: "10.0.0.2", NumSessions: 1},
		{SrcIP: "10.0.0.1", NumSessions: 7},
	}
	labeled := NewLabeler(logger).LabelAll(profiles)
	require.Len(t, labeled, 2)
	assert.Equal(t, "10.0.0.2", labeled[0].SrcIP)
	assert.Equal(t, Noise, labeled[0].Label)
	assert.Equal(t, CredentialStuffer, labeled[1].Label)
	assert.Equal(t, map[string]int{Noise: 1, CredentialStuffer: 1}, Counts(labeled))
}

func TestWriteRead(t *testing.T) {
	res := resources.InitTestResources(t)
	labeled := []Labeled{
		{Profile: attacker.Profile{SrcIP: "10.0.0.1", NumSessions: 3, AvgDuration: 0.5}, Label: Scanner},
	}
	require.NoError(t, Write(res, labeled))
	read, err := Read(res)
	require.NoError(t, err)
	assert.Equal(t, labeled, read)

	table, err := res.DB.Read(res.Config.T.Analysis.LabeledTable)
	require.NoError(t, err)
	assert.Equal(t, "heuristic_label", table.Header[len(table.Header)-1])
}
