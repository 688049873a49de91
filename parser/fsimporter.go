package parser

import (
	"errors"
	"fmt"
	"time"

	"github.com/phantomnet/phantomnet/config"
	"github.com/phantomnet/phantomnet/parser/files"
	"github.com/phantomnet/phantomnet/pkg/session"
	"github.com/phantomnet/phantomnet/resources"
	"github.com/phantomnet/phantomnet/util"
	log "github.com/sirupsen/logrus"
)

var (
	// ErrNoInput is returned when no cowrie log files could be found
	ErrNoInput = errors.New("no cowrie log files found")

	// ErrNoSessions is returned when the logs held no usable session
	ErrNoSessions = errors.New("no sessions could be reconstructed")
)

type (
	//FSImporter rebuilds the session table from cowrie logs on the file system
	FSImporter struct {
		log      *log.Logger
		config   *config.Config
		sessions session.Repository
	}

	//ImportResult summarizes an import
	ImportResult struct {
		Source   files.FileSource
		Files    []string
		Read     files.ReadStats
		Build    session.Stats
		Filtered int
		Sessions []session.Session
	}
)

//NewFSImporter creates a new file system importer
func NewFSImporter(res *resources.Resources) *FSImporter {
	return &FSImporter{
		log:      res.Log,
		config:   res.Config,
		sessions: session.NewCSVRepository(res),
	}
}

//Sources lists where the importer looks for logs. When ingested is set
//only the payloads stored by the ingest server are read.
func (fs *FSImporter) Sources(ingested bool) []files.FileSource {
	if ingested {
		return []files.FileSource{files.IngestedFileSource(fs.config.R.Paths.IngestDir, fs.log)}
	}
	return files.DefaultFileSources(
		fs.config.R.Paths.RawDir,
		fs.config.R.Paths.SampleFile,
		fs.config.S.Parser.LogFilePatterns,
		fs.log,
	)
}

//Run reads every log file of the first available source, reconstructs the
//sessions and replaces the session table. Nothing is written when no
//session survives.
func (fs *FSImporter) Run(ingested bool) (*ImportResult, error) {
	start := time.Now()

	sourceFilter, err := newFilter(fs.config.S.Filtering)
	if err != nil {
		return nil, err
	}

	logFiles, source, ok := files.SelectFiles(fs.Sources(ingested), fs.log)
	if !ok || len(logFiles) == 0 {
		return nil, ErrNoInput
	}
	fmt.Printf("\t[-] Reading %d log file(s) from %s (%s)\n", len(logFiles), source.Path, source.Name)

	reader := files.NewReader(fs.log)
	bar := util.NewProgressBar("Reading logs", len(logFiles), fs.config.S.UserConfig.ShowProgress)
	reader.OnFileDone(func(string) { bar.Increment() })

	events := reader.Events(logFiles)
	if source.Documents {
		events = reader.Documents(logFiles)
	}
	sessions, buildStats := session.Reconstruct(events, fs.config.S.Parser.ProtocolErrorSignatures)
	bar.Wait()
	sessions, filtered := sourceFilter.filterSessions(sessions)

	result := &ImportResult{
		Source:   source,
		Files:    logFiles,
		Read:     reader.Stats(),
		Build:    buildStats,
		Filtered: filtered,
		Sessions: sessions,
	}

	fs.log.WithFields(log.Fields{
		"source":          source.Name,
		"files_read":      result.Read.FilesRead,
		"files_failed":    result.Read.FilesFailed,
		"lines":           result.Read.Lines,
		"malformed_lines": result.Read.MalformedLines,
		"events":          result.Read.Events,
		"untimed_events":  result.Read.UntimedEvents,
		"timestamps":      result.Read.TimestampStrategies,
		"orphaned_events": result.Build.Orphaned,
		"dropped_no_ip":   result.Build.DroppedNoIP,
		"filtered":        result.Filtered,
		"sessions":        len(sessions),
	}).Info("Finished reading cowrie logs")

	if result.Read.MalformedLines > 0 {
		fmt.Printf("\t[!] Skipped %d malformed line(s)\n", result.Read.MalformedLines)
	}
	if result.Build.DroppedNoIP > 0 {
		fmt.Printf("\t[!] Dropped %d session(s) without a source address\n", result.Build.DroppedNoIP)
	}
	if result.Filtered > 0 {
		fmt.Printf("\t[-] Filtered %d session(s) from excluded sources\n", result.Filtered)
	}

	if len(sessions) == 0 {
		return result, ErrNoSessions
	}

	if err := fs.sessions.Write(sessions); err != nil {
		return result, fmt.Errorf("could not write session table: %w", err)
	}

	fmt.Printf("\t[-] Wrote %d session(s) in %s\n", len(sessions), time.Since(start).Round(time.Millisecond))
	return result, nil
}
