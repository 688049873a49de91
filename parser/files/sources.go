package files

import (
	"path/filepath"
	"sort"

	"github.com/phantomnet/phantomnet/util"
	log "github.com/sirupsen/logrus"
)

// FileSource is one place cowrie logs may be discovered. Available
// reports whether the source exists at all; Gather lists its log files.
// Documents marks files holding one JSON document each rather than one
// event per line.
type FileSource struct {
	Name      string
	Path      string
	Available func() bool
	Gather    func() []string
	Documents bool
}

// DefaultFileSources returns the sources searched for cowrie logs, in
// order: the snapshot directory, then the bundled sample file
func DefaultFileSources(rawDir, sampleFile string, patterns []string, logger *log.Logger) []FileSource {
	return []FileSource{
		{
			Name:      "snapshots",
			Path:      rawDir,
			Available: func() bool { return util.IsDir(rawDir) },
			Gather:    func() []string { return GatherLogFiles(rawDir, patterns, logger) },
		},
		{
			Name:      "sample",
			Path:      sampleFile,
			Available: func() bool { return util.Exists(sampleFile) && !util.IsDir(sampleFile) },
			Gather:    func() []string { return []string{sampleFile} },
		},
	}
}

// SelectFiles returns the log files of the first available source along
// with that source. The search stops at the first available source even
// when it holds no log files. ok is false when no source is available.
func SelectFiles(sources []FileSource, logger *log.Logger) (files []string, source FileSource, ok bool) {
	for _, src := range sources {
		if !src.Available() {
			logger.WithFields(log.Fields{
				"source": src.Name,
				"path":   src.Path,
			}).Debug("Log source not available")
			continue
		}
		files = src.Gather()
		logger.WithFields(log.Fields{
			"source": src.Name,
			"path":   src.Path,
			"files":  len(files),
		}).Info("Selected log source")
		return files, src, true
	}
	return nil, FileSource{}, false
}

// IngestedFileSource returns the payload files stored by the ingest
// server, which live directly under dir
func IngestedFileSource(dir string, logger *log.Logger) FileSource {
	return FileSource{
		Name:      "ingested",
		Path:      dir,
		Documents: true,
		Available: func() bool { return util.IsDir(dir) },
		Gather: func() []string {
			matches, err := filepath.Glob(filepath.Join(dir, "*.json"))
			if err != nil {
				logger.WithFields(log.Fields{
					"path":  dir,
					"error": err.Error(),
				}).Error("Could not list ingested payloads")
				return nil
			}
			sort.Strings(matches)
			return matches
		},
	}
}
