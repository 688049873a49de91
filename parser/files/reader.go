package files

import (
	"bytes"
	"iter"
	"os"

	pt "github.com/phantomnet/phantomnet/parser/parsetypes"

	jsoniter "github.com/json-iterator/go"
	log "github.com/sirupsen/logrus"
)

// ReadStats summarizes a pass over a set of log files
type ReadStats struct {
	FilesRead      int
	FilesFailed    int
	Lines          int
	MalformedLines int
	Events         int
	// UntimedEvents counts events whose timestamp could not be parsed
	UntimedEvents int
	// TimestampStrategies counts which strategy parsed each timestamp
	TimestampStrategies map[string]int
}

// Reader streams cowrie events out of log files one file at a time
type Reader struct {
	log      *log.Logger
	fileDone func(path string)
	stats    ReadStats
}

// NewReader creates a Reader which logs skipped files to logger
func NewReader(logger *log.Logger) *Reader {
	return &Reader{
		log:   logger,
		stats: ReadStats{TimestampStrategies: make(map[string]int)},
	}
}

// OnFileDone registers a callback run after each file has been consumed,
// whether or not it could be read
func (r *Reader) OnFileDone(callback func(path string)) {
	r.fileDone = callback
}

// Stats returns the counters accumulated so far
func (r *Reader) Stats() ReadStats {
	return r.stats
}

// Events returns a lazy sequence of every valid event in paths. Files are
// opened only as the sequence is consumed. Malformed lines are counted and
// skipped; unreadable files are logged and skipped.
func (r *Reader) Events(paths []string) iter.Seq[*pt.Event] {
	return r.each(paths, r.readFile)
}

// Documents is Events for files holding one JSON document each, either a
// single event object or an array of them, laid out over any number of
// lines. Every array element counts as a line.
func (r *Reader) Documents(paths []string) iter.Seq[*pt.Event] {
	return r.each(paths, r.readDocument)
}

func (r *Reader) each(paths []string, read func(string, func(*pt.Event) bool) bool) iter.Seq[*pt.Event] {
	return func(yield func(*pt.Event) bool) {
		for _, path := range paths {
			cont := read(path, yield)
			if r.fileDone != nil {
				r.fileDone(path)
			}
			if !cont {
				return
			}
		}
	}
}

// readFile yields the events of a single file. It returns false
// when the consumer asked to stop.
func (r *Reader) readFile(path string, yield func(*pt.Event) bool) bool {
	fileHandle, err := os.Open(path)
	if err != nil {
		r.stats.FilesFailed++
		r.log.WithFields(log.Fields{
			"file":  path,
			"error": err.Error(),
		}).Error("Could not open log file")
		return true
	}

	scanner, closer, err := GetFileScanner(fileHandle)
	if err != nil {
		closer()
		r.stats.FilesFailed++
		r.log.WithFields(log.Fields{
			"file":  path,
			"error": err.Error(),
		}).Error("Could not read log file")
		return true
	}
	defer func() {
		if err := closer(); err != nil {
			r.log.WithFields(log.Fields{
				"file":  path,
				"error": err.Error(),
			}).Debug("Error closing log file")
		}
	}()

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		if !r.emit(path, line, yield) {
			r.stats.FilesRead++
			return false
		}
	}

	if err := scanner.Err(); err != nil {
		r.stats.FilesFailed++
		r.log.WithFields(log.Fields{
			"file":  path,
			"error": err.Error(),
		}).Error("Stopped reading log file early")
		return true
	}
	r.stats.FilesRead++
	return true
}

// readDocument yields the events of a file holding a single JSON
// document. It returns false when the consumer asked to stop.
func (r *Reader) readDocument(path string, yield func(*pt.Event) bool) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		r.stats.FilesFailed++
		r.log.WithFields(log.Fields{
			"file":  path,
			"error": err.Error(),
		}).Error("Could not read payload file")
		return true
	}

	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		r.stats.FilesRead++
		return true
	}

	records := []jsoniter.RawMessage{data}
	if data[0] == '[' {
		records = nil
		if err := jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(data, &records); err != nil {
			r.stats.Lines++
			r.stats.MalformedLines++
			r.stats.FilesRead++
			r.log.WithFields(log.Fields{
				"file":  path,
				"error": err.Error(),
			}).Debug("Skipping malformed payload")
			return true
		}
	}

	for _, record := range records {
		if !r.emit(path, record, yield) {
			r.stats.FilesRead++
			return false
		}
	}
	r.stats.FilesRead++
	return true
}

// emit parses one JSON record and hands the event to yield. Malformed
// records are counted and skipped. It returns false when the consumer
// asked to stop.
func (r *Reader) emit(path string, record []byte, yield func(*pt.Event) bool) bool {
	r.stats.Lines++

	event, err := ParseJSONLine(record)
	if err != nil {
		r.stats.MalformedLines++
		r.log.WithFields(log.Fields{
			"file":  path,
			"line":  r.stats.Lines,
			"error": err.Error(),
		}).Debug("Skipping malformed line")
		return true
	}

	r.stats.Events++
	if event.HasTime() {
		r.stats.TimestampStrategies[event.TimestampStrategy]++
	} else {
		r.stats.UntimedEvents++
	}
	return yield(event)
}
