package files

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	pt "github.com/phantomnet/phantomnet/parser/parsetypes"

	jsoniter "github.com/json-iterator/go"
	log "github.com/sirupsen/logrus"
)

// GatherLogFiles walks root recursively collecting cowrie JSON logs whose
// base name matches one of patterns. The result is sorted and free of
// duplicates. Unreadable subdirectories are logged and skipped.
func GatherLogFiles(root string, patterns []string, logger *log.Logger) []string {
	seen := make(map[string]struct{})

	walkErr := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			logger.WithFields(log.Fields{
				"error": err.Error(),
				"path":  path,
			}).Error("Error when reading directory")
			if entry != nil && entry.IsDir() && path != root {
				return filepath.SkipDir
			}
			return nil
		}
		if entry.IsDir() || !entry.Type().IsRegular() {
			return nil
		}
		if isLogFile(entry.Name(), patterns) {
			seen[path] = struct{}{}
		}
		return nil
	})
	if walkErr != nil {
		logger.WithFields(log.Fields{
			"error": walkErr.Error(),
			"path":  root,
		}).Error("Error when walking directory")
	}

	toReturn := make([]string, 0, len(seen))
	for path := range seen {
		toReturn = append(toReturn, path)
	}
	sort.Strings(toReturn)
	return toReturn
}

// isLogFile reports whether a base name looks like a cowrie JSON log,
// including rotated and gzip compressed copies
func isLogFile(name string, patterns []string) bool {
	if name == ".gitignore" {
		return false
	}
	matched := false
	for _, pattern := range patterns {
		if ok, _ := filepath.Match(pattern, name); ok {
			matched = true
			break
		}
		if ok, _ := filepath.Match(pattern, strings.TrimSuffix(name, ".gz")); ok {
			matched = true
			break
		}
	}
	return matched && strings.Contains(name, ".json")
}

// GetFileScanner returns a buffered line scanner for a cowrie log file, a function to close the
// underlying stream and any associated processors, as well as any error that may occur while
// creating the scanner
func GetFileScanner(fileHandle *os.File) (scanner *bufio.Scanner, closer func() error, err error) {
	// by default just close out the underlying file handle
	closer = fileHandle.Close

	if strings.HasSuffix(fileHandle.Name(), ".gz") {
		var gzipReader io.Reader
		gzipReader, closer, err = newGzipReader(fileHandle)
		if err != nil {
			return nil, closer, err
		}
		scanner = bufio.NewScanner(gzipReader)
	} else {
		scanner = bufio.NewScanner(fileHandle)
	}

	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return scanner, closer, nil
}

//newGzipReader returns an un-gzipped byte stream given a gzip compressed byte stream.
//This method tries to use the system's pigz or gzip implementation before relying on
//Golang's gzip package. Returns stream to read from, a function to close the underlying
//stream, and any err that may occur when opening the stream.
func newGzipReader(fileHandle io.ReadCloser) (reader io.Reader, closer func() error, err error) {
	// by default just close out the underlying file handle
	// works for built in gzip library and error cases
	closer = fileHandle.Close

	var gzipPath string
	if path, err := exec.LookPath("pigz"); err == nil {
		gzipPath = path
	} else if path, err := exec.LookPath("gzip"); err == nil {
		gzipPath = path
	} else {
		reader, err = gzip.NewReader(fileHandle)
		return reader, closer, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	gzipCommand := exec.CommandContext(ctx, gzipPath, "-d", "-c")
	gzipCommand.Stdin = fileHandle

	pipeR, err := gzipCommand.StdoutPipe()
	if err != nil {
		cancel()
		return reader, fileHandle.Close, err
	}

	var cmdStdErr bytes.Buffer
	gzipCommand.Stderr = &cmdStdErr

	if err := gzipCommand.Start(); err != nil {
		cancel()
		return reader, fileHandle.Close, err
	}

	// update the closer to kill the subprocess in addition to closing the file descriptor
	closer = func() error {
		// kill the subprocess, any errors will come out on the read side or during Wait
		cancel()
		errFile := fileHandle.Close()
		errProc := gzipCommand.Wait()

		// add StdErr to the process error if the command returned a nonzero code
		if errProc != nil && cmdStdErr.Len() > 0 {
			errProc = fmt.Errorf("%s: %s", errProc.Error(), cmdStdErr.String())
		}
		if errProc != nil && errFile != nil {
			return fmt.Errorf("%s; %s", errProc.Error(), errFile.Error())
		}
		if errProc != nil {
			return errProc
		}
		return errFile
	}

	return pipeR, closer, nil
}

// ParseJSONLine decodes a single cowrie JSON log line and parses its timestamp
func ParseJSONLine(line []byte) (*pt.Event, error) {
	event := new(pt.Event)
	if err := jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(line, event); err != nil {
		return nil, err
	}
	event.Normalize()
	return event, nil
}
