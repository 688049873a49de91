package database

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/phantomnet/phantomnet/config"
	log "github.com/sirupsen/logrus"
)

// DB is the flat file table store shared by every pipeline stage. Each
// table is one CSV file inside the processed directory.
type DB struct {
	conf *config.Config
	log  *log.Logger
}

// NewDB constructs a new DB struct. The processed directory is read from
// the running config on every call so command line overrides apply.
func NewDB(conf *config.Config, log *log.Logger) *DB {
	return &DB{
		conf: conf,
		log:  log,
	}
}

// Dir returns the directory holding the tables
func (d *DB) Dir() string {
	return d.conf.R.Paths.ProcessedDir
}

// Path returns the file backing the named table
func (d *DB) Path(table string) string {
	return filepath.Join(d.Dir(), table)
}

// Exists reports whether the named table has been written
func (d *DB) Exists(table string) bool {
	_, err := os.Stat(d.Path(table))
	return err == nil
}

// Read loads the named table. A table which has not been written yet
// yields an error wrapping os.ErrNotExist.
func (d *DB) Read(table string) (*Table, error) {
	path := d.Path(table)
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open table %s: %w", table, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("could not read table %s: %w", table, err)
	}
	if len(records) == 0 {
		return NewTable(table, nil, nil), nil
	}

	d.log.WithFields(log.Fields{
		"table": table,
		"rows":  len(records) - 1,
	}).Debug("Read table")
	return NewTable(table, records[0], records[1:]), nil
}

// Write replaces the named table with the given header and rows. The rows
// are written to a temporary file in the same directory which is renamed
// over the table so readers never observe a partial table.
func (d *DB) Write(table string, header []string, rows [][]string) error {
	if err := os.MkdirAll(d.Dir(), 0755); err != nil {
		return fmt.Errorf("could not create %s: %w", d.Dir(), err)
	}

	tmp, err := ioutil.TempFile(d.Dir(), "."+table+".*.tmp")
	if err != nil {
		return fmt.Errorf("could not create table %s: %w", table, err)
	}
	tmpName := tmp.Name()

	writer := csv.NewWriter(tmp)
	err = writer.Write(header)
	if err == nil {
		err = writer.WriteAll(rows)
	}
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err == nil {
		err = os.Chmod(tmpName, 0644)
	}
	if err == nil {
		err = os.Rename(tmpName, d.Path(table))
	}
	if err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("could not write table %s: %w", table, err)
	}

	d.log.WithFields(log.Fields{
		"table": table,
		"path":  d.Path(table),
		"rows":  len(rows),
	}).Info("Wrote table")
	return nil
}

// IsNotExist reports whether err was caused by reading a table
// which has not been written
func IsNotExist(err error) bool {
	return errors.Is(err, os.ErrNotExist)
}
