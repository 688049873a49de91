package resources

import (
	"os"
	"path/filepath"
	"time"

	"github.com/phantomnet/phantomnet/config"
	"github.com/phantomnet/phantomnet/util"
	"github.com/rifflock/lfshook"
	log "github.com/sirupsen/logrus"
)

// logLevels maps the LogLevel config value onto logrus levels. Values
// outside the table log errors only.
var logLevels = []log.Level{
	log.ErrorLevel,
	log.WarnLevel,
	log.InfoLevel,
	log.DebugLevel,
}

// initLogger creates the logger for logging to stderr
func initLogger(logConfig *config.LogStaticCfg) *log.Logger {
	level := log.ErrorLevel
	if logConfig.LogLevel >= 0 && logConfig.LogLevel < len(logLevels) {
		level = logLevels[logConfig.LogLevel]
	}

	return &log.Logger{
		Out:       os.Stderr,
		Formatter: &log.TextFormatter{FullTimestamp: true},
		Hooks:     make(log.LevelHooks),
		Level:     level,
	}
}

// addFileLogger writes each level to its own file in a directory named
// after the start of this run, so runs never share log files
func addFileLogger(logger *log.Logger, logPath string) error {
	runDir := filepath.Join(logPath, time.Now().Format(util.TimeFormat))
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return err
	}

	paths := lfshook.PathMap{}
	for _, level := range log.AllLevels {
		paths[level] = filepath.Join(runDir, level.String()+".log")
	}
	logger.Hooks.Add(lfshook.NewHook(paths, nil))
	return nil
}
