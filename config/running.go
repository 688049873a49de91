package config

import (
	"path/filepath"

	"github.com/blang/semver"
)

type (
	//RunningCfg holds configuration options that are parsed at run time
	RunningCfg struct {
		Paths   PathsRunningCfg
		Version semver.Version
	}

	//PathsRunningCfg holds the resolved locations used by the pipeline.
	//Command line flags override these after the config is loaded.
	PathsRunningCfg struct {
		RawDir       string
		SampleFile   string
		IngestDir    string
		ProcessedDir string
		FiguresDir   string
	}
)

// initRunningConfig uses data in the static config initialize
// the passed in running config
func initRunningConfig(static *StaticCfg, running *RunningCfg) error {
	var err error

	root := static.Paths.ProjectRoot
	running.Paths = PathsRunningCfg{
		RawDir:       resolvePath(root, static.Paths.RawDir),
		SampleFile:   resolvePath(root, static.Paths.SampleFile),
		IngestDir:    resolvePath(root, static.Paths.IngestDir),
		ProcessedDir: resolvePath(root, static.Paths.ProcessedDir),
		FiguresDir:   resolvePath(root, static.Paths.FiguresDir),
	}

	running.Version, err = semver.ParseTolerant(static.Version)
	return err
}

// resolvePath anchors a relative path at the project root
func resolvePath(root, path string) string {
	if filepath.IsAbs(path) || root == "" {
		return filepath.Clean(path)
	}
	return filepath.Join(root, path)
}
