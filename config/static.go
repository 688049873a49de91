package config

import (
	"path/filepath"
	"reflect"

	yaml "gopkg.in/yaml.v2"
)

type (
	//StaticCfg is the container for other static config sections
	StaticCfg struct {
		Paths        PathsStaticCfg     `yaml:"Paths"`
		Log          LogStaticCfg       `yaml:"LogConfig"`
		UserConfig   UserCfgStaticCfg   `yaml:"UserConfig"`
		Parser       ParserStaticCfg    `yaml:"Parser"`
		Filtering    FilteringStaticCfg `yaml:"Filtering"`
		Anomaly      AnomalyStaticCfg   `yaml:"Anomaly"`
		Ingest       IngestStaticCfg    `yaml:"Ingest"`
		ConfigFile   string             `yaml:"-"`
		Version      string             `yaml:"-"`
		ExactVersion string             `yaml:"-"`
	}

	//PathsStaticCfg locates the pipeline's inputs and outputs. Relative
	//paths are resolved against ProjectRoot.
	PathsStaticCfg struct {
		ProjectRoot  string `yaml:"ProjectRoot" default:"."`
		RawDir       string `yaml:"RawDir" default:"data/raw/cowrie_snapshots"`
		SampleFile   string `yaml:"SampleFile" default:"data/raw/cowrie_sample.json"`
		IngestDir    string `yaml:"IngestDir" default:"data/raw"`
		ProcessedDir string `yaml:"ProcessedDir" default:"data/processed"`
		FiguresDir   string `yaml:"FiguresDir" default:"figures"`
	}

	//LogStaticCfg contains the configuration for logging
	LogStaticCfg struct {
		LogLevel  int    `yaml:"LogLevel" default:"2"`
		LogPath   string `yaml:"LogPath" default:"logs"`
		LogToFile bool   `yaml:"LogToFile" default:"false"`
	}

	//UserCfgStaticCfg contains options for the terminal user interface
	UserCfgStaticCfg struct {
		ShowProgress bool `yaml:"ShowProgress" default:"true"`
	}

	//ParserStaticCfg controls how cowrie event logs are found and folded
	ParserStaticCfg struct {
		LogFilePatterns         []string `yaml:"LogFilePatterns" default:"[\"cowrie.json*\", \"cowrie_*.json\"]"`
		ProtocolErrorSignatures []string `yaml:"ProtocolErrorSignatures" default:"[\"Bad protocol version\"]"`
	}

	//FilteringStaticCfg controls which source addresses are imported.
	//Entries are CIDR ranges or single addresses.
	FilteringStaticCfg struct {
		AlwaysInclude []string `yaml:"AlwaysInclude"`
		NeverInclude  []string `yaml:"NeverInclude"`
	}

	//AnomalyStaticCfg holds the isolation forest parameters
	AnomalyStaticCfg struct {
		Trees         int     `yaml:"Trees" default:"200"`
		SampleSize    int     `yaml:"SampleSize" default:"256"`
		Contamination float64 `yaml:"Contamination" default:"0.15"`
		Seed          int64   `yaml:"Seed" default:"42"`
	}

	//IngestStaticCfg controls the http collector
	IngestStaticCfg struct {
		ListenAddress string `yaml:"ListenAddress" default:"127.0.0.1:8000"`
		Route         string `yaml:"Route" default:"/ingest"`
		MaxBodyBytes  int64  `yaml:"MaxBodyBytes" default:"10485760"`
	}
)

// parseStaticConfig deserializes the yaml config in cfgFile into config,
// expanding environment variables and cleaning paths
func parseStaticConfig(cfgFile []byte, config *StaticCfg) error {
	err := yaml.Unmarshal(cfgFile, config)
	if err != nil {
		return err
	}

	// expand env variables, config is a pointer
	// so we have to call elem on the reflect value
	expandConfig(reflect.ValueOf(config).Elem())

	// clean all filepaths
	config.Paths.ProjectRoot = filepath.Clean(config.Paths.ProjectRoot)
	config.Paths.RawDir = filepath.Clean(config.Paths.RawDir)
	config.Paths.SampleFile = filepath.Clean(config.Paths.SampleFile)
	config.Paths.IngestDir = filepath.Clean(config.Paths.IngestDir)
	config.Paths.ProcessedDir = filepath.Clean(config.Paths.ProcessedDir)
	config.Paths.FiguresDir = filepath.Clean(config.Paths.FiguresDir)
	config.Log.LogPath = filepath.Clean(config.Log.LogPath)

	return nil
}
