package config

import (
	"github.com/creasty/defaults"
)

const testConfig = `
LogConfig:
    LogLevel: 3
    LogToFile: false
UserConfig:
    ShowProgress: false
Anomaly:
    Trees: 100
    SampleSize: 256
    Contamination: 0.15
    Seed: 42
`

// LoadTestingConfig loads the hard coded testing config with every
// pipeline path anchored at projectRoot
func LoadTestingConfig(projectRoot string) (*Config, error) {
	config := &Config{}

	// Initialize table config to the default values
	if err := defaults.Set(&config.T); err != nil {
		return nil, err
	}

	// Initialize static config to the default values
	if err := defaults.Set(&config.S); err != nil {
		return nil, err
	}

	// Deserialize the yaml file contents into the static config
	if err := parseStaticConfig([]byte(testConfig), &config.S); err != nil {
		return nil, err
	}

	config.S.Paths.ProjectRoot = projectRoot
	config.S.Version = "v0.0.0+testing"
	config.S.ExactVersion = "v0.0.0+testing"

	// Use the static config to initialize the running config
	if err := initRunningConfig(&config.S, &config.R); err != nil {
		return nil, err
	}

	return config, nil
}
