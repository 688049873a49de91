package config

import (
	"errors"
	"fmt"
	"io/ioutil"
	"os"
	"os/user"
	"path/filepath"
	"reflect"

	"github.com/creasty/defaults"
	"github.com/joho/godotenv"
)

// Version is filled at compile time with the git version of phantomnet
var Version = "v0.0.0"

// ExactVersion is filled at compile time with the git version of phantomnet
// including the commit hash
var ExactVersion = "v0.0.0-dev"

type (
	//Config holds the configuration for the running system
	Config struct {
		R RunningCfg
		S StaticCfg
		T TableCfg
	}
)

// LoadEnvFile exports the variables of a dotenv file so the config file
// may reference them. Variables already set in the environment win. A
// missing file is not an error.
func LoadEnvFile(path string) error {
	err := godotenv.Load(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("could not load %s: %w", path, err)
	}
	return nil
}

// defaultConfigPaths lists the config files tried, in order, when no
// config file is named explicitly
func defaultConfigPaths() []string {
	var paths []string
	if u, err := user.Current(); err != nil {
		fmt.Fprintf(os.Stderr, "Could not get user info: %s\n", err.Error())
	} else {
		paths = append(paths, filepath.Join(u.HomeDir, ".phantomnet", "config.yaml"))
	}
	return append(paths, "/etc/phantomnet/config.yaml")
}

// LoadConfig initializes a Config struct with values read
// from the config file at userConfig. If userConfig is empty the
// per user and system wide config files are tried in turn, falling back
// to the built in defaults when neither exists.
func LoadConfig(userConfig string) (*Config, error) {
	config := &Config{}

	// Initialize table config to the default values
	if err := defaults.Set(&config.T); err != nil {
		return nil, err
	}

	// Initialize static config to the default values
	if err := defaults.Set(&config.S); err != nil {
		return nil, err
	}

	cfgPath, err := findConfigFile(userConfig)
	if err != nil {
		return nil, err
	}

	if cfgPath != "" {
		// Read the contents from the config file
		contents, err := ioutil.ReadFile(cfgPath)
		if err != nil {
			return nil, err
		}

		// Deserialize the yaml file contents into the static config
		if err := parseStaticConfig(contents, &config.S); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", cfgPath, err)
		}
	}
	config.S.ConfigFile = cfgPath

	// grab the version constants set by the build process
	config.S.Version = Version
	config.S.ExactVersion = ExactVersion

	// Use the static config to initialize the running config
	if err := initRunningConfig(&config.S, &config.R); err != nil {
		return nil, err
	}

	return config, nil
}

// findConfigFile returns the first config file which exists. An explicitly
// requested file must exist. An empty result means no config file was found.
func findConfigFile(userConfig string) (string, error) {
	if userConfig != "" {
		if _, err := os.Stat(userConfig); err != nil {
			return "", fmt.Errorf("could not open config file %s: %w", userConfig, err)
		}
		return userConfig, nil
	}

	for _, candidate := range defaultConfigPaths() {
		_, err := os.Stat(candidate)
		if err == nil {
			return candidate, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("could not open config file %s: %w", candidate, err)
		}
	}
	return "", nil
}

// expandConfig expands environment variables in config strings
func expandConfig(reflected reflect.Value) {
	for i := 0; i < reflected.NumField(); i++ {
		f := reflected.Field(i)
		if !f.CanSet() {
			continue
		}
		// process sub configs
		if f.Kind() == reflect.Struct {
			expandConfig(f)
		} else if f.Kind() == reflect.String {
			f.SetString(os.ExpandEnv(f.String()))
		} else if f.Kind() == reflect.Slice && f.Type().Elem().Kind() == reflect.String {
			strs := f.Interface().([]string)
			for i, str := range strs {
				strs[i] = os.ExpandEnv(str)
			}
			f.Set(reflect.ValueOf(strs))
		}
	}
}
