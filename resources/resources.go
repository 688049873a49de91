package resources

import (
	"fmt"
	"os"

	"github.com/phantomnet/phantomnet/config"
	"github.com/phantomnet/phantomnet/database"
	log "github.com/sirupsen/logrus"
)

type (
	// Resources provides a data structure for passing system Resources
	Resources struct {
		Config *config.Config
		Log    *log.Logger
		DB     *database.DB
	}
)

// InitResources grabs the configuration file and intitializes the configuration data
// returning a *Resources object which has all of the necessary configuration information
func InitResources(userConfig string) *Resources {
	conf, err := config.LoadConfig(userConfig)
	if err != nil {
		fmt.Fprintf(os.Stdout, "Failed to config: %s\n", err.Error())
		os.Exit(-1)
	}

	// Fire up the logging system
	log := initLogger(&conf.S.Log)

	if conf.S.Log.LogToFile {
		if err := addFileLogger(log, conf.S.Log.LogPath); err != nil {
			fmt.Printf("Failed to set up file logging: %s\n", err.Error())
			os.Exit(-1)
		}
	}

	log.WithFields(map[string]interface{}{
		"config":  conf.S.ConfigFile,
		"version": conf.S.ExactVersion,
	}).Debug("Loaded configuration")

	//bundle up the system resources
	return &Resources{
		Config: conf,
		Log:    log,
		DB:     database.NewDB(conf, log),
	}
}
