package resources

import (
	"io/ioutil"
	"testing"

	"github.com/phantomnet/phantomnet/config"
	"github.com/phantomnet/phantomnet/database"
)

//InitTestResources creates a resource bundle rooted at a fresh temporary
//directory. Logs are discarded and progress bars are hidden.
func InitTestResources(t *testing.T) *Resources {
	t.Helper()

	conf, err := config.LoadTestingConfig(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	log := initLogger(&conf.S.Log)
	log.Out = ioutil.Discard

	return &Resources{
		Config: conf,
		Log:    log,
		DB:     database.NewDB(conf, log),
	}
}
