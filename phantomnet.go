package main

import (
	"fmt"
	"os"

	"github.com/phantomnet/phantomnet/commands"
	"github.com/phantomnet/phantomnet/config"
	"github.com/urfave/cli"
)

// Entry point of phantomnet
func main() {
	if err := config.LoadEnvFile(".env"); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}

	app := cli.NewApp()
	app.Name = "phantomnet"
	app.Usage = "Turn cowrie honeypot logs into attacker profiles, labels, and anomaly scores."

	// Change the version string with updates so that a quick help command will
	// let the testers know what version of phantomnet they're on
	app.Version = config.Version

	// Define commands used with this application
	app.Commands = commands.Commands()

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}
