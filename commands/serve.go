package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/phantomnet/phantomnet/server"
	"github.com/urfave/cli"
)

func init() {
	command := cli.Command{
		Name:  "serve",
		Usage: "Accept cowrie events over http and store them for import",
		Flags: []cli.Flag{
			configFlag,
			cli.StringFlag{
				Name:  "listen, l",
				Usage: "Listen on `ADDRESS` instead of the configured address",
			},
		},
		Action: func(c *cli.Context) error {
			res := initResources(c)

			srv := server.New(res)
			if addr := c.String("listen"); addr != "" {
				srv.Address = addr
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			fmt.Printf("\t[-] Listening on %s\n", srv.Address)
			return exitError(res, srv.Start(ctx))
		},
	}

	bootstrapCommands(command)
}
