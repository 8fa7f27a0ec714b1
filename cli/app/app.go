// Package app builds the vkv command line application.
package app

import (
	"fmt"
	"os"
	"runtime"

	"github.com/urfave/cli"
	"github.com/vkv-dev/vkv/cli/db"
	"github.com/vkv-dev/vkv/cli/server"
	"github.com/vkv-dev/vkv/pkg/config"
)

func versionPrinter(c *cli.Context) {
	_, _ = fmt.Fprintf(c.App.Writer, "vkv\nVersion: %s\nGoVersion: %s\n",
		config.Version,
		runtime.Version(),
	)
}

// New creates a vkv instance of [cli.App] with all commands included.
func New() *cli.App {
	cli.VersionPrinter = versionPrinter
	ctl := cli.NewApp()
	ctl.Name = "vkv"
	ctl.Version = config.Version
	ctl.Usage = "Versioned key-value store"
	ctl.ErrWriter = os.Stdout

	ctl.Commands = append(ctl.Commands, server.NewCommands()...)
	ctl.Commands = append(ctl.Commands, db.NewCommands()...)
	return ctl
}
