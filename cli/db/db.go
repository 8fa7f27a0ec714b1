// Package db implements CLI commands for direct database manipulation.
package db

import (
	"fmt"

	"github.com/urfave/cli"
	"github.com/vkv-dev/vkv/cli/options"
	"github.com/vkv-dev/vkv/pkg/mvcc"
)

// NewCommands returns the 'db' command set.
func NewCommands() []cli.Command {
	flags := []cli.Flag{options.Config, options.Debug}
	return []cli.Command{{
		Name:  "db",
		Usage: "database manipulation commands",
		Subcommands: []cli.Command{
			{
				Name:      "get",
				Usage:     "print the value stored under a key",
				UsageText: "vkv db get [--at version] <key>",
				Action:    getValue,
				Flags: append([]cli.Flag{cli.Uint64Flag{
					Name:  "at",
					Usage: "read from the given version instead of the latest one",
				}}, flags...),
			},
			{
				Name:      "put",
				Usage:     "store a value under a key, committing a new version",
				UsageText: "vkv db put <key> <value>",
				Action:    putValue,
				Flags:     flags,
			},
			{
				Name:      "delete",
				Usage:     "remove a key, committing a new version",
				UsageText: "vkv db delete <key>",
				Action:    deleteValue,
				Flags:     flags,
			},
			{
				Name:      "version",
				Usage:     "print the latest committed version",
				UsageText: "vkv db version",
				Action:    currentVersion,
				Flags:     flags,
			},
		},
	}}
}

func openFromContext(ctx *cli.Context) (*mvcc.Store, error) {
	cfg, err := options.GetConfigFromContext(ctx)
	if err != nil {
		return nil, cli.NewExitError(err, 1)
	}
	log, err := options.HandleLoggingParams(ctx.Bool("debug"), cfg)
	if err != nil {
		return nil, cli.NewExitError(err, 1)
	}
	store, err := options.OpenStore(cfg, log)
	if err != nil {
		return nil, cli.NewExitError(err, 1)
	}
	return store, nil
}

func getValue(ctx *cli.Context) error {
	if len(ctx.Args()) != 1 {
		return cli.NewExitError("exactly one key expected", 1)
	}
	store, err := openFromContext(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	version := mvcc.Version(ctx.Uint64("at"))
	if !ctx.IsSet("at") {
		version = store.CurrentVersion()
	}
	val, err := store.Get(version, []byte(ctx.Args().Get(0)))
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	fmt.Fprintln(ctx.App.Writer, string(val))
	return nil
}

func putValue(ctx *cli.Context) error {
	if len(ctx.Args()) != 2 {
		return cli.NewExitError("key and value expected", 1)
	}
	store, err := openFromContext(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	b := mvcc.NewBatch()
	b.Put([]byte(ctx.Args().Get(0)), []byte(ctx.Args().Get(1)))
	v, err := store.Commit(b)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	fmt.Fprintf(ctx.App.Writer, "committed version %d\n", v)
	return nil
}

func deleteValue(ctx *cli.Context) error {
	if len(ctx.Args()) != 1 {
		return cli.NewExitError("exactly one key expected", 1)
	}
	store, err := openFromContext(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	b := mvcc.NewBatch()
	b.Delete([]byte(ctx.Args().Get(0)))
	v, err := store.Commit(b)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	fmt.Fprintf(ctx.App.Writer, "committed version %d\n", v)
	return nil
}

func currentVersion(ctx *cli.Context) error {
	store, err := openFromContext(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	fmt.Fprintln(ctx.App.Writer, store.CurrentVersion())
	return nil
}
