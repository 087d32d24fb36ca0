package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/alanceloth/datagen/internal/storage"
)

func bucketFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "bucket",
		Usage:   "Bucket name",
		EnvVars: []string{"BUCKET_NAME"},
	}
}

// storageAction opens the gateway and runs fn. Gateway failures are printed
// as a diagnostic and do not change the exit code.
func storageAction(args int, usage string, fn func(c *cli.Context, gw *storage.Gateway, bucket string) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		if c.NArg() != args {
			return cli.Exit(fmt.Sprintf("usage: %s %s", c.Command.HelpName, usage), 2)
		}
		cfg := configFrom(c)
		gw, err := openGateway(c.Context, cfg, nil)
		if err != nil {
			return err
		}
		bucket := cfg.Storage.Bucket
		if c.IsSet("bucket") {
			bucket = c.String("bucket")
		}
		if err := fn(c, gw, bucket); err != nil {
			fmt.Fprintf(c.App.ErrWriter, "Error: %v\n", err)
		}
		return nil
	}
}

func storageCommand() *cli.Command {
	return &cli.Command{
		Name:  "storage",
		Usage: "List, upload, download, delete and move objects in a bucket",
		Subcommands: []*cli.Command{
			{
				Name:      "list",
				Usage:     "List every object key in the bucket",
				Flags:     []cli.Flag{bucketFlag()},
				ArgsUsage: " ",
				Action: storageAction(0, "", func(c *cli.Context, gw *storage.Gateway, bucket string) error {
					keys, err := gw.List(c.Context, bucket)
					if err != nil {
						return err
					}
					for _, key := range keys {
						fmt.Fprintln(c.App.Writer, key)
					}
					return nil
				}),
			},
			{
				Name:      "upload",
				Usage:     "Upload a local file; the key defaults to the file name",
				Flags:     []cli.Flag{bucketFlag(), &cli.StringFlag{Name: "key", Usage: "Object key"}},
				ArgsUsage: "<local-path>",
				Action: storageAction(1, "<local-path>", func(c *cli.Context, gw *storage.Gateway, bucket string) error {
					if err := gw.Upload(c.Context, c.Args().Get(0), bucket, c.String("key")); err != nil {
						return err
					}
					fmt.Fprintf(c.App.Writer, "Uploaded %s\n", c.Args().Get(0))
					return nil
				}),
			},
			{
				Name:      "download",
				Usage:     "Download an object to a local path",
				Flags:     []cli.Flag{bucketFlag()},
				ArgsUsage: "<key> <local-path>",
				Action: storageAction(2, "<key> <local-path>", func(c *cli.Context, gw *storage.Gateway, bucket string) error {
					if err := gw.Download(c.Context, bucket, c.Args().Get(0), c.Args().Get(1)); err != nil {
						return err
					}
					fmt.Fprintf(c.App.Writer, "Downloaded %s to %s\n", c.Args().Get(0), c.Args().Get(1))
					return nil
				}),
			},
			{
				Name:      "delete",
				Usage:     "Delete an object",
				Flags:     []cli.Flag{bucketFlag()},
				ArgsUsage: "<key>",
				Action: storageAction(1, "<key>", func(c *cli.Context, gw *storage.Gateway, bucket string) error {
					if err := gw.Delete(c.Context, bucket, c.Args().Get(0)); err != nil {
						return err
					}
					fmt.Fprintf(c.App.Writer, "Deleted %s\n", c.Args().Get(0))
					return nil
				}),
			},
			{
				Name:      "mkdir",
				Usage:     "Create a folder marker object",
				Flags:     []cli.Flag{bucketFlag()},
				ArgsUsage: "<folder>",
				Action: storageAction(1, "<folder>", func(c *cli.Context, gw *storage.Gateway, bucket string) error {
					if err := gw.CreateFolder(c.Context, bucket, c.Args().Get(0)); err != nil {
						return err
					}
					fmt.Fprintf(c.App.Writer, "Created folder %s\n", c.Args().Get(0))
					return nil
				}),
			},
			{
				Name:      "rmdir",
				Usage:     "Delete a folder and everything under it",
				Flags:     []cli.Flag{bucketFlag()},
				ArgsUsage: "<folder>",
				Action: storageAction(1, "<folder>", func(c *cli.Context, gw *storage.Gateway, bucket string) error {
					if err := gw.DeleteFolder(c.Context, bucket, c.Args().Get(0)); err != nil {
						return err
					}
					fmt.Fprintf(c.App.Writer, "Deleted folder %s\n", c.Args().Get(0))
					return nil
				}),
			},
			{
				Name:      "move",
				Usage:     "Move an object to a new key",
				Flags:     []cli.Flag{bucketFlag()},
				ArgsUsage: "<source-key> <destination-key>",
				Action: storageAction(2, "<source-key> <destination-key>", func(c *cli.Context, gw *storage.Gateway, bucket string) error {
					if err := gw.Move(c.Context, bucket, c.Args().Get(0), c.Args().Get(1)); err != nil {
						return err
					}
					fmt.Fprintf(c.App.Writer, "Moved %s to %s\n", c.Args().Get(0), c.Args().Get(1))
					return nil
				}),
			},
		},
	}
}
