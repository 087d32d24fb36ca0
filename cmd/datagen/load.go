package main

import (
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/alanceloth/datagen/internal/dataset"
	"github.com/alanceloth/datagen/internal/drive"
	"github.com/alanceloth/datagen/internal/repository/postgres"
)

func dataDirFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "data-dir",
		Usage:   "Directory containing the generated tables",
		EnvVars: []string{"OUTPUT_DIR"},
	}
}

func dataDir(c *cli.Context) string {
	if c.IsSet("data-dir") {
		return c.String("data-dir")
	}
	return configFrom(c).Generator.OutputDir
}

func loadCommand() *cli.Command {
	return &cli.Command{
		Name:  "load",
		Usage: "Load the generated CSV tables into Postgres",
		Flags: []cli.Flag{
			dataDirFlag(),
			&cli.BoolFlag{
				Name:  "truncate",
				Usage: "Empty the tables before loading",
			},
			&cli.BoolFlag{
				Name:  "skip-schema",
				Usage: "Do not create missing tables",
			},
		},
		Action: runLoad,
	}
}

func runLoad(c *cli.Context) error {
	cfg := configFrom(c)

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	if !c.Bool("skip-schema") {
		if err := db.EnsureSchema(c.Context); err != nil {
			return err
		}
	}

	start := time.Now()
	counts, err := postgres.NewLoader(db).LoadDir(c.Context, dataDir(c), c.Bool("truncate"))
	if err != nil {
		return err
	}

	for _, table := range dataset.TableNames {
		fmt.Fprintf(c.App.Writer, "%-18s %d rows\n", table, counts[table])
	}
	fmt.Fprintf(c.App.Writer, "Loaded in %s\n", time.Since(start))
	return nil
}

func publishCommand() *cli.Command {
	return &cli.Command{
		Name:  "publish",
		Usage: "Upload the generated tables to a Google Drive folder",
		Flags: []cli.Flag{
			dataDirFlag(),
			&cli.StringFlag{
				Name:    "folder-id",
				Usage:   "Drive folder ID",
				EnvVars: []string{"DRIVE_FOLDER_ID"},
			},
			&cli.StringFlag{
				Name:  "folder-path",
				Usage: "Drive folder path, resolved from the root when no folder ID is given",
			},
		},
		Action: runPublish,
	}
}

func runPublish(c *cli.Context) error {
	cfg := configFrom(c)
	if cfg.Drive.CredentialsJSON == "" {
		return cli.Exit("GOOGLE_DRIVE_CREDENTIALS_JSON is not set", 1)
	}

	svc, err := drive.NewService(c.Context, cfg.Drive.CredentialsJSON)
	if err != nil {
		return err
	}

	folderID := cfg.Drive.FolderID
	if c.IsSet("folder-id") {
		folderID = c.String("folder-id")
	}
	if folderID == "" && c.String("folder-path") != "" {
		folderID, err = svc.FindFolderByPath(c.Context, c.String("folder-path"))
		if err != nil {
			return err
		}
	}

	files, err := drive.NewPublisher(svc, folderID).PublishDir(c.Context, dataDir(c))
	for _, f := range files {
		fmt.Fprintf(c.App.Writer, "Published %s (%s)\n", f.Name, f.ID)
	}
	return err
}

func historyCommand() *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Show recent generation runs recorded in Redis",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Number of runs to show",
				Value: 10,
			},
			&cli.BoolFlag{
				Name:  "clear",
				Usage: "Delete the recorded history",
			},
		},
		Action: runHistory,
	}
}

func runHistory(c *cli.Context) error {
	cfg := configFrom(c)
	if !cfg.Cache.Enabled {
		fmt.Fprintln(c.App.Writer, "Run history is disabled (set CACHE_ENABLED=true)")
		return nil
	}
	history := openHistory(cfg)

	if c.Bool("clear") {
		if err := history.Clear(c.Context); err != nil {
			return err
		}
		fmt.Fprintln(c.App.Writer, "Run history cleared")
		return nil
	}

	runs, err := history.Recent(c.Context, c.Int("limit"))
	if err != nil {
		return err
	}
	for _, run := range runs {
		status := "ok"
		if run.Error != "" {
			status = "failed: " + run.Error
		} else if len(run.UploadErrors) > 0 {
			status = fmt.Sprintf("%d upload errors", len(run.UploadErrors))
		}
		fmt.Fprintf(c.App.Writer, "%s  %s  %-10s %-8s %6dms  %s\n",
			run.CreatedAt.Format(time.RFC3339), run.RunID, run.Label, run.Format, run.DurationMS, status)
	}
	return nil
}
