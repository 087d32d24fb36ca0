package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/alanceloth/datagen/internal/bench"
	"github.com/alanceloth/datagen/internal/config"
	"github.com/alanceloth/datagen/internal/dataset"
	"github.com/alanceloth/datagen/internal/service"
)

func countFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "output-dir",
			Usage:   "Directory the tables are written to",
			EnvVars: []string{"OUTPUT_DIR"},
		},
		&cli.IntFlag{
			Name:    "customers",
			Usage:   "Number of customers",
			EnvVars: []string{"NUM_CUSTOMERS"},
		},
		&cli.IntFlag{
			Name:    "transactions",
			Usage:   "Number of transactions",
			EnvVars: []string{"NUM_TRANSACTIONS"},
		},
		&cli.IntFlag{
			Name:    "items",
			Usage:   "Number of transaction items",
			EnvVars: []string{"NUM_TRANSACTION_ITEMS"},
		},
		&cli.Uint64Flag{
			Name:    "seed",
			Usage:   "Random seed; 0 picks one at random",
			EnvVars: []string{"GENERATOR_SEED"},
		},
	}
}

// applyGeneratorFlags overrides the loaded config with explicitly set flags.
func applyGeneratorFlags(c *cli.Context, cfg *config.GeneratorConfig) {
	if c.IsSet("output-dir") {
		cfg.OutputDir = c.String("output-dir")
	}
	if c.IsSet("format") {
		cfg.Format = c.String("format")
	}
	if c.IsSet("customers") {
		cfg.Customers = c.Int("customers")
	}
	if c.IsSet("transactions") {
		cfg.Transactions = c.Int("transactions")
	}
	if c.IsSet("items") {
		cfg.TransactionItems = c.Int("items")
	}
	if c.IsSet("seed") {
		cfg.Seed = c.Uint64("seed")
	}
}

func countsFrom(cfg config.GeneratorConfig) dataset.Counts {
	return dataset.Counts{
		Customers:    cfg.Customers,
		Transactions: cfg.Transactions,
		Items:        cfg.TransactionItems,
	}
}

func generateCommand() *cli.Command {
	return &cli.Command{
		Name:  "generate",
		Usage: "Generate the customers, transactions and transaction_items tables",
		Flags: append(countFlags(),
			&cli.StringFlag{
				Name:    "format",
				Usage:   "Output format (csv, csv.gz, xlsx)",
				EnvVars: []string{"OUTPUT_FORMAT"},
			},
			&cli.BoolFlag{
				Name:  "upload",
				Usage: "Upload the generated files to the object store",
			},
			&cli.StringFlag{
				Name:  "bucket",
				Usage: "Bucket to upload to (defaults to BUCKET_NAME)",
			},
			&cli.StringFlag{
				Name:  "prefix",
				Usage: "Key prefix for uploaded files",
			},
		),
		Action: runGenerate,
	}
}

func runGenerate(c *cli.Context) error {
	cfg := configFrom(c)
	applyGeneratorFlags(c, &cfg.Generator)

	format, err := dataset.ParseFormat(cfg.Generator.Format)
	if err != nil {
		return err
	}

	opts := []service.Option{service.WithHistory(openHistory(cfg))}
	if c.Bool("upload") {
		gw, err := openGateway(c.Context, cfg, nil)
		if err != nil {
			return err
		}
		opts = append(opts, service.WithGateway(gw, cfg.Storage.Bucket))
	}

	svc := service.NewDatasetService(service.GeneratorFactory(cfg.Generator), cfg.Generator.OutputDir, opts...)
	res, err := svc.Generate(c.Context, service.GenerateRequest{
		Label:     "generate",
		Counts:    countsFrom(cfg.Generator),
		Format:    format,
		OutputDir: cfg.Generator.OutputDir,
		Upload:    c.Bool("upload"),
		Bucket:    c.String("bucket"),
		Prefix:    c.String("prefix"),
	})
	if err != nil {
		return err
	}

	out := c.App.Writer
	fmt.Fprintf(out, "Generated %d customers, %d transactions and %d items in %s\n",
		res.Rows[dataset.TableCustomers], res.Rows[dataset.TableTransactions], res.Rows[dataset.TableTransactionItems], res.Duration)
	for _, file := range res.Files {
		fmt.Fprintf(out, "  %s\n", file)
	}
	for _, key := range res.Uploaded {
		fmt.Fprintf(out, "Uploaded %s\n", key)
	}
	for _, msg := range res.UploadErrors {
		fmt.Fprintf(out, "Upload failed: %s\n", msg)
	}
	return nil
}

func benchCommand() *cli.Command {
	return &cli.Command{
		Name:  "bench",
		Usage: "Generate every output variant concurrently and compare wall-clock times",
		Flags: append(countFlags(),
			&cli.IntFlag{
				Name:    "workers",
				Usage:   "Worker pool size",
				EnvVars: []string{"BENCH_WORKERS"},
			},
			&cli.StringSliceFlag{
				Name:  "variant",
				Usage: "Output format to include; repeat for more (defaults to BENCH_VARIANTS)",
			},
			&cli.StringSliceFlag{
				Name:  "exec",
				Usage: "Shell command to time alongside the variants; repeatable",
			},
		),
		Action: runBench,
	}
}

func runBench(c *cli.Context) error {
	cfg := configFrom(c)
	applyGeneratorFlags(c, &cfg.Generator)
	if c.IsSet("workers") {
		cfg.Bench.Workers = c.Int("workers")
	}
	if c.IsSet("variant") {
		cfg.Bench.Variants = c.StringSlice("variant")
	}

	formats := make([]dataset.Format, 0, len(cfg.Bench.Variants))
	for _, v := range cfg.Bench.Variants {
		format, err := dataset.ParseFormat(v)
		if err != nil {
			return err
		}
		formats = append(formats, format)
	}

	jobs, err := bench.VariantJobs(service.GeneratorFactory(cfg.Generator), cfg.Generator.OutputDir, formats, countsFrom(cfg.Generator))
	if err != nil {
		return err
	}
	for _, command := range c.StringSlice("exec") {
		jobs = append(jobs, bench.CommandJob(command, "sh", "-c", command))
	}

	results := bench.NewRunner(cfg.Bench.Workers).Run(c.Context, jobs)

	out := c.App.Writer
	for _, res := range results {
		fmt.Fprintf(out, "%-12s %-9s %s\n", res.Label, res.Status(), res.Duration)
		if output := strings.TrimSpace(res.Output); output != "" {
			for _, line := range strings.Split(output, "\n") {
				fmt.Fprintf(out, "    %s\n", relativeTo(cfg.Generator.OutputDir, line))
			}
		}
		if res.Err != nil {
			fmt.Fprintf(out, "    error: %s\n", res.ErrorMessage())
		}
	}
	return nil
}

func relativeTo(base, path string) string {
	if rel, err := filepath.Rel(base, path); err == nil && !strings.HasPrefix(rel, "..") {
		return rel
	}
	return path
}
