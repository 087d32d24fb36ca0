package bench

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/alanceloth/datagen/internal/dataset"
	"github.com/alanceloth/datagen/internal/generator"
)

// GenerationJob assembles one dataset. The output lists the written files.
func GenerationJob(label string, assembler *dataset.Assembler, counts dataset.Counts) Job {
	return Job{
		Label: label,
		Run: func(ctx context.Context) (string, error) {
			res, err := assembler.Assemble(ctx, counts)
			if err != nil {
				return "", err
			}
			var b strings.Builder
			for _, path := range res.Files {
				fmt.Fprintf(&b, "%s\n", path)
			}
			return b.String(), nil
		},
	}
}

// CommandJob runs an external command. Stdout becomes the output; a
// non-zero exit folds stderr into the error.
func CommandJob(label, name string, args ...string) Job {
	return Job{
		Label: label,
		Run: func(ctx context.Context) (string, error) {
			var stdout, stderr bytes.Buffer
			cmd := exec.CommandContext(ctx, name, args...)
			cmd.Stdout = &stdout
			cmd.Stderr = &stderr
			if err := cmd.Run(); err != nil {
				return stdout.String(), fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(stderr.String()))
			}
			return stdout.String(), nil
		},
	}
}

// VariantJobs builds one GenerationJob per output format, each with its own
// generator and writing into outputDir/<format>.
func VariantJobs(
	newGenerator func() (*generator.Generator, error),
	outputDir string,
	formats []dataset.Format,
	counts dataset.Counts,
	opts ...dataset.AssemblerOption,
) ([]Job, error) {
	jobs := make([]Job, 0, len(formats))
	for _, format := range formats {
		gen, err := newGenerator()
		if err != nil {
			return nil, fmt.Errorf("failed to create generator for %s: %w", format, err)
		}
		assembler, err := dataset.NewAssembler(gen, filepath.Join(outputDir, string(format)), format, opts...)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, GenerationJob(string(format), assembler, counts))
	}
	return jobs, nil
}
