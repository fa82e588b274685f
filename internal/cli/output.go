package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/topiccloud/pkg/pipeline"
)

// defaultBase names outputs when neither an input file nor -o is given.
const defaultBase = "cloud"

// artifactWriteParams describes where rendered artifacts go.
type artifactWriteParams struct {
	artifacts map[string][]byte
	formats   []string
	input     string // input file the outputs are named after, if any
	output    string // -o: a file for one format, a base path for several
}

// writeArtifacts writes one file per format and returns their paths.
// A single format goes to output verbatim; "-" writes it to stdout.
func writeArtifacts(p artifactWriteParams) ([]string, error) {
	if len(p.formats) == 1 && p.output != "" {
		f := p.formats[0]
		if err := writeFile(p.output, p.artifacts[f]); err != nil {
			return nil, err
		}
		return []string{p.output}, nil
	}

	base := basePath(p.output, p.input)
	var paths []string
	for _, f := range p.formats {
		data, ok := p.artifacts[f]
		if !ok {
			return paths, fmt.Errorf("no %s output was rendered", f)
		}
		path := base + "." + f
		if err := writeFile(path, data); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// basePath derives the base output path. Without -o it strips the input's
// extension (and a trailing .scene from scene files); a known format
// extension on -o is stripped.
func basePath(output, input string) string {
	if output == "" {
		if input == "" {
			return defaultBase
		}
		base := strings.TrimSuffix(input, filepath.Ext(input))
		return strings.TrimSuffix(base, ".scene")
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

func writeFile(path string, data []byte) error {
	out, err := openOutput(path)
	if err != nil {
		return err
	}
	if _, err := out.Write(data); err != nil {
		out.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return out.Close()
}

// openOutput returns a WriteCloser for path; "-" is stdout.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "-" {
		return nopCloser{os.Stdout}, nil
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create %s: %w", dir, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", path, err)
	}
	return f, nil
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
