// Package sampler produces shareable excerpts of a dataset directory.
// Small files are copied whole, large ones truncated, and names carry a
// prefix saying which happened.
package sampler

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"csvaudit/internal/dataset"
)

// DefaultMaxRows is the cutoff between copying a file and truncating it.
const DefaultMaxRows = 500

// Name prefixes telling a reader whether an output is complete.
const (
	CopyPrefix   = "copy_"
	SamplePrefix = "sample_"
)

// Options configures a sampling run.
type Options struct {
	// MaxRows is the truncation cutoff; zero means DefaultMaxRows.
	MaxRows int
}

// FileResult describes what happened to one input file.
type FileResult struct {
	Source  string
	Output  string
	Rows    int
	Sampled bool
}

// Run excerpts every CSV file in srcDir into destDir. Files with at most
// MaxRows rows are copied whole under a copy_ prefix; larger files keep only
// their first MaxRows rows under a sample_ prefix. Values pass through as
// raw text, never reformatted. destDir is cleared first, so a run always
// reflects exactly the current inputs.
func Run(srcDir, destDir string, opts Options) ([]FileResult, error) {
	maxRows := opts.MaxRows
	if maxRows <= 0 {
		maxRows = DefaultMaxRows
	}

	paths, err := dataset.ListCSVFiles(srcDir)
	if err != nil {
		return nil, err
	}

	if err := os.RemoveAll(destDir); err != nil {
		return nil, fmt.Errorf("clear samples directory %s: %w", destDir, err)
	}
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return nil, fmt.Errorf("create samples directory %s: %w", destDir, err)
	}

	var results []FileResult
	for _, path := range paths {
		res, err := sampleFile(path, destDir, maxRows)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}

func sampleFile(path, destDir string, maxRows int) (FileResult, error) {
	name := filepath.Base(path)

	f, err := os.Open(path)
	if err != nil {
		return FileResult{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return FileResult{}, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(records) == 0 {
		return FileResult{}, fmt.Errorf("parse %s: file has no header row", path)
	}

	header, rows := records[0], records[1:]
	sampled := len(rows) > maxRows
	prefix := CopyPrefix
	if sampled {
		prefix = SamplePrefix
		rows = rows[:maxRows]
	}

	outPath := filepath.Join(destDir, prefix+name)
	out, err := os.Create(outPath)
	if err != nil {
		return FileResult{}, fmt.Errorf("create %s: %w", outPath, err)
	}
	defer func() { _ = out.Close() }()

	w := csv.NewWriter(out)
	if err := w.Write(header); err != nil {
		return FileResult{}, fmt.Errorf("write %s: %w", outPath, err)
	}
	if err := w.WriteAll(rows); err != nil {
		return FileResult{}, fmt.Errorf("write %s: %w", outPath, err)
	}

	return FileResult{
		Source:  name,
		Output:  prefix + name,
		Rows:    len(rows),
		Sampled: sampled,
	}, nil
}
