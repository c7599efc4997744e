package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Fatal setup errors. Everything else the loader records per file and
// carries on.
var (
	ErrDirectoryNotFound = errors.New("dataset directory not found")
	ErrNoInputFiles      = errors.New("no CSV files in dataset directory")
)

// ListCSVFiles returns the CSV file paths in dir, sorted by file name.
// It fails with ErrDirectoryNotFound or ErrNoInputFiles; both are fatal for
// every consumer of the input convention (loader, sampler, mirror).
func ListCSVFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrDirectoryNotFound, dir)
		}
		return nil, fmt.Errorf("read dataset directory %s: %w", dir, err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(e.Name()), ".csv") {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoInputFiles, dir)
	}
	sort.Strings(paths)
	return paths, nil
}

// Load reads every CSV file in dir into a Collection. A file that fails to
// parse is recorded in Collection.Errors and skipped; only a missing
// directory or an empty one aborts the load.
func Load(dir string) (*Collection, error) {
	paths, err := ListCSVFiles(dir)
	if err != nil {
		return nil, err
	}

	c := NewCollection()
	for _, path := range paths {
		table, err := ReadTable(path)
		if err != nil {
			c.Errors = append(c.Errors, LoadError{File: filepath.Base(path), Err: err})
			continue
		}
		c.add(table)
	}
	return c, nil
}

// ReadTable parses a single CSV file into a Table, inferring column types.
func ReadTable(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("parse %s: file has no header row", path)
	}

	header := records[0]
	if len(header) > 0 {
		// Strip a UTF-8 BOM left behind by spreadsheet exports.
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	rows := records[1:]

	return &Table{
		Name:      filepath.Base(path),
		Path:      path,
		SizeBytes: info.Size(),
		Header:    header,
		Rows:      rows,
		Types:     InferColumnTypes(header, rows),
	}, nil
}
