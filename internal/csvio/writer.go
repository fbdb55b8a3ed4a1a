package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// WriteFile replaces path with records. The data is written to a temporary
// file in the same directory and renamed over the target, so a failed export
// never leaves a half-written snapshot behind.
func WriteFile(path string, records [][]string) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	w := csv.NewWriter(tmp)
	if err := w.WriteAll(records); err != nil {
		tmp.Close()
		return fmt.Errorf("write csv: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replace %s: %w", filepath.Base(path), err)
	}
	return nil
}

// AppendRecord adds record as a new line at the end of the CSV file at path.
// A newline is inserted first when the file does not already end with one.
func AppendRecord(path string, record []string) error {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_APPEND, 0)
	if err != nil {
		return fmt.Errorf("open csv for append: %w", err)
	}
	defer f.Close()

	needsNewline, err := lacksTrailingNewline(f)
	if err != nil {
		return err
	}
	if needsNewline {
		if _, err := f.Write([]byte("\n")); err != nil {
			return fmt.Errorf("append newline: %w", err)
		}
	}

	w := csv.NewWriter(f)
	if err := w.Write(record); err != nil {
		return fmt.Errorf("append record: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("append record: %w", err)
	}
	return nil
}

func lacksTrailingNewline(f *os.File) (bool, error) {
	info, err := f.Stat()
	if err != nil {
		return false, fmt.Errorf("stat csv: %w", err)
	}
	if info.Size() == 0 {
		return false, nil
	}

	last := make([]byte, 1)
	if _, err := f.ReadAt(last, info.Size()-1); err != nil && err != io.EOF {
		return false, fmt.Errorf("read csv tail: %w", err)
	}
	return last[0] != '\n', nil
}
