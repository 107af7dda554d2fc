package store

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
)

// Store reads and writes the platform CSV file, the system's ground truth.
// There is no partial update: Load reads the whole file, Save rewrites it
// in full. Concurrent writers are not guarded against (single-operator
// usage assumed), last writer wins.
type Store struct {
	path string
}

func New(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Path() string {
	return s.path
}

// Load reads every row into an ordered slice of records. Column order
// follows the header, row order follows the file. Rows without a platform
// name are dropped; short rows are padded with empty values.
func (s *Store) Load() ([]*Record, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open store file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read store file: %w", err)
	}

	if len(rows) == 0 {
		return nil, nil
	}

	header := rows[0]
	records := make([]*Record, 0, len(rows)-1)
	dropped := 0

	for _, row := range rows[1:] {
		record := NewRecord()
		for i, column := range header {
			value := ""
			if i < len(row) {
				value = row[i]
			}
			record.Set(column, value)
		}

		if record.Name() == "" {
			dropped++
			continue
		}
		records = append(records, record)
	}

	if dropped > 0 {
		slog.Debug("Dropped rows without a platform name", "count", dropped, "path", s.path)
	}

	return records, nil
}

// Save rewrites the full file. The header is derived from the first
// record's key set; columns a later record added on its own are not
// written.
func (s *Store) Save(records []*Record) error {
	if len(records) == 0 {
		return fmt.Errorf("no records to write, refusing to truncate %s", s.path)
	}

	f, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("failed to create store file: %w", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	header := records[0].Keys()

	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	row := make([]string, len(header))
	for _, record := range records {
		for i, column := range header {
			row[i] = record.Get(column)
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush store file: %w", err)
	}

	return nil
}
