package dataset

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/parquet-go/parquet-go"
)

// maxLineBytes bounds a single JSONL record; OCR text makes lines long
const maxLineBytes = 10 * 1024 * 1024

// Loader reads reference records from a .parquet or .jsonl file
type Loader struct {
	datasetPath string
}

func NewLoader(datasetPath string) *Loader {
	return &Loader{datasetPath: datasetPath}
}

// Load reads up to limit records; limit <= 0 reads the whole file
func (l *Loader) Load(ctx context.Context, limit int) ([]Record, error) {
	ext := strings.ToLower(filepath.Ext(l.datasetPath))
	if ext != ".parquet" && ext != ".jsonl" && ext != ".json" {
		return nil, fmt.Errorf("unsupported file format: %s (supported: .parquet, .jsonl)", ext)
	}

	file, err := os.Open(l.datasetPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset file: %w", err)
	}
	defer file.Close()

	var records []Record
	if ext == ".parquet" {
		info, err := file.Stat()
		if err != nil {
			return nil, fmt.Errorf("failed to stat file: %w", err)
		}
		records, err = readParquet(ctx, file, info.Size(), limit)
		if err != nil {
			return nil, err
		}
	} else {
		records, err = readJSONL(ctx, file, limit)
		if err != nil {
			return nil, err
		}
	}

	slog.Debug("Loaded dataset", "path", l.datasetPath, "records", len(records), "limit", limit)
	return records, nil
}

func readJSONL(ctx context.Context, r io.Reader, limit int) ([]Record, error) {
	var records []Record
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)

	lineNum := 0
	for scanner.Scan() {
		if limit > 0 && len(records) >= limit {
			break
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		lineNum++

		line := scanner.Bytes()
		if len(strings.TrimSpace(string(line))) == 0 {
			continue
		}

		var record Record
		if err := json.Unmarshal(line, &record); err != nil {
			slog.Warn("Skipping malformed dataset line", "line", lineNum, "err", err)
			continue
		}
		records = append(records, record)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading dataset: %w", err)
	}
	return records, nil
}

func readParquet(ctx context.Context, r io.ReaderAt, size int64, limit int) ([]Record, error) {
	pf, err := parquet.OpenFile(r, size)
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet: %w", err)
	}
	slog.Debug("Opened parquet file", "num_rows", pf.NumRows(), "num_row_groups", len(pf.RowGroups()))

	reader := parquet.NewGenericReader[Record](pf)
	defer reader.Close()

	var records []Record
	for limit <= 0 || len(records) < limit {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		// fresh batch each time, the reader reuses slice storage it is given
		rows := make([]Record, 128)
		n, err := reader.Read(rows)
		if limit > 0 && n > limit-len(records) {
			n = limit - len(records)
		}
		records = append(records, rows[:n]...)

		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read parquet rows: %w", err)
		}
	}
	return records, nil
}
