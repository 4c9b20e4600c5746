package export

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Dataset defines tabular export content.
type Dataset struct {
	Headers []string
	Rows    []map[string]string
}

// CSVExporter renders Dataset records into CSV bytes.
type CSVExporter struct{}

// NewCSVExporter builds a CSV exporter.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// Render produces CSV encoded bytes for the dataset.
func (e *CSVExporter) Render(data Dataset) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("csv requires at least one header")
	}
	buf := &bytes.Buffer{}
	writer := csv.NewWriter(buf)
	if err := writer.Write(data.Headers); err != nil {
		return nil, fmt.Errorf("write csv headers: %w", err)
	}
	for _, row := range data.Rows {
		record := make([]string, len(data.Headers))
		for i, header := range data.Headers {
			record[i] = row[header]
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// ParseCSV reads a CSV document whose first record is the header. Header
// names are trimmed and lower-cased; every name in required must be present.
// Rows with a wrong field count are reported through the returned row errors
// keyed by 1-based data row number.
func ParseCSV(r io.Reader, required []string) (Dataset, map[int]error, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	headers, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Dataset{}, nil, fmt.Errorf("csv is empty")
		}
		return Dataset{}, nil, fmt.Errorf("read csv header: %w", err)
	}
	index := make(map[string]bool, len(headers))
	for i, h := range headers {
		headers[i] = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		index[headers[i]] = true
	}
	for _, name := range required {
		if !index[name] {
			return Dataset{}, nil, fmt.Errorf("csv header missing column %q", name)
		}
	}

	data := Dataset{Headers: headers}
	rowErrors := make(map[int]error)
	for row := 1; ; row++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Dataset{}, nil, fmt.Errorf("read csv row %d: %w", row, err)
		}
		if len(record) != len(headers) {
			rowErrors[row] = fmt.Errorf("expected %d fields, got %d", len(headers), len(record))
			data.Rows = append(data.Rows, nil)
			continue
		}
		values := make(map[string]string, len(headers))
		for i, h := range headers {
			values[h] = strings.TrimSpace(record[i])
		}
		data.Rows = append(data.Rows, values)
	}
	return data, rowErrors, nil
}
