package fileutil

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// Whitespace marks files whose columns are separated by runs of spaces or tabs
const Whitespace rune = ' '

const utf8BOM = "\ufeff"

// DetectDelimiter sniffs the column separator from the first line of a file
func DetectDelimiter(firstLine string, fallback rune) rune {
	switch {
	case strings.ContainsRune(firstLine, ';'):
		return ';'
	case strings.ContainsRune(firstLine, ','):
		return ','
	case len(strings.Fields(firstLine)) > 1:
		return Whitespace
	case fallback != 0:
		return fallback
	default:
		return ','
	}
}

// CSVReader provides a helper/utility to read delimited file(s)
type CSVReader struct {
	FilePath string

	// Delimiter is detected from the header line when zero
	Delimiter rune

	// Fallback is used when detection finds nothing
	Fallback rune
}

// NewCSVReader returns a CSVReader instance for a specified file
func NewCSVReader(fp string) *CSVReader {
	return &CSVReader{
		FilePath: fp,
	}
}

// WithFallback sets the delimiter used when the header gives no hint
func (r *CSVReader) WithFallback(delim rune) *CSVReader {
	r.Fallback = delim
	return r
}

// ReadHeader reads ONLY the header of the specified file
func (r *CSVReader) ReadHeader() ([]string, error) {
	f, err := os.Open(r.FilePath)
	if err != nil {
		return nil, fmt.Errorf("opening a csv file: %w", err)
	}
	defer f.Close()

	next, err := r.rowReader(f)
	if err != nil {
		return nil, err
	}

	header, err := next()
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}

	return header, nil
}

// ReadAndProcessByRow reads and processes a file row by row, allows for streaming large file(s)
func (r *CSVReader) ReadAndProcessByRow(processorFn func([]string) error) error {
	f, err := os.Open(r.FilePath)
	if err != nil {
		return fmt.Errorf("opening a csv file: %w", err)
	}
	defer f.Close()

	next, err := r.rowReader(f)
	if err != nil {
		return err
	}

	// Skip header
	if _, err = next(); err != nil {
		return fmt.Errorf("reading CSV header: %w", err)
	}

	// read and process row by row
	for {
		row, err := next()
		if err == io.EOF {
			break // end of file, stop
		}
		if err != nil {
			return fmt.Errorf("reading CSV row: %w", err)
		}

		if isBlank(row) {
			continue
		}

		if err = processorFn(row); err != nil {
			return err
		}
	}

	return nil
}

// rowReader picks the delimiter and returns a function yielding one row per call
func (r *CSVReader) rowReader(f io.Reader) (func() ([]string, error), error) {
	br := bufio.NewReader(f)

	delim := r.Delimiter
	if delim == 0 {
		peek, err := br.Peek(4096)
		if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
			return nil, fmt.Errorf("sniffing delimiter: %w", err)
		}
		firstLine, _, _ := strings.Cut(string(peek), "\n")
		delim = DetectDelimiter(strings.TrimPrefix(firstLine, utf8BOM), r.Fallback)
	}

	first := true
	if delim == Whitespace {
		scanner := bufio.NewScanner(br)
		return func() ([]string, error) {
			for scanner.Scan() {
				line := scanner.Text()
				if first {
					line = strings.TrimPrefix(line, utf8BOM)
					first = false
				}
				if strings.TrimSpace(line) == "" {
					continue
				}
				return strings.Fields(line), nil
			}
			if err := scanner.Err(); err != nil {
				return nil, err
			}
			return nil, io.EOF
		}, nil
	}

	reader := csv.NewReader(br)
	reader.Comma = delim
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	return func() ([]string, error) {
		row, err := reader.Read()
		if err != nil {
			return nil, err
		}
		if first && len(row) > 0 {
			row[0] = strings.TrimPrefix(row[0], utf8BOM)
			first = false
		}
		return row, nil
	}, nil
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
