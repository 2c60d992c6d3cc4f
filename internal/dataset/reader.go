package dataset

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

var (
	// ErrUnreadable is returned when no parse strategy can read a table
	ErrUnreadable = errors.New("table unreadable")

	// ErrNoTextColumn is returned when a table has none of the recognized text columns
	ErrNoTextColumn = errors.New("no recognized text column")
)

// TextColumns are the accepted names of the free-text column, in priority order
var TextColumns = []string{"text", "sentence", "req_text", "requirement", "requirements"}

// candidate delimiters tried by the permissive parse
var sniffDelimiters = []rune{',', ';', '\t', '|'}

// Table is a parsed delimited file
type Table struct {
	Columns   []string
	Rows      [][]string
	Delimiter rune
	Encoding  string
}

// ReadTable reads a delimited file. It first tries a strict comma parse and falls
// back to a permissive parse with a sniffed delimiter. Non-UTF-8 input is decoded
// as Latin-1.
func ReadTable(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return ParseTable(data)
}

// ParseTable parses delimited bytes with the same fallbacks as ReadTable
func ParseTable(data []byte) (*Table, error) {
	text, encoding, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrUnreadable, err)
	}

	if strings.TrimSpace(text) == "" {
		return &Table{Delimiter: ',', Encoding: encoding}, nil
	}

	// A one-column strict parse of a header that carries another delimiter is
	// treated as a miss
	if table, err := parseStrict(text); err == nil {
		if len(table.Columns) > 1 || sniffDelimiter(text) == ',' {
			table.Encoding = encoding
			return table, nil
		}
	}

	table, err := parsePermissive(text)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	table.Encoding = encoding
	return table, nil
}

// ResolveTextColumn returns the index of the first column whose name matches
// one of TextColumns (case-insensitive)
func ResolveTextColumn(columns []string) (int, error) {
	for i, col := range columns {
		name := strings.ToLower(strings.TrimSpace(col))
		for _, want := range TextColumns {
			if name == want {
				return i, nil
			}
		}
	}
	return -1, ErrNoTextColumn
}

// HeaderIndex maps lowercase column names to their position (first wins)
func HeaderIndex(columns []string) map[string]int {
	index := make(map[string]int, len(columns))
	for i, col := range columns {
		key := strings.ToLower(strings.TrimSpace(col))
		if _, exists := index[key]; !exists {
			index[key] = i
		}
	}
	return index
}

func decode(data []byte) (string, string, error) {
	if utf8.Valid(data) {
		if bytes.HasPrefix(data, []byte("\xef\xbb\xbf")) {
			return string(data[3:]), "utf-8-sig", nil
		}
		return string(data), "utf-8", nil
	}

	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return "", "", err
	}
	return string(decoded), "latin1", nil
}

func parseStrict(text string) (*Table, error) {
	r := csv.NewReader(strings.NewReader(text))
	return readAll(r, ',')
}

func parsePermissive(text string) (*Table, error) {
	delim := sniffDelimiter(text)

	r := csv.NewReader(strings.NewReader(text))
	r.Comma = delim
	r.LazyQuotes = true
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	table, err := readAll(r, delim)
	if err != nil {
		return nil, err
	}

	// Pad short rows so every row lines up with the header. A long row means
	// the delimiter split a field, so the table is rejected.
	for i, row := range table.Rows {
		if len(row) > len(table.Columns) {
			return nil, fmt.Errorf("row %d has %d fields, header has %d", i+1, len(row), len(table.Columns))
		}
		if len(row) < len(table.Columns) {
			padded := make([]string, len(table.Columns))
			copy(padded, row)
			table.Rows[i] = padded
		}
	}
	return table, nil
}

func readAll(r *csv.Reader, delim rune) (*Table, error) {
	header, err := r.Read()
	if err == io.EOF {
		return &Table{Delimiter: delim}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	var rows [][]string
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		rows = append(rows, row)
	}

	return &Table{
		Columns:   header,
		Rows:      rows,
		Delimiter: delim,
	}, nil
}

// sniffDelimiter picks the candidate that appears the same non-zero number of
// times on the most leading lines; ties go to the earlier candidate
func sniffDelimiter(text string) rune {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
		if len(lines) == 5 {
			break
		}
	}

	best := ','
	bestScore := 0
	for _, d := range sniffDelimiters {
		first := strings.Count(lines[0], string(d))
		if first == 0 {
			continue
		}
		score := 1
		for _, line := range lines[1:] {
			if strings.Count(line, string(d)) == first {
				score++
			}
		}
		score = score*1000 + first
		if score > bestScore {
			best = d
			bestScore = score
		}
	}
	return best
}
