package dataset

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

var (
	ErrEmptyFile = errors.New("csv file is empty")
	ErrNotCSV    = errors.New("only .csv files are accepted")
	ErrMalformed = errors.New("malformed csv")
)

// IsInputError reports whether err was caused by the uploaded file rather
// than by storage.
func IsInputError(err error) bool {
	return errors.Is(err, ErrEmptyFile) || errors.Is(err, ErrNotCSV) || errors.Is(err, ErrMalformed)
}

// ParseCSV reads a header row of item names followed by one row per
// transaction. Blank header names are replaced and duplicates get a numeric
// suffix so every item name is unique. A leading UTF-8 byte-order mark is
// dropped.
func ParseCSV(r io.Reader) (items []string, rows [][]string, err error) {
	reader := csv.NewReader(skipBOM(r))
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil, ErrEmptyFile
	}
	if err != nil {
		return nil, nil, fmt.Errorf("%w: header: %w", ErrMalformed, err)
	}
	items = uniqueNames(header)

	rows = make([][]string, 0)
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %w", ErrMalformed, err)
		}
		rows = append(rows, row)
	}
	return items, rows, nil
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

func skipBOM(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	if head, _ := br.Peek(len(utf8BOM)); bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}
	return br
}

// CheckFilename rejects uploads that are not named *.csv.
func CheckFilename(name string) error {
	if !strings.EqualFold(filepath.Ext(name), ".csv") {
		return ErrNotCSV
	}
	return nil
}

func uniqueNames(header []string) []string {
	out := make([]string, len(header))
	seen := make(map[string]bool, len(header))
	last := make(map[string]int)
	for i, h := range header {
		name := strings.TrimSpace(h)
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		if seen[name] {
			base := name
			for n := last[base] + 1; ; n++ {
				name = fmt.Sprintf("%s.%d", base, n)
				if !seen[name] {
					last[base] = n
					break
				}
			}
		}
		seen[name] = true
		out[i] = name
	}
	return out
}
