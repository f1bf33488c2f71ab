package importer

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"math/big"
	"regexp"
	"strconv"
	"strings"
)

// Row is one CSV record keyed by header name. Values are float64, string or nil.
type Row map[string]any

// Dataset is the decoded top-level array of a file. CSV files produce Row
// elements; JSON elements are kept exactly as decoded, with numbers as
// json.Number.
type Dataset []any

// decimalRegex matches the decimal literals Number() accepts.
var decimalRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// prefixedRegex matches 0x, 0o and 0b integer literals (unsigned, as in Number()).
var prefixedRegex = regexp.MustCompile(`^0([xX][0-9a-fA-F]+|[oO][0-7]+|[bB][01]+)$`)

// Parse decodes text with the parser for format and checks the result is a
// non-empty array.
func Parse(text string, format Format) (Dataset, error) {
	var (
		data Dataset
		err  error
	)
	switch format {
	case FormatJSON:
		data, err = ParseJSON(text)
	case FormatCSV:
		data = ParseCSV(text)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedType, format)
	}
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, ErrEmptyDataset
	}
	return data, nil
}

// ParseJSON decodes a single JSON value. A value that is not an array yields
// ErrEmptyDataset; malformed input yields a *ParseError.
func ParseJSON(text string) (Dataset, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return nil, &ParseError{Format: FormatJSON, Err: err}
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, &ParseError{
			Format: FormatJSON,
			Err:    fmt.Errorf("unexpected data after top-level value at offset %d", dec.InputOffset()),
		}
	}

	arr, ok := v.([]any)
	if !ok {
		return nil, ErrEmptyDataset
	}
	return Dataset(arr), nil
}

// ParseCSV converts delimiter-separated text into rows.
//
// Blank lines are dropped. The delimiter is ';' when the header line contains
// one, ',' otherwise. Quoting is not supported: every delimiter splits a
// field. Missing and empty cells become nil; blank ones become "".
func ParseCSV(text string) Dataset {
	lines := nonBlankLines(text)
	if len(lines) == 0 {
		return Dataset{}
	}

	delim := DetectDelimiter(lines[0])
	headers := strings.Split(lines[0], delim)
	for i := range headers {
		headers[i] = strings.TrimSpace(headers[i])
	}

	data := make(Dataset, 0, len(lines)-1)
	for _, line := range lines[1:] {
		values := strings.Split(line, delim)
		row := make(Row, len(headers))
		for i, header := range headers {
			if i >= len(values) {
				row[header] = nil
				continue
			}
			row[header] = CoerceCell(values[i])
		}
		data = append(data, row)
	}
	return data
}

// DetectDelimiter returns ";" if the header line contains one, otherwise ",".
func DetectDelimiter(header string) string {
	if strings.Contains(header, ";") {
		return ";"
	}
	return ","
}

// CoerceCell trims raw and converts it to float64 when it reads as a finite
// number. An empty cell becomes nil, a blank one the empty string, and
// everything else stays a string.
func CoerceCell(raw string) any {
	if raw == "" {
		return nil
	}
	v := strings.TrimSpace(raw)
	if v == "" {
		return v
	}
	if f, ok := parseNumber(v); ok {
		return f
	}
	return v
}

// parseNumber follows Number() for trimmed, non-empty input but rejects
// non-finite results, which JSON cannot carry.
func parseNumber(v string) (float64, bool) {
	if prefixedRegex.MatchString(v) {
		base := 16
		switch v[1] {
		case 'o', 'O':
			base = 8
		case 'b', 'B':
			base = 2
		}
		n, ok := new(big.Int).SetString(v[2:], base)
		if !ok {
			return 0, false
		}
		f, _ := new(big.Float).SetInt(n).Float64()
		if math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	}

	if !decimalRegex.MatchString(v) {
		return 0, false
	}
	// ErrRange on underflow still yields the rounded value; overflow is caught as Inf.
	f, err := strconv.ParseFloat(v, 64)
	if (err != nil && !errors.Is(err, strconv.ErrRange)) || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

func nonBlankLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
