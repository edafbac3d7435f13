// Package source discovers, parses and writes logbook import/export files:
// JSON backups, JSONL feeds and Excel workbooks.
package source

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/theirongolddev/fuellog/internal/pipeline"
)

// ErrUnsupportedFormat is returned for files with an unknown extension.
var ErrUnsupportedFormat = errors.New("source: unsupported format")

// Record kinds routed by the top-level "kind" field of a JSONL line.
const (
	KindLog         = "log"
	KindPurchase    = "purchase"
	KindMaintenance = "maintenance"
)

// ParseFile reads one discovered file. Records without a vehicle are
// assigned to vehicle, and records of another vehicle are skipped.
func ParseFile(df DiscoveredFile, vehicle string) ParseResult {
	f, err := os.Open(df.Path)
	if err != nil {
		return ParseResult{Path: df.Path, Err: err}
	}
	defer func() { _ = f.Close() }()

	var res ParseResult
	switch df.Format {
	case FormatJSON:
		res = ParseJSON(f, vehicle)
	case FormatJSONL:
		res = ParseJSONL(f, vehicle)
	case FormatXLSX:
		res = ImportExcel(f, vehicle)
	default:
		res = ParseResult{Err: ErrUnsupportedFormat}
	}
	res.Path = df.Path
	if res.Err == nil {
		scopeToVehicle(&res, vehicle)
	}
	return res
}

// scopeToVehicle drops records that belong to a vehicle other than vehicle
// and counts them as skipped.
func scopeToVehicle(res *ParseResult, vehicle string) {
	before := res.Records()
	res.Logs = pipeline.FilterByVehicle(res.Logs, vehicle)
	res.Purchases = pipeline.FilterByVehicle(res.Purchases, vehicle)
	res.Maintenance = pipeline.FilterByVehicle(res.Maintenance, vehicle)
	res.Skipped += before - res.Records()
}

// ParseJSON reads a JSON backup. Both the bare array-of-logs form and the
// object form with logs, purchases and maintenance are accepted.
func ParseJSON(r io.Reader, vehicle string) ParseResult {
	data, err := io.ReadAll(r)
	if err != nil {
		return ParseResult{Err: err}
	}
	data = bytes.TrimSpace(data)

	var b Backup
	switch {
	case len(data) == 0:
		return ParseResult{}
	case data[0] == '[':
		if err := json.Unmarshal(data, &b.Logs); err != nil {
			return ParseResult{Err: fmt.Errorf("decoding log array: %w", err)}
		}
	case data[0] == '{':
		if err := json.Unmarshal(data, &b); err != nil {
			return ParseResult{Err: fmt.Errorf("decoding backup: %w", err)}
		}
	default:
		return ParseResult{Err: errors.New("source: backup is neither an array nor an object")}
	}

	var res ParseResult
	for _, raw := range b.Logs {
		if e, err := toLog(raw, vehicle); err == nil {
			res.Logs = append(res.Logs, e)
		} else {
			res.Skipped++
		}
	}
	for _, raw := range b.Purchases {
		if p, err := toPurchase(raw, vehicle); err == nil {
			res.Purchases = append(res.Purchases, p)
		} else {
			res.Skipped++
		}
	}
	for _, raw := range b.Maintenance {
		if m, err := toMaintenance(raw, vehicle); err == nil {
			res.Maintenance = append(res.Maintenance, m)
		} else {
			res.Skipped++
		}
	}
	return res
}

// ParseJSONL reads a line-delimited feed. Each line is routed by its
// top-level "kind" field; lines without one are logs and lines with an
// unknown kind are skipped.
func ParseJSONL(r io.Reader, vehicle string) ParseResult {
	var res ParseResult

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		kind, found := extractTopLevelKind(line)
		if !found {
			kind = KindLog
		}

		switch kind {
		case KindLog:
			var raw RawLog
			if err := json.Unmarshal(line, &raw); err != nil {
				res.ParseErrors++
				continue
			}
			e, err := toLog(raw, vehicle)
			if err != nil {
				res.Skipped++
				continue
			}
			res.Logs = append(res.Logs, e)

		case KindPurchase:
			var raw RawPurchase
			if err := json.Unmarshal(line, &raw); err != nil {
				res.ParseErrors++
				continue
			}
			p, err := toPurchase(raw, vehicle)
			if err != nil {
				res.Skipped++
				continue
			}
			res.Purchases = append(res.Purchases, p)

		case KindMaintenance:
			var raw RawMaintenance
			if err := json.Unmarshal(line, &raw); err != nil {
				res.ParseErrors++
				continue
			}
			m, err := toMaintenance(raw, vehicle)
			if err != nil {
				res.Skipped++
				continue
			}
			res.Maintenance = append(res.Maintenance, m)

		default:
			res.Skipped++
		}
	}

	if err := scanner.Err(); err != nil {
		res.Err = err
	}
	return res
}

// kindKey is the byte sequence for a JSON key named "kind" (with quotes).
var kindKey = []byte(`"kind"`)

// extractTopLevelKind finds the top-level "kind" field in a JSONL line.
// Tracks brace depth and string boundaries so nested "kind" keys are ignored.
// found reports whether the key was present at all.
func extractTopLevelKind(line []byte) (kind string, found bool) {
	depth := 0
	for i := 0; i < len(line); {
		switch line[i] {
		case '"':
			if depth == 1 && bytes.HasPrefix(line[i:], kindKey) {
				val, isKey := classifyKind(line, i+len(kindKey))
				if isKey {
					return val, true
				}
			}
			i = skipJSONString(line, i)
		case '{':
			depth++
			i++
		case '}':
			depth--
			i++
		default:
			i++
		}
	}
	return "", false
}

// classifyKind checks whether pos follows a JSON key and returns its
// string value. isKey=false means "kind" appeared as a value.
func classifyKind(line []byte, pos int) (val string, isKey bool) {
	i := skipSpaces(line, pos)
	if i >= len(line) || line[i] != ':' {
		return "", false
	}
	i = skipSpaces(line, i+1)
	if i >= len(line) || line[i] != '"' {
		return "", true // non-string value
	}
	i++

	end := bytes.IndexByte(line[i:], '"')
	if end < 0 || end > 20 {
		return "", true
	}
	return string(line[i : i+end]), true
}

// skipJSONString advances past a JSON string starting at the opening quote.
//
//nolint:gosec // manual bounds checking throughout
func skipJSONString(line []byte, i int) int {
	i++
	for i < len(line) {
		switch line[i] {
		case '\\':
			i += 2
		case '"':
			return i + 1
		default:
			i++
		}
	}
	return i
}

func skipSpaces(line []byte, i int) int {
	for i < len(line) && (line[i] == ' ' || line[i] == '\t') {
		i++
	}
	return i
}
