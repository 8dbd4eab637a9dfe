package tracker

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Column names of the persisted table. "new" is kept as the current-name
// column for compatibility with existing tracker files.
const (
	colOriginal = "original"
	colCurrent  = "new"
	colMode     = "mode"
)

// Encode renders t as CSV with an explicit mode column on every row:
//
//	original,new,mode
//	a.txt,_2a.txt,prefixed
func Encode(t Table) ([]byte, error) {
	var buf bytes.Buffer

	w := csv.NewWriter(&buf)

	if err := w.Write([]string{colOriginal, colCurrent, colMode}); err != nil {
		return nil, err
	}

	mode := t.Mode.String()

	for _, rec := range t.Records {
		if err := w.Write([]string{rec.Original, rec.Current, mode}); err != nil {
			return nil, err
		}
	}

	w.Flush()

	if err := w.Error(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// Decode parses a tracker file.
//
// Two layouts are accepted. The current one carries the mode in a "mode"
// column. Older trackers encode the mode in the name of the third column
// ("unchanged" or "prefixed") and leave its cells empty.
//
// Rows with an empty original are dropped; a repeated original keeps its
// first row. A missing current cell decodes as "".
func Decode(data []byte) (Table, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return Table{}, ErrEmptyTracker
	}

	if err != nil {
		return Table{}, fmt.Errorf("header: %w", err)
	}

	layout, err := parseHeader(header)
	if err != nil {
		return Table{}, err
	}

	t := Table{Mode: layout.mode}
	seen := make(map[string]bool)
	modeSet := false

	for {
		row, readErr := r.Read()
		if errors.Is(readErr, io.EOF) {
			break
		}

		if readErr != nil {
			return Table{}, fmt.Errorf("row: %w", readErr)
		}

		if layout.perRowMode && len(row) > 2 && strings.TrimSpace(row[2]) != "" {
			m, modeErr := ParseMode(row[2])
			if modeErr != nil {
				return Table{}, modeErr
			}

			if modeSet && m != t.Mode {
				return Table{}, ErrMixedModes
			}

			t.Mode = m
			modeSet = true
		}

		original := row[0]
		if original == "" || seen[original] {
			continue
		}

		seen[original] = true

		rec := Record{Original: original}
		if len(row) > 1 {
			rec.Current = row[1]
		}

		t.Records = append(t.Records, rec)
	}

	return t, nil
}

type headerLayout struct {
	mode       Mode
	perRowMode bool
}

func parseHeader(header []string) (headerLayout, error) {
	for i := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff"))
	}

	if len(header) < 2 || header[0] != colOriginal {
		return headerLayout{}, fmt.Errorf("%w: %q", ErrBadHeader, strings.Join(header, ","))
	}

	if header[1] != colCurrent && header[1] != "current" {
		return headerLayout{}, fmt.Errorf("%w: %q", ErrBadHeader, strings.Join(header, ","))
	}

	if len(header) == 2 {
		return headerLayout{mode: ModeUnchanged}, nil
	}

	if header[2] == colMode {
		return headerLayout{mode: ModeUnchanged, perRowMode: true}, nil
	}

	m, err := ParseMode(header[2])
	if err != nil {
		return headerLayout{}, fmt.Errorf("%w: %q", ErrBadHeader, strings.Join(header, ","))
	}

	return headerLayout{mode: m}, nil
}
