package pedigree

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/carbocation/heredity"
	"github.com/carbocation/pfx"
	"github.com/gocarina/gocsv"
	"gopkg.in/guregu/null.v3"
)

// Columns that every pedigree file must carry in its header.
var requiredColumns = []string{"name", "mother", "father", "trait"}

type row struct {
	Name   string     `csv:"name"`
	Mother string     `csv:"mother"`
	Father string     `csv:"father"`
	Trait  traitField `csv:"trait"`
}

// traitField decodes the trait column: "1" is true, "0" is false and a blank
// is unknown.
type traitField struct {
	null.Bool
}

func (t *traitField) UnmarshalCSV(value string) error {
	switch strings.TrimSpace(value) {
	case "":
		t.Bool = null.Bool{}
	case "1":
		t.Bool = null.BoolFrom(true)
	case "0":
		t.Bool = null.BoolFrom(false)
	default:
		return fmt.Errorf("trait must be 1, 0 or blank, got %q", value)
	}
	return nil
}

// Load reads a pedigree from a local path or gs:// URL. client may be nil.
func Load(ctx context.Context, path string, client *storage.Client) (*Population, error) {
	rc, err := heredity.OpenPath(ctx, path, client)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	pop, err := Read(rc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return pop, nil
}

// Read parses a delimited pedigree with the columns name, mother, father and
// trait, in any order. The delimiter is detected from the content.
func Read(r io.Reader) (*Population, error) {
	fileBytes, err := io.ReadAll(r)
	if err != nil {
		return nil, pfx.Err(err)
	}

	// Spreadsheet exports often lead with a byte order mark.
	fileBytes = bytes.TrimPrefix(fileBytes, []byte("\ufeff"))

	delim := heredity.DetermineDelimiter(fileBytes)

	if err := checkHeader(fileBytes, delim); err != nil {
		return nil, err
	}

	rows := []*row{}
	cr := &lineRecorder{Reader: newCSVReader(fileBytes, delim)}
	if err := gocsv.UnmarshalCSV(cr, &rows); err != nil {
		return nil, pfx.Err(err)
	}

	records := make([]Record, 0, len(rows))
	for i, v := range rows {
		records = append(records, Record{
			Name:   strings.TrimSpace(v.Name),
			Mother: strings.TrimSpace(v.Mother),
			Father: strings.TrimSpace(v.Father),
			Trait:  v.Trait.Bool,

			// The header is the first record
			Line: cr.line(i + 1),
		})
	}

	return New(records)
}

func newCSVReader(fileBytes []byte, delim rune) *csv.Reader {
	cr := csv.NewReader(bytes.NewReader(fileBytes))
	cr.Comma = delim

	// With a whitespace delimiter, trimming would swallow empty fields.
	cr.TrimLeadingSpace = delim != '\t'
	return cr
}

// lineRecorder remembers the file line on which each record starts, since
// blank lines are skipped by csv.Reader.
type lineRecorder struct {
	*csv.Reader
	lines []int
}

func (l *lineRecorder) Read() ([]string, error) {
	rec, err := l.Reader.Read()
	if err == nil {
		line, _ := l.Reader.FieldPos(0)
		l.lines = append(l.lines, line)
	}
	return rec, err
}

func (l *lineRecorder) ReadAll() ([][]string, error) {
	out := make([][]string, 0)
	for {
		rec, err := l.Read()
		if err == io.EOF {
			return out, nil
		} else if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
}

// line is the file line of the i'th record, or 0 if unknown.
func (l *lineRecorder) line(i int) int {
	if i < 0 || i >= len(l.lines) {
		return 0
	}
	return l.lines[i]
}

func checkHeader(fileBytes []byte, delim rune) error {
	header, err := newCSVReader(fileBytes, delim).Read()
	if err == io.EOF {
		return &ValidationError{Reason: "file is empty"}
	} else if err != nil {
		return pfx.Err(err)
	}

	present := make(map[string]struct{}, len(header))
	for _, col := range header {
		present[strings.TrimSpace(col)] = struct{}{}
	}

	missing := make([]string, 0)
	for _, col := range requiredColumns {
		if _, exists := present[col]; !exists {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return &ValidationError{Line: 1, Reason: fmt.Sprintf("header is missing column(s): %s", strings.Join(missing, ", "))}
	}

	return nil
}
