package asanaindex

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"yogaseq/internal/plate"
)

// Categorizer returns the category for the first plate (in order) whose
// images yield one, or "".
type Categorizer func(plates []plate.ID) string

// Option customizes Parse.
type Option func(*parseOptions)

type parseOptions struct {
	categorize Categorizer
}

// WithCategorizer infers each record's base category from its plates.
func WithCategorizer(fn Categorizer) Option {
	return func(o *parseOptions) {
		o.categorize = fn
	}
}

// Stats summarizes a parse run.
type Stats struct {
	Rows    int
	Kept    int
	Dropped int
}

// Parse reads the asana index. Only an unreadable header is an error;
// malformed rows are dropped individually.
func Parse(r io.Reader, opts ...Option) ([]Record, error) {
	records, _, err := ParseWithStats(r, opts...)
	return records, err
}

// ParseWithStats is Parse plus row accounting for logging.
func ParseWithStats(r io.Reader, opts ...Option) ([]Record, Stats, error) {
	var options parseOptions
	for _, opt := range opts {
		opt(&options)
	}

	reader := csv.NewReader(stripBOM(r))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, Stats{}, nil
		}
		return nil, Stats{}, fmt.Errorf("read index header: %w", err)
	}
	cols := bindColumns(header)

	var (
		records []Record
		stats   Stats
	)
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				stats.Rows++
				stats.Dropped++
				continue
			}
			return records, stats, fmt.Errorf("read index row: %w", err)
		}
		if isBlankRow(row) {
			continue
		}
		stats.Rows++
		rec, ok := cols.record(row)
		if !ok {
			stats.Dropped++
			continue
		}
		if options.categorize != nil {
			rec.BaseCategory = options.categorize(rec.CategoryPlates())
		}
		rec.Category = rec.BaseCategory
		rec.CategorySource = BaseSource(rec.BaseCategory)
		rec.Description = rec.BaseDescription
		rec.DescriptionSource = BaseSource(rec.BaseDescription)
		records = append(records, rec)
		stats.Kept++
	}
	return records, stats, nil
}

func (c columns) record(row []string) (Record, bool) {
	asanaNo := plate.Normalize(c.value(row, fieldAsanaNo))
	if !plate.IsAsanaNumber(asanaNo) {
		return Record{}, false
	}
	intermediate := plate.ParseField(c.value(row, fieldIntermediate))
	final := plate.ParseField(c.value(row, fieldFinal))
	all := make([]plate.ID, 0, len(intermediate)+len(final))
	all = append(all, intermediate...)
	all = append(all, final...)
	return Record{
		AsanaNo:            asanaNo,
		English:            c.value(row, fieldEnglish),
		IAST:               c.value(row, fieldIAST),
		IntermediatePlates: intermediate,
		FinalPlates:        final,
		AllPlates:          all,
		Pages:              c.value(row, fieldPages),
		Intensity:          c.value(row, fieldIntensity),
		BaseDescription:    c.value(row, fieldDescription),
	}, true
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func stripBOM(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	if head, err := br.Peek(3); err == nil && head[0] == 0xEF && head[1] == 0xBB && head[2] == 0xBF {
		_, _ = br.Discard(3)
	}
	return br
}
