package data

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/gocarina/gocsv"

	"github.com/contactkeval/black-scholes/internal/logger"
)

// csvSource reads quotes from a CSV file with a header row.
type csvSource struct {
	path      string
	secondary Source
}

// NewCSVSource returns a Source reading path. When the file does not exist
// the request is delegated to secondary, if any.
func NewCSVSource(path string, secondary Source) Source {
	return &csvSource{path: path, secondary: secondary}
}

func (src *csvSource) Secondary() Source {
	return src.secondary
}

func (src *csvSource) Quotes(ctx context.Context) ([]Quote, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(src.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && src.secondary != nil {
			logger.Infof("quotes file %s not found, using secondary source", src.path)
			return src.secondary.Quotes(ctx)
		}
		return nil, fmt.Errorf("open quotes: %w", err)
	}
	defer f.Close()

	var rows []*Quote
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return nil, fmt.Errorf("decode quotes %s: %w", src.path, err)
	}

	out := make([]Quote, 0, len(rows))
	for i, q := range rows {
		if _, err := q.OptionSide(); err != nil {
			return nil, fmt.Errorf("%s row %d: %w", src.path, i+2, err)
		}
		out = append(out, *q)
	}
	logger.Debugf("loaded %d quotes from %s", len(out), src.path)
	return out, nil
}

// WriteQuotesCSV stores quotes in the format read by NewCSVSource.
func WriteQuotesCSV(path string, quotes []Quote) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create quotes: %w", err)
	}
	if err := gocsv.MarshalFile(&quotes, f); err != nil {
		f.Close()
		return fmt.Errorf("encode quotes: %w", err)
	}
	return f.Close()
}
