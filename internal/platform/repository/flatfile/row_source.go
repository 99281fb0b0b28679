package flatfile

import (
	"FlatDB/internal/domain"
	"encoding/csv"
	"io"

	"github.com/pkg/errors"
)

// RowSource yields delimited rows until io.EOF. A row that cannot be parsed is
// reported as ErrMalformedSourceRow and the source stays usable.
type RowSource interface {
	Next() ([]string, error)
	Line() int
}

type CSVRowSource struct {
	r    *csv.Reader
	line int
}

func NewCSVRowSource(r io.Reader) *CSVRowSource {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.ReuseRecord = false
	return &CSVRowSource{r: reader}
}

func (s *CSVRowSource) Next() ([]string, error) {
	row, err := s.r.Read()
	if err != nil {
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			s.line = parseErr.StartLine
			return nil, errors.Wrapf(domain.ErrMalformedSourceRow, "line %d: %v", parseErr.StartLine, parseErr.Err)
		}
		return nil, err
	}
	s.line, _ = s.r.FieldPos(0)
	return row, nil
}

// Line is the source line of the row last returned by Next.
func (s *CSVRowSource) Line() int {
	return s.line
}
