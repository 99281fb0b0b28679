package flatfile

import (
	"FlatDB/internal/domain"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type sliceRowSource struct {
	rows [][]string
	next int
}

func (s *sliceRowSource) Next() ([]string, error) {
	if s.next >= len(s.rows) {
		return nil, io.EOF
	}
	row := s.rows[s.next]
	s.next++
	return row, nil
}

func (s *sliceRowSource) Line() int {
	return s.next
}

var companies = [][]string{
	{"Acme", "1", "Springfield", "IL", "62701", "500"},
	{"Globex", "2", "Metropolis", "NY", "10001", "1200"},
	{"Hooli", "3", "Palo Alto", "CA", "94301", "9000"},
	{"Initech", "4", "Austin", "TX", "73301", "300"},
	{"Soylent", "5", "Chicago", "IL", "60601", "4500"},
	{"Umbrella", "6", "Raccoon City", "MO", "65801", "7000"},
}

func tempPrefix(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "Fortune500")
}

func buildDatabase(t *testing.T, rows [][]string) string {
	t.Helper()
	prefix := tempPrefix(t)
	result, err := Build(&sliceRowSource{rows: rows}, prefix, BuildOptions{})
	require.NoError(t, err)
	require.Equal(t, len(rows), result.Accepted)
	return prefix
}

func openSession(t *testing.T, prefix string) *Session {
	t.Helper()
	s, err := Open(prefix)
	require.NoError(t, err)
	t.Cleanup(func() {
		if s.IsOpen() {
			s.Close()
		}
	})
	return s
}

// appendRaw writes bytes past the end of the data file behind the session's back.
func appendRaw(t *testing.T, prefix string, raw []byte) {
	t.Helper()
	f, err := os.OpenFile(DataPath(prefix), os.O_WRONLY|os.O_APPEND, 0644)
	require.NoError(t, err)
	_, err = f.Write(raw)
	require.NoError(t, err)
	require.NoError(t, f.Close())
}

func csvOf(rows ...string) io.Reader {
	return strings.NewReader(strings.Join(rows, "\n") + "\n")
}

func record(fields ...string) domain.Record {
	r, err := domain.RecordFromFields(fields)
	if err != nil {
		panic(err)
	}
	return r
}
