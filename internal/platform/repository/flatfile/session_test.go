package flatfile

import (
	"FlatDB/internal/domain"
	"FlatDB/internal/platform/utils"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_MissingDatabase(t *testing.T) {
	_, err := Open(tempPrefix(t))
	assert.ErrorIs(t, err, domain.ErrDatabaseNotFound)
}

func TestOpen_MissingDataFile(t *testing.T) {
	prefix := buildDatabase(t, companies)
	require.NoError(t, os.Remove(DataPath(prefix)))

	_, err := Open(prefix)
	assert.ErrorIs(t, err, domain.ErrDatabaseNotFound)
}

func TestOpen_TruncatedDataFile(t *testing.T) {
	prefix := buildDatabase(t, companies)
	require.NoError(t, os.Truncate(DataPath(prefix), int64(domain.DefaultFieldWidths.RecordSize())*2))

	_, err := Open(prefix)
	assert.ErrorIs(t, err, domain.ErrDatabaseNotFound)
}

func TestOpen_DiscardsTrailingBytes(t *testing.T) {
	widths := domain.DefaultFieldWidths
	prefix := buildDatabase(t, companies)
	// a whole block from an add that never reached the metadata, then a torn write
	orphan := utils.EncodeRecord(record("Orphan", "9", "Nowhere", "NV", "89001", "1"), widths)
	appendRaw(t, prefix, orphan)
	appendRaw(t, prefix, orphan[:30])

	s := openSession(t, prefix)
	info, err := os.Stat(DataPath(prefix))
	require.NoError(t, err)
	assert.Equal(t, int64(len(companies)*widths.RecordSize()), info.Size())

	lookup, err := s.Add(record("Zeta", "7", "Cleveland", "OH", "44101", "800"))
	require.NoError(t, err)
	assert.Equal(t, len(companies), lookup.RecordNum)

	found, err := s.FindByKey("Zeta")
	require.NoError(t, err)
	assert.Equal(t, len(companies), found.RecordNum)
	_, err = s.FindByKey("Orphan")
	assert.ErrorIs(t, err, domain.ErrKeyNotFound)

	r, err := s.ReadRecord(len(companies))
	require.NoError(t, err)
	assert.Equal(t, "Zeta", r.Name)
}

func TestOpen_Twice(t *testing.T) {
	prefix := buildDatabase(t, companies)
	first := openSession(t, prefix)

	_, err := Open(prefix)
	assert.ErrorIs(t, err, domain.ErrAlreadyOpen)
	assert.True(t, first.IsOpen())

	require.NoError(t, first.Close())
	second := openSession(t, prefix)
	assert.True(t, second.IsOpen())
}

func TestSession_Close(t *testing.T) {
	prefix := buildDatabase(t, companies)
	s := openSession(t, prefix)

	require.NoError(t, s.Close())
	assert.False(t, s.IsOpen())
	assert.ErrorIs(t, s.Close(), domain.ErrNotOpen)

	_, err := s.ReadRecord(0)
	assert.ErrorIs(t, err, domain.ErrNotOpen)
	_, err = s.FindByKey("Acme")
	assert.ErrorIs(t, err, domain.ErrNotOpen)
	_, err = s.Add(record("Zeta", "7", "X", "Y", "1", "1"))
	assert.ErrorIs(t, err, domain.ErrNotOpen)
}

func TestSession_CloseReportsMetadataFailure(t *testing.T) {
	prefix := buildDatabase(t, companies)
	s := openSession(t, prefix)

	// a directory in place of the config file makes the rename fail
	require.NoError(t, os.Remove(ConfigPath(prefix)))
	require.NoError(t, os.Mkdir(ConfigPath(prefix), 0755))
	require.NoError(t, os.WriteFile(ConfigPath(prefix)+"/keep", nil, 0644))

	assert.Error(t, s.Close())
	assert.False(t, s.IsOpen())

	_, err := Open(prefix)
	assert.ErrorIs(t, err, domain.ErrDatabaseNotFound)
}

func TestSession_ReadRecord(t *testing.T) {
	prefix := buildDatabase(t, companies)
	s := openSession(t, prefix)

	for i, row := range companies {
		r, err := s.ReadRecord(i)
		require.NoError(t, err)
		assert.Equal(t, record(row...), r)
	}

	_, err := s.ReadRecord(len(companies))
	assert.ErrorIs(t, err, domain.ErrInvalidRecordNumber)
	_, err = s.ReadRecord(-1)
	assert.ErrorIs(t, err, domain.ErrInvalidRecordNumber)
}

func TestSession_Scan(t *testing.T) {
	prefix := buildDatabase(t, companies)
	s := openSession(t, prefix)

	var names []string
	require.NoError(t, s.Scan(1, 100, func(recordNum int, r domain.Record) bool {
		names = append(names, r.Name)
		return recordNum < 3
	}))
	assert.Equal(t, []string{"Globex", "Hooli", "Initech"}, names)

	assert.ErrorIs(t, s.Scan(4, 2, func(int, domain.Record) bool { return true }), domain.ErrInvalidRecordNumber)
}

func TestSession_Stats(t *testing.T) {
	prefix := buildDatabase(t, companies)
	s := openSession(t, prefix)

	stats := s.Stats()
	assert.Equal(t, prefix, stats.Prefix)
	assert.Equal(t, 6, stats.NumSorted)
	assert.Equal(t, 0, stats.NumUnsorted)
	assert.Equal(t, 6, stats.NumRecords)
	assert.Equal(t, 87, stats.RecordSize)
}
