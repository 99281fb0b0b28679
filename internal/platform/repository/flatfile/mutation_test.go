package flatfile

import (
	"FlatDB/internal/domain"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdate(t *testing.T) {
	prefix := buildDatabase(t, companies)
	s := openSession(t, prefix)

	lookup, err := s.Update(record("globex", "2", "Metropolis", "NY", "10001", "1300"))
	require.NoError(t, err)
	assert.Equal(t, 1, lookup.RecordNum)
	assert.Equal(t, "Globex", lookup.Record.Name, "stored key spelling is kept")

	stored, err := s.ReadRecord(1)
	require.NoError(t, err)
	assert.Equal(t, record("Globex", "2", "Metropolis", "NY", "10001", "1300"), stored)

	// neighbours untouched
	neighbour, err := s.ReadRecord(2)
	require.NoError(t, err)
	assert.Equal(t, record(companies[2]...), neighbour)
}

func TestUpdate_KeyNotFoundWritesNothing(t *testing.T) {
	prefix := buildDatabase(t, companies)
	before, err := os.ReadFile(DataPath(prefix))
	require.NoError(t, err)

	s := openSession(t, prefix)
	_, err = s.Update(record("Nobody", "1", "x", "y", "z", "0"))
	assert.ErrorIs(t, err, domain.ErrKeyNotFound)
	require.NoError(t, s.Close())

	after, err := os.ReadFile(DataPath(prefix))
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestUpdate_OverflowRecord(t *testing.T) {
	prefix := buildDatabase(t, companies)
	s := openSession(t, prefix)
	_, err := s.Add(record("Aperture", "7", "Cleveland", "OH", "44101", "800"))
	require.NoError(t, err)

	lookup, err := s.Update(record("Aperture", "7", "Cleveland", "OH", "44101", "850"))
	require.NoError(t, err)
	assert.Equal(t, len(companies), lookup.RecordNum)

	found, err := s.FindByKey("Aperture")
	require.NoError(t, err)
	assert.Equal(t, "850", found.Record.Employees)
}

func TestDelete(t *testing.T) {
	prefix := buildDatabase(t, companies)
	s := openSession(t, prefix)

	lookup, err := s.Delete("hooli")
	require.NoError(t, err)
	assert.Equal(t, 2, lookup.RecordNum)
	assert.Equal(t, domain.Record{Name: "Hooli"}, lookup.Record)

	found, err := s.FindByKey("Hooli")
	require.NoError(t, err)
	assert.Equal(t, 2, found.RecordNum)
	assert.True(t, found.Record.IsTombstone())
	assert.Equal(t, "Hooli", found.Record.Name)

	// record numbers of later records do not shift
	later, err := s.FindByKey("Initech")
	require.NoError(t, err)
	assert.Equal(t, 3, later.RecordNum)
	assert.Equal(t, len(companies), s.Metadata().NumRecords())
}

func TestDelete_Idempotent(t *testing.T) {
	prefix := buildDatabase(t, companies)
	s := openSession(t, prefix)

	first, err := s.Delete("Hooli")
	require.NoError(t, err)
	second, err := s.Delete("Hooli")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestDelete_KeyNotFound(t *testing.T) {
	prefix := buildDatabase(t, companies)
	s := openSession(t, prefix)

	_, err := s.Delete("Nobody")
	assert.ErrorIs(t, err, domain.ErrKeyNotFound)
}

func TestAdd_PersistsMetadataImmediately(t *testing.T) {
	prefix := buildDatabase(t, companies)
	s := openSession(t, prefix)

	lookup, err := s.Add(record("Aperture", "7", "Cleveland", "OH", "44101", "800"))
	require.NoError(t, err)
	assert.Equal(t, len(companies), lookup.RecordNum)

	// visible on disk before close
	m, err := ReadMetadata(prefix)
	require.NoError(t, err)
	assert.Equal(t, len(companies), m.NumSorted)
	assert.Equal(t, 1, m.NumUnsorted)

	info, err := os.Stat(DataPath(prefix))
	require.NoError(t, err)
	assert.Equal(t, int64(7*m.RecordSize), info.Size())
}

func TestAdd_RefusesDataFileOutOfStepWithMetadata(t *testing.T) {
	prefix := buildDatabase(t, companies)
	s := openSession(t, prefix)
	stray := []byte("not a record\n")
	appendRaw(t, prefix, stray)

	_, err := s.Add(record("Zeta", "7", "Cleveland", "OH", "44101", "800"))
	assert.Error(t, err)

	m, err := ReadMetadata(prefix)
	require.NoError(t, err)
	assert.Equal(t, 0, m.NumUnsorted)
	assert.Equal(t, 0, s.Metadata().NumUnsorted)

	info, err := os.Stat(DataPath(prefix))
	require.NoError(t, err)
	assert.Equal(t, int64(len(companies)*m.RecordSize+len(stray)), info.Size())
}

func TestAdd_TruncatesOversizedFields(t *testing.T) {
	prefix := buildDatabase(t, companies)
	s := openSession(t, prefix)

	lookup, err := s.Add(record("Aperture", "12345", "Cleveland", "Ohio", "44101", "800"))
	require.NoError(t, err)
	assert.Equal(t, "1234", lookup.Record.Rank)
	assert.Equal(t, "Oh", lookup.Record.State)
}

func TestAdd_SurvivesReopen(t *testing.T) {
	prefix := buildDatabase(t, companies)
	s := openSession(t, prefix)
	_, err := s.Add(record("Aperture", "7", "Cleveland", "OH", "44101", "800"))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s = openSession(t, prefix)
	assert.Equal(t, 1, s.Metadata().NumUnsorted)
	lookup, err := s.FindByKey("Aperture")
	require.NoError(t, err)
	assert.Equal(t, "800", lookup.Record.Employees)
}

func TestEndToEnd_UpdateSurvivesReopen(t *testing.T) {
	prefix := tempPrefix(t)
	result, err := Build(NewCSVRowSource(csvOf(
		"Acme,1,Springfield,IL,62701,500",
		"Globex,2,Metropolis,NY,10001,1200",
		"Hooli,3,Palo Alto,CA,94301,9000",
		"Initech,4,Austin,TX,73301,300",
		"Soylent,5,Chicago,IL,60601,4500",
		"Umbrella,6,Raccoon City,MO,65801,7000",
	)), prefix, BuildOptions{})
	require.NoError(t, err)
	require.Equal(t, 6, result.Accepted)

	s := openSession(t, prefix)
	lookup, err := s.FindByKey("Globex")
	require.NoError(t, err)
	assert.Equal(t, "1200", lookup.Record.Employees)

	updated := lookup.Record
	updated.Employees = "1300"
	_, err = s.Update(updated)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s = openSession(t, prefix)
	lookup, err = s.FindByKey("Globex")
	require.NoError(t, err)
	assert.Equal(t, "1300", lookup.Record.Employees)
	assert.Equal(t, 6, s.Metadata().NumSorted)
	assert.Equal(t, 0, s.Metadata().NumUnsorted)
}
