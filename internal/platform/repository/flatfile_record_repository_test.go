package repository

import (
	"FlatDB/internal/domain"
	"FlatDB/internal/platform/config"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const companiesCSV = `Acme,1,Springfield,IL,62701,500
Globex,2,Metropolis,NY,10001,1200
Hooli,3,Palo Alto,CA,94301,9000
Initech,4,Austin,TX,73301,300
Soylent,5,Chicago,IL,60601,4500
Umbrella,6,Raccoon City,MO,65801,7000
`

func newRepository(t *testing.T) *FlatFileRecordRepository {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "companies.csv"), []byte(companiesCSV), 0o644))
	repo := NewFlatFileRecordRepository(config.Config{DataDirectory: dir})
	report, err := repo.Build(domain.BuildRequest{Source: sourcePath(repo), Prefix: "Fortune500"})
	require.NoError(t, err)
	require.Equal(t, 6, report.Accepted)
	t.Cleanup(func() {
		if repo.IsOpen() {
			repo.Close()
		}
	})
	return repo
}

func sourcePath(repo *FlatFileRecordRepository) string {
	return filepath.Join(repo.dataDir, "companies.csv")
}

func TestRepository_OperationsNeedOpenDatabase(t *testing.T) {
	repo := newRepository(t)

	_, err := repo.FindByKey("Acme")
	assert.ErrorIs(t, err, domain.ErrNotOpen)
	_, err = repo.ReadRecord(0)
	assert.ErrorIs(t, err, domain.ErrNotOpen)
	_, err = repo.Update(domain.Record{Name: "Acme"})
	assert.ErrorIs(t, err, domain.ErrNotOpen)
	_, err = repo.Delete("Acme")
	assert.ErrorIs(t, err, domain.ErrNotOpen)
	_, err = repo.Add(domain.Record{Name: "Acme"})
	assert.ErrorIs(t, err, domain.ErrNotOpen)
	_, err = repo.Stats()
	assert.ErrorIs(t, err, domain.ErrNotOpen)
	assert.ErrorIs(t, repo.Scan(0, 1, func(int, domain.Record) bool { return true }), domain.ErrNotOpen)
	assert.ErrorIs(t, repo.Close(), domain.ErrNotOpen)
}

func TestRepository_OpenResolvesAgainstDataDirectory(t *testing.T) {
	repo := newRepository(t)

	require.NoError(t, repo.Open("Fortune500"))
	assert.True(t, repo.IsOpen())
	assert.ErrorIs(t, repo.Open("Fortune500"), domain.ErrAlreadyOpen)

	stats, err := repo.Stats()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(repo.dataDir, "Fortune500"), stats.Prefix)
	assert.Equal(t, 6, stats.NumSorted)
	assert.Equal(t, 87, stats.RecordSize)

	require.NoError(t, repo.Close())
	assert.False(t, repo.IsOpen())
}

func TestRepository_RebuildOfOpenDatabaseIsRefused(t *testing.T) {
	repo := newRepository(t)
	require.NoError(t, repo.Open("Fortune500"))

	_, err := repo.Build(domain.BuildRequest{Source: sourcePath(repo), Prefix: "Fortune500"})
	assert.ErrorIs(t, err, domain.ErrAlreadyOpen)

	report, err := repo.Build(domain.BuildRequest{Source: sourcePath(repo), Prefix: "Copy", MaxRecords: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, report.Accepted)
}

func TestRepository_MutationsRoundTrip(t *testing.T) {
	repo := newRepository(t)
	require.NoError(t, repo.Open("Fortune500"))

	updated, err := repo.Update(domain.Record{Name: "globex", Rank: "2", City: "Metropolis", State: "NY", Zip: "10001", Employees: "1300"})
	require.NoError(t, err)
	assert.Equal(t, "Globex", updated.Record.Name)

	added, err := repo.Add(domain.Record{Name: "Vandelay", Rank: "7", City: "New York", State: "NY", Zip: "10002", Employees: "40"})
	require.NoError(t, err)
	assert.Equal(t, 6, added.RecordNum)

	_, err = repo.Delete("Hooli")
	require.NoError(t, err)
	require.NoError(t, repo.Close())

	require.NoError(t, repo.Open("Fortune500"))
	found, err := repo.FindByKey("Globex")
	require.NoError(t, err)
	assert.Equal(t, "1300", found.Record.Employees)

	found, err = repo.FindByKey("vandelay")
	require.NoError(t, err)
	assert.Equal(t, 6, found.RecordNum)

	hooli, err := repo.ReadRecord(2)
	require.NoError(t, err)
	assert.True(t, hooli.IsTombstone())

	stats, err := repo.Stats()
	require.NoError(t, err)
	assert.Equal(t, 6, stats.NumSorted)
	assert.Equal(t, 1, stats.NumUnsorted)
}

func TestRepository_ConcurrentCallsAreSerialized(t *testing.T) {
	repo := newRepository(t)
	require.NoError(t, repo.Open("Fortune500"))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 25; j++ {
				if i%2 == 0 {
					_, err := repo.FindByKey("Soylent")
					assert.NoError(t, err)
				} else {
					_, err := repo.Update(domain.Record{Name: "Initech", Rank: "4", City: "Austin", State: "TX", Zip: "73301", Employees: "300"})
					assert.NoError(t, err)
				}
			}
		}(i)
	}
	wg.Wait()

	found, err := repo.FindByKey("Initech")
	require.NoError(t, err)
	assert.Equal(t, 3, found.RecordNum)
}
