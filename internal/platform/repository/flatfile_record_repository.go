package repository

import (
	"FlatDB/internal/domain"
	"FlatDB/internal/platform/config"
	"FlatDB/internal/platform/metrics"
	"FlatDB/internal/platform/repository/flatfile"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
)

// FlatFileRecordRepository holds at most one open flatfile.Session and
// serializes every call on it.
type FlatFileRecordRepository struct {
	mu      sync.Mutex
	dataDir string
	session *flatfile.Session
}

func NewFlatFileRecordRepository(conf config.Config) *FlatFileRecordRepository {
	return &FlatFileRecordRepository{
		dataDir: conf.DataDirectory,
	}
}

func (r *FlatFileRecordRepository) resolve(prefix string) string {
	if filepath.IsAbs(prefix) || r.dataDir == "" {
		return prefix
	}
	return filepath.Join(r.dataDir, prefix)
}

func (r *FlatFileRecordRepository) Open(prefix string) (err error) {
	defer func() { metrics.ObserveOperation("open", err) }()
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.session != nil {
		return errors.Wrapf(domain.ErrAlreadyOpen, "%s is open", r.session.Prefix())
	}
	session, err := flatfile.Open(r.resolve(prefix))
	if err != nil {
		return err
	}
	r.session = session
	meta := session.Metadata()
	metrics.SetRecords(meta.NumSorted, meta.NumUnsorted)
	return nil
}

func (r *FlatFileRecordRepository) Close() (err error) {
	defer func() { metrics.ObserveOperation("close", err) }()
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.session == nil {
		return domain.ErrNotOpen
	}
	session := r.session
	r.session = nil
	metrics.SetRecords(0, 0)
	return session.Close()
}

func (r *FlatFileRecordRepository) IsOpen() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.session != nil
}

func (r *FlatFileRecordRepository) Stats() (domain.DatabaseStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.session == nil {
		return domain.DatabaseStats{}, domain.ErrNotOpen
	}
	return r.session.Stats(), nil
}

func (r *FlatFileRecordRepository) ReadRecord(recordNum int) (record domain.Record, err error) {
	defer func() { metrics.ObserveOperation("read", err) }()
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.session == nil {
		return domain.Record{}, domain.ErrNotOpen
	}
	return r.session.ReadRecord(recordNum)
}

func (r *FlatFileRecordRepository) FindByKey(name string) (lookup domain.Lookup, err error) {
	defer func() { metrics.ObserveOperation("find", err) }()
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.session == nil {
		return domain.Lookup{}, domain.ErrNotOpen
	}
	return r.session.FindByKey(name)
}

func (r *FlatFileRecordRepository) Update(record domain.Record) (lookup domain.Lookup, err error) {
	defer func() { metrics.ObserveOperation("update", err) }()
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.session == nil {
		return domain.Lookup{}, domain.ErrNotOpen
	}
	return r.session.Update(record)
}

func (r *FlatFileRecordRepository) Delete(name string) (lookup domain.Lookup, err error) {
	defer func() { metrics.ObserveOperation("delete", err) }()
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.session == nil {
		return domain.Lookup{}, domain.ErrNotOpen
	}
	return r.session.Delete(name)
}

func (r *FlatFileRecordRepository) Add(record domain.Record) (lookup domain.Lookup, err error) {
	defer func() { metrics.ObserveOperation("add", err) }()
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.session == nil {
		return domain.Lookup{}, domain.ErrNotOpen
	}
	lookup, err = r.session.Add(record)
	meta := r.session.Metadata()
	metrics.SetRecords(meta.NumSorted, meta.NumUnsorted)
	return lookup, err
}

func (r *FlatFileRecordRepository) Scan(from, to int, fn func(recordNum int, record domain.Record) bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.session == nil {
		return domain.ErrNotOpen
	}
	return r.session.Scan(from, to, fn)
}

// Build refuses to replace the database that is currently open. The prefix
// is resolved against the data directory; the source path is used as given.
func (r *FlatFileRecordRepository) Build(request domain.BuildRequest) (report domain.BuildReport, err error) {
	defer func() { metrics.ObserveOperation("build", err) }()
	r.mu.Lock()
	defer r.mu.Unlock()

	prefix := r.resolve(request.Prefix)
	if r.session != nil && samePath(r.session.Prefix(), prefix) {
		return domain.BuildReport{}, errors.Wrapf(domain.ErrAlreadyOpen, "cannot rebuild open database %s", request.Prefix)
	}
	result, err := flatfile.BuildFromFile(request.Source, prefix, flatfile.BuildOptions{
		Widths:       request.Widths,
		DetectHeader: request.DetectHeader,
		MaxRecords:   request.MaxRecords,
	})
	if err != nil {
		return domain.BuildReport{}, err
	}
	return domain.BuildReport{
		Prefix:     request.Prefix,
		Accepted:   result.Accepted,
		Skipped:    result.Skipped,
		RecordSize: result.RecordSize,
	}, nil
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return a == b
	}
	return absA == absB
}
