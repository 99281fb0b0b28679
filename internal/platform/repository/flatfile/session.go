package flatfile

import (
	"FlatDB/internal/domain"
	"FlatDB/internal/platform/utils"
	stderrors "errors"
	"io"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// open tracks the data files held by a live Session in this process.
var open = struct {
	sync.Mutex
	paths map[string]struct{}
}{paths: make(map[string]struct{})}

func acquire(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	open.Lock()
	defer open.Unlock()
	if _, ok := open.paths[abs]; ok {
		return errors.Wrapf(domain.ErrAlreadyOpen, "data file %s", path)
	}
	open.paths[abs] = struct{}{}
	return nil
}

func release(path string) {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	open.Lock()
	defer open.Unlock()
	delete(open.paths, abs)
}

// Session owns the data file handle of one open database. It is not safe for
// concurrent use and is unusable once closed.
type Session struct {
	prefix string
	file   *RecordFile
	meta   Metadata
	logger *logrus.Entry
}

func Open(prefix string) (*Session, error) {
	meta, err := ReadMetadata(prefix)
	if err != nil {
		return nil, err
	}
	dataPath := DataPath(prefix)
	if err := acquire(dataPath); err != nil {
		return nil, err
	}
	file, err := OpenRecordFile(dataPath)
	if err != nil {
		release(dataPath)
		return nil, err
	}

	logger := logrus.WithField("prefix", prefix)
	size, err := file.Size()
	if err != nil {
		file.Close()
		release(dataPath)
		return nil, err
	}
	expected := int64(meta.NumRecords()) * int64(meta.RecordSize)
	if size < expected {
		file.Close()
		release(dataPath)
		return nil, errors.Wrapf(domain.ErrDatabaseNotFound,
			"data file %s is %d bytes, metadata describes %d", dataPath, size, expected)
	}
	if size > expected {
		// bytes past the last counted record were never acknowledged
		logger.Warnf("discarding %d bytes past the %d records in metadata", size-expected, meta.NumRecords())
		err = file.Truncate(expected)
		if err == nil {
			err = file.Sync()
		}
		if err != nil {
			file.Close()
			release(dataPath)
			return nil, err
		}
	}

	logger.WithFields(logrus.Fields{
		"sorted":      meta.NumSorted,
		"unsorted":    meta.NumUnsorted,
		"record_size": meta.RecordSize,
	}).Info("database opened")
	return &Session{
		prefix: prefix,
		file:   file,
		meta:   meta,
		logger: logger,
	}, nil
}

// Close persists the metadata and releases the file handle. The handle is
// released even if the metadata write fails; both failures are reported.
func (s *Session) Close() error {
	if s.file == nil {
		return domain.ErrNotOpen
	}
	metaErr := WriteMetadata(s.prefix, s.meta)
	closeErr := s.file.Close()
	release(s.file.Path())
	s.file = nil
	if err := stderrors.Join(metaErr, closeErr); err != nil {
		s.logger.WithError(err).Error("database closed with errors")
		return err
	}
	s.logger.Info("database closed")
	return nil
}

func (s *Session) IsOpen() bool {
	return s != nil && s.file != nil
}

func (s *Session) Prefix() string {
	return s.prefix
}

func (s *Session) Metadata() Metadata {
	return s.meta
}

func (s *Session) Stats() domain.DatabaseStats {
	return domain.DatabaseStats{
		Prefix:      s.prefix,
		NumSorted:   s.meta.NumSorted,
		NumUnsorted: s.meta.NumUnsorted,
		NumRecords:  s.meta.NumRecords(),
		RecordSize:  s.meta.RecordSize,
		Widths:      s.meta.Widths,
	}
}

func (s *Session) ReadRecord(recordNum int) (domain.Record, error) {
	if !s.IsOpen() {
		return domain.Record{}, domain.ErrNotOpen
	}
	if recordNum < 0 || recordNum >= s.meta.NumRecords() {
		return domain.Record{}, errors.Wrapf(domain.ErrInvalidRecordNumber,
			"record %d not in [0, %d)", recordNum, s.meta.NumRecords())
	}
	block, err := s.file.ReadAt(recordNum, s.meta.RecordSize)
	if err != nil {
		return domain.Record{}, err
	}
	return utils.DecodeRecord(block, s.meta.Widths)
}

func (s *Session) writeRecord(recordNum int, record domain.Record) error {
	if recordNum < 0 || recordNum >= s.meta.NumRecords() {
		return errors.Wrapf(domain.ErrInvalidRecordNumber,
			"record %d not in [0, %d)", recordNum, s.meta.NumRecords())
	}
	return s.file.WriteAt(recordNum, utils.EncodeRecord(record, s.meta.Widths))
}

// Scan reads records [from, to) sequentially. to is clamped to numRecords.
func (s *Session) Scan(from, to int, fn func(recordNum int, record domain.Record) bool) error {
	if !s.IsOpen() {
		return domain.ErrNotOpen
	}
	if to > s.meta.NumRecords() {
		to = s.meta.NumRecords()
	}
	if from < 0 || from > to {
		return errors.Wrapf(domain.ErrInvalidRecordNumber, "scan range [%d, %d)", from, to)
	}
	r, err := s.file.Reader(from, s.meta.RecordSize)
	if err != nil {
		return err
	}
	for recordNum := from; recordNum < to; recordNum++ {
		record, err := utils.ReadOneRecord(r, s.meta.Widths)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return errors.Wrapf(domain.ErrShortRead, "record %d", recordNum)
			}
			return errors.Wrapf(err, "record %d", recordNum)
		}
		if !fn(recordNum, record) {
			return nil
		}
	}
	return nil
}
