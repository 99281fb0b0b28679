package flatfile

import (
	"FlatDB/internal/domain"
	"bufio"
	"io"
	"os"

	"github.com/pkg/errors"
)

// RecordFile addresses a data file as an array of fixed-size blocks. Every
// read and write seeks to an absolute offset first.
type RecordFile struct {
	fd   *os.File
	path string
}

func OpenRecordFile(path string) (*RecordFile, error) {
	fd, err := os.OpenFile(path, os.O_RDWR, 0644)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(domain.ErrDatabaseNotFound, "data file %s", path)
		}
		return nil, errors.Wrapf(err, "open data file %s", path)
	}
	return &RecordFile{fd: fd, path: path}, nil
}

// CreateRecordFile truncates any existing file at path.
func CreateRecordFile(path string) (*RecordFile, error) {
	fd, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR|os.O_TRUNC, 0644)
	if err != nil {
		return nil, errors.Wrapf(err, "create data file %s", path)
	}
	return &RecordFile{fd: fd, path: path}, nil
}

func (f *RecordFile) Path() string {
	return f.path
}

func (f *RecordFile) ReadAt(recordNum, recordSize int) ([]byte, error) {
	if f.fd == nil {
		return nil, domain.ErrNotOpen
	}
	if recordNum < 0 {
		return nil, errors.Wrapf(domain.ErrInvalidRecordNumber, "record %d", recordNum)
	}
	if _, err := f.fd.Seek(int64(recordNum)*int64(recordSize), io.SeekStart); err != nil {
		return nil, errors.Wrapf(err, "seek to record %d", recordNum)
	}
	block := make([]byte, recordSize)
	n, err := io.ReadFull(f.fd, block)
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, errors.Wrapf(domain.ErrShortRead, "record %d: got %d of %d bytes", recordNum, n, recordSize)
		}
		return nil, errors.Wrapf(err, "read record %d", recordNum)
	}
	return block, nil
}

func (f *RecordFile) WriteAt(recordNum int, block []byte) error {
	if f.fd == nil {
		return domain.ErrNotOpen
	}
	if recordNum < 0 {
		return errors.Wrapf(domain.ErrInvalidRecordNumber, "record %d", recordNum)
	}
	if _, err := f.fd.Seek(int64(recordNum)*int64(len(block)), io.SeekStart); err != nil {
		return errors.Wrapf(err, "seek to record %d", recordNum)
	}
	if _, err := f.fd.Write(block); err != nil {
		return errors.Wrapf(err, "write record %d", recordNum)
	}
	return nil
}

// Append writes block at end of file regardless of the current position and
// returns the offset it was written at.
func (f *RecordFile) Append(block []byte) (int64, error) {
	if f.fd == nil {
		return 0, domain.ErrNotOpen
	}
	offset, err := f.fd.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, errors.Wrap(err, "seek to end")
	}
	if _, err := f.fd.Write(block); err != nil {
		return 0, errors.Wrap(err, "append record")
	}
	return offset, nil
}

// Reader returns a buffered sequential reader starting at recordNum.
func (f *RecordFile) Reader(recordNum, recordSize int) (io.Reader, error) {
	if f.fd == nil {
		return nil, domain.ErrNotOpen
	}
	if _, err := f.fd.Seek(int64(recordNum)*int64(recordSize), io.SeekStart); err != nil {
		return nil, errors.Wrapf(err, "seek to record %d", recordNum)
	}
	return bufio.NewReaderSize(f.fd, 64*recordSize), nil
}

func (f *RecordFile) Size() (int64, error) {
	if f.fd == nil {
		return 0, domain.ErrNotOpen
	}
	info, err := f.fd.Stat()
	if err != nil {
		return 0, errors.Wrapf(err, "stat %s", f.path)
	}
	return info.Size(), nil
}

func (f *RecordFile) Truncate(size int64) error {
	if f.fd == nil {
		return domain.ErrNotOpen
	}
	return errors.Wrapf(f.fd.Truncate(size), "truncate %s to %d bytes", f.path, size)
}

func (f *RecordFile) Sync() error {
	if f.fd == nil {
		return domain.ErrNotOpen
	}
	return errors.Wrapf(f.fd.Sync(), "sync %s", f.path)
}

func (f *RecordFile) Close() error {
	if f.fd == nil {
		return nil
	}
	err := f.fd.Close()
	f.fd = nil
	return errors.Wrapf(err, "close %s", f.path)
}
