package flatfile

import (
	"FlatDB/internal/domain"
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

const (
	configSuffix = ".config"
	dataSuffix   = ".data"

	keyNumSorted   = "numSortedRecords"
	keyNumUnsorted = "numUnsortedRecords"
	keyRecordSize  = "recordSize"
	keyWidths      = "widths"
)

type Metadata struct {
	NumSorted   int
	NumUnsorted int
	RecordSize  int
	Widths      domain.FieldWidths
}

func NewMetadata(numSorted int, widths domain.FieldWidths) Metadata {
	return Metadata{
		NumSorted:  numSorted,
		RecordSize: widths.RecordSize(),
		Widths:     widths,
	}
}

func (m Metadata) NumRecords() int {
	return m.NumSorted + m.NumUnsorted
}

func ConfigPath(prefix string) string {
	return prefix + configSuffix
}

func DataPath(prefix string) string {
	return prefix + dataSuffix
}

// WriteMetadata replaces <prefix>.config atomically and fsyncs it.
func WriteMetadata(prefix string, m Metadata) error {
	path := ConfigPath(prefix)
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return errors.Wrapf(err, "create temp metadata for %s", path)
	}
	defer os.Remove(tmp.Name())

	w := bufio.NewWriter(tmp)
	fmt.Fprintf(w, "%s=%d\n", keyNumSorted, m.NumSorted)
	fmt.Fprintf(w, "%s=%d\n", keyNumUnsorted, m.NumUnsorted)
	fmt.Fprintf(w, "%s=%d\n", keyRecordSize, m.RecordSize)
	fmt.Fprintf(w, "%s=%s\n", keyWidths, m.Widths.String())
	if err := w.Flush(); err != nil {
		tmp.Close()
		return errors.Wrapf(err, "write metadata %s", path)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return errors.Wrapf(err, "sync metadata %s", path)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrapf(err, "close metadata %s", path)
	}
	return errors.Wrapf(os.Rename(tmp.Name(), path), "replace metadata %s", path)
}

// ReadMetadata fails with ErrDatabaseNotFound when <prefix>.config is absent
// or unreadable. Unknown keys are ignored.
func ReadMetadata(prefix string) (Metadata, error) {
	path := ConfigPath(prefix)
	if _, err := os.Stat(path); err != nil {
		return Metadata{}, errors.Wrapf(domain.ErrDatabaseNotFound, "metadata %s: %v", path, err)
	}
	values, err := godotenv.Read(path)
	if err != nil {
		return Metadata{}, errors.Wrapf(domain.ErrDatabaseNotFound, "malformed metadata %s: %v", path, err)
	}

	var m Metadata
	for key, dst := range map[string]*int{
		keyNumSorted:   &m.NumSorted,
		keyNumUnsorted: &m.NumUnsorted,
		keyRecordSize:  &m.RecordSize,
	} {
		raw, ok := values[key]
		if !ok {
			return Metadata{}, errors.Wrapf(domain.ErrDatabaseNotFound, "metadata %s: missing %s", path, key)
		}
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			return Metadata{}, errors.Wrapf(domain.ErrDatabaseNotFound, "metadata %s: invalid %s %q", path, key, raw)
		}
		*dst = v
	}

	m.Widths = domain.DefaultFieldWidths
	if raw, ok := values[keyWidths]; ok && raw != "" {
		widths, err := domain.ParseFieldWidths(raw)
		if err != nil {
			return Metadata{}, errors.Wrapf(domain.ErrDatabaseNotFound, "metadata %s: %v", path, err)
		}
		m.Widths = widths
	}
	if m.RecordSize != m.Widths.RecordSize() {
		return Metadata{}, errors.Wrapf(domain.ErrDatabaseNotFound,
			"metadata %s: recordSize %d does not match widths %s", path, m.RecordSize, m.Widths)
	}
	return m, nil
}

func removeIfExists(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "remove %s", path)
	}
	return nil
}
