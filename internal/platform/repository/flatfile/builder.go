package flatfile

import (
	"FlatDB/internal/domain"
	"FlatDB/internal/platform/utils"
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type BuildOptions struct {
	// Widths defaults to domain.DefaultFieldWidths when zero.
	Widths domain.FieldWidths
	// DetectHeader drops a leading NAME,RANK,... row.
	DetectHeader bool
	// MaxRecords caps the accepted rows; zero means no cap.
	MaxRecords int
}

type BuildResult struct {
	Prefix     string `json:"prefix"`
	Accepted   int    `json:"accepted"`
	Skipped    int    `json:"skipped"`
	RecordSize int    `json:"recordSize"`
}

// BuildFromFile builds <prefix>.data and <prefix>.config from a CSV file. It
// fails without touching existing files when the source cannot be opened.
func BuildFromFile(sourcePath, prefix string, opts BuildOptions) (BuildResult, error) {
	f, err := os.Open(sourcePath)
	if err != nil {
		return BuildResult{}, errors.Wrapf(err, "open source %s", sourcePath)
	}
	defer f.Close()
	return Build(NewCSVRowSource(f), prefix, opts)
}

// Build replaces any database at prefix with the rows of source. Rows are
// expected sorted by key; that is not checked. Rows without exactly six
// fields are skipped.
func Build(source RowSource, prefix string, opts BuildOptions) (BuildResult, error) {
	widths := opts.Widths
	if widths == (domain.FieldWidths{}) {
		widths = domain.DefaultFieldWidths
	}
	if err := widths.Validate(); err != nil {
		return BuildResult{}, errors.Wrap(err, "invalid field widths")
	}
	logger := logrus.WithField("prefix", prefix)

	for _, path := range []string{DataPath(prefix), ConfigPath(prefix)} {
		if err := removeIfExists(path); err != nil {
			return BuildResult{}, err
		}
	}
	file, err := CreateRecordFile(DataPath(prefix))
	if err != nil {
		return BuildResult{}, err
	}
	defer file.Close()

	result := BuildResult{Prefix: prefix, RecordSize: widths.RecordSize()}
	w := bufio.NewWriter(file.fd)
	first := true
	for opts.MaxRecords <= 0 || result.Accepted < opts.MaxRecords {
		row, err := source.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			if errors.Is(err, domain.ErrMalformedSourceRow) {
				result.Skipped++
				logger.WithError(err).Warn("skipping source row")
				continue
			}
			return result, errors.Wrap(err, "read source")
		}
		if first {
			first = false
			if opts.DetectHeader && isHeader(row) {
				continue
			}
		}
		record, err := parseRow(row)
		if err != nil {
			result.Skipped++
			logger.WithField("line", source.Line()).WithError(err).Warn("skipping source row")
			continue
		}
		if err := utils.AppendRecord(w, record, widths); err != nil {
			return result, errors.Wrapf(err, "write record %d", result.Accepted)
		}
		result.Accepted++
	}
	if err := w.Flush(); err != nil {
		return result, errors.Wrap(err, "flush data file")
	}
	if err := file.Sync(); err != nil {
		return result, err
	}
	if err := WriteMetadata(prefix, NewMetadata(result.Accepted, widths)); err != nil {
		return result, err
	}
	logger.WithFields(logrus.Fields{
		"accepted": result.Accepted,
		"skipped":  result.Skipped,
	}).Info("database built")
	return result, nil
}

func parseRow(row []string) (domain.Record, error) {
	if len(row) != domain.NumFields {
		return domain.Record{}, errors.Wrapf(domain.ErrMalformedSourceRow, "%d fields", len(row))
	}
	fields := make([]string, len(row))
	for i, field := range row {
		fields[i] = strings.TrimSpace(field)
	}
	return domain.RecordFromFields(fields)
}

func isHeader(row []string) bool {
	if len(row) == 0 || domain.NormalizeKey(row[0]) != "NAME" {
		return false
	}
	for _, field := range row[1:] {
		if domain.NormalizeKey(field) == "RANK" {
			return true
		}
	}
	return false
}
