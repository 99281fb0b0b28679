package flatfile

import (
	"FlatDB/internal/domain"
	"FlatDB/internal/platform/utils"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Update overwrites the non-key fields of the stored record with the same key.
// The stored key spelling is kept so the sorted region stays sorted.
func (s *Session) Update(record domain.Record) (domain.Lookup, error) {
	current, err := s.FindByKey(record.Name)
	if err != nil {
		return domain.Lookup{}, err
	}
	updated := record.WithKey(current.Record.Name)
	if err := s.writeRecord(current.RecordNum, updated); err != nil {
		return domain.Lookup{}, err
	}
	s.logger.WithFields(logrus.Fields{"record_num": current.RecordNum, "key": updated.Name}).Debug("record updated")
	return domain.Lookup{RecordNum: current.RecordNum, Record: updated}, nil
}

// Delete blanks every non-key field in place. The slot is never reclaimed and
// deleting an already deleted key succeeds.
func (s *Session) Delete(name string) (domain.Lookup, error) {
	current, err := s.FindByKey(name)
	if err != nil {
		return domain.Lookup{}, err
	}
	tombstone := current.Record.Tombstone()
	if err := s.writeRecord(current.RecordNum, tombstone); err != nil {
		return domain.Lookup{}, err
	}
	s.logger.WithFields(logrus.Fields{"record_num": current.RecordNum, "key": tombstone.Name}).Debug("record deleted")
	return domain.Lookup{RecordNum: current.RecordNum, Record: tombstone}, nil
}

// Add appends record to the overflow region without checking for an existing
// key and persists the new counts immediately.
func (s *Session) Add(record domain.Record) (domain.Lookup, error) {
	if !s.IsOpen() {
		return domain.Lookup{}, domain.ErrNotOpen
	}
	block := utils.EncodeRecord(record, s.meta.Widths)
	recordNum := s.meta.NumRecords()
	expected := int64(recordNum) * int64(s.meta.RecordSize)
	offset, err := s.file.Append(block)
	if err != nil {
		return domain.Lookup{}, err
	}
	if offset != expected {
		if err := s.file.Truncate(offset); err != nil {
			s.logger.WithError(err).Error("could not remove misplaced record")
		}
		return domain.Lookup{}, errors.Errorf("data file ends at byte %d, %d records end at byte %d", offset, recordNum, expected)
	}
	if err := s.file.Sync(); err != nil {
		return domain.Lookup{}, err
	}
	s.meta.NumUnsorted++
	stored, err := utils.DecodeRecord(block, s.meta.Widths)
	if err != nil {
		return domain.Lookup{}, err
	}
	if err := WriteMetadata(s.prefix, s.meta); err != nil {
		return domain.Lookup{}, errors.Wrap(err, "record appended but metadata not persisted")
	}
	s.logger.WithFields(logrus.Fields{"record_num": recordNum, "key": stored.Name}).Debug("record added")
	return domain.Lookup{RecordNum: recordNum, Record: stored}, nil
}
