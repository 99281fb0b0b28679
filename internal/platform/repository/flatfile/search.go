package flatfile

import (
	"FlatDB/internal/domain"
	"FlatDB/internal/platform/metrics"

	"github.com/pkg/errors"
)

// FindByKey tries the sorted region first and falls back to a scan of the
// overflow region.
func (s *Session) FindByKey(name string) (domain.Lookup, error) {
	if !s.IsOpen() {
		return domain.Lookup{}, domain.ErrNotOpen
	}
	lookup, probes, err := s.binarySearch(name)
	metrics.SearchComparisons.Observe(float64(probes))
	if err == nil || !errors.Is(err, domain.ErrKeyNotFound) {
		return lookup, err
	}
	return s.linearSearch(name)
}

// binarySearch looks in [0, numSortedRecords). It stops at the first exact
// match, so with duplicate keys any one of them may be returned.
func (s *Session) binarySearch(name string) (domain.Lookup, int, error) {
	target := domain.NormalizeKey(name)
	low, high := 0, s.meta.NumSorted-1
	probes := 0
	for low <= high {
		mid := low + (high-low)/2
		record, err := s.ReadRecord(mid)
		if err != nil {
			return domain.Lookup{}, probes, err
		}
		probes++
		switch key := domain.NormalizeKey(record.Name); {
		case key == target:
			return domain.Lookup{RecordNum: mid, Record: record}, probes, nil
		case key < target:
			low = mid + 1
		default:
			high = mid - 1
		}
	}
	return domain.Lookup{}, probes, errors.Wrapf(domain.ErrKeyNotFound, "%q in sorted region", name)
}

// linearSearch scans [numSortedRecords, numRecords) in insertion order and
// returns the first match.
func (s *Session) linearSearch(name string) (domain.Lookup, error) {
	var (
		found bool
		match domain.Lookup
	)
	err := s.Scan(s.meta.NumSorted, s.meta.NumRecords(), func(recordNum int, record domain.Record) bool {
		if domain.KeysEqual(record.Name, name) {
			found = true
			match = domain.Lookup{RecordNum: recordNum, Record: record}
			return false
		}
		return true
	})
	if err != nil {
		return domain.Lookup{}, err
	}
	if !found {
		return domain.Lookup{}, errors.Wrapf(domain.ErrKeyNotFound, "%q", name)
	}
	return match, nil
}
