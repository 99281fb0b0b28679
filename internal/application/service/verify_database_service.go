package service

import (
	"FlatDB/internal/domain"

	"github.com/emirpasic/gods/maps/treemap"
)

// VerifyDatabaseService reports what binary search relies on but nothing
// enforces: ascending keys in the sorted region and unique keys.
type VerifyDatabaseService struct {
	repository domain.RecordRepository
}

func NewVerifyDatabaseService(repository domain.RecordRepository) *VerifyDatabaseService {
	return &VerifyDatabaseService{
		repository: repository,
	}
}

type DuplicateKey struct {
	Key        string `json:"key"`
	RecordNums []int  `json:"recordNums"`
}

type VerifyReport struct {
	Stats domain.DatabaseStats `json:"stats"`
	// OrderViolations are sorted-region record numbers whose key sorts
	// before the key of the previous record.
	OrderViolations []int          `json:"orderViolations"`
	DuplicateKeys   []DuplicateKey `json:"duplicateKeys"`
	Tombstones      int            `json:"tombstones"`
}

func (r VerifyReport) Sorted() bool {
	return len(r.OrderViolations) == 0
}

type VerifyDatabaseResult struct {
	Report VerifyReport
	Err    error
}

func (s *VerifyDatabaseService) Execute() VerifyDatabaseResult {
	stats, err := s.repository.Stats()
	if err != nil {
		return VerifyDatabaseResult{Err: err}
	}
	report := VerifyReport{
		Stats:           stats,
		OrderViolations: []int{},
		DuplicateKeys:   []DuplicateKey{},
	}
	keys := treemap.NewWithStringComparator()
	previous := ""
	err = s.repository.Scan(0, stats.NumRecords, func(recordNum int, record domain.Record) bool {
		key := domain.NormalizeKey(record.Name)
		if recordNum > 0 && recordNum < stats.NumSorted && key < previous {
			report.OrderViolations = append(report.OrderViolations, recordNum)
		}
		previous = key
		if record.IsTombstone() {
			report.Tombstones++
		}
		if nums, found := keys.Get(key); found {
			keys.Put(key, append(nums.([]int), recordNum))
		} else {
			keys.Put(key, []int{recordNum})
		}
		return true
	})
	if err != nil {
		return VerifyDatabaseResult{Err: err}
	}

	it := keys.Iterator()
	for it.Next() {
		if nums := it.Value().([]int); len(nums) > 1 {
			report.DuplicateKeys = append(report.DuplicateKeys, DuplicateKey{Key: it.Key().(string), RecordNums: nums})
		}
	}
	return VerifyDatabaseResult{Report: report}
}
