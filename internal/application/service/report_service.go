package service

import (
	"FlatDB/internal/domain"
	"FlatDB/internal/platform/config"
)

// ReportService lists the first records of the sorted region.
type ReportService struct {
	repository   domain.RecordRepository
	defaultLimit int
}

func NewReportService(repository domain.RecordRepository, conf config.Config) *ReportService {
	return &ReportService{
		repository:   repository,
		defaultLimit: conf.ReportLimit,
	}
}

type ReportQuery struct {
	Limit int
}

type ReportResult struct {
	Entries []domain.Lookup
	Err     error
}

func (s *ReportService) Execute(query ReportQuery) ReportResult {
	limit := query.Limit
	if limit <= 0 {
		limit = s.defaultLimit
	}
	stats, err := s.repository.Stats()
	if err != nil {
		return ReportResult{Err: err}
	}
	if limit > stats.NumSorted {
		limit = stats.NumSorted
	}
	entries := make([]domain.Lookup, 0, limit)
	err = s.repository.Scan(0, limit, func(recordNum int, record domain.Record) bool {
		entries = append(entries, domain.Lookup{RecordNum: recordNum, Record: record})
		return true
	})
	if err != nil {
		return ReportResult{Err: err}
	}
	return ReportResult{Entries: entries}
}
