package service

import (
	"FlatDB/internal/domain"
)

type ReadRecordService struct {
	repository domain.RecordRepository
}

func NewReadRecordService(repository domain.RecordRepository) *ReadRecordService {
	return &ReadRecordService{
		repository: repository,
	}
}

type ReadRecordQuery struct {
	RecordNum int
}

type ReadRecordResult struct {
	Lookup domain.Lookup
	Err    error
}

func (s *ReadRecordService) Execute(query ReadRecordQuery) ReadRecordResult {
	record, err := s.repository.ReadRecord(query.RecordNum)
	if err != nil {
		return ReadRecordResult{Err: err}
	}
	return ReadRecordResult{
		Lookup: domain.Lookup{RecordNum: query.RecordNum, Record: record},
	}
}
