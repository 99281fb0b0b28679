package service

import (
	"FlatDB/internal/domain"

	"github.com/pkg/errors"
)

type GetRecordService struct {
	repository domain.RecordRepository
}

func NewGetRecordService(repository domain.RecordRepository) *GetRecordService {
	return &GetRecordService{
		repository: repository,
	}
}

type GetRecordQuery struct {
	Name string
}

// GetRecordResult has Found false and a nil Err for a plain miss.
type GetRecordResult struct {
	Lookup domain.Lookup
	Found  bool
	Err    error
}

func (s *GetRecordService) Execute(query GetRecordQuery) GetRecordResult {
	lookup, err := s.repository.FindByKey(query.Name)
	if err != nil {
		if errors.Is(err, domain.ErrKeyNotFound) {
			return GetRecordResult{Found: false}
		}
		return GetRecordResult{Err: err}
	}
	return GetRecordResult{
		Lookup: lookup,
		Found:  true,
	}
}
