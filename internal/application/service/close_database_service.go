package service

import (
	"FlatDB/internal/domain"
)

type CloseDatabaseService struct {
	repository domain.RecordRepository
}

func NewCloseDatabaseService(repository domain.RecordRepository) *CloseDatabaseService {
	return &CloseDatabaseService{
		repository: repository,
	}
}

type CloseDatabaseResult struct {
	Stats domain.DatabaseStats
	Err   error
}

func (s *CloseDatabaseService) Execute() CloseDatabaseResult {
	stats, err := s.repository.Stats()
	if err != nil {
		return CloseDatabaseResult{Err: err}
	}
	return CloseDatabaseResult{Stats: stats, Err: s.repository.Close()}
}
