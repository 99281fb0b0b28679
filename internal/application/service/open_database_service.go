package service

import (
	"FlatDB/internal/domain"
)

type OpenDatabaseService struct {
	repository domain.RecordRepository
}

func NewOpenDatabaseService(repository domain.RecordRepository) *OpenDatabaseService {
	return &OpenDatabaseService{
		repository: repository,
	}
}

type OpenDatabaseCommand struct {
	Prefix string
}

type OpenDatabaseResult struct {
	Stats domain.DatabaseStats
	Err   error
}

func (s *OpenDatabaseService) Execute(command OpenDatabaseCommand) OpenDatabaseResult {
	if err := s.repository.Open(command.Prefix); err != nil {
		return OpenDatabaseResult{Err: err}
	}
	stats, err := s.repository.Stats()
	return OpenDatabaseResult{Stats: stats, Err: err}
}
