package service

import (
	"FlatDB/internal/domain"
)

type GetStatsService struct {
	repository domain.RecordRepository
}

func NewGetStatsService(repository domain.RecordRepository) *GetStatsService {
	return &GetStatsService{
		repository: repository,
	}
}

type GetStatsResult struct {
	Stats domain.DatabaseStats
	Open  bool
}

func (s *GetStatsService) Execute() GetStatsResult {
	stats, err := s.repository.Stats()
	if err != nil {
		return GetStatsResult{Open: false}
	}
	return GetStatsResult{Stats: stats, Open: true}
}
