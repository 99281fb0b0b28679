package service

import (
	"FlatDB/internal/domain"
)

type DeleteRecordService struct {
	repository domain.RecordRepository
	notifier   domain.ChangeNotifier
}

func NewDeleteRecordService(repository domain.RecordRepository, notifier domain.ChangeNotifier) *DeleteRecordService {
	return &DeleteRecordService{
		repository: repository,
		notifier:   notifier,
	}
}

type DeleteRecordCommand struct {
	Name string
}

type DeleteRecordResult struct {
	Lookup domain.Lookup
	Err    error
}

func (s *DeleteRecordService) Execute(command DeleteRecordCommand) DeleteRecordResult {
	lookup, err := s.repository.Delete(command.Name)
	if err != nil {
		return DeleteRecordResult{Err: err}
	}
	publish(s.notifier, s.repository, domain.ChangeDelete, lookup)
	return DeleteRecordResult{Lookup: lookup}
}
