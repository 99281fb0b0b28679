package service

import (
	"FlatDB/internal/domain"
)

type UpdateRecordService struct {
	repository domain.RecordRepository
	notifier   domain.ChangeNotifier
}

func NewUpdateRecordService(repository domain.RecordRepository, notifier domain.ChangeNotifier) *UpdateRecordService {
	return &UpdateRecordService{
		repository: repository,
		notifier:   notifier,
	}
}

type UpdateRecordCommand struct {
	Record domain.Record
}

type UpdateRecordResult struct {
	Lookup domain.Lookup
	Err    error
}

func (s *UpdateRecordService) Execute(command UpdateRecordCommand) UpdateRecordResult {
	lookup, err := s.repository.Update(command.Record)
	if err != nil {
		return UpdateRecordResult{Err: err}
	}
	publish(s.notifier, s.repository, domain.ChangeUpdate, lookup)
	return UpdateRecordResult{Lookup: lookup}
}
