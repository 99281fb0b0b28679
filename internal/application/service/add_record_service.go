package service

import (
	"FlatDB/internal/domain"
	"strings"

	"github.com/pkg/errors"
)

type AddRecordService struct {
	repository domain.RecordRepository
	notifier   domain.ChangeNotifier
}

func NewAddRecordService(repository domain.RecordRepository, notifier domain.ChangeNotifier) *AddRecordService {
	return &AddRecordService{
		repository: repository,
		notifier:   notifier,
	}
}

type AddRecordCommand struct {
	Record domain.Record
}

type AddRecordResult struct {
	Lookup domain.Lookup
	Err    error
}

var ErrEmptyKey = errors.New("record name must not be empty")

func (s *AddRecordService) Execute(command AddRecordCommand) AddRecordResult {
	if strings.TrimSpace(command.Record.Name) == "" {
		return AddRecordResult{Err: ErrEmptyKey}
	}
	lookup, err := s.repository.Add(command.Record)
	if err != nil {
		return AddRecordResult{Err: err}
	}
	publish(s.notifier, s.repository, domain.ChangeAdd, lookup)
	return AddRecordResult{Lookup: lookup}
}
