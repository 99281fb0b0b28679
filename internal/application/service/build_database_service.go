package service

import (
	"FlatDB/internal/domain"

	"github.com/sirupsen/logrus"
)

type BuildDatabaseService struct {
	builder domain.DatabaseBuilder
}

func NewBuildDatabaseService(builder domain.DatabaseBuilder) *BuildDatabaseService {
	return &BuildDatabaseService{
		builder: builder,
	}
}

type BuildDatabaseCommand struct {
	Request domain.BuildRequest
}

type BuildDatabaseResult struct {
	Report domain.BuildReport
	Err    error
}

func (s *BuildDatabaseService) Execute(command BuildDatabaseCommand) BuildDatabaseResult {
	report, err := s.builder.Build(command.Request)
	if err != nil {
		logrus.WithError(err).WithField("source", command.Request.Source).Error("build failed")
		return BuildDatabaseResult{Err: err}
	}
	return BuildDatabaseResult{Report: report}
}
