package database

import (
	"FlatDB/internal/application/service"
	"FlatDB/internal/domain"
	"FlatDB/internal/platform/server/handler/response"
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"
)

type DatabaseHandler struct {
	buildService  *service.BuildDatabaseService
	openService   *service.OpenDatabaseService
	closeService  *service.CloseDatabaseService
	statsService  *service.GetStatsService
	verifyService *service.VerifyDatabaseService
}

type OpenRequest struct {
	Prefix string `json:"prefix"`
}

type BuildRequest struct {
	Source       string `json:"source"`
	Prefix       string `json:"prefix"`
	Widths       string `json:"widths,omitempty"`
	SkipHeader   bool   `json:"skipHeader"`
	MaxRecords   int    `json:"maxRecords"`
}

type StatsResponse struct {
	Open  bool                 `json:"open"`
	Stats domain.DatabaseStats `json:"stats"`
}

func NewDatabaseHandler(buildService *service.BuildDatabaseService,
	openService *service.OpenDatabaseService,
	closeService *service.CloseDatabaseService,
	statsService *service.GetStatsService,
	verifyService *service.VerifyDatabaseService) *DatabaseHandler {
	return &DatabaseHandler{
		buildService:  buildService,
		openService:   openService,
		closeService:  closeService,
		statsService:  statsService,
		verifyService: verifyService,
	}
}

func (h *DatabaseHandler) Build(w http.ResponseWriter, r *http.Request) {
	var request BuildRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, err)
		return
	}
	if request.Source == "" || request.Prefix == "" {
		response.BadRequest(w, errors.New("source and prefix are required"))
		return
	}
	var widths domain.FieldWidths
	if request.Widths != "" {
		parsed, err := domain.ParseFieldWidths(request.Widths)
		if err != nil {
			response.BadRequest(w, err)
			return
		}
		widths = parsed
	}
	result := h.buildService.Execute(service.BuildDatabaseCommand{Request: domain.BuildRequest{
		Source:       request.Source,
		Prefix:       request.Prefix,
		Widths:       widths,
		DetectHeader: request.SkipHeader,
		MaxRecords:   request.MaxRecords,
	}})
	if result.Err != nil {
		response.Error(w, result.Err)
		return
	}
	response.JSON(w, http.StatusCreated, result.Report)
}

func (h *DatabaseHandler) Open(w http.ResponseWriter, r *http.Request) {
	var request OpenRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, err)
		return
	}
	result := h.openService.Execute(service.OpenDatabaseCommand{Prefix: request.Prefix})
	if result.Err != nil {
		response.Error(w, result.Err)
		return
	}
	response.JSON(w, http.StatusOK, StatsResponse{Open: true, Stats: result.Stats})
}

func (h *DatabaseHandler) Close(w http.ResponseWriter, r *http.Request) {
	result := h.closeService.Execute()
	if result.Err != nil {
		response.Error(w, result.Err)
		return
	}
	response.JSON(w, http.StatusOK, StatsResponse{Open: false, Stats: result.Stats})
}

func (h *DatabaseHandler) Stats(w http.ResponseWriter, r *http.Request) {
	result := h.statsService.Execute()
	response.JSON(w, http.StatusOK, StatsResponse{Open: result.Open, Stats: result.Stats})
}

func (h *DatabaseHandler) Verify(w http.ResponseWriter, r *http.Request) {
	result := h.verifyService.Execute()
	if result.Err != nil {
		response.Error(w, result.Err)
		return
	}
	response.JSON(w, http.StatusOK, result.Report)
}
