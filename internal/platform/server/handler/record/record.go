package record

import (
	"FlatDB/internal/application/service"
	"FlatDB/internal/domain"
	"FlatDB/internal/platform/server/handler/response"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/pkg/errors"
)

type RecordHandler struct {
	getService    *service.GetRecordService
	readService   *service.ReadRecordService
	updateService *service.UpdateRecordService
	deleteService *service.DeleteRecordService
	addService    *service.AddRecordService
	reportService *service.ReportService
}

type RecordResponse struct {
	RecordNum int           `json:"recordNum"`
	Record    domain.Record `json:"record"`
	Deleted   bool          `json:"deleted"`
}

func MapToRecordResponse(l domain.Lookup) RecordResponse {
	return RecordResponse{
		RecordNum: l.RecordNum,
		Record:    l.Record,
		Deleted:   l.Record.IsTombstone(),
	}
}

func NewRecordHandler(getService *service.GetRecordService,
	readService *service.ReadRecordService,
	updateService *service.UpdateRecordService,
	deleteService *service.DeleteRecordService,
	addService *service.AddRecordService,
	reportService *service.ReportService) *RecordHandler {
	return &RecordHandler{
		getService:    getService,
		readService:   readService,
		updateService: updateService,
		deleteService: deleteService,
		addService:    addService,
		reportService: reportService,
	}
}

func (h *RecordHandler) GetRecord(w http.ResponseWriter, r *http.Request) {
	name := keyParam(r)
	result := h.getService.Execute(service.GetRecordQuery{Name: name})
	if result.Err != nil {
		response.Error(w, result.Err)
		return
	}
	if !result.Found {
		response.Error(w, errors.Wrapf(domain.ErrKeyNotFound, "%q", name))
		return
	}
	response.JSON(w, http.StatusOK, MapToRecordResponse(result.Lookup))
}

func (h *RecordHandler) ReadRecord(w http.ResponseWriter, r *http.Request) {
	recordNum, err := strconv.Atoi(chi.URLParam(r, "recordNum"))
	if err != nil {
		response.BadRequest(w, errors.Wrap(domain.ErrInvalidRecordNumber, err.Error()))
		return
	}
	result := h.readService.Execute(service.ReadRecordQuery{RecordNum: recordNum})
	if result.Err != nil {
		response.Error(w, result.Err)
		return
	}
	response.JSON(w, http.StatusOK, MapToRecordResponse(result.Lookup))
}

// UpdateRecord takes the key from the path; a name in the body is ignored.
func (h *RecordHandler) UpdateRecord(w http.ResponseWriter, r *http.Request) {
	var record domain.Record
	if err := json.NewDecoder(r.Body).Decode(&record); err != nil {
		response.BadRequest(w, err)
		return
	}
	record.Name = keyParam(r)
	result := h.updateService.Execute(service.UpdateRecordCommand{Record: record})
	if result.Err != nil {
		response.Error(w, result.Err)
		return
	}
	response.JSON(w, http.StatusOK, MapToRecordResponse(result.Lookup))
}

func (h *RecordHandler) DeleteRecord(w http.ResponseWriter, r *http.Request) {
	result := h.deleteService.Execute(service.DeleteRecordCommand{Name: keyParam(r)})
	if result.Err != nil {
		response.Error(w, result.Err)
		return
	}
	response.JSON(w, http.StatusOK, MapToRecordResponse(result.Lookup))
}

func (h *RecordHandler) AddRecord(w http.ResponseWriter, r *http.Request) {
	var record domain.Record
	if err := json.NewDecoder(r.Body).Decode(&record); err != nil {
		response.BadRequest(w, err)
		return
	}
	result := h.addService.Execute(service.AddRecordCommand{Record: record})
	if errors.Is(result.Err, service.ErrEmptyKey) {
		response.BadRequest(w, result.Err)
		return
	}
	if result.Err != nil {
		response.Error(w, result.Err)
		return
	}
	response.JSON(w, http.StatusCreated, MapToRecordResponse(result.Lookup))
}

func (h *RecordHandler) Report(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			response.BadRequest(w, errors.Wrap(err, "limit"))
			return
		}
		limit = v
	}
	result := h.reportService.Execute(service.ReportQuery{Limit: limit})
	if result.Err != nil {
		response.Error(w, result.Err)
		return
	}
	entries := make([]RecordResponse, 0, len(result.Entries))
	for _, e := range result.Entries {
		entries = append(entries, MapToRecordResponse(e))
	}
	response.JSON(w, http.StatusOK, entries)
}

// keyParam decodes the {name} segment; chi routes on the raw path when the
// key carries an escaped slash.
func keyParam(r *http.Request) string {
	name := chi.URLParam(r, "name")
	if r.URL.RawPath == "" {
		return name
	}
	if unescaped, err := url.PathUnescape(name); err == nil {
		return unescaped
	}
	return name
}
