package zmq

import "FlatDB/internal/domain"

type ApiRequest struct {
	Action    string        `json:"action,omitempty"`
	Name      string        `json:"name,omitempty"`
	RecordNum int           `json:"recordNum,omitempty"`
	Record    domain.Record `json:"record"`
}

type ApiResponse struct {
	Success bool                  `json:"success"`
	Error   string                `json:"error,omitempty"`
	Record  *RecordResponse       `json:"record,omitempty"`
	Stats   *domain.DatabaseStats `json:"stats,omitempty"`
}

type RecordResponse struct {
	RecordNum int           `json:"recordNum"`
	Record    domain.Record `json:"record"`
	Deleted   bool          `json:"deleted,omitempty"`
}

func recordResponse(l domain.Lookup) *RecordResponse {
	return &RecordResponse{
		RecordNum: l.RecordNum,
		Record:    l.Record,
		Deleted:   l.Record.IsTombstone(),
	}
}

func failure(err error) ApiResponse {
	return ApiResponse{Success: false, Error: err.Error()}
}
