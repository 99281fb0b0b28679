package client

import (
	"FlatDB/internal/application/service"
	"FlatDB/internal/domain"
	"fmt"
	"net/url"
	"strconv"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
)

const (
	records_endpoint  = "/records"
	database_endpoint = "/database"
)

type RecordResponse struct {
	RecordNum int           `json:"recordNum"`
	Record    domain.Record `json:"record"`
	Deleted   bool          `json:"deleted"`
}

func (r RecordResponse) Lookup() domain.Lookup {
	return domain.Lookup{RecordNum: r.RecordNum, Record: r.Record}
}

type StatsResponse struct {
	Open  bool                 `json:"open"`
	Stats domain.DatabaseStats `json:"stats"`
}

type BuildRequest struct {
	Source     string `json:"source"`
	Prefix     string `json:"prefix"`
	Widths     string `json:"widths,omitempty"`
	SkipHeader bool   `json:"skipHeader"`
	MaxRecords int    `json:"maxRecords"`
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// RecordServerClient talks to the HTTP server started by `flatdb serve`.
type RecordServerClient struct {
	client    *resty.Client
	serverUrl string
}

func NewRecordServerClient(serverUrl string) *RecordServerClient {
	return &RecordServerClient{
		client:    resty.New(),
		serverUrl: serverUrl,
	}
}

func (c *RecordServerClient) Health() error {
	resp, err := c.client.R().Get(c.serverUrl + "/health")
	if err != nil {
		return err
	}
	if resp.IsError() {
		return errors.Errorf("health check: %s", resp.Status())
	}
	return nil
}

func (c *RecordServerClient) Build(request BuildRequest) (*domain.BuildReport, error) {
	var report domain.BuildReport
	resp, err := c.client.R().SetBody(&request).SetResult(&report).SetError(&errorResponse{}).
		Post(c.serverUrl + database_endpoint + "/build")
	if err := responseError(resp, err); err != nil {
		return nil, err
	}
	return &report, nil
}

func (c *RecordServerClient) Open(prefix string) (*StatsResponse, error) {
	return c.databaseCall("/open", map[string]string{"prefix": prefix})
}

func (c *RecordServerClient) Close() (*StatsResponse, error) {
	return c.databaseCall("/close", nil)
}

func (c *RecordServerClient) databaseCall(path string, body interface{}) (*StatsResponse, error) {
	var stats StatsResponse
	req := c.client.R().SetResult(&stats).SetError(&errorResponse{})
	if body != nil {
		req.SetBody(body)
	}
	resp, err := req.Post(c.serverUrl + database_endpoint + path)
	if err := responseError(resp, err); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (c *RecordServerClient) Stats() (*StatsResponse, error) {
	var stats StatsResponse
	resp, err := c.client.R().SetResult(&stats).SetError(&errorResponse{}).Get(c.serverUrl + database_endpoint)
	if err := responseError(resp, err); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (c *RecordServerClient) Verify() (*service.VerifyReport, error) {
	var report service.VerifyReport
	resp, err := c.client.R().SetResult(&report).SetError(&errorResponse{}).
		Get(c.serverUrl + database_endpoint + "/verify")
	if err := responseError(resp, err); err != nil {
		return nil, err
	}
	return &report, nil
}

func (c *RecordServerClient) Report(limit int) ([]RecordResponse, error) {
	var entries []RecordResponse
	req := c.client.R().SetResult(&entries).SetError(&errorResponse{})
	if limit > 0 {
		req.SetQueryParam("limit", strconv.Itoa(limit))
	}
	resp, err := req.Get(c.serverUrl + records_endpoint)
	if err := responseError(resp, err); err != nil {
		return nil, err
	}
	return entries, nil
}

func (c *RecordServerClient) ReadRecord(recordNum int) (*RecordResponse, error) {
	return c.recordCall(resty.MethodGet, fmt.Sprintf("%s/at/%d", records_endpoint, recordNum), nil)
}

func (c *RecordServerClient) FindRecord(name string) (*RecordResponse, error) {
	return c.recordCall(resty.MethodGet, records_endpoint+"/"+url.PathEscape(name), nil)
}

func (c *RecordServerClient) UpdateRecord(record domain.Record) (*RecordResponse, error) {
	return c.recordCall(resty.MethodPut, records_endpoint+"/"+url.PathEscape(record.Name), &record)
}

func (c *RecordServerClient) DeleteRecord(name string) (*RecordResponse, error) {
	return c.recordCall(resty.MethodDelete, records_endpoint+"/"+url.PathEscape(name), nil)
}

func (c *RecordServerClient) AddRecord(record domain.Record) (*RecordResponse, error) {
	return c.recordCall(resty.MethodPost, records_endpoint, &record)
}

func (c *RecordServerClient) recordCall(method, path string, body interface{}) (*RecordResponse, error) {
	var record RecordResponse
	req := c.client.R().SetResult(&record).SetError(&errorResponse{})
	if body != nil {
		req.SetBody(body)
	}
	resp, err := req.Execute(method, c.serverUrl+path)
	if err := responseError(resp, err); err != nil {
		return nil, err
	}
	return &record, nil
}

// responseError turns an error status back into the domain sentinel the
// server reported, when there is one.
func responseError(resp *resty.Response, err error) error {
	if err != nil {
		return err
	}
	if !resp.IsError() {
		return nil
	}
	message := resp.Status()
	code := ""
	if e, ok := resp.Error().(*errorResponse); ok && e.Error != "" {
		message = e.Error
		code = e.Code
	}
	if sentinel := domain.ErrorForCode(code); sentinel != nil {
		return errors.Wrapf(sentinel, "server: %s", message)
	}
	return errors.Errorf("server returned %d: %s", resp.StatusCode(), message)
}
