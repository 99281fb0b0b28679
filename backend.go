package main

import (
	"FlatDB/bootstrap"
	"FlatDB/internal/application/service"
	"FlatDB/internal/domain"
	"FlatDB/internal/platform/client"
	"FlatDB/internal/platform/config"

	"github.com/pkg/errors"
)

// backend runs record commands either in-process on one open database or
// against a running server.
type backend interface {
	Find(name string) (domain.Lookup, error)
	Read(recordNum int) (domain.Lookup, error)
	Update(record domain.Record) (domain.Lookup, error)
	Delete(name string) (domain.Lookup, error)
	Add(record domain.Record) (domain.Lookup, error)
	Report(limit int) ([]domain.Lookup, error)
	Verify() (service.VerifyReport, error)
	Close() error
}

type localBackend struct {
	get    *service.GetRecordService
	read   *service.ReadRecordService
	update *service.UpdateRecordService
	delete *service.DeleteRecordService
	add    *service.AddRecordService
	report *service.ReportService
	verify *service.VerifyDatabaseService
	close  *service.CloseDatabaseService
}

func openLocal(conf config.Config, prefix string) (*localBackend, error) {
	container, err := bootstrap.NewContainer(conf)
	if err != nil {
		return nil, err
	}
	b := &localBackend{}
	err = container.Invoke(func(open *service.OpenDatabaseService,
		get *service.GetRecordService,
		read *service.ReadRecordService,
		update *service.UpdateRecordService,
		remove *service.DeleteRecordService,
		add *service.AddRecordService,
		report *service.ReportService,
		verify *service.VerifyDatabaseService,
		closer *service.CloseDatabaseService) error {
		*b = localBackend{
			get:    get,
			read:   read,
			update: update,
			delete: remove,
			add:    add,
			report: report,
			verify: verify,
			close:  closer,
		}
		return open.Execute(service.OpenDatabaseCommand{Prefix: prefix}).Err
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (b *localBackend) Find(name string) (domain.Lookup, error) {
	result := b.get.Execute(service.GetRecordQuery{Name: name})
	if result.Err != nil {
		return domain.Lookup{}, result.Err
	}
	if !result.Found {
		return domain.Lookup{}, errors.Wrapf(domain.ErrKeyNotFound, "%q", name)
	}
	return result.Lookup, nil
}

func (b *localBackend) Read(recordNum int) (domain.Lookup, error) {
	result := b.read.Execute(service.ReadRecordQuery{RecordNum: recordNum})
	return result.Lookup, result.Err
}

func (b *localBackend) Update(record domain.Record) (domain.Lookup, error) {
	result := b.update.Execute(service.UpdateRecordCommand{Record: record})
	return result.Lookup, result.Err
}

func (b *localBackend) Delete(name string) (domain.Lookup, error) {
	result := b.delete.Execute(service.DeleteRecordCommand{Name: name})
	return result.Lookup, result.Err
}

func (b *localBackend) Add(record domain.Record) (domain.Lookup, error) {
	result := b.add.Execute(service.AddRecordCommand{Record: record})
	return result.Lookup, result.Err
}

func (b *localBackend) Report(limit int) ([]domain.Lookup, error) {
	result := b.report.Execute(service.ReportQuery{Limit: limit})
	return result.Entries, result.Err
}

func (b *localBackend) Verify() (service.VerifyReport, error) {
	result := b.verify.Execute()
	return result.Report, result.Err
}

func (b *localBackend) Close() error {
	return b.close.Execute().Err
}

// remoteBackend uses whatever database the server has open, opening
// prefix first when none is.
type remoteBackend struct {
	client *client.RecordServerClient
}

func openRemote(serverUrl, prefix string) (*remoteBackend, error) {
	c := client.NewRecordServerClient(serverUrl)
	stats, err := c.Stats()
	if err != nil {
		return nil, err
	}
	if !stats.Open {
		if _, err := c.Open(prefix); err != nil {
			return nil, err
		}
	}
	return &remoteBackend{client: c}, nil
}

func (b *remoteBackend) Find(name string) (domain.Lookup, error) {
	return lookupOf(b.client.FindRecord(name))
}

func (b *remoteBackend) Read(recordNum int) (domain.Lookup, error) {
	return lookupOf(b.client.ReadRecord(recordNum))
}

func (b *remoteBackend) Update(record domain.Record) (domain.Lookup, error) {
	return lookupOf(b.client.UpdateRecord(record))
}

func (b *remoteBackend) Delete(name string) (domain.Lookup, error) {
	return lookupOf(b.client.DeleteRecord(name))
}

func (b *remoteBackend) Add(record domain.Record) (domain.Lookup, error) {
	return lookupOf(b.client.AddRecord(record))
}

func (b *remoteBackend) Report(limit int) ([]domain.Lookup, error) {
	entries, err := b.client.Report(limit)
	if err != nil {
		return nil, err
	}
	lookups := make([]domain.Lookup, 0, len(entries))
	for _, e := range entries {
		lookups = append(lookups, e.Lookup())
	}
	return lookups, nil
}

func (b *remoteBackend) Verify() (service.VerifyReport, error) {
	report, err := b.client.Verify()
	if err != nil {
		return service.VerifyReport{}, err
	}
	return *report, nil
}

// Close leaves the server's database open for other clients.
func (b *remoteBackend) Close() error {
	return nil
}

func lookupOf(resp *client.RecordResponse, err error) (domain.Lookup, error) {
	if err != nil {
		return domain.Lookup{}, err
	}
	return resp.Lookup(), nil
}
