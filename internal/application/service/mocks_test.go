package service

import (
	"FlatDB/internal/domain"

	"github.com/pkg/errors"
)

type mockRepo struct {
	open      bool
	prefix    string
	numSorted int
	records   []domain.Record
	writes    int
	failWith  error
}

func newMockRepo(numSorted int, records ...domain.Record) *mockRepo {
	return &mockRepo{open: true, prefix: "Fortune500", numSorted: numSorted, records: records}
}

func (m *mockRepo) Open(prefix string) error {
	if m.open {
		return domain.ErrAlreadyOpen
	}
	if m.failWith != nil {
		return m.failWith
	}
	m.open = true
	m.prefix = prefix
	return nil
}

func (m *mockRepo) Close() error {
	if !m.open {
		return domain.ErrNotOpen
	}
	m.open = false
	return nil
}

func (m *mockRepo) IsOpen() bool { return m.open }

func (m *mockRepo) Stats() (domain.DatabaseStats, error) {
	if !m.open {
		return domain.DatabaseStats{}, domain.ErrNotOpen
	}
	return domain.DatabaseStats{
		Prefix:      m.prefix,
		NumSorted:   m.numSorted,
		NumUnsorted: len(m.records) - m.numSorted,
		NumRecords:  len(m.records),
		RecordSize:  domain.DefaultFieldWidths.RecordSize(),
		Widths:      domain.DefaultFieldWidths,
	}, nil
}

func (m *mockRepo) ReadRecord(recordNum int) (domain.Record, error) {
	if !m.open {
		return domain.Record{}, domain.ErrNotOpen
	}
	if recordNum < 0 || recordNum >= len(m.records) {
		return domain.Record{}, domain.ErrInvalidRecordNumber
	}
	return m.records[recordNum], nil
}

func (m *mockRepo) FindByKey(name string) (domain.Lookup, error) {
	if !m.open {
		return domain.Lookup{}, domain.ErrNotOpen
	}
	if m.failWith != nil {
		return domain.Lookup{}, m.failWith
	}
	for i, r := range m.records {
		if domain.KeysEqual(r.Name, name) {
			return domain.Lookup{RecordNum: i, Record: r}, nil
		}
	}
	return domain.Lookup{}, errors.Wrap(domain.ErrKeyNotFound, name)
}

func (m *mockRepo) Update(record domain.Record) (domain.Lookup, error) {
	lookup, err := m.FindByKey(record.Name)
	if err != nil {
		return domain.Lookup{}, err
	}
	record.Name = lookup.Record.Name
	m.records[lookup.RecordNum] = record
	m.writes++
	return domain.Lookup{RecordNum: lookup.RecordNum, Record: record}, nil
}

func (m *mockRepo) Delete(name string) (domain.Lookup, error) {
	lookup, err := m.FindByKey(name)
	if err != nil {
		return domain.Lookup{}, err
	}
	m.records[lookup.RecordNum] = lookup.Record.Tombstone()
	m.writes++
	return domain.Lookup{RecordNum: lookup.RecordNum, Record: lookup.Record.Tombstone()}, nil
}

func (m *mockRepo) Add(record domain.Record) (domain.Lookup, error) {
	if !m.open {
		return domain.Lookup{}, domain.ErrNotOpen
	}
	m.records = append(m.records, record)
	m.writes++
	return domain.Lookup{RecordNum: len(m.records) - 1, Record: record}, nil
}

func (m *mockRepo) Scan(from, to int, fn func(int, domain.Record) bool) error {
	if !m.open {
		return domain.ErrNotOpen
	}
	if to > len(m.records) {
		to = len(m.records)
	}
	for i := from; i < to; i++ {
		if !fn(i, m.records[i]) {
			return nil
		}
	}
	return nil
}

type mockNotifier struct {
	events []domain.ChangeEvent
	err    error
}

func (m *mockNotifier) Notify(event domain.ChangeEvent) error {
	m.events = append(m.events, event)
	return m.err
}

type mockBuilder struct {
	requests []domain.BuildRequest
	err      error
}

func (m *mockBuilder) Build(request domain.BuildRequest) (domain.BuildReport, error) {
	m.requests = append(m.requests, request)
	if m.err != nil {
		return domain.BuildReport{}, m.err
	}
	return domain.BuildReport{Prefix: request.Prefix, Accepted: 6, RecordSize: 87}, nil
}

func companies() []domain.Record {
	return []domain.Record{
		{Name: "Acme", Rank: "1", City: "Springfield", State: "IL", Zip: "62701", Employees: "500"},
		{Name: "Globex", Rank: "2", City: "Metropolis", State: "NY", Zip: "10001", Employees: "1200"},
		{Name: "Hooli", Rank: "3", City: "Palo Alto", State: "CA", Zip: "94301", Employees: "9000"},
	}
}
