package domain

// Lookup is a record found by key together with its slot.
type Lookup struct {
	RecordNum int    `json:"recordNum"`
	Record    Record `json:"record"`
}

type DatabaseStats struct {
	Prefix      string      `json:"prefix"`
	NumSorted   int         `json:"numSortedRecords"`
	NumUnsorted int         `json:"numUnsortedRecords"`
	NumRecords  int         `json:"numRecords"`
	RecordSize  int         `json:"recordSize"`
	Widths      FieldWidths `json:"widths"`
}

type RecordRepository interface {
	Open(prefix string) error
	Close() error
	IsOpen() bool
	Stats() (DatabaseStats, error)
	ReadRecord(recordNum int) (Record, error)
	FindByKey(name string) (Lookup, error)
	Update(record Record) (Lookup, error)
	Delete(name string) (Lookup, error)
	Add(record Record) (Lookup, error)
	// Scan visits records [from, to) in record-number order until fn returns false.
	Scan(from, to int, fn func(recordNum int, record Record) bool) error
}

type BuildRequest struct {
	Source       string      `json:"source"`
	Prefix       string      `json:"prefix"`
	Widths       FieldWidths `json:"widths"`
	DetectHeader bool        `json:"detectHeader"`
	MaxRecords   int         `json:"maxRecords"`
}

type BuildReport struct {
	Prefix     string `json:"prefix"`
	Accepted   int    `json:"accepted"`
	Skipped    int    `json:"skipped"`
	RecordSize int    `json:"recordSize"`
}

type DatabaseBuilder interface {
	Build(request BuildRequest) (BuildReport, error)
}
