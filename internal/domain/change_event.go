package domain

import (
	"time"

	"github.com/google/uuid"
)

type ChangeKind string

const (
	ChangeAdd    ChangeKind = "ADD"
	ChangeUpdate ChangeKind = "UPDATE"
	ChangeDelete ChangeKind = "DELETE"
)

type ChangeEvent struct {
	Id        string
	Kind      ChangeKind
	Prefix    string
	RecordNum int
	Record    Record
	Timestamp int64
}

func NewChangeEvent(kind ChangeKind, prefix string, lookup Lookup) ChangeEvent {
	return ChangeEvent{
		Id:        uuid.NewString(),
		Kind:      kind,
		Prefix:    prefix,
		RecordNum: lookup.RecordNum,
		Record:    lookup.Record,
		Timestamp: time.Now().UnixNano(),
	}
}

type ChangeNotifier interface {
	Notify(event ChangeEvent) error
}

// NopChangeNotifier drops every event.
type NopChangeNotifier struct{}

func (NopChangeNotifier) Notify(ChangeEvent) error { return nil }
