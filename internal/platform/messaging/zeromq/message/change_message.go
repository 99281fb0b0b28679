package message

import "FlatDB/internal/domain"

type ChangeMessage struct {
	Id        string        `json:"id"`
	Kind      string        `json:"kind"`
	Prefix    string        `json:"prefix"`
	RecordNum int           `json:"record_num"`
	Record    domain.Record `json:"record"`
	Timestamp int64         `json:"timestamp"`
	Topic     string        `json:"-"`
}

func ChangeMessageFrom(event domain.ChangeEvent) ChangeMessage {
	return ChangeMessage{
		Id:        event.Id,
		Kind:      string(event.Kind),
		Prefix:    event.Prefix,
		RecordNum: event.RecordNum,
		Record:    event.Record,
		Timestamp: event.Timestamp,
	}
}

func (m *ChangeMessage) ToChangeEvent() domain.ChangeEvent {
	return domain.ChangeEvent{
		Id:        m.Id,
		Kind:      domain.ChangeKind(m.Kind),
		Prefix:    m.Prefix,
		RecordNum: m.RecordNum,
		Record:    m.Record,
		Timestamp: m.Timestamp,
	}
}
