package domain

import (
	"fmt"
	"strconv"
	"strings"
)

type Record struct {
	Name      string `json:"name"`
	Rank      string `json:"rank"`
	City      string `json:"city"`
	State     string `json:"state"`
	Zip       string `json:"zip"`
	Employees string `json:"employees"`
}

const NumFields = 6

// FieldNames lists the fields in on-disk order.
var FieldNames = [NumFields]string{"name", "rank", "city", "state", "zip", "employees"}

func RecordFromFields(fields []string) (Record, error) {
	if len(fields) != NumFields {
		return Record{}, fmt.Errorf("expected %d fields, got %d", NumFields, len(fields))
	}
	return Record{
		Name:      fields[0],
		Rank:      fields[1],
		City:      fields[2],
		State:     fields[3],
		Zip:       fields[4],
		Employees: fields[5],
	}, nil
}

func (r Record) Fields() [NumFields]string {
	return [NumFields]string{r.Name, r.Rank, r.City, r.State, r.Zip, r.Employees}
}

// Tombstone keeps the key and blanks every other field.
func (r Record) Tombstone() Record {
	return Record{Name: r.Name}
}

func (r Record) IsTombstone() bool {
	return r.Rank == "" && r.City == "" && r.State == "" && r.Zip == "" && r.Employees == ""
}

func (r Record) WithKey(name string) Record {
	r.Name = name
	return r
}

// NormalizeKey is the form used by every key comparison.
func NormalizeKey(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

func CompareKeys(a, b string) int {
	return strings.Compare(NormalizeKey(a), NormalizeKey(b))
}

func KeysEqual(a, b string) bool {
	return NormalizeKey(a) == NormalizeKey(b)
}

// FieldWidths is the byte width of every field, in on-disk order.
type FieldWidths struct {
	Name      int
	Rank      int
	City      int
	State     int
	Zip       int
	Employees int
}

var DefaultFieldWidths = FieldWidths{
	Name:      40,
	Rank:      4,
	City:      20,
	State:     2,
	Zip:       10,
	Employees: 10,
}

func (w FieldWidths) Slice() [NumFields]int {
	return [NumFields]int{w.Name, w.Rank, w.City, w.State, w.Zip, w.Employees}
}

// RecordSize includes the terminator byte.
func (w FieldWidths) RecordSize() int {
	size := 1
	for _, width := range w.Slice() {
		size += width
	}
	return size
}

func (w FieldWidths) Validate() error {
	for i, width := range w.Slice() {
		if width <= 0 {
			return fmt.Errorf("field %s has non-positive width %d", FieldNames[i], width)
		}
	}
	return nil
}

func (w FieldWidths) String() string {
	parts := make([]string, 0, NumFields)
	for _, width := range w.Slice() {
		parts = append(parts, strconv.Itoa(width))
	}
	return strings.Join(parts, ",")
}

func ParseFieldWidths(s string) (FieldWidths, error) {
	parts := strings.Split(s, ",")
	if len(parts) != NumFields {
		return FieldWidths{}, fmt.Errorf("expected %d widths, got %d in %q", NumFields, len(parts), s)
	}
	var values [NumFields]int
	for i, part := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return FieldWidths{}, fmt.Errorf("invalid width for %s: %q", FieldNames[i], part)
		}
		values[i] = v
	}
	w := FieldWidths{
		Name:      values[0],
		Rank:      values[1],
		City:      values[2],
		State:     values[3],
		Zip:       values[4],
		Employees: values[5],
	}
	if err := w.Validate(); err != nil {
		return FieldWidths{}, err
	}
	return w, nil
}
