package utils

import (
	"FlatDB/internal/domain"
	"bytes"
	"io"
	"unicode/utf8"

	"github.com/pkg/errors"
)

const (
	RecordTerminator byte = '\n'
	padding          byte = ' '
)

// EncodeRecord lays the fields out in declaration order, each truncated or
// space padded to its width, followed by the terminator. The result is always
// widths.RecordSize() bytes long.
func EncodeRecord(r domain.Record, widths domain.FieldWidths) []byte {
	block := make([]byte, 0, widths.RecordSize())
	fields := r.Fields()
	for i, width := range widths.Slice() {
		block = appendField(block, fields[i], width)
	}
	return append(block, RecordTerminator)
}

func appendField(dst []byte, value string, width int) []byte {
	b := []byte(value)
	if len(b) > width {
		cut := width
		// never split a multi-byte rune
		for back := 0; cut > 0 && back < utf8.UTFMax-1 && !utf8.RuneStart(b[cut]); back++ {
			cut--
		}
		b = b[:cut]
	}
	dst = append(dst, b...)
	for i := len(b); i < width; i++ {
		dst = append(dst, padding)
	}
	return dst
}

// DecodeRecord is the inverse of EncodeRecord for values that fit their width.
func DecodeRecord(block []byte, widths domain.FieldWidths) (domain.Record, error) {
	size := widths.RecordSize()
	if len(block) != size {
		return domain.Record{}, errors.Wrapf(domain.ErrShortRead, "block is %d bytes, record size is %d", len(block), size)
	}
	if block[size-1] != RecordTerminator {
		return domain.Record{}, errors.Wrapf(domain.ErrShortRead, "block does not end with the record terminator")
	}
	var fields [domain.NumFields]string
	offset := 0
	for i, width := range widths.Slice() {
		fields[i] = string(bytes.TrimRight(block[offset:offset+width], string(padding)))
		offset += width
	}
	return domain.RecordFromFields(fields[:])
}

func AppendRecord(w io.Writer, r domain.Record, widths domain.FieldWidths) error {
	_, err := w.Write(EncodeRecord(r, widths))
	return err
}

// ReadOneRecord reads exactly one block from r. It returns io.EOF when r is
// exhausted on a record boundary and ErrShortRead for a partial block.
func ReadOneRecord(r io.Reader, widths domain.FieldWidths) (domain.Record, error) {
	block := make([]byte, widths.RecordSize())
	n, err := io.ReadFull(r, block)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return domain.Record{}, io.EOF
		}
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return domain.Record{}, errors.Wrapf(domain.ErrShortRead, "got %d of %d bytes", n, len(block))
		}
		return domain.Record{}, err
	}
	return DecodeRecord(block, widths)
}

func ReadAllRecords(r io.Reader, widths domain.FieldWidths) ([]domain.Record, error) {
	var records []domain.Record
	for {
		record, err := ReadOneRecord(r, widths)
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}
