// Package store implements the persistent core: flat record-addressed files,
// the append-only ledger, and the dual-layer locking coordinator that makes
// concurrent record mutation safe within and across processes.
package store

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// ErrSlotEmpty signals a read past the physical end of file. Callers treat
// it, together with an all-zero id field, as "slot unused".
var ErrSlotEmpty = errors.New("store: slot empty")

// RecordFile addresses fixed-size records by integer slot index: slot N
// lives at byte offset N*recordSize. Files may be sparse; unwritten gaps
// read back as zero bytes.
type RecordFile struct {
	f    *os.File
	size int64
}

// OpenRecordFile opens (creating if absent) a record file with the given
// record size.
func OpenRecordFile(path string, recordSize int64) (*RecordFile, error) {
	if recordSize <= 0 {
		return nil, fmt.Errorf("store: invalid record size %d", recordSize)
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}
	return &RecordFile{f: f, size: recordSize}, nil
}

func (rf *RecordFile) Close() error { return rf.f.Close() }

func (rf *RecordFile) RecordSize() int64 { return rf.size }

// NumRecords returns the number of full record slots the file currently
// spans.
func (rf *RecordFile) NumRecords() (int64, error) {
	st, err := rf.f.Stat()
	if err != nil {
		return 0, fmt.Errorf("store: stat: %w", err)
	}
	return st.Size() / rf.size, nil
}

// ReadSlot reads one record. A read past the physical end of file (including
// a trailing partial record) returns ErrSlotEmpty.
func (rf *RecordFile) ReadSlot(slot int64) ([]byte, error) {
	if slot < 0 {
		return nil, ErrSlotEmpty
	}
	buf := make([]byte, rf.size)
	n, err := rf.f.ReadAt(buf, slot*rf.size)
	if err != nil {
		if errors.Is(err, io.EOF) && int64(n) < rf.size {
			return nil, ErrSlotEmpty
		}
		return nil, fmt.Errorf("store: read slot %d: %w", slot, err)
	}
	return buf, nil
}

// WriteSlot writes one record at its slot offset.
func (rf *RecordFile) WriteSlot(slot int64, rec []byte) error {
	if int64(len(rec)) != rf.size {
		return fmt.Errorf("store: write slot %d: record is %d bytes, want %d", slot, len(rec), rf.size)
	}
	if _, err := rf.f.WriteAt(rec, slot*rf.size); err != nil {
		return fmt.Errorf("store: write slot %d: %w", slot, err)
	}
	return nil
}

// Scan walks all full slots in order, calling fn for each. Scanning stops
// early when fn returns false.
func (rf *RecordFile) Scan(fn func(slot int64, rec []byte) bool) error {
	n, err := rf.NumRecords()
	if err != nil {
		return err
	}
	for slot := int64(0); slot < n; slot++ {
		rec, err := rf.ReadSlot(slot)
		if err != nil {
			if errors.Is(err, ErrSlotEmpty) {
				return nil
			}
			return err
		}
		if !fn(slot, rec) {
			return nil
		}
	}
	return nil
}

// ScanReverse walks all full slots from the last to the first, for
// recency-ordered retrieval.
func (rf *RecordFile) ScanReverse(fn func(slot int64, rec []byte) bool) error {
	n, err := rf.NumRecords()
	if err != nil {
		return err
	}
	for slot := n - 1; slot >= 0; slot-- {
		rec, err := rf.ReadSlot(slot)
		if err != nil {
			if errors.Is(err, ErrSlotEmpty) {
				continue
			}
			return err
		}
		if !fn(slot, rec) {
			return nil
		}
	}
	return nil
}

// Truncate discards all records. Used by the bootstrap utility only.
func (rf *RecordFile) Truncate() error {
	if err := rf.f.Truncate(0); err != nil {
		return fmt.Errorf("store: truncate: %w", err)
	}
	return nil
}
