package store

import (
	"path/filepath"
	"time"

	"github.com/minibank/banking-system/internal/core/domain"
)

const feedbackFileName = "db_feedback.dat"

// FeedbackLog is the append-only customer feedback log.
type FeedbackLog struct {
	rf     *RecordFile
	ledger *Ledger
}

func NewFeedbackLog(dataDir string) (*FeedbackLog, error) {
	rf, err := OpenRecordFile(filepath.Join(dataDir, feedbackFileName), FeedbackRecordSize)
	if err != nil {
		return nil, err
	}
	return &FeedbackLog{rf: rf, ledger: NewLedger(rf)}, nil
}

func (l *FeedbackLog) Close() error { return l.rf.Close() }

// Append assigns the next sequential id and writes the entry. Messages
// longer than the record's message field are truncated.
func (l *FeedbackLog) Append(customerID int, message string) (int, error) {
	id, err := l.ledger.Append(func(id int64) []byte {
		rec := feedbackRecord{
			ID:         int32(id),
			CustomerID: int32(customerID),
			Timestamp:  time.Now().Unix(),
		}
		putString(rec.Message[:], message)
		return encodeRecord(&rec)
	})
	return int(id), err
}

// List walks the log forward. At most max entries are returned; the count
// reports the true total.
func (l *FeedbackLog) List(max int) ([]domain.Feedback, int, error) {
	if err := l.rf.LockFile(false); err != nil {
		return nil, 0, err
	}
	defer l.rf.UnlockFile()

	var (
		entries []domain.Feedback
		total   int
	)
	err := l.rf.Scan(func(_ int64, raw []byte) bool {
		var rec feedbackRecord
		if decodeRecord(raw, &rec) != nil {
			return true
		}
		total++
		if len(entries) < max {
			entries = append(entries, feedbackFromRecord(&rec))
		}
		return true
	})
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

// Truncate discards the whole log. Bootstrap only.
func (l *FeedbackLog) Truncate() error { return l.rf.Truncate() }
