package store

import (
	"path/filepath"
	"time"

	"github.com/minibank/banking-system/internal/core/domain"
)

const transactionFileName = "db_transactions.dat"

// TransactionLog is the append-only audit ledger. Entry N lives at slot N-1,
// in append order.
type TransactionLog struct {
	rf     *RecordFile
	ledger *Ledger
}

func NewTransactionLog(dataDir string) (*TransactionLog, error) {
	rf, err := OpenRecordFile(filepath.Join(dataDir, transactionFileName), TransactionRecordSize)
	if err != nil {
		return nil, err
	}
	return &TransactionLog{rf: rf, ledger: NewLedger(rf)}, nil
}

func (l *TransactionLog) Close() error { return l.rf.Close() }

// Append assigns the next sequential id and writes the entry.
func (l *TransactionLog) Append(accountID int, txType string, amount, newBalance float64) (int, error) {
	id, err := l.ledger.Append(func(id int64) []byte {
		rec := transactionRecord{
			ID:         int32(id),
			AccountID:  int32(accountID),
			Timestamp:  time.Now().Unix(),
			Amount:     amount,
			NewBalance: newBalance,
		}
		putString(rec.Type[:], txType)
		return encodeRecord(&rec)
	})
	return int(id), err
}

// ListByAccount walks the log backward so results come newest first. At most
// max entries are returned; the count reports the true total matched.
func (l *TransactionLog) ListByAccount(accountID, max int) ([]domain.Transaction, int, error) {
	if err := l.rf.LockFile(false); err != nil {
		return nil, 0, err
	}
	defer l.rf.UnlockFile()

	var (
		txs   []domain.Transaction
		total int
	)
	err := l.rf.ScanReverse(func(_ int64, raw []byte) bool {
		var rec transactionRecord
		if decodeRecord(raw, &rec) != nil {
			return true
		}
		if int(rec.AccountID) != accountID {
			return true
		}
		total++
		if len(txs) < max {
			txs = append(txs, transactionFromRecord(&rec))
		}
		return true
	})
	if err != nil {
		return nil, 0, err
	}
	return txs, total, nil
}

// Truncate discards the whole log. Bootstrap only.
func (l *TransactionLog) Truncate() error { return l.rf.Truncate() }
