package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/juniperhq/chorequest/internal/apperror"
	"github.com/juniperhq/chorequest/internal/model"
)

// LedgerStore appends to and reads the per-child coin ledger. The running
// balance and cumulative earned total live on each row; Append derives them
// from the child's latest row, so it must run inside the same transaction as
// the business effect that caused it to avoid lost updates under concurrent
// spends.
type LedgerStore struct {
	db DBTX
}

func NewLedgerStore(db DBTX) *LedgerStore {
	return &LedgerStore{db: db}
}

func (s *LedgerStore) WithTx(tx *sql.Tx) *LedgerStore {
	return &LedgerStore{db: tx}
}

const ledgerCols = `id, child_id, task_id, amount, type, description, total_earned, coin_balance, created_at`

func scanTransaction(sc scanner) (*model.CoinTransaction, error) {
	var t model.CoinTransaction
	var taskID sql.NullString
	var typ string

	err := sc.Scan(&t.ID, &t.ChildID, &taskID, &t.Amount, &typ, &t.Description, &t.TotalEarned, &t.CoinBalance, &t.CreatedAt)
	if err != nil {
		return nil, err
	}

	t.Type = model.TransactionType(typ)
	if taskID.Valid {
		t.TaskID = &taskID.String
	}
	return &t, nil
}

// Append records one ledger row. Amount is always positive; the type decides
// the sign. Spending past the current balance fails and nothing is written.
func (s *LedgerStore) Append(childID string, taskID *string, amount int, typ model.TransactionType, description string) (*model.CoinTransaction, error) {
	if amount < 0 {
		return nil, apperror.Validation("transaction amount must not be negative")
	}

	prev, err := s.Latest(childID)
	if err != nil {
		return nil, err
	}

	var totalEarned, balance int
	if prev != nil {
		totalEarned = prev.TotalEarned
		balance = prev.CoinBalance
	}

	if typ.Earning() {
		totalEarned += amount
		balance += amount
	} else {
		if balance < amount {
			return nil, apperror.Validation("insufficient coin balance: have %d, need %d", balance, amount)
		}
		balance -= amount
	}

	t := &model.CoinTransaction{
		ID:          uuid.NewString(),
		ChildID:     childID,
		TaskID:      taskID,
		Amount:      amount,
		Type:        typ,
		Description: description,
		TotalEarned: totalEarned,
		CoinBalance: balance,
		CreatedAt:   time.Now().UTC(),
	}

	var tID sql.NullString
	if taskID != nil {
		tID = sql.NullString{String: *taskID, Valid: true}
	}
	_, err = s.db.Exec(
		`INSERT INTO coin_transactions (id, child_id, task_id, amount, type, description, total_earned, coin_balance, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.ChildID, tID, t.Amount, string(t.Type), t.Description, t.TotalEarned, t.CoinBalance, t.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert transaction: %w", err)
	}
	return t, nil
}

// Latest returns the child's most recent ledger row, nil if none exist.
// Rowid breaks ties between rows created in the same second.
func (s *LedgerStore) Latest(childID string) (*model.CoinTransaction, error) {
	row := s.db.QueryRow(
		`SELECT `+ledgerCols+` FROM coin_transactions
		 WHERE child_id = ? ORDER BY created_at DESC, rowid DESC LIMIT 1`,
		childID,
	)
	t, err := scanTransaction(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("latest transaction: %w", err)
	}
	return t, nil
}

func (s *LedgerStore) ListByChild(childID string) ([]model.CoinTransaction, error) {
	rows, err := s.db.Query(
		`SELECT `+ledgerCols+` FROM coin_transactions
		 WHERE child_id = ? ORDER BY created_at ASC, rowid ASC`,
		childID,
	)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var transactions []model.CoinTransaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		transactions = append(transactions, *t)
	}
	return transactions, rows.Err()
}
