package model

import "time"

type TransactionType string

const (
	TxTaskReward  TransactionType = "task_reward"
	TxStreakBonus TransactionType = "streak_bonus"
	TxCredit      TransactionType = "credit"
	TxSpend       TransactionType = "spend"
)

// Earning reports whether the type adds coins. Earning types increase both
// the running balance and the cumulative total earned; spending types only
// decrease the balance.
func (t TransactionType) Earning() bool {
	switch t {
	case TxTaskReward, TxStreakBonus, TxCredit:
		return true
	}
	return false
}

// CoinTransaction is one immutable row of the append-only coin ledger.
// TotalEarned and CoinBalance are running values derived from the child's
// previous row inside the same transaction that appends this one.
type CoinTransaction struct {
	ID          string          `json:"id"`
	ChildID     string          `json:"child_id"`
	TaskID      *string         `json:"task_id"`
	Amount      int             `json:"amount"`
	Type        TransactionType `json:"type"`
	Description string          `json:"description"`
	TotalEarned int             `json:"total_earned"`
	CoinBalance int             `json:"coin_balance"`
	CreatedAt   time.Time       `json:"created_at"`
}
