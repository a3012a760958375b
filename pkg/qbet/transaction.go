package qbet

import "github.com/shopspring/decimal"

type TransactionType string

const (
	TransactionTypeDeposit  TransactionType = "DEPOSIT"
	TransactionTypeWithdraw TransactionType = "WITHDRAW"
)

// CreateTransactionRequest is the body of the ledger "create transaction" call.
// ID is the player's external user id and Txn the local request reference.
type CreateTransactionRequest struct {
	ID     string          `json:"id"`
	Txn    string          `json:"txn"`
	Type   TransactionType `json:"type"`
	Amount float64         `json:"amount"`
}

type CreateTransactionResponse struct {
	OK    bool                `json:"ok"`
	Data  []TransactionResult `json:"data"`
	Error string              `json:"error,omitempty"`
}

type TransactionResult struct {
	Code         int             `json:"code"`
	BalanceAfter decimal.Decimal `json:"balance_after"`
	Message      string          `json:"message,omitempty"`
}

// Succeeded is true only when the envelope is ok and the first result carries code 0.
func (r CreateTransactionResponse) Succeeded() bool {
	return r.OK && len(r.Data) > 0 && r.Data[0].Code == 0
}

func (r CreateTransactionResponse) BalanceAfter() decimal.Decimal {
	if len(r.Data) == 0 {
		return decimal.Zero
	}

	return r.Data[0].BalanceAfter
}
