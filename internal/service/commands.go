package service

import (
	"encoding/json"

	"github.com/ITyukz11/payops/internal/model"
	"github.com/ITyukz11/payops/pkg/qbet"
	"github.com/shopspring/decimal"
)

type TransitionCommand struct {
	Kind           model.RequestKind
	RequestID      string
	Target         model.RequestStatus
	ExternalUserID string
	Actor          Actor
}

type ClaimCommand struct {
	ID    string
	Actor Actor
}

type ClaimCommissionResult struct {
	Commission *model.Commission
	Cashout    *model.Request
}

type CreditCommand struct {
	ExternalUserID string
	TransactionRef string
	Type           qbet.TransactionType
	Amount         decimal.Decimal
}

type CreditResult struct {
	OK           bool
	BalanceAfter decimal.Decimal
	ErrorDetail  string
}

type LogsQuery struct {
	EntityType model.EntityType
	ID         string
}

type PendingCounts struct {
	CasinoGroupID      string `json:"casino_group_id"`
	Cashin             int64  `json:"cashin"`
	Cashout            int64  `json:"cashout"`
	TransactionRequest int64  `json:"transaction_request"`
	Commission         int64  `json:"commission"`
}

type StatusChangedEvent struct {
	Entity  model.EntityType `json:"entity"`
	ID      string           `json:"id"`
	From    string           `json:"from"`
	To      string           `json:"to"`
	ActorID string           `json:"actor_id"`
	Error   string           `json:"error,omitempty"`
}

// NotificationMessage is what the outbox publisher puts on the queue.
type NotificationMessage struct {
	ID            string          `json:"id"`
	CasinoGroupID string          `json:"casino_group_id"`
	Event         string          `json:"event"`
	Payload       json.RawMessage `json:"payload"`
	CreatedAt     int64           `json:"created_at"`
}

// RetryLedgerCommand asks the reconcile worker to retry one FAILED credit.
type RetryLedgerCommand struct {
	EntityType model.EntityType `json:"entity_type"`
	ID         string           `json:"id"`
}
