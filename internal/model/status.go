package model

type RequestKind string

const (
	RequestKindCashin             RequestKind = "CASHIN"
	RequestKindCashout            RequestKind = "CASHOUT"
	RequestKindTransactionRequest RequestKind = "TRANSACTION_REQUEST"
)

type RequestStatus string

const (
	RequestStatusPending       RequestStatus = "PENDING"
	RequestStatusAccommodating RequestStatus = "ACCOMMODATING"
	RequestStatusClaimed       RequestStatus = "CLAIMED"
	RequestStatusPartial       RequestStatus = "PARTIAL"
	RequestStatusCompleted     RequestStatus = "COMPLETED"
	RequestStatusRejected      RequestStatus = "REJECTED"
	RequestStatusFailed        RequestStatus = "FAILED"
)

func (s RequestStatus) IsTerminal() bool {
	switch s {
	case RequestStatusCompleted, RequestStatusRejected, RequestStatusFailed:
		return true
	}
	return false
}

func (s RequestStatus) Valid() bool {
	switch s {
	case RequestStatusPending, RequestStatusAccommodating, RequestStatusClaimed, RequestStatusPartial,
		RequestStatusCompleted, RequestStatusRejected, RequestStatusFailed:
		return true
	}
	return false
}

type CommissionStatus string

const (
	CommissionStatusPending  CommissionStatus = "PENDING"
	CommissionStatusClaimed  CommissionStatus = "CLAIMED"
	CommissionStatusRejected CommissionStatus = "REJECTED"
)

// GatewayStatus is what the payment gateway reports about the player's payment.
type GatewayStatus string

const (
	GatewayStatusPending   GatewayStatus = "PENDING"
	GatewayStatusCompleted GatewayStatus = "COMPLETED"
	GatewayStatusRejected  GatewayStatus = "REJECTED"
)

// QbetStatus tracks the ledger side of a gateway transaction.
type QbetStatus string

const (
	QbetStatusPending    QbetStatus = "PENDING"
	QbetStatusProcessing QbetStatus = "PROCESSING"
	QbetStatusLoaded     QbetStatus = "LOADED"
	QbetStatusFailed     QbetStatus = "FAILED"
	QbetStatusRejected   QbetStatus = "REJECTED"
)

type EntityType string

const (
	EntityCashin             EntityType = "CASHIN"
	EntityCashout            EntityType = "CASHOUT"
	EntityTransactionRequest EntityType = "TRANSACTION_REQUEST"
	EntityCommission         EntityType = "COMMISSION"
	EntityGatewayTransaction EntityType = "GATEWAY_TRANSACTION"
)

func (k RequestKind) EntityType() EntityType {
	return EntityType(k)
}
