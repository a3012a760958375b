package v1

import (
	"time"

	"github.com/ITyukz11/payops/internal/model"
)

type RequestResponse struct {
	ID                   string  `json:"id"`
	Kind                 string  `json:"kind"`
	Status               string  `json:"status"`
	Amount               string  `json:"amount"`
	ExternalUserID       *string `json:"externalUserId,omitempty"`
	CasinoGroupID        string  `json:"casinoGroupId"`
	TransactionRequestID *string `json:"transactionRequestId,omitempty"`
	CommissionID         *string `json:"commissionId,omitempty"`
	ClaimedByID          *string `json:"claimedById,omitempty"`
	BalanceAfter         *string `json:"balanceAfter,omitempty"`
}

type CommissionResponse struct {
	ID            string  `json:"id"`
	Status        string  `json:"status"`
	Amount        string  `json:"amount"`
	CasinoGroupID string  `json:"casinoGroupId"`
	ClaimedByID   *string `json:"claimedById,omitempty"`
	CashoutID     *string `json:"cashoutId,omitempty"`
}

type ClaimCommissionResponse struct {
	Commission CommissionResponse `json:"commission"`
	Cashout    RequestResponse    `json:"cashout"`
}

type LogResponse struct {
	ID            int64     `json:"id"`
	EntityType    string    `json:"entityType"`
	RequestID     string    `json:"requestId"`
	Action        string    `json:"action"`
	FromStatus    string    `json:"fromStatus"`
	PerformedByID string    `json:"performedById"`
	Note          *string   `json:"note,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

func toRequestResponse(request *model.Request) RequestResponse {
	resp := RequestResponse{
		ID:                   request.ID,
		Kind:                 string(request.Kind),
		Status:               string(request.Status),
		Amount:               request.Amount.StringFixed(2),
		ExternalUserID:       request.ExternalUserID,
		CasinoGroupID:        request.CasinoGroupID,
		TransactionRequestID: request.TransactionRequestID,
		CommissionID:         request.CommissionID,
		ClaimedByID:          request.ClaimedByID,
	}
	if request.BalanceAfter.Valid {
		balance := request.BalanceAfter.Decimal.StringFixed(2)
		resp.BalanceAfter = &balance
	}
	return resp
}

func toCommissionResponse(commission *model.Commission) CommissionResponse {
	return CommissionResponse{
		ID:            commission.ID,
		Status:        string(commission.Status),
		Amount:        commission.Amount.StringFixed(2),
		CasinoGroupID: commission.CasinoGroupID,
		ClaimedByID:   commission.ClaimedByID,
		CashoutID:     commission.CashoutID,
	}
}

func toLogResponses(logs []model.RequestLog) []LogResponse {
	resp := make([]LogResponse, 0, len(logs))
	for _, log := range logs {
		resp = append(resp, LogResponse{
			ID:            log.ID,
			EntityType:    string(log.EntityType),
			RequestID:     log.RequestID,
			Action:        log.Action,
			FromStatus:    log.FromStatus,
			PerformedByID: log.PerformedByID,
			Note:          log.Note,
			CreatedAt:     log.CreatedAt,
		})
	}
	return resp
}
