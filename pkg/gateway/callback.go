package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

type Name string

const (
	Dpay       Name = "DPAY"
	OptimumPay Name = "OPTIMUMPAY"
)

// Outcome is the gateway status collapsed onto the three states the back-office tracks.
type Outcome string

const (
	OutcomePending   Outcome = "PENDING"
	OutcomeCompleted Outcome = "COMPLETED"
	OutcomeRejected  Outcome = "REJECTED"
)

var (
	ErrUnknownGateway   = errors.New("UNKNOWN_GATEWAY")
	ErrMalformedPayload = errors.New("MALFORMED_PAYLOAD")
)

// Callback is a gateway notification normalized across providers. Raw keeps the
// original body for auditing.
type Callback struct {
	Gateway        Name            `validate:"required"`
	ReferenceID    string          `validate:"required,max=128"`
	StatusCode     string          `validate:"required"`
	Amount         decimal.Decimal `validate:"-"`
	ExternalUserID string          `validate:"max=128"`
	CasinoGroupID  string          `validate:"max=64"`
	Description    string
	Raw            json.RawMessage `validate:"-"`
}

func (c Callback) Outcome() Outcome {
	switch c.Gateway {
	case Dpay:
		return MapDpayStatus(c.StatusCode)
	case OptimumPay:
		return MapOptimumPayStatus(c.StatusCode)
	default:
		return OutcomePending
	}
}

type dpayPayload struct {
	ReferenceID       string          `json:"referenceId"`
	Status            FlexibleString  `json:"status"`
	Amount            decimal.Decimal `json:"amount"`
	UserID            FlexibleString  `json:"userId"`
	CasinoGroupID     string          `json:"casinoGroupId"`
	StatusDescription string          `json:"statusDescription"`
}

type optimumPayPayload struct {
	TransactionReference string          `json:"transactionReference"`
	Status               FlexibleString  `json:"status"`
	Amount               decimal.Decimal `json:"amount"`
	CustomerID           FlexibleString  `json:"customerId"`
	MerchantGroup        string          `json:"merchantGroup"`
	Message              string          `json:"message"`
}

func Parse(name Name, raw []byte) (Callback, error) {
	switch name {
	case Dpay:
		var p dpayPayload
		if err := json.Unmarshal(raw, &p); err != nil {
			return Callback{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
		}
		return Callback{
			Gateway:        Dpay,
			ReferenceID:    strings.TrimSpace(p.ReferenceID),
			StatusCode:     p.Status.String(),
			Amount:         p.Amount,
			ExternalUserID: p.UserID.String(),
			CasinoGroupID:  p.CasinoGroupID,
			Description:    p.StatusDescription,
			Raw:            json.RawMessage(raw),
		}, nil

	case OptimumPay:
		var p optimumPayPayload
		if err := json.Unmarshal(raw, &p); err != nil {
			return Callback{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
		}
		return Callback{
			Gateway:        OptimumPay,
			ReferenceID:    strings.TrimSpace(p.TransactionReference),
			StatusCode:     p.Status.String(),
			Amount:         p.Amount,
			ExternalUserID: p.CustomerID.String(),
			CasinoGroupID:  p.MerchantGroup,
			Description:    p.Message,
			Raw:            json.RawMessage(raw),
		}, nil
	}

	return Callback{}, ErrUnknownGateway
}

// MapDpayStatus: 3 is paid, 4 is rejected, anything else is still pending.
func MapDpayStatus(code string) Outcome {
	switch strings.TrimSpace(code) {
	case "3":
		return OutcomeCompleted
	case "4":
		return OutcomeRejected
	default:
		return OutcomePending
	}
}

func MapOptimumPayStatus(code string) Outcome {
	switch strings.ToUpper(strings.TrimSpace(code)) {
	case "3", "SUCCESS", "COMPLETED", "PAID":
		return OutcomeCompleted
	case "4", "FAILED", "REJECTED", "CANCELLED", "EXPIRED":
		return OutcomeRejected
	default:
		return OutcomePending
	}
}
