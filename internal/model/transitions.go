package model

import "fmt"

// requestTransitions lists the statuses an operator may move a request to.
// Terminal statuses have no entry.
var requestTransitions = map[RequestKind]map[RequestStatus][]RequestStatus{
	RequestKindCashin: {
		RequestStatusPending: {
			RequestStatusAccommodating,
			RequestStatusPartial,
			RequestStatusCompleted,
			RequestStatusRejected,
		},
		RequestStatusAccommodating: {
			RequestStatusPartial,
			RequestStatusPending,
			RequestStatusCompleted,
			RequestStatusRejected,
		},
		RequestStatusPartial: {
			RequestStatusAccommodating,
			RequestStatusCompleted,
			RequestStatusRejected,
		},
	},
	RequestKindCashout: {
		RequestStatusPending: {
			RequestStatusAccommodating,
			RequestStatusCompleted,
			RequestStatusRejected,
		},
		RequestStatusAccommodating: {
			RequestStatusPending,
			RequestStatusCompleted,
			RequestStatusRejected,
		},
	},
	RequestKindTransactionRequest: {
		RequestStatusPending: {
			RequestStatusClaimed,
			RequestStatusRejected,
		},
		RequestStatusClaimed: {
			RequestStatusCompleted,
			RequestStatusRejected,
		},
	},
}

var commissionTransitions = map[CommissionStatus][]CommissionStatus{
	CommissionStatusPending: {CommissionStatusClaimed, CommissionStatusRejected},
}

var qbetTransitions = map[QbetStatus][]QbetStatus{
	QbetStatusPending:    {QbetStatusProcessing, QbetStatusRejected},
	QbetStatusProcessing: {QbetStatusLoaded, QbetStatusFailed},
}

type InvalidTransitionError struct {
	Entity string
	From   string
	To     string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid %s transition from %s to %s", e.Entity, e.From, e.To)
}

func CanTransition(kind RequestKind, from, to RequestStatus) bool {
	return contains(requestTransitions[kind][from], to)
}

func ValidateTransition(kind RequestKind, from, to RequestStatus) error {
	if !CanTransition(kind, from, to) {
		return &InvalidTransitionError{Entity: string(kind), From: string(from), To: string(to)}
	}
	return nil
}

func CanTransitionCommission(from, to CommissionStatus) bool {
	return contains(commissionTransitions[from], to)
}

func CanTransitionQbet(from, to QbetStatus) bool {
	return contains(qbetTransitions[from], to)
}

func contains[S ~string](allowed []S, target S) bool {
	for _, s := range allowed {
		if s == target {
			return true
		}
	}
	return false
}
