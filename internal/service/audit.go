package service

import (
	"context"
	"errors"
	"time"

	"github.com/ITyukz11/payops/internal/model"
	"github.com/ITyukz11/payops/internal/repository"
)

// AuditService reads the status history of one entity.
type AuditService interface {
	ListLogs(ctx context.Context, query LogsQuery) ([]model.RequestLog, error)
}

type Audit struct {
	requestRepo repository.RequestRepository
	logRepo     repository.RequestLogRepository
}

func NewAuditService(requestRepo repository.RequestRepository, logRepo repository.RequestLogRepository) AuditService {
	return &Audit{requestRepo: requestRepo, logRepo: logRepo}
}

// ListLogs defaults the entity type to the request's kind when the caller leaves it
// empty.
func (a *Audit) ListLogs(ctx context.Context, query LogsQuery) ([]model.RequestLog, error) {
	entity := query.EntityType
	if entity == "" {
		request, err := a.requestRepo.GetByID(ctx, query.ID)
		if err != nil {
			return nil, requestLookupError(err)
		}
		entity = request.Kind.EntityType()
	}

	logs, err := a.logRepo.ListByRequest(ctx, entity, query.ID)
	if err != nil {
		return nil, databaseError(err)
	}

	return logs, nil
}

func newLog(entity model.EntityType, id, from, to string, actor Actor, note string) *model.RequestLog {
	log := &model.RequestLog{
		EntityType:    entity,
		RequestID:     id,
		Action:        to,
		FromStatus:    from,
		PerformedByID: actor.ID,
		CreatedAt:     time.Now().UTC(),
	}
	if note != "" {
		log.Note = &note
	}
	return log
}

func requestLookupError(err error) error {
	if errors.Is(err, repository.ErrRequestNotFound) {
		return ErrRequestNotFound
	}
	return databaseError(err)
}
