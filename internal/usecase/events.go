package usecase

import (
	"context"
	"encoding/json"
	"time"

	"github.com/DRSN-tech/catalog-backend/internal/domain"
	"github.com/DRSN-tech/catalog-backend/pkg/e"
	"github.com/google/uuid"
)

// recordEvent добавляет событие об изменении продуктов в outbox в рамках текущей транзакции.
func recordEvent(ctx context.Context, repo OutboxRepository, eventType OutboxEventType, productIDs []string) error {
	const op = "usecase.recordEvent"

	if productIDs == nil {
		productIDs = []string{}
	}

	now := time.Now().UTC()
	event := ProductChangeEvent{
		EventID:    uuid.NewString(),
		EventType:  eventType,
		ProductIDs: productIDs,
		OccurredAt: now,
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return e.Wrap(op, err)
	}

	if _, err := repo.Create(ctx, &OutboxEvent{
		EventID:   event.EventID,
		EventType: eventType,
		Payload:   payload,
		Status:    Pending,
		CreatedAt: now,
	}); err != nil {
		return e.Wrap(op, err)
	}

	return nil
}

func idsOf(products []domain.Product) []string {
	ids := make([]string, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.ID)
	}
	return ids
}
