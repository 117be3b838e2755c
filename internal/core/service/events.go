package service

import (
	"context"

	"github.com/jpbaz28/Banking-API/internal/core/domain"
)

// EventPublisher delivers committed balance changes to downstream consumers.
type EventPublisher interface {
	PublishBalanceEvent(ctx context.Context, event domain.BalanceEvent) error
}

type noopPublisher struct{}

func (noopPublisher) PublishBalanceEvent(context.Context, domain.BalanceEvent) error { return nil }

// NoopPublisher discards events. Used when no broker is configured.
func NoopPublisher() EventPublisher {
	return noopPublisher{}
}
