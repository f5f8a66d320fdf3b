package usecase

import "github.com/fotovariedades/storefront/internal/domain/model"

// EventPublisher hands committed order changes to asynchronous consumers.
// Publish must not block the caller.
type EventPublisher interface {
	Publish(event model.OrderEvent)
}
