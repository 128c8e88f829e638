// api/util/queue.go

package util

import (
	"context"

	"github.com/trashmob-eco/trashmob-api/model"
)

// NewsletterQueue is the enqueue-only contract to the external newsletter
// sender. Delivery happens outside this process.
type NewsletterQueue interface {
	EnqueueSend(ctx context.Context, req model.NewsletterSendRequest) error
}

// AreaGenerationQueue is the enqueue-only contract to the external
// area-generation worker.
type AreaGenerationQueue interface {
	EnqueueGeneration(ctx context.Context, partnerID, requestedByUserID string) error
}

// BusNewsletterQueue publishes send requests on the in-process event bus;
// a real broker client can replace it without touching callers.
type BusNewsletterQueue struct {
	bus *EventBus
}

func NewBusNewsletterQueue(bus *EventBus) *BusNewsletterQueue {
	return &BusNewsletterQueue{bus: bus}
}

func (q *BusNewsletterQueue) EnqueueSend(ctx context.Context, req model.NewsletterSendRequest) error {
	q.bus.Publish(ctx, "newsletter.send", req)
	return nil
}

type BusAreaGenerationQueue struct {
	bus *EventBus
}

func NewBusAreaGenerationQueue(bus *EventBus) *BusAreaGenerationQueue {
	return &BusAreaGenerationQueue{bus: bus}
}

func (q *BusAreaGenerationQueue) EnqueueGeneration(ctx context.Context, partnerID, requestedByUserID string) error {
	q.bus.Publish(ctx, "area.generate", map[string]string{
		"partner_id":   partnerID,
		"requested_by": requestedByUserID,
	})
	return nil
}
