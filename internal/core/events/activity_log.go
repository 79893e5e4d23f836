package events

import (
	"context"
	"log/slog"
)

// RegisterActivityLog subscribes a structured audit trail to every expense
// and project lifecycle event. The server wires this up at startup.
func RegisterActivityLog(bus *EventBus, logger *slog.Logger) {
	handler := func(ctx context.Context, event Event) error {
		logger.Info("activity",
			"event_type", event.EventType(),
			"event_id", event.EventID(),
			"occurred_at", event.OccurredAt(),
			"data", event.Payload())
		return nil
	}

	for _, eventType := range []string{
		ExpenseCreated,
		ExpenseUpdated,
		ExpenseDeleted,
		ProjectCreated,
		ProjectUpdated,
		ProjectDeleted,
	} {
		bus.Subscribe(eventType, handler)
	}
}
