package observability

import (
	"context"

	"go.opentelemetry.io/otel/trace"
)

// EventPublisher delivers an event to the message broker.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, event any) error
}

type EventEnvelope struct {
	EventType string `json:"event_type"`
	EventName string `json:"event_name"`
	Payload   any    `json:"payload"`
}

var defaultPublisher EventPublisher

func SetPublisher(publisher EventPublisher) {
	defaultPublisher = publisher
}

// PublishEvent wraps payload in an envelope and hands it to the configured
// publisher. Without a publisher it does nothing.
func PublishEvent(ctx context.Context, routingKey, eventType, eventName string, payload any) error {
	if defaultPublisher == nil {
		return nil
	}

	err := defaultPublisher.Publish(ctx, routingKey, EventEnvelope{
		EventType: eventType,
		EventName: eventName,
		Payload:   payload,
	})
	if err != nil {
		IncAMQPPublishError()
	}
	return err
}

// HeadersFromContext returns the correlation headers attached to published
// messages.
func HeadersFromContext(ctx context.Context) map[string]string {
	var traceID string
	if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
		traceID = sc.TraceID().String()
	}
	return BuildHeaders(RequestIDFromContext(ctx), traceID)
}

func BuildHeaders(requestID, traceID string) map[string]string {
	headers := map[string]string{}
	if requestID != "" {
		headers["x-request-id"] = requestID
	}
	if traceID != "" {
		headers["trace_id"] = traceID
	}
	return headers
}
