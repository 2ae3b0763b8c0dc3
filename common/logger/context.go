package logger

import "context"

type contextKey string

const logFieldsKey contextKey = "log_fields"

// LogFields contains structured fields automatically added to all logs within a context.
// Handlers and middleware enrich the context once; every slog call made with
// that context then carries the tenant and actor without repeating them.
type LogFields struct {
	OrganizationID *int64  // Tenant the request operates on
	UserID         *int64  // Authenticated user
	APIKeyID       *int64  // Authenticated API key, when the caller used one
	RequestID      *string // X-Request-ID of the inbound request
	DeliveryID     *string // Webhook delivery id
	EventType      *string // Identity event type (e.g., "user.created")
	Component      string  // Component name (e.g., "tenantkit.identity.sync")
}

// WithLogFields enriches context with structured log fields.
// Multiple calls merge fields, with newer non-nil/non-empty values taking precedence.
func WithLogFields(ctx context.Context, fields LogFields) context.Context {
	existing := GetLogFields(ctx)
	merged := mergeFields(existing, fields)
	return context.WithValue(ctx, logFieldsKey, merged)
}

// GetLogFields retrieves log fields from context.
// Returns empty LogFields if none are set.
func GetLogFields(ctx context.Context) LogFields {
	if fields, ok := ctx.Value(logFieldsKey).(LogFields); ok {
		return fields
	}
	return LogFields{}
}

func mergeFields(existing, new LogFields) LogFields {
	result := existing

	if new.OrganizationID != nil {
		result.OrganizationID = new.OrganizationID
	}
	if new.UserID != nil {
		result.UserID = new.UserID
	}
	if new.APIKeyID != nil {
		result.APIKeyID = new.APIKeyID
	}
	if new.RequestID != nil {
		result.RequestID = new.RequestID
	}
	if new.DeliveryID != nil {
		result.DeliveryID = new.DeliveryID
	}
	if new.EventType != nil {
		result.EventType = new.EventType
	}
	if new.Component != "" {
		result.Component = new.Component
	}

	return result
}

// Ptr is a helper to create a pointer from a value.
// Useful for setting LogFields inline: logger.WithLogFields(ctx, logger.LogFields{UserID: logger.Ptr(id)})
func Ptr[T any](v T) *T {
	return &v
}
