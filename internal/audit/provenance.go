package audit

import "context"

// Provenance is the request origin stamped onto every entry.
type Provenance struct {
	IPAddress string
	UserAgent string
	RequestID string
}

type provenanceKey struct{}

func WithProvenance(ctx context.Context, p Provenance) context.Context {
	return context.WithValue(ctx, provenanceKey{}, p)
}

func ProvenanceFrom(ctx context.Context) (Provenance, bool) {
	p, ok := ctx.Value(provenanceKey{}).(Provenance)
	return p, ok
}
