// Package ctxutil provides context utilities that can be safely imported anywhere.
// This package has no internal dependencies to avoid import cycles.
package ctxutil

import "context"

// ReviewerKey is the context key for the reviewer identity.
// Exported so it can be used consistently across packages.
type ReviewerKey struct{}

// WithReviewer returns a context with the reviewer identity embedded.
func WithReviewer(ctx context.Context, reviewer string) context.Context {
	return context.WithValue(ctx, ReviewerKey{}, reviewer)
}

// ReviewerFromContext returns the reviewer from context, or empty string if not set.
func ReviewerFromContext(ctx context.Context) string {
	if v := ctx.Value(ReviewerKey{}); v != nil {
		return v.(string)
	}
	return ""
}
