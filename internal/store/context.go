package store

import (
	"context"
	"errors"
)

// ErrNoStore is returned when a consumer asks for the store outside of a session.
var ErrNoStore = errors.New("no store bound to context")

type storeKey struct{}

// WithStore binds s to the context.
func WithStore(ctx context.Context, s *Store) context.Context {
	return context.WithValue(ctx, storeKey{}, s)
}

// FromContext returns the store bound to ctx, or ErrNoStore.
func FromContext(ctx context.Context) (*Store, error) {
	s, ok := ctx.Value(storeKey{}).(*Store)
	if !ok || s == nil {
		return nil, ErrNoStore
	}
	return s, nil
}
