package session

import "context"

type contextKey string

const storeContextKey contextKey = "session_store"

func WithStore(ctx context.Context, store *Store) context.Context {
	return context.WithValue(ctx, storeContextKey, store)
}

func FromContext(ctx context.Context) (*Store, error) {
	store, ok := ctx.Value(storeContextKey).(*Store)
	if !ok || store == nil {
		return nil, ErrNoProvider
	}
	return store, nil
}

// MustFromContext panics when no store was installed; reaching session state
// without a provider is a wiring bug.
func MustFromContext(ctx context.Context) *Store {
	store, err := FromContext(ctx)
	if err != nil {
		panic(err)
	}
	return store
}
