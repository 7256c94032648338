package query

import "context"

// FetchAs is the typed front door to Store.Fetch. The store holds `any`
// values; services call through here so the assertion lives in one place.
func FetchAs[T any](ctx context.Context, s *Store, k Key, fn func(context.Context) (T, error)) (T, error) {
	v, err := s.Fetch(ctx, k, func(ctx context.Context) (any, error) {
		return fn(ctx)
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

// ForceFetchAs is FetchAs bypassing the cache check, for explicit refreshes.
func ForceFetchAs[T any](ctx context.Context, s *Store, k Key, fn func(context.Context) (T, error)) (T, error) {
	v, err := s.ForceFetch(ctx, k, func(ctx context.Context) (any, error) {
		return fn(ctx)
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}
