package query

// PromoteList projects each member of a list result into its detail-keyed
// cache entry. A later detail read for the same id renders instantly from
// the promoted value while the authoritative detail request is in flight.
func PromoteList[T any](s *Store, resource, include string, items []T, id func(T) string) {
	for _, item := range items {
		key := DetailKey(resource, id(item), include)
		s.SetPlaceholder(key, item)
	}
}
