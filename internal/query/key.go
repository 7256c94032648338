// Package query implements the client-side cache for admin API resources:
// hierarchical cache keys, prefix invalidation, in-flight request
// coalescing, and list-to-detail placeholder promotion.
package query

import (
	"fmt"
	"strings"
)

// Key is an ordered, hierarchical cache key. The first segment is the
// resource family; invalidating a short prefix invalidates every entry
// under it (e.g. Key{"users"} covers all user queries).
type Key []string

// Options are the query parameters that distinguish otherwise identical
// list fetches. Two Options values with the same fields canonicalize to the
// same key segment, so structurally equal inputs always hit the same entry.
type Options struct {
	Include  string
	Search   string
	HostedOn string
	Purpose  string
	UserID   string
	Skip     int64
	Limit    int64
	After    string
}

// canon renders the options as a deterministic segment. Fields are emitted
// in a fixed order and zero values are skipped, so Options{} yields "".
func (o Options) canon() string {
	var parts []string
	add := func(k, v string) {
		if v != "" {
			parts = append(parts, k+"="+v)
		}
	}
	add("include", o.Include)
	add("search", o.Search)
	add("hosted_on", o.HostedOn)
	add("purpose", o.Purpose)
	add("user_id", o.UserID)
	if o.Skip != 0 {
		parts = append(parts, fmt.Sprintf("skip=%d", o.Skip))
	}
	if o.Limit != 0 {
		parts = append(parts, fmt.Sprintf("limit=%d", o.Limit))
	}
	add("after", o.After)
	return strings.Join(parts, "&")
}

// ListKey builds the key for a list query of a resource.
func ListKey(resource string, opts Options) Key {
	return Key{resource, "query", opts.canon()}
}

// DetailKey builds the key for a single-resource query.
func DetailKey(resource, id, include string) Key {
	return Key{resource, "byId", id, include}
}

// FamilyKey builds the one-segment prefix covering every query of a resource.
func FamilyKey(resource string) Key {
	return Key{resource}
}

// String joins the segments into the canonical map key.
func (k Key) String() string {
	return strings.Join(k, "/")
}

// HasPrefix reports whether k starts with the given prefix, segment-wise.
func (k Key) HasPrefix(prefix Key) bool {
	if len(prefix) > len(k) {
		return false
	}
	for i, seg := range prefix {
		if k[i] != seg {
			return false
		}
	}
	return true
}

// Equal reports segment-wise value equality.
func (k Key) Equal(other Key) bool {
	if len(k) != len(other) {
		return false
	}
	for i := range k {
		if k[i] != other[i] {
			return false
		}
	}
	return true
}
