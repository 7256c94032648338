package api

import (
	"fmt"
	"net/url"
)

// ListParams carries the optional query parameters of list endpoints.
// Zero-valued fields are omitted from the request.
type ListParams struct {
	Include  string
	Search   string
	HostedOn string
	Purpose  string
	UserID   string
	Skip     int64
	Limit    int64
	After    string
}

func (p ListParams) values() url.Values {
	q := url.Values{}
	set := func(k, v string) {
		if v != "" {
			q.Set(k, v)
		}
	}
	set("include", p.Include)
	set("search", p.Search)
	set("hosted_on", p.HostedOn)
	set("purpose", p.Purpose)
	set("user_id", p.UserID)
	set("after", p.After)
	if p.Skip > 0 {
		q.Set("skip", fmt.Sprintf("%d", p.Skip))
	}
	if p.Limit > 0 {
		q.Set("limit", fmt.Sprintf("%d", p.Limit))
	}
	return q
}
