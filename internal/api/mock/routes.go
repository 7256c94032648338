package mock

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/inference-gw/admin-tui/internal/models"
)

func (t *Transport) routeUsers(req *http.Request, segs []string) (*http.Response, error) {
	switch {
	case len(segs) == 1 && req.Method == http.MethodGet:
		return t.listUsers(req), nil
	case len(segs) == 1 && req.Method == http.MethodPost:
		return t.createUser(req), nil
	case len(segs) == 2:
		return t.userByID(req, segs[1]), nil
	case len(segs) == 3 && segs[2] == "balance" && req.Method == http.MethodGet:
		return t.userBalance(req, segs[1]), nil
	case len(segs) >= 3 && segs[2] == "api-keys":
		return t.routeAPIKeys(req, segs), nil
	}
	return respondError(req, http.StatusNotFound), nil
}

func (t *Transport) listUsers(req *http.Request) *http.Response {
	include := req.URL.Query().Get("include")
	search := strings.ToLower(req.URL.Query().Get("search"))

	var filtered []models.User
	for _, u := range t.users {
		if search != "" &&
			!strings.Contains(strings.ToLower(u.Username), search) &&
			!strings.Contains(strings.ToLower(u.Email), search) &&
			!strings.Contains(strings.ToLower(u.DisplayName), search) {
			continue
		}
		filtered = append(filtered, t.enrichUser(u, include))
	}

	skip, limit := pageParams(req)
	return respondJSON(req, http.StatusOK, models.Page[models.User]{
		Data:       paginate(filtered, skip, limit),
		TotalCount: int64(len(filtered)),
		Skip:       skip,
		Limit:      limit,
	})
}

// enrichUser attaches embedded fields only for the requested includes,
// mirroring the production contract: no include, no embedded data.
func (t *Transport) enrichUser(u models.User, include string) models.User {
	if strings.Contains(include, "groups") {
		u.Groups = []models.Group{}
		for gid, members := range t.memberships {
			for _, uid := range members {
				if uid == u.ID {
					if g, ok := t.findGroup(gid); ok {
						u.Groups = append(u.Groups, g)
					}
				}
			}
		}
	}
	if strings.Contains(include, "billing") {
		bal := t.balances[u.ID]
		u.CreditBalance = &bal
	}
	return u
}

func (t *Transport) findGroup(id string) (models.Group, bool) {
	for _, g := range t.groups {
		if g.ID == id {
			return g, true
		}
	}
	return models.Group{}, false
}

func (t *Transport) createUser(req *http.Request) *http.Response {
	var body models.UserCreate
	if err := decodeBody(req, &body); err != nil {
		return respondError(req, http.StatusBadRequest)
	}
	u := models.User{
		ID:          uuid.NewString(),
		Username:    body.Username,
		Email:       body.Email,
		DisplayName: body.DisplayName,
		Roles:       body.Roles,
		CreatedAt:   now(),
		UpdatedAt:   now(),
	}
	t.users = append(t.users, u)
	return respondJSON(req, http.StatusCreated, u)
}

func (t *Transport) userByID(req *http.Request, id string) *http.Response {
	idx := -1
	for i, u := range t.users {
		if u.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return respondError(req, http.StatusNotFound)
	}

	switch req.Method {
	case http.MethodGet:
		return respondJSON(req, http.StatusOK, t.enrichUser(t.users[idx], req.URL.Query().Get("include")))
	case http.MethodPatch:
		var body models.UserUpdate
		if err := decodeBody(req, &body); err != nil {
			return respondError(req, http.StatusBadRequest)
		}
		if body.DisplayName != nil {
			t.users[idx].DisplayName = *body.DisplayName
		}
		if body.Roles != nil {
			t.users[idx].Roles = body.Roles
		}
		t.users[idx].UpdatedAt = now()
		return respondJSON(req, http.StatusOK, t.users[idx])
	case http.MethodDelete:
		t.users = append(t.users[:idx], t.users[idx+1:]...)
		return respondJSON(req, http.StatusOK, map[string]bool{"deleted": true})
	}
	return respondError(req, http.StatusMethodNotAllowed)
}

func (t *Transport) userBalance(req *http.Request, userID string) *http.Response {
	for _, u := range t.users {
		if u.ID == userID {
			return respondJSON(req, http.StatusOK, map[string]string{
				"user_id":         userID,
				"current_balance": formatAmount(t.balances[userID]),
			})
		}
	}
	return respondError(req, http.StatusNotFound)
}

func (t *Transport) routeAPIKeys(req *http.Request, segs []string) *http.Response {
	userID := segs[1]
	keys := t.apiKeys[userID]

	switch {
	case len(segs) == 3 && req.Method == http.MethodGet:
		skip, limit := pageParams(req)
		// The list never echoes secrets back.
		listed := make([]models.APIKey, len(keys))
		for i, k := range keys {
			k.Secret = ""
			listed[i] = k
		}
		return respondJSON(req, http.StatusOK, models.Page[models.APIKey]{
			Data:       paginate(listed, skip, limit),
			TotalCount: int64(len(listed)),
			Skip:       skip,
			Limit:      limit,
		})
	case len(segs) == 3 && req.Method == http.MethodPost:
		var body models.APIKeyCreate
		if err := decodeBody(req, &body); err != nil {
			return respondError(req, http.StatusBadRequest)
		}
		key := models.APIKey{
			ID:                uuid.NewString(),
			Name:              body.Name,
			Description:       body.Description,
			Purpose:           body.Purpose,
			UserID:            userID,
			Secret:            "gw-" + uuid.NewString(),
			CreatedAt:         now(),
			RequestsPerSecond: body.RequestsPerSecond,
			BurstSize:         body.BurstSize,
		}
		t.apiKeys[userID] = append(keys, key)
		return respondJSON(req, http.StatusCreated, key)
	case len(segs) == 4 && req.Method == http.MethodDelete:
		for i, k := range keys {
			if k.ID == segs[3] {
				t.apiKeys[userID] = append(keys[:i], keys[i+1:]...)
				return respondJSON(req, http.StatusOK, map[string]bool{"deleted": true})
			}
		}
		return respondError(req, http.StatusNotFound)
	case len(segs) == 4 && req.Method == http.MethodPatch:
		var body models.APIKeyUpdate
		if err := decodeBody(req, &body); err != nil {
			return respondError(req, http.StatusBadRequest)
		}
		for i, k := range keys {
			if k.ID == segs[3] {
				if body.Name != nil {
					keys[i].Name = *body.Name
				}
				if body.Description != nil {
					keys[i].Description = *body.Description
				}
				keys[i].RequestsPerSecond = body.RequestsPerSecond
				keys[i].BurstSize = body.BurstSize
				out := keys[i]
				out.Secret = ""
				return respondJSON(req, http.StatusOK, out)
			}
		}
		return respondError(req, http.StatusNotFound)
	}
	return respondError(req, http.StatusNotFound)
}

func (t *Transport) routeGroups(req *http.Request, segs []string) (*http.Response, error) {
	switch {
	case len(segs) == 1 && req.Method == http.MethodGet:
		return t.listGroups(req), nil
	case len(segs) == 1 && req.Method == http.MethodPost:
		var body models.GroupCreate
		if err := decodeBody(req, &body); err != nil {
			return respondError(req, http.StatusBadRequest), nil
		}
		g := models.Group{
			ID:          uuid.NewString(),
			Name:        body.Name,
			Description: body.Description,
			Source:      "local",
			CreatedAt:   now(),
			UpdatedAt:   now(),
		}
		t.groups = append(t.groups, g)
		return respondJSON(req, http.StatusCreated, g), nil
	case len(segs) == 2:
		return t.groupByID(req, segs[1]), nil
	case len(segs) == 4 && segs[2] == "users":
		return t.groupMembership(req, segs[1], segs[3]), nil
	case len(segs) == 4 && segs[2] == "models":
		return t.groupModelAccess(req, segs[1], segs[3]), nil
	}
	return respondError(req, http.StatusNotFound), nil
}

func (t *Transport) listGroups(req *http.Request) *http.Response {
	include := req.URL.Query().Get("include")
	search := strings.ToLower(req.URL.Query().Get("search"))

	var filtered []models.Group
	for _, g := range t.groups {
		if search != "" &&
			!strings.Contains(strings.ToLower(g.Name), search) &&
			!strings.Contains(strings.ToLower(g.Description), search) {
			continue
		}
		filtered = append(filtered, t.enrichGroup(g, include))
	}

	skip, limit := pageParams(req)
	return respondJSON(req, http.StatusOK, models.Page[models.Group]{
		Data:       paginate(filtered, skip, limit),
		TotalCount: int64(len(filtered)),
		Skip:       skip,
		Limit:      limit,
	})
}

func (t *Transport) enrichGroup(g models.Group, include string) models.Group {
	if strings.Contains(include, "users") {
		g.Users = []models.User{}
		for _, uid := range t.memberships[g.ID] {
			for _, u := range t.users {
				if u.ID == uid {
					g.Users = append(g.Users, u)
				}
			}
		}
	}
	if strings.Contains(include, "models") {
		g.Models = []models.Deployment{}
		for _, mid := range t.groupModels[g.ID] {
			for _, d := range t.deployments {
				if d.ID == mid {
					g.Models = append(g.Models, d)
				}
			}
		}
	}
	return g
}

func (t *Transport) groupByID(req *http.Request, id string) *http.Response {
	idx := -1
	for i, g := range t.groups {
		if g.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return respondError(req, http.StatusNotFound)
	}

	switch req.Method {
	case http.MethodGet:
		return respondJSON(req, http.StatusOK, t.enrichGroup(t.groups[idx], req.URL.Query().Get("include")))
	case http.MethodPatch:
		var body models.GroupUpdate
		if err := decodeBody(req, &body); err != nil {
			return respondError(req, http.StatusBadRequest)
		}
		if body.Name != nil {
			t.groups[idx].Name = *body.Name
		}
		if body.Description != nil {
			t.groups[idx].Description = *body.Description
		}
		t.groups[idx].UpdatedAt = now()
		return respondJSON(req, http.StatusOK, t.groups[idx])
	case http.MethodDelete:
		delete(t.memberships, id)
		delete(t.groupModels, id)
		t.groups = append(t.groups[:idx], t.groups[idx+1:]...)
		return respondJSON(req, http.StatusOK, map[string]bool{"deleted": true})
	}
	return respondError(req, http.StatusMethodNotAllowed)
}

func (t *Transport) groupMembership(req *http.Request, groupID, userID string) *http.Response {
	if _, ok := t.findGroup(groupID); !ok {
		return respondError(req, http.StatusNotFound)
	}
	switch req.Method {
	case http.MethodPost:
		t.memberships[groupID] = append(t.memberships[groupID], userID)
		return respondJSON(req, http.StatusCreated, map[string]bool{"added": true})
	case http.MethodDelete:
		members := t.memberships[groupID]
		for i, uid := range members {
			if uid == userID {
				t.memberships[groupID] = append(members[:i], members[i+1:]...)
				return respondJSON(req, http.StatusOK, map[string]bool{"removed": true})
			}
		}
		return respondError(req, http.StatusNotFound)
	}
	return respondError(req, http.StatusMethodNotAllowed)
}

func (t *Transport) groupModelAccess(req *http.Request, groupID, modelID string) *http.Response {
	if _, ok := t.findGroup(groupID); !ok {
		return respondError(req, http.StatusNotFound)
	}
	switch req.Method {
	case http.MethodPost:
		t.groupModels[groupID] = append(t.groupModels[groupID], modelID)
		return respondJSON(req, http.StatusCreated, map[string]bool{"added": true})
	case http.MethodDelete:
		ids := t.groupModels[groupID]
		for i, mid := range ids {
			if mid == modelID {
				t.groupModels[groupID] = append(ids[:i], ids[i+1:]...)
				return respondJSON(req, http.StatusOK, map[string]bool{"removed": true})
			}
		}
		return respondError(req, http.StatusNotFound)
	}
	return respondError(req, http.StatusMethodNotAllowed)
}
