package mock

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/inference-gw/admin-tui/internal/models"
)

func (t *Transport) routeModels(req *http.Request, segs []string) (*http.Response, error) {
	switch {
	case len(segs) == 1 && req.Method == http.MethodGet:
		return t.listModels(req), nil
	case len(segs) == 1 && req.Method == http.MethodPost:
		var body models.DeploymentCreate
		if err := decodeBody(req, &body); err != nil {
			return respondError(req, http.StatusBadRequest), nil
		}
		d := models.Deployment{
			ID:           uuid.NewString(),
			Alias:        body.Alias,
			ModelName:    body.ModelName,
			HostedOn:     body.HostedOn,
			Description:  body.Description,
			Capabilities: body.Capabilities,
			InputTariff:  body.InputTariff,
			OutputTariff: body.OutputTariff,
			CreatedAt:    now(),
			UpdatedAt:    now(),
		}
		t.deployments = append(t.deployments, d)
		return respondJSON(req, http.StatusCreated, d), nil
	case len(segs) == 2:
		return t.modelByID(req, segs[1]), nil
	}
	return respondError(req, http.StatusNotFound), nil
}

func (t *Transport) listModels(req *http.Request) *http.Response {
	include := req.URL.Query().Get("include")
	hostedOn := req.URL.Query().Get("hosted_on")
	search := strings.ToLower(req.URL.Query().Get("search"))

	var filtered []models.Deployment
	for _, d := range t.deployments {
		if hostedOn != "" && d.HostedOn != hostedOn {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(d.Alias), search) &&
			!strings.Contains(strings.ToLower(d.ModelName), search) {
			continue
		}
		filtered = append(filtered, t.enrichDeployment(d, include))
	}

	skip, limit := pageParams(req)
	return respondJSON(req, http.StatusOK, models.Page[models.Deployment]{
		Data:       paginate(filtered, skip, limit),
		TotalCount: int64(len(filtered)),
		Skip:       skip,
		Limit:      limit,
	})
}

func (t *Transport) enrichDeployment(d models.Deployment, include string) models.Deployment {
	if strings.Contains(include, "groups") {
		d.Groups = []models.Group{}
		for gid, ids := range t.groupModels {
			for _, mid := range ids {
				if mid == d.ID {
					if g, ok := t.findGroup(gid); ok {
						d.Groups = append(d.Groups, g)
					}
				}
			}
		}
	}
	if strings.Contains(include, "metrics") {
		var total, tokens int64
		for _, r := range t.requests {
			if r.Model == d.ModelName {
				total++
				tokens += r.PromptTokens + r.CompletionTokens
			}
		}
		d.Metrics = &models.DeploymentMetrics{
			TotalRequests:  total,
			TotalTokens:    tokens,
			RequestsPerDay: float64(total) / 7,
		}
	}
	return d
}

func (t *Transport) modelByID(req *http.Request, id string) *http.Response {
	idx := -1
	for i, d := range t.deployments {
		if d.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return respondError(req, http.StatusNotFound)
	}

	switch req.Method {
	case http.MethodGet:
		return respondJSON(req, http.StatusOK, t.enrichDeployment(t.deployments[idx], req.URL.Query().Get("include")))
	case http.MethodPatch:
		var body models.DeploymentUpdate
		if err := decodeBody(req, &body); err != nil {
			return respondError(req, http.StatusBadRequest)
		}
		d := &t.deployments[idx]
		if body.Alias != nil {
			d.Alias = *body.Alias
		}
		if body.ModelName != nil {
			d.ModelName = *body.ModelName
		}
		if body.HostedOn != nil {
			d.HostedOn = *body.HostedOn
		}
		if body.Description != nil {
			d.Description = *body.Description
		}
		if body.InputTariff != nil {
			d.InputTariff = body.InputTariff
		}
		if body.OutputTariff != nil {
			d.OutputTariff = body.OutputTariff
		}
		d.UpdatedAt = now()
		return respondJSON(req, http.StatusOK, *d)
	case http.MethodDelete:
		t.deployments = append(t.deployments[:idx], t.deployments[idx+1:]...)
		return respondJSON(req, http.StatusOK, map[string]bool{"deleted": true})
	}
	return respondError(req, http.StatusMethodNotAllowed)
}

func (t *Transport) routeEndpoints(req *http.Request, segs []string) (*http.Response, error) {
	switch {
	case len(segs) == 1 && req.Method == http.MethodGet:
		skip, limit := pageParams(req)
		return respondJSON(req, http.StatusOK, models.Page[models.Endpoint]{
			Data:       paginate(t.endpoints, skip, limit),
			TotalCount: int64(len(t.endpoints)),
			Skip:       skip,
			Limit:      limit,
		}), nil
	case len(segs) == 1 && req.Method == http.MethodPost:
		var body models.EndpointCreate
		if err := decodeBody(req, &body); err != nil {
			return respondError(req, http.StatusBadRequest), nil
		}
		ep := models.Endpoint{
			ID:             uuid.NewString(),
			Name:           body.Name,
			Description:    body.Description,
			URL:            body.URL,
			RequiresAPIKey: body.APIKey != nil,
			CreatedAt:      now(),
			UpdatedAt:      now(),
		}
		t.endpoints = append(t.endpoints, ep)
		return respondJSON(req, http.StatusCreated, ep), nil
	case len(segs) == 2:
		return t.endpointByID(req, segs[1]), nil
	}
	return respondError(req, http.StatusNotFound), nil
}

func (t *Transport) endpointByID(req *http.Request, id string) *http.Response {
	idx := -1
	for i, ep := range t.endpoints {
		if ep.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return respondError(req, http.StatusNotFound)
	}

	switch req.Method {
	case http.MethodGet:
		return respondJSON(req, http.StatusOK, t.endpoints[idx])
	case http.MethodPatch:
		var body models.EndpointUpdate
		if err := decodeBody(req, &body); err != nil {
			return respondError(req, http.StatusBadRequest)
		}
		ep := &t.endpoints[idx]
		if body.Name != nil {
			ep.Name = *body.Name
		}
		if body.Description != nil {
			ep.Description = *body.Description
		}
		if body.URL != nil {
			ep.URL = *body.URL
		}
		if body.APIKey != nil {
			ep.RequiresAPIKey = true
		}
		ep.UpdatedAt = now()
		return respondJSON(req, http.StatusOK, *ep)
	case http.MethodDelete:
		t.endpoints = append(t.endpoints[:idx], t.endpoints[idx+1:]...)
		return respondJSON(req, http.StatusOK, map[string]bool{"deleted": true})
	}
	return respondError(req, http.StatusMethodNotAllowed)
}
