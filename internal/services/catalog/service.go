// Package catalog manages the user, group, model and endpoint resources:
// cached reads through the query store and mutations that invalidate the
// resource families a change can affect.
package catalog

import (
	"context"

	"github.com/inference-gw/admin-tui/internal/api"
	"github.com/inference-gw/admin-tui/internal/models"
	"github.com/inference-gw/admin-tui/internal/query"
)

// Resource family names used as cache key roots.
const (
	ResourceUsers     = "users"
	ResourceGroups    = "groups"
	ResourceModels    = "models"
	ResourceEndpoints = "endpoints"
	ResourceAPIKeys   = "api-keys"
)

// Service wraps the REST client with cache-aware reads and invalidating
// mutations. Which families a mutation invalidates is fixed here, not left
// to callers: embedded includes mean a user change is visible in group
// listings and vice versa.
type Service struct {
	client *api.Client
	store  *query.Store
}

// New creates the catalog service.
func New(client *api.Client, store *query.Store) *Service {
	return &Service{client: client, store: store}
}

func toOptions(p api.ListParams) query.Options {
	return query.Options{
		Include:  p.Include,
		Search:   p.Search,
		HostedOn: p.HostedOn,
		Purpose:  p.Purpose,
		UserID:   p.UserID,
		Skip:     p.Skip,
		Limit:    p.Limit,
		After:    p.After,
	}
}

// Users returns a cached page of users. Each listed user is promoted into
// its detail slot so opening a detail view renders instantly.
func (s *Service) Users(ctx context.Context, params api.ListParams) (models.Page[models.User], error) {
	key := query.ListKey(ResourceUsers, toOptions(params))
	page, err := query.FetchAs(ctx, s.store, key, func(ctx context.Context) (models.Page[models.User], error) {
		return s.client.ListUsers(ctx, params)
	})
	if err == nil {
		query.PromoteList(s.store, ResourceUsers, params.Include, page.Data,
			func(u models.User) string { return u.ID })
	}
	return page, err
}

// User returns a single user, cached by id and include.
func (s *Service) User(ctx context.Context, id, include string) (models.User, error) {
	key := query.DetailKey(ResourceUsers, id, include)
	return query.FetchAs(ctx, s.store, key, func(ctx context.Context) (models.User, error) {
		return s.client.GetUser(ctx, id, include)
	})
}

// CreateUser creates a user and invalidates the user and group families;
// group listings embed member lists.
func (s *Service) CreateUser(ctx context.Context, req models.UserCreate) (models.User, error) {
	user, err := s.client.CreateUser(ctx, req)
	if err != nil {
		return user, err
	}
	s.invalidate(ResourceUsers, ResourceGroups)
	return user, nil
}

// UpdateUser updates a user and invalidates the user and group families.
func (s *Service) UpdateUser(ctx context.Context, id string, req models.UserUpdate) (models.User, error) {
	user, err := s.client.UpdateUser(ctx, id, req)
	if err != nil {
		return user, err
	}
	s.invalidate(ResourceUsers, ResourceGroups)
	return user, nil
}

// DeleteUser deletes a user and invalidates the user and group families.
func (s *Service) DeleteUser(ctx context.Context, id string) error {
	if err := s.client.DeleteUser(ctx, id); err != nil {
		return err
	}
	s.invalidate(ResourceUsers, ResourceGroups)
	return nil
}

// Groups returns a cached page of groups.
func (s *Service) Groups(ctx context.Context, params api.ListParams) (models.Page[models.Group], error) {
	key := query.ListKey(ResourceGroups, toOptions(params))
	page, err := query.FetchAs(ctx, s.store, key, func(ctx context.Context) (models.Page[models.Group], error) {
		return s.client.ListGroups(ctx, params)
	})
	if err == nil {
		query.PromoteList(s.store, ResourceGroups, params.Include, page.Data,
			func(g models.Group) string { return g.ID })
	}
	return page, err
}

// Group returns a single group, cached by id and include.
func (s *Service) Group(ctx context.Context, id, include string) (models.Group, error) {
	key := query.DetailKey(ResourceGroups, id, include)
	return query.FetchAs(ctx, s.store, key, func(ctx context.Context) (models.Group, error) {
		return s.client.GetGroup(ctx, id, include)
	})
}

// CreateGroup creates a group and invalidates the group family.
func (s *Service) CreateGroup(ctx context.Context, req models.GroupCreate) (models.Group, error) {
	group, err := s.client.CreateGroup(ctx, req)
	if err != nil {
		return group, err
	}
	s.invalidate(ResourceGroups)
	return group, nil
}

// UpdateGroup updates a group and invalidates the group family.
func (s *Service) UpdateGroup(ctx context.Context, id string, req models.GroupUpdate) (models.Group, error) {
	group, err := s.client.UpdateGroup(ctx, id, req)
	if err != nil {
		return group, err
	}
	s.invalidate(ResourceGroups)
	return group, nil
}

// DeleteGroup deletes a group. Users embed their group lists, so both
// families go.
func (s *Service) DeleteGroup(ctx context.Context, id string) error {
	if err := s.client.DeleteGroup(ctx, id); err != nil {
		return err
	}
	s.invalidate(ResourceGroups, ResourceUsers)
	return nil
}

// AddUserToGroup adds a membership and invalidates groups and users.
func (s *Service) AddUserToGroup(ctx context.Context, groupID, userID string) error {
	if err := s.client.AddUserToGroup(ctx, groupID, userID); err != nil {
		return err
	}
	s.invalidate(ResourceGroups, ResourceUsers)
	return nil
}

// RemoveUserFromGroup removes a membership and invalidates groups and users.
func (s *Service) RemoveUserFromGroup(ctx context.Context, groupID, userID string) error {
	if err := s.client.RemoveUserFromGroup(ctx, groupID, userID); err != nil {
		return err
	}
	s.invalidate(ResourceGroups, ResourceUsers)
	return nil
}

// Models returns a cached page of deployed models.
func (s *Service) Models(ctx context.Context, params api.ListParams) (models.Page[models.Deployment], error) {
	key := query.ListKey(ResourceModels, toOptions(params))
	page, err := query.FetchAs(ctx, s.store, key, func(ctx context.Context) (models.Page[models.Deployment], error) {
		return s.client.ListModels(ctx, params)
	})
	if err == nil {
		query.PromoteList(s.store, ResourceModels, params.Include, page.Data,
			func(d models.Deployment) string { return d.ID })
	}
	return page, err
}

// Model returns a single deployed model, cached by id and include.
func (s *Service) Model(ctx context.Context, id, include string) (models.Deployment, error) {
	key := query.DetailKey(ResourceModels, id, include)
	return query.FetchAs(ctx, s.store, key, func(ctx context.Context) (models.Deployment, error) {
		return s.client.GetModel(ctx, id, include)
	})
}

// CreateModel deploys a model and invalidates the model family.
func (s *Service) CreateModel(ctx context.Context, req models.DeploymentCreate) (models.Deployment, error) {
	dep, err := s.client.CreateModel(ctx, req)
	if err != nil {
		return dep, err
	}
	s.invalidate(ResourceModels)
	return dep, nil
}

// UpdateModel updates a deployed model and invalidates the model family.
func (s *Service) UpdateModel(ctx context.Context, id string, req models.DeploymentUpdate) (models.Deployment, error) {
	dep, err := s.client.UpdateModel(ctx, id, req)
	if err != nil {
		return dep, err
	}
	s.invalidate(ResourceModels)
	return dep, nil
}

// DeleteModel removes a deployed model. Groups embed model access lists.
func (s *Service) DeleteModel(ctx context.Context, id string) error {
	if err := s.client.DeleteModel(ctx, id); err != nil {
		return err
	}
	s.invalidate(ResourceModels, ResourceGroups)
	return nil
}

// AddModelToGroup grants access and invalidates groups and models.
func (s *Service) AddModelToGroup(ctx context.Context, groupID, modelID string) error {
	if err := s.client.AddModelToGroup(ctx, groupID, modelID); err != nil {
		return err
	}
	s.invalidate(ResourceGroups, ResourceModels)
	return nil
}

// RemoveModelFromGroup revokes access and invalidates groups and models.
func (s *Service) RemoveModelFromGroup(ctx context.Context, groupID, modelID string) error {
	if err := s.client.RemoveModelFromGroup(ctx, groupID, modelID); err != nil {
		return err
	}
	s.invalidate(ResourceGroups, ResourceModels)
	return nil
}

// Endpoints returns a cached page of inference endpoints.
func (s *Service) Endpoints(ctx context.Context, params api.ListParams) (models.Page[models.Endpoint], error) {
	key := query.ListKey(ResourceEndpoints, toOptions(params))
	return query.FetchAs(ctx, s.store, key, func(ctx context.Context) (models.Page[models.Endpoint], error) {
		return s.client.ListEndpoints(ctx, params)
	})
}

// CreateEndpoint registers an endpoint. Model rows show where they are
// hosted, so the model family goes too.
func (s *Service) CreateEndpoint(ctx context.Context, req models.EndpointCreate) (models.Endpoint, error) {
	ep, err := s.client.CreateEndpoint(ctx, req)
	if err != nil {
		return ep, err
	}
	s.invalidate(ResourceEndpoints, ResourceModels)
	return ep, nil
}

// UpdateEndpoint updates an endpoint and invalidates endpoints and models.
func (s *Service) UpdateEndpoint(ctx context.Context, id string, req models.EndpointUpdate) (models.Endpoint, error) {
	ep, err := s.client.UpdateEndpoint(ctx, id, req)
	if err != nil {
		return ep, err
	}
	s.invalidate(ResourceEndpoints, ResourceModels)
	return ep, nil
}

// DeleteEndpoint removes an endpoint and invalidates endpoints and models.
func (s *Service) DeleteEndpoint(ctx context.Context, id string) error {
	if err := s.client.DeleteEndpoint(ctx, id); err != nil {
		return err
	}
	s.invalidate(ResourceEndpoints, ResourceModels)
	return nil
}

// APIKeys returns a cached page of a user's API keys. Keys are cached under
// a per-user prefix so one user's key mutations do not evict another's.
func (s *Service) APIKeys(ctx context.Context, userID string, params api.ListParams) (models.Page[models.APIKey], error) {
	opts := toOptions(params)
	opts.UserID = userID
	key := query.ListKey(ResourceAPIKeys, opts)
	return query.FetchAs(ctx, s.store, key, func(ctx context.Context) (models.Page[models.APIKey], error) {
		return s.client.ListAPIKeys(ctx, userID, params)
	})
}

// CreateAPIKey creates a key. The returned value carries the one-time
// secret; it is handed straight to the caller and never cached.
func (s *Service) CreateAPIKey(ctx context.Context, userID string, req models.APIKeyCreate) (models.APIKey, error) {
	created, err := s.client.CreateAPIKey(ctx, userID, req)
	if err != nil {
		return created, err
	}
	s.invalidate(ResourceAPIKeys)
	return created, nil
}

// UpdateAPIKey updates a key and invalidates the key family.
func (s *Service) UpdateAPIKey(ctx context.Context, userID, keyID string, req models.APIKeyUpdate) (models.APIKey, error) {
	updated, err := s.client.UpdateAPIKey(ctx, userID, keyID, req)
	if err != nil {
		return updated, err
	}
	s.invalidate(ResourceAPIKeys)
	return updated, nil
}

// DeleteAPIKey deletes a key and invalidates the key family.
func (s *Service) DeleteAPIKey(ctx context.Context, userID, keyID string) error {
	if err := s.client.DeleteAPIKey(ctx, userID, keyID); err != nil {
		return err
	}
	s.invalidate(ResourceAPIKeys)
	return nil
}

func (s *Service) invalidate(families ...string) {
	for _, f := range families {
		s.store.Invalidate(query.FamilyKey(f))
	}
}
