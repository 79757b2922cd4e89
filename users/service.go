// Package users, as part of the user administration module.
// This file, `service.go`, contains the business logic for user administration.
// It acts as the "Service" layer, analogous to a Service class in Nest.js.
package users

import (
	"context"
	"net/url"

	"github.com/user/carcatalog-go/apperror"
	"github.com/user/carcatalog-go/auth"
	"github.com/user/carcatalog-go/catalog"
	"github.com/user/carcatalog-go/query"
)

// UserResource describes the users table for the generic catalog pipeline.
// The password column is selected (auth needs it) but never serialized.
var UserResource = catalog.Resource{
	Name:    "user",
	Table:   auth.UsersTable,
	Columns: auth.UserColumns,
	Query: query.Config{
		Filters: []query.Field{
			{Name: "name", Kind: query.String},
			{Name: "email", Kind: query.String},
			{Name: "is_admin", Kind: query.Bool},
		},
		SortFields:  []string{"id", "name", "email", "is_admin", "created_at", "updated_at"},
		DefaultSort: "created_at",
	},
	Unique:           []string{"email"},
	DuplicateMessage: "email already exist",
}

// UserService provides the admin operations on users.
// Reads and deletes go straight through the catalog pipeline; updates hash
// a new password first.
type UserService struct {
	users  *catalog.Service[auth.User]
	hasher *auth.PasswordHasher
}

// NewUserService creates a new UserService.
func NewUserService(users *catalog.Service[auth.User], hasher *auth.PasswordHasher) *UserService {
	return &UserService{users: users, hasher: hasher}
}

// List returns one page of users.
func (s *UserService) List(ctx context.Context, raw url.Values) (*query.Page[auth.User], error) {
	return s.users.List(ctx, raw)
}

// Get returns one user.
func (s *UserService) Get(ctx context.Context, id int) (*auth.User, error) {
	return s.users.Get(ctx, id)
}

// Update changes a user. Email uniqueness is checked against every other user.
func (s *UserService) Update(ctx context.Context, id int, req UpdateUserRequest) (*auth.User, error) {
	values := req.values()
	if plaintext, ok := values["password"].(string); ok {
		digest, err := s.hasher.Hash(plaintext)
		if err != nil {
			return nil, apperror.NewInternalError("failed to hash password", err)
		}
		values["password"] = digest
	}
	return s.users.Update(ctx, id, values)
}

// Delete removes a user. Users still owning price-list rows cannot be deleted.
func (s *UserService) Delete(ctx context.Context, id int) error {
	return s.users.Delete(ctx, id)
}
