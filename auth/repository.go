package auth

import (
	"context"

	"github.com/user/carcatalog-go/store"
)

// UserStore is the persistence the auth flows need.
// Lookups return store.ErrNotFound when no user matches.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id int) (*User, error)
	Create(ctx context.Context, user NewUser) (*User, error)
	MarkVerified(ctx context.Context, email string) error
	UpdatePassword(ctx context.Context, email, digest string) error
}

// NewUser is the data needed to insert a user. Password is already hashed.
type NewUser struct {
	Name     string
	Email    string
	Password string
	IsAdmin  bool
}

// PgUserStore implements UserStore on the users table.
type PgUserStore struct {
	users *store.Table[User]
}

// NewPgUserStore creates a PgUserStore over db (a pool or a transaction).
func NewPgUserStore(db store.DBTX) *PgUserStore {
	return &PgUserStore{users: store.NewTable[User](db, UsersTable, UserColumns...)}
}

// Table exposes the underlying generic table for admin user management.
func (s *PgUserStore) Table() *store.Table[User] {
	return s.users
}

func (s *PgUserStore) FindByEmail(ctx context.Context, email string) (*User, error) {
	return s.users.FindBy(ctx, "email", email)
}

func (s *PgUserStore) FindByID(ctx context.Context, id int) (*User, error) {
	return s.users.FindByID(ctx, id)
}

func (s *PgUserStore) Create(ctx context.Context, user NewUser) (*User, error) {
	return s.users.Create(ctx, map[string]any{
		"name":        user.Name,
		"email":       user.Email,
		"password":    user.Password,
		"is_admin":    user.IsAdmin,
		"is_verified": false,
	})
}

func (s *PgUserStore) MarkVerified(ctx context.Context, email string) error {
	return s.users.UpdateBy(ctx, "email", email, map[string]any{"is_verified": true})
}

func (s *PgUserStore) UpdatePassword(ctx context.Context, email, digest string) error {
	return s.users.UpdateBy(ctx, "email", email, map[string]any{"password": digest})
}
