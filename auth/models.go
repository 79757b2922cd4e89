// This file, `models.go`, defines the `User` entity shared by the auth flows
// and the admin user management in package users.
package auth

import "time"

// User represents a row of the `users` table.
// `db` tags drive pgx.RowToStructByName; the `json:"-"` tag keeps the
// password digest out of every API response.
type User struct {
	ID         int       `db:"id" json:"id"`
	Name       string    `db:"name" json:"name"`
	Email      string    `db:"email" json:"email"`
	Password   string    `db:"password" json:"-"`
	IsVerified bool      `db:"is_verified" json:"is_verified"`
	IsAdmin    bool      `db:"is_admin" json:"is_admin"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// UserColumns is the projection matching User.
var UserColumns = []string{"id", "name", "email", "password", "is_verified", "is_admin", "created_at", "updated_at"}

// UsersTable is the table name.
const UsersTable = "users"
