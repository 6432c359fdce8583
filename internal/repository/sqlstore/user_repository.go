package sqlstore

import (
	"context"
	"fmt"

	"backend-template/internal/domain"
	"backend-template/internal/repository"
)

var userSchema = map[Driver][]string{
	DriverSQLite: {`
CREATE TABLE IF NOT EXISTS users (
	id TEXT PRIMARY KEY,
	email TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	first_name TEXT NOT NULL,
	last_name TEXT NOT NULL,
	phone_number TEXT NOT NULL DEFAULT '',
	address TEXT NOT NULL DEFAULT '',
	city TEXT NOT NULL DEFAULT '',
	country TEXT NOT NULL DEFAULT '',
	postal_code TEXT NOT NULL DEFAULT '',
	role TEXT NOT NULL DEFAULT 'USER',
	email_verified BOOLEAN NOT NULL DEFAULT 0,
	is_active BOOLEAN NOT NULL DEFAULT 1,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);`,
		`CREATE UNIQUE INDEX IF NOT EXISTS users_phone_number_unique_idx ON users (phone_number) WHERE phone_number <> '';`,
		`CREATE INDEX IF NOT EXISTS users_active_created_idx ON users (is_active, created_at);`,
	},
	DriverPostgres: {`
CREATE TABLE IF NOT EXISTS users (
	id TEXT PRIMARY KEY,
	email VARCHAR(100) NOT NULL UNIQUE,
	password_hash VARCHAR(255) NOT NULL,
	first_name VARCHAR(100) NOT NULL,
	last_name VARCHAR(100) NOT NULL,
	phone_number VARCHAR(20) NOT NULL DEFAULT '',
	address VARCHAR(500) NOT NULL DEFAULT '',
	city VARCHAR(100) NOT NULL DEFAULT '',
	country VARCHAR(100) NOT NULL DEFAULT '',
	postal_code VARCHAR(20) NOT NULL DEFAULT '',
	role TEXT NOT NULL DEFAULT 'USER',
	email_verified BOOLEAN NOT NULL DEFAULT FALSE,
	is_active BOOLEAN NOT NULL DEFAULT TRUE,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);`,
		`CREATE UNIQUE INDEX IF NOT EXISTS users_phone_number_unique_idx ON users (phone_number) WHERE phone_number <> '';`,
		`CREATE INDEX IF NOT EXISTS users_active_created_idx ON users (is_active, created_at);`,
	},
}

// UserRepository stores users in the users table.
type UserRepository struct {
	*table[*domain.User]
}

func NewUserRepository(db *DB) repository.UserRepository {
	return &UserRepository{
		table: newTable(db, "users", "user", []string{
			"email",
			"password_hash",
			"first_name",
			"last_name",
			"phone_number",
			"address",
			"city",
			"country",
			"postal_code",
			"role",
			"email_verified",
		}, func() *domain.User { return &domain.User{} }),
	}
}

func (r *UserRepository) Init(ctx context.Context) error {
	return applySchema(ctx, r.db, userSchema, "users")
}

func (r *UserRepository) FindActiveByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.get(ctx, "email = ? AND is_active = ?", email, true)
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, "email", email)
}

func (r *UserRepository) ExistsByPhoneNumber(ctx context.Context, phone string) (bool, error) {
	return r.exists(ctx, "phone_number", phone)
}

func applySchema(ctx context.Context, db *DB, schema map[Driver][]string, name string) error {
	stmts, ok := schema[db.Driver()]
	if !ok {
		return fmt.Errorf("no %s schema for driver %q", name, db.Driver())
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create %s table: %w", name, err)
		}
	}
	return nil
}
