package auth

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/moneytrack-io/moneytrack/internal/models"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailAlreadyTaken  = errors.New("email already taken")
)

// UserStore provides SQLite-backed persistence for users.
type UserStore struct {
	db *sql.DB
}

// NewUserStore creates a UserStore on top of an open database handle.
func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

// Create registers a new user. The email is normalized before the
// uniqueness check and only the bcrypt hash of the password is stored.
func (s *UserStore) Create(name, firstname, email, password string) (*models.User, error) {
	email = NormalizeEmail(email)

	var exists bool
	err := s.db.QueryRow("SELECT EXISTS(SELECT 1 FROM users WHERE email = ?)", email).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if exists {
		return nil, ErrEmailAlreadyTaken
	}

	hashed, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	result, err := s.db.Exec(
		"INSERT INTO users (name, firstname, email, password) VALUES (?, ?, ?, ?)",
		name, firstname, email, hashed,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	return s.GetByID(id)
}

// GetByID retrieves a user by their ID.
func (s *UserStore) GetByID(id int64) (*models.User, error) {
	var user models.User
	err := s.db.QueryRow(
		"SELECT id, name, firstname, email, password, created_at, updated_at FROM users WHERE id = ?",
		id,
	).Scan(&user.ID, &user.Name, &user.Firstname, &user.Email, &user.Password, &user.CreatedAt, &user.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByEmail retrieves a user by their normalized email.
func (s *UserStore) GetByEmail(email string) (*models.User, error) {
	var user models.User
	err := s.db.QueryRow(
		"SELECT id, name, firstname, email, password, created_at, updated_at FROM users WHERE email = ?",
		NormalizeEmail(email),
	).Scan(&user.ID, &user.Name, &user.Firstname, &user.Email, &user.Password, &user.CreatedAt, &user.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Authenticate verifies a user's credentials. Unknown email and wrong
// password both return ErrInvalidCredentials so callers cannot probe which
// emails are registered.
func (s *UserStore) Authenticate(email, password string) (*models.User, error) {
	user, err := s.GetByEmail(email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	ok, err := CheckPassword(password, user.Password)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// Delete removes a user; transactions and objectives cascade with the row.
func (s *UserStore) Delete(id int64) error {
	result, err := s.db.Exec("DELETE FROM users WHERE id = ?", id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrUserNotFound
	}
	return nil
}
