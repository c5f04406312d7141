package objectives

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/moneytrack-io/moneytrack/internal/models"
)

// ErrNotFound covers both a missing objective and one owned by another
// user, so ownership cannot be probed.
var ErrNotFound = errors.New("objective not found")

// Fields carries the validated attributes of an objective write.
type Fields struct {
	Title         string
	TargetAmount  float64
	CurrentAmount float64
	Deadline      string
}

// Store provides ownership-scoped persistence for financial objectives. It
// follows the same scoping rules as the transaction store.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// NewStore creates a Store on top of an open database handle.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db, now: time.Now}
}

const objectiveColumns = "id, user_id, title, target_amount, current_amount, deadline, created_at, updated_at"

func scanObjective(row interface{ Scan(...any) error }) (*models.Objective, error) {
	var o models.Objective
	var deadline sql.NullTime
	err := row.Scan(&o.ID, &o.UserID, &o.Title, &o.TargetAmount, &o.CurrentAmount,
		&deadline, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if deadline.Valid {
		o.Deadline = deadline.Time.Format("2006-01-02")
	}
	return &o, nil
}

// Create persists a new objective for ownerID and returns the stored row.
func (s *Store) Create(ownerID int64, f Fields) (*models.Objective, error) {
	now := s.now().UTC()
	result, err := s.db.Exec(
		`INSERT INTO financial_objectives (user_id, title, target_amount, current_amount, deadline, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		ownerID, f.Title, f.TargetAmount, f.CurrentAmount, nullable(f.Deadline), now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert objective: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	return s.Get(ownerID, id)
}

// Get retrieves a single objective scoped to its owner.
func (s *Store) Get(ownerID, id int64) (*models.Objective, error) {
	row := s.db.QueryRow(
		"SELECT "+objectiveColumns+" FROM financial_objectives WHERE id = ? AND user_id = ?",
		id, ownerID,
	)
	o, err := scanObjective(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return o, nil
}

// List returns all of the owner's objectives, newest first.
func (s *Store) List(ownerID int64) ([]*models.Objective, error) {
	rows, err := s.db.Query(
		"SELECT "+objectiveColumns+" FROM financial_objectives WHERE user_id = ? ORDER BY created_at DESC, id DESC",
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list objectives: %w", err)
	}
	defer rows.Close()

	items := []*models.Objective{}
	for rows.Next() {
		o, err := scanObjective(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

// Update replaces every field of the owner's objective.
func (s *Store) Update(ownerID, id int64, f Fields) error {
	result, err := s.db.Exec(
		`UPDATE financial_objectives
		 SET title = ?, target_amount = ?, current_amount = ?, deadline = ?, updated_at = ?
		 WHERE id = ? AND user_id = ?`,
		f.Title, f.TargetAmount, f.CurrentAmount, nullable(f.Deadline), s.now().UTC(), id, ownerID,
	)
	if err != nil {
		return fmt.Errorf("failed to update objective: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the owner's objective.
func (s *Store) Delete(ownerID, id int64) error {
	result, err := s.db.Exec(
		"DELETE FROM financial_objectives WHERE id = ? AND user_id = ?",
		id, ownerID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete objective: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
