package transactions

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/moneytrack-io/moneytrack/internal/models"
)

// ErrNotFound is returned when a transaction does not exist or belongs to
// another user; the two cases are deliberately indistinguishable.
var ErrNotFound = errors.New("transaction not found")

// Fields carries the validated attributes of a transaction write.
type Fields struct {
	Type          string
	Amount        float64
	Description   string
	Category      string
	PaymentMethod string
	Date          string
}

// Filter narrows a listing; zero-valued fields are omitted from the
// predicate entirely.
type Filter struct {
	Type      string
	Category  string
	StartDate string
	EndDate   string
}

// Summary aggregates one user's activity. All fields except Balance are
// restricted to the requested trailing window; Balance is the all-time
// running total of the account.
type Summary struct {
	TotalRevenue float64 `json:"total_revenue"`
	TotalExpense float64 `json:"total_expense"`
	RevenueCount int     `json:"revenue_count"`
	ExpenseCount int     `json:"expense_count"`
	Balance      float64 `json:"balance"`
	NetIncome    float64 `json:"net_income"`
}

// CategoryStat is one category×type bucket of the breakdown.
type CategoryStat struct {
	Category string  `json:"category"`
	Type     string  `json:"type"`
	Total    float64 `json:"total"`
	Count    int     `json:"count"`
}

// Store is the transaction query engine. Every predicate it issues is
// scoped by user_id, so one user can never see or mutate another's rows.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// NewStore creates a Store on top of an open database handle.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db, now: time.Now}
}

const transactionColumns = "id, user_id, type, amount, description, category, payment_method, date, created_at, updated_at"

func scanTransaction(row interface{ Scan(...any) error }) (*models.Transaction, error) {
	var t models.Transaction
	var paymentMethod sql.NullString
	var date time.Time
	err := row.Scan(&t.ID, &t.UserID, &t.Type, &t.Amount, &t.Description, &t.Category,
		&paymentMethod, &date, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	t.PaymentMethod = paymentMethod.String
	t.Date = date.Format("2006-01-02")
	return &t, nil
}

// Create persists a new transaction for ownerID and returns the stored row.
func (s *Store) Create(ownerID int64, f Fields) (*models.Transaction, error) {
	now := s.now().UTC()
	result, err := s.db.Exec(
		`INSERT INTO transactions (user_id, type, amount, description, category, payment_method, date, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ownerID, f.Type, f.Amount, f.Description, f.Category, nullable(f.PaymentMethod), f.Date, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert transaction: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	return s.Get(ownerID, id)
}

// Get retrieves a single transaction scoped to its owner.
func (s *Store) Get(ownerID, id int64) (*models.Transaction, error) {
	row := s.db.QueryRow(
		"SELECT "+transactionColumns+" FROM transactions WHERE id = ? AND user_id = ?",
		id, ownerID,
	)
	t, err := scanTransaction(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// List returns one page of the owner's transactions matching the filter,
// together with the total match count under the same predicate. Results are
// ordered by date, then creation time, newest first; the id tiebreak keeps
// the order deterministic for rows written in the same instant.
func (s *Store) List(ownerID int64, f Filter, page, limit int) ([]*models.Transaction, int, error) {
	where, args := buildFilter(ownerID, f)

	var total int
	err := s.db.QueryRow("SELECT COUNT(*) FROM transactions WHERE "+where, args...).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions: %w", err)
	}

	query := "SELECT " + transactionColumns + " FROM transactions WHERE " + where +
		" ORDER BY date DESC, created_at DESC, id DESC LIMIT ? OFFSET ?"
	args = append(args, limit, (page-1)*limit)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	items := []*models.Transaction{}
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

// periodDays maps a stats period to its trailing window length. Anything
// unrecognized falls back to month.
func periodDays(period string) int {
	switch period {
	case "week":
		return 7
	case "year":
		return 365
	default:
		return 30
	}
}

// Stats computes the windowed summary and category breakdown for ownerID.
// The balance is intentionally not windowed: it is the running total of the
// whole account, while the other figures report period activity. Pure read,
// nothing is written back.
func (s *Store) Stats(ownerID int64, period string) (*Summary, []CategoryStat, error) {
	cutoff := s.now().UTC().AddDate(0, 0, -periodDays(period)).Format("2006-01-02")

	var sum Summary
	err := s.db.QueryRow(`
		SELECT
			COALESCE(SUM(CASE WHEN type = 'revenue' THEN amount ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN type = 'expense' THEN amount ELSE 0 END), 0),
			COUNT(CASE WHEN type = 'revenue' THEN 1 END),
			COUNT(CASE WHEN type = 'expense' THEN 1 END)
		FROM transactions
		WHERE user_id = ? AND date >= ?`,
		ownerID, cutoff,
	).Scan(&sum.TotalRevenue, &sum.TotalExpense, &sum.RevenueCount, &sum.ExpenseCount)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to compute stats: %w", err)
	}

	err = s.db.QueryRow(`
		SELECT COALESCE(SUM(CASE WHEN type = 'revenue' THEN amount ELSE -amount END), 0)
		FROM transactions
		WHERE user_id = ?`,
		ownerID,
	).Scan(&sum.Balance)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to compute balance: %w", err)
	}

	sum.NetIncome = sum.TotalRevenue - sum.TotalExpense

	rows, err := s.db.Query(`
		SELECT category, type, SUM(amount) as total, COUNT(*) as count
		FROM transactions
		WHERE user_id = ? AND date >= ?
		GROUP BY category, type
		ORDER BY total DESC`,
		ownerID, cutoff,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to compute category breakdown: %w", err)
	}
	defer rows.Close()

	breakdown := []CategoryStat{}
	for rows.Next() {
		var c CategoryStat
		if err := rows.Scan(&c.Category, &c.Type, &c.Total, &c.Count); err != nil {
			return nil, nil, err
		}
		breakdown = append(breakdown, c)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	return &sum, breakdown, nil
}

// Update replaces every field of the owner's transaction. A row owned by
// someone else behaves exactly like a missing row.
func (s *Store) Update(ownerID, id int64, f Fields) error {
	result, err := s.db.Exec(
		`UPDATE transactions
		 SET type = ?, amount = ?, description = ?, category = ?, payment_method = ?, date = ?, updated_at = ?
		 WHERE id = ? AND user_id = ?`,
		f.Type, f.Amount, f.Description, f.Category, nullable(f.PaymentMethod), f.Date, s.now().UTC(), id, ownerID,
	)
	if err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
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

// Delete removes the owner's transaction; same ownership semantics as Update.
func (s *Store) Delete(ownerID, id int64) error {
	result, err := s.db.Exec(
		"DELETE FROM transactions WHERE id = ? AND user_id = ?",
		id, ownerID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
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

func buildFilter(ownerID int64, f Filter) (string, []any) {
	clauses := []string{"user_id = ?"}
	args := []any{ownerID}

	if f.Type != "" {
		clauses = append(clauses, "type = ?")
		args = append(args, f.Type)
	}
	if f.Category != "" {
		clauses = append(clauses, "category = ?")
		args = append(args, f.Category)
	}
	if f.StartDate != "" {
		clauses = append(clauses, "date >= ?")
		args = append(args, f.StartDate)
	}
	if f.EndDate != "" {
		clauses = append(clauses, "date <= ?")
		args = append(args, f.EndDate)
	}

	return strings.Join(clauses, " AND "), args
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
