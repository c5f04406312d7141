package transactions

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/moneytrack-io/moneytrack/internal/auth"
	"github.com/moneytrack-io/moneytrack/internal/config"
	"github.com/moneytrack-io/moneytrack/internal/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type StoreTestSuite struct {
	suite.Suite
	db    *sql.DB
	store *Store
	userA int64
	userB int64
}

func (s *StoreTestSuite) SetupTest() {
	cfg := &config.Config{}
	cfg.Database.Path = filepath.Join(s.T().TempDir(), "test.db")
	cfg.Database.MaxRetries = 1
	cfg.Database.RetryDelay = 1

	db, err := database.Open(cfg)
	require.NoError(s.T(), err)
	s.db = db
	s.store = NewStore(db)

	users := auth.NewUserStore(db)
	a, err := users.Create("Dupont", "Marie", "a@example.com", "Passw0rd")
	require.NoError(s.T(), err)
	b, err := users.Create("Martin", "Paul", "b@example.com", "Passw0rd")
	require.NoError(s.T(), err)
	s.userA = a.ID
	s.userB = b.ID
}

func (s *StoreTestSuite) TearDownTest() {
	s.db.Close()
}

func TestStoreTestSuite(t *testing.T) {
	suite.Run(t, new(StoreTestSuite))
}

func expense(amount float64, category, date string) Fields {
	return Fields{
		Type:        "expense",
		Amount:      amount,
		Description: "test expense",
		Category:    category,
		Date:        date,
	}
}

func revenue(amount float64, category, date string) Fields {
	return Fields{
		Type:        "revenue",
		Amount:      amount,
		Description: "test revenue",
		Category:    category,
		Date:        date,
	}
}

func (s *StoreTestSuite) TestCreateAndGet() {
	created, err := s.store.Create(s.userA, Fields{
		Type:          "expense",
		Amount:        42.50,
		Description:   "groceries",
		Category:      "food",
		PaymentMethod: "card",
		Date:          "2025-03-10",
	})
	require.NoError(s.T(), err)
	assert.NotZero(s.T(), created.ID)
	assert.Equal(s.T(), s.userA, created.UserID)
	assert.Equal(s.T(), 42.50, created.Amount)
	assert.Equal(s.T(), "card", created.PaymentMethod)
	assert.Equal(s.T(), "2025-03-10", created.Date)
	assert.False(s.T(), created.CreatedAt.IsZero())

	got, err := s.store.Get(s.userA, created.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), created.ID, got.ID)
}

func (s *StoreTestSuite) TestOwnershipIsolation() {
	mine, err := s.store.Create(s.userA, expense(10, "food", "2025-03-10"))
	require.NoError(s.T(), err)

	// B cannot read, update or delete A's row; every attempt looks like a
	// missing id.
	_, err = s.store.Get(s.userB, mine.ID)
	assert.ErrorIs(s.T(), err, ErrNotFound)

	err = s.store.Update(s.userB, mine.ID, expense(99, "other", "2025-03-11"))
	assert.ErrorIs(s.T(), err, ErrNotFound)

	err = s.store.Delete(s.userB, mine.ID)
	assert.ErrorIs(s.T(), err, ErrNotFound)

	items, total, err := s.store.List(s.userB, Filter{}, 1, 10)
	require.NoError(s.T(), err)
	assert.Empty(s.T(), items)
	assert.Zero(s.T(), total)

	// The row is untouched.
	got, err := s.store.Get(s.userA, mine.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), 10.0, got.Amount)
}

func (s *StoreTestSuite) TestListOrdering() {
	// Insert out of date order; same-day rows fall back to creation order.
	_, err := s.store.Create(s.userA, expense(1, "food", "2025-03-08"))
	require.NoError(s.T(), err)
	_, err = s.store.Create(s.userA, expense(2, "food", "2025-03-10"))
	require.NoError(s.T(), err)
	third, err := s.store.Create(s.userA, expense(3, "food", "2025-03-10"))
	require.NoError(s.T(), err)
	_, err = s.store.Create(s.userA, expense(4, "food", "2025-03-09"))
	require.NoError(s.T(), err)

	items, total, err := s.store.List(s.userA, Filter{}, 1, 10)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), 4, total)
	require.Len(s.T(), items, 4)

	assert.Equal(s.T(), "2025-03-10", items[0].Date)
	assert.Equal(s.T(), "2025-03-10", items[1].Date)
	assert.Equal(s.T(), "2025-03-09", items[2].Date)
	assert.Equal(s.T(), "2025-03-08", items[3].Date)

	// Same date: the later-created row comes first.
	assert.Equal(s.T(), third.ID, items[0].ID)

	// Stable across repeated calls with unchanged data.
	again, _, err := s.store.List(s.userA, Filter{}, 1, 10)
	require.NoError(s.T(), err)
	for i := range items {
		assert.Equal(s.T(), items[i].ID, again[i].ID)
	}
}

func (s *StoreTestSuite) TestListFilters() {
	_, err := s.store.Create(s.userA, expense(10, "food", "2025-03-01"))
	require.NoError(s.T(), err)
	_, err = s.store.Create(s.userA, expense(20, "transport", "2025-03-05"))
	require.NoError(s.T(), err)
	_, err = s.store.Create(s.userA, revenue(1000, "salary", "2025-03-10"))
	require.NoError(s.T(), err)

	items, total, err := s.store.List(s.userA, Filter{Type: "expense"}, 1, 10)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), 2, total)
	assert.Len(s.T(), items, 2)

	items, total, err = s.store.List(s.userA, Filter{Category: "salary"}, 1, 10)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), 1, total)
	assert.Equal(s.T(), "salary", items[0].Category)

	// Filters are conjunctive.
	_, total, err = s.store.List(s.userA, Filter{Type: "expense", Category: "salary"}, 1, 10)
	require.NoError(s.T(), err)
	assert.Zero(s.T(), total)

	items, total, err = s.store.List(s.userA, Filter{StartDate: "2025-03-02", EndDate: "2025-03-09"}, 1, 10)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), 1, total)
	assert.Equal(s.T(), "2025-03-05", items[0].Date)
}

func (s *StoreTestSuite) TestPagination() {
	for i := 1; i <= 25; i++ {
		_, err := s.store.Create(s.userA, expense(float64(i), "food", fmt.Sprintf("2025-03-%02d", i)))
		require.NoError(s.T(), err)
	}

	items, total, err := s.store.List(s.userA, Filter{}, 2, 10)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), 25, total)
	require.Len(s.T(), items, 10)

	// Date desc: page 2 holds days 15 down to 6.
	assert.Equal(s.T(), "2025-03-15", items[0].Date)
	assert.Equal(s.T(), "2025-03-06", items[9].Date)

	// Last page is a partial one.
	items, total, err = s.store.List(s.userA, Filter{}, 3, 10)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), 25, total)
	assert.Len(s.T(), items, 5)

	// Past the end: empty page, same total.
	items, total, err = s.store.List(s.userA, Filter{}, 4, 10)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), 25, total)
	assert.Empty(s.T(), items)
}

func (s *StoreTestSuite) TestStatsWindowAndBalance() {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	s.store.now = func() time.Time { return now }

	day := func(offset int) string {
		return now.AddDate(0, 0, -offset).Format("2006-01-02")
	}

	_, err := s.store.Create(s.userA, revenue(1000, "salary", day(5)))
	require.NoError(s.T(), err)
	_, err = s.store.Create(s.userA, expense(300, "rent", day(10)))
	require.NoError(s.T(), err)
	_, err = s.store.Create(s.userA, expense(50, "food", day(40)))
	require.NoError(s.T(), err)

	// Another user's rows never leak into the stats.
	_, err = s.store.Create(s.userB, revenue(5000, "salary", day(1)))
	require.NoError(s.T(), err)

	sum, breakdown, err := s.store.Stats(s.userA, "month")
	require.NoError(s.T(), err)

	// The day-40 expense is outside the 30-day window...
	assert.Equal(s.T(), 1000.0, sum.TotalRevenue)
	assert.Equal(s.T(), 300.0, sum.TotalExpense)
	assert.Equal(s.T(), 1, sum.RevenueCount)
	assert.Equal(s.T(), 1, sum.ExpenseCount)
	assert.Equal(s.T(), 700.0, sum.NetIncome)

	// ...but the all-time balance still includes it.
	assert.Equal(s.T(), 650.0, sum.Balance)

	// Breakdown is windowed too, ordered by summed amount descending.
	require.Len(s.T(), breakdown, 2)
	assert.Equal(s.T(), CategoryStat{Category: "salary", Type: "revenue", Total: 1000, Count: 1}, breakdown[0])
	assert.Equal(s.T(), CategoryStat{Category: "rent", Type: "expense", Total: 300, Count: 1}, breakdown[1])

	// The year window picks the day-40 expense back up.
	sum, _, err = s.store.Stats(s.userA, "year")
	require.NoError(s.T(), err)
	assert.Equal(s.T(), 350.0, sum.TotalExpense)

	// The week window drops the day-10 expense.
	sum, _, err = s.store.Stats(s.userA, "week")
	require.NoError(s.T(), err)
	assert.Equal(s.T(), 0.0, sum.TotalExpense)
	assert.Equal(s.T(), 1000.0, sum.TotalRevenue)

	// Unrecognized periods behave like month.
	sum, _, err = s.store.Stats(s.userA, "decade")
	require.NoError(s.T(), err)
	assert.Equal(s.T(), 300.0, sum.TotalExpense)
}

func (s *StoreTestSuite) TestStatsEmpty() {
	sum, breakdown, err := s.store.Stats(s.userA, "month")
	require.NoError(s.T(), err)
	assert.Zero(s.T(), sum.TotalRevenue)
	assert.Zero(s.T(), sum.TotalExpense)
	assert.Zero(s.T(), sum.Balance)
	assert.Empty(s.T(), breakdown)
}

func (s *StoreTestSuite) TestUpdateRoundTrip() {
	created, err := s.store.Create(s.userA, expense(10, "food", "2025-03-10"))
	require.NoError(s.T(), err)

	err = s.store.Update(s.userA, created.ID, Fields{
		Type:          "revenue",
		Amount:        123.45,
		Description:   "refund",
		Category:      "misc",
		PaymentMethod: "transfer",
		Date:          "2025-03-12",
	})
	require.NoError(s.T(), err)

	got, err := s.store.Get(s.userA, created.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "revenue", string(got.Type))
	assert.Equal(s.T(), 123.45, got.Amount)
	assert.Equal(s.T(), "refund", got.Description)
	assert.Equal(s.T(), "misc", got.Category)
	assert.Equal(s.T(), "transfer", got.PaymentMethod)
	assert.Equal(s.T(), "2025-03-12", got.Date)
	assert.False(s.T(), got.UpdatedAt.Before(created.UpdatedAt), "updated_at must advance")
}

func (s *StoreTestSuite) TestDeleteMissing() {
	err := s.store.Delete(s.userA, 9999)
	assert.ErrorIs(s.T(), err, ErrNotFound)
}

func (s *StoreTestSuite) TestDelete() {
	created, err := s.store.Create(s.userA, expense(10, "food", "2025-03-10"))
	require.NoError(s.T(), err)

	require.NoError(s.T(), s.store.Delete(s.userA, created.ID))

	_, err = s.store.Get(s.userA, created.ID)
	assert.ErrorIs(s.T(), err, ErrNotFound)

	// Deleting again is the not-found result, not a crash.
	assert.ErrorIs(s.T(), s.store.Delete(s.userA, created.ID), ErrNotFound)
}
