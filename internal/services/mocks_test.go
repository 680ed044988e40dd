package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"gorm.io/gorm"

	"github.com/hostelhub/snackshop-service/internal/models"
	"github.com/hostelhub/snackshop-service/internal/repositories"
)

// In-memory repository used across the service tests. Mutex-guarded so the
// concurrency tests exercise real interleavings.

type mockUserRepo struct {
	mu     sync.Mutex
	users  map[uint]*models.User
	nextID uint
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[uint]*models.User), nextID: 1}
}

func (m *mockUserRepo) Create(ctx context.Context, tx *gorm.DB, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == user.Username {
			return fmt.Errorf("duplicate username %q", user.Username)
		}
	}
	user.ID = m.nextID
	m.nextID++
	copied := *user
	m.users[user.ID] = &copied
	return nil
}

func (m *mockUserRepo) GetByID(ctx context.Context, id uint) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, fmt.Errorf("user not found with ID %d", id)
	}
	copied := *u
	return &copied, nil
}

func (m *mockUserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockUserRepo) CountByRole(ctx context.Context, role models.UserRole) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var count int64
	for _, u := range m.users {
		if u.Role == role {
			count++
		}
	}
	return count, nil
}

type mockSnackRepo struct {
	mu     sync.Mutex
	snacks map[uint]*models.Snack
	nextID uint
}

func newMockSnackRepo() *mockSnackRepo {
	return &mockSnackRepo{snacks: make(map[uint]*models.Snack), nextID: 1}
}

func (m *mockSnackRepo) Create(ctx context.Context, tx *gorm.DB, snack *models.Snack) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	snack.ID = m.nextID
	m.nextID++
	copied := *snack
	m.snacks[snack.ID] = &copied
	return nil
}

func (m *mockSnackRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Snack, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.snacks[id]
	if !ok {
		return nil, fmt.Errorf("snack not found with ID %d", id)
	}
	copied := *s
	return &copied, nil
}

func (m *mockSnackRepo) Update(ctx context.Context, tx *gorm.DB, snack *models.Snack) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.snacks[snack.ID]; !ok {
		return fmt.Errorf("snack not found with ID %d", snack.ID)
	}
	copied := *snack
	m.snacks[snack.ID] = &copied
	return nil
}

func (m *mockSnackRepo) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.snacks, id)
	return nil
}

func (m *mockSnackRepo) List(ctx context.Context, tx *gorm.DB, filters repositories.SnackFilters) ([]*models.Snack, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Snack
	for _, s := range m.snacks {
		if filters.AvailableOnly && !s.IsAvailable {
			continue
		}
		if filters.Search != "" && !strings.Contains(strings.ToLower(s.Name), strings.ToLower(filters.Search)) {
			continue
		}
		copied := *s
		out = append(out, &copied)
	}
	total := int64(len(out))
	if filters.Offset > 0 {
		if filters.Offset >= len(out) {
			out = nil
		} else {
			out = out[filters.Offset:]
		}
	}
	if filters.Limit > 0 && len(out) > filters.Limit {
		out = out[:filters.Limit]
	}
	return out, total, nil
}

func (m *mockSnackRepo) Count(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.snacks)), nil
}

func (m *mockSnackRepo) DecrementStock(ctx context.Context, tx *gorm.DB, id uint, amount int) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.snacks[id]
	if !ok || s.Quantity < amount {
		return 0, nil
	}
	s.Quantity -= amount
	s.IsAvailable = s.Quantity > 0
	return 1, nil
}

func (m *mockSnackRepo) Exists(ctx context.Context, tx *gorm.DB, id uint) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.snacks[id]
	return ok, nil
}

type mockOrderRepo struct {
	mu     sync.Mutex
	orders map[uint]*models.Order
	nextID uint
}

func newMockOrderRepo() *mockOrderRepo {
	return &mockOrderRepo{orders: make(map[uint]*models.Order), nextID: 1}
}

func (m *mockOrderRepo) Create(ctx context.Context, tx *gorm.DB, order *models.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	order.ID = m.nextID
	m.nextID++
	copied := *order
	m.orders[order.ID] = &copied
	return nil
}

func (m *mockOrderRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, fmt.Errorf("order not found with ID %d", id)
	}
	copied := *o
	return &copied, nil
}

func (m *mockOrderRepo) List(ctx context.Context, tx *gorm.DB, filters repositories.OrderFilters) ([]*models.Order, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Order
	for _, o := range m.orders {
		if filters.Status != nil && o.Status != *filters.Status {
			continue
		}
		if filters.SnackID != nil && o.SnackID != *filters.SnackID {
			continue
		}
		if filters.UserID != nil && o.UserID != *filters.UserID {
			continue
		}
		copied := *o
		out = append(out, &copied)
	}
	total := int64(len(out))
	if filters.Offset > 0 {
		if filters.Offset >= len(out) {
			out = nil
		} else {
			out = out[filters.Offset:]
		}
	}
	if filters.Limit > 0 && len(out) > filters.Limit {
		out = out[:filters.Limit]
	}
	return out, total, nil
}

func (m *mockOrderRepo) GetByUser(ctx context.Context, tx *gorm.DB, userID uint, filters repositories.OrderFilters) ([]*models.Order, int64, error) {
	filters.UserID = &userID
	return m.List(ctx, tx, filters)
}

func (m *mockOrderRepo) MarkCompleted(ctx context.Context, tx *gorm.DB, id uint) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok || o.Status != models.OrderStatusPending {
		return 0, nil
	}
	o.Status = models.OrderStatusCompleted
	return 1, nil
}

func (m *mockOrderRepo) Exists(ctx context.Context, tx *gorm.DB, id uint) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.orders[id]
	return ok, nil
}

func (m *mockOrderRepo) HasPendingBySnack(ctx context.Context, tx *gorm.DB, snackID uint) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.orders {
		if o.SnackID == snackID && o.Status == models.OrderStatusPending {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockOrderRepo) GetShopStats(ctx context.Context) (*repositories.ShopStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stats := &repositories.ShopStats{}
	for _, o := range m.orders {
		switch o.Status {
		case models.OrderStatusPending:
			stats.PendingOrders++
		case models.OrderStatusCompleted:
			stats.CompletedOrders++
			stats.Revenue += o.TotalPrice
		}
	}
	return stats, nil
}

type mockRepository struct {
	user  *mockUserRepo
	snack *mockSnackRepo
	order *mockOrderRepo
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		user:  newMockUserRepo(),
		snack: newMockSnackRepo(),
		order: newMockOrderRepo(),
	}
}

func (m *mockRepository) User() repositories.UserRepository   { return m.user }
func (m *mockRepository) Snack() repositories.SnackRepository { return m.snack }
func (m *mockRepository) Order() repositories.OrderRepository { return m.order }

func (m *mockRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return fn(m)
}

func (m *mockRepository) Ping(ctx context.Context) error { return nil }
func (m *mockRepository) Close() error                   { return nil }
