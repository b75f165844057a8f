package gormdb

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/xiebiao/bookapp/internal/domain/book"
	"github.com/xiebiao/bookapp/internal/domain/cart"
	"github.com/xiebiao/bookapp/internal/domain/order"
	"github.com/xiebiao/bookapp/internal/domain/user"
	"github.com/xiebiao/bookapp/internal/infrastructure/config"
	apperrors "github.com/xiebiao/bookapp/pkg/errors"
)

// newTestDB 每个测试独立的SQLite内存库
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	cfg := &config.Config{
		Server: config.ServerConfig{Mode: "test"},
		Database: config.DatabaseConfig{
			Driver:     "sqlite",
			SQLitePath: fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
		},
	}
	db, err := NewDB(cfg)
	require.NoError(t, err)

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func seedBook(t *testing.T, repo book.Repository, title string, stock int) *book.Book {
	t.Helper()
	b, err := book.NewBook(book.Fields{Title: title, Author: "Author", Price: 1000, Stock: stock})
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), b))
	return b
}

func TestBookRepository_CreateAssignsMaxPlusOne(t *testing.T) {
	repo := NewBookRepository(newTestDB(t))
	ctx := context.Background()

	b1 := seedBook(t, repo, "Go语言圣经", 5)
	b2 := seedBook(t, repo, "数据密集型应用系统设计", 3)
	assert.Equal(t, uint(1), b1.ID)
	assert.Equal(t, uint(2), b2.ID)

	// 删除最大ID后,新图书复用该ID
	require.NoError(t, repo.Delete(ctx, b2.ID))
	b3 := seedBook(t, repo, "重构", 1)
	assert.Equal(t, uint(2), b3.ID)

	_, err := repo.FindByID(ctx, 99)
	assert.ErrorIs(t, err, book.ErrBookNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, 99), book.ErrBookNotFound)
}

func TestBookRepository_ListAndFindByIDs(t *testing.T) {
	repo := NewBookRepository(newTestDB(t))
	ctx := context.Background()

	seedBook(t, repo, "Go Programming", 1)
	b2, err := book.NewBook(book.Fields{Title: "Rust in Action", Author: "Tim", Price: 500, Stock: 1, Category: "Systems"})
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, b2))

	all, err := repo.List(ctx, book.ListParams{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, uint(1), all[0].ID)
	assert.Equal(t, book.DefaultCategory, all[0].Category)

	byKeyword, err := repo.List(ctx, book.ListParams{Keyword: "Rust"})
	require.NoError(t, err)
	require.Len(t, byKeyword, 1)
	assert.Equal(t, "Rust in Action", byKeyword[0].Title)

	byCategory, err := repo.List(ctx, book.ListParams{Category: "Systems"})
	require.NoError(t, err)
	assert.Len(t, byCategory, 1)

	found, err := repo.FindByIDs(ctx, []uint{2, 42, 1})
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, uint(1), found[0].ID)
}

func TestBookRepository_UpdateWritesZeroValues(t *testing.T) {
	repo := NewBookRepository(newTestDB(t))
	ctx := context.Background()

	b := seedBook(t, repo, "Old", 7)
	require.NoError(t, b.Replace(book.Fields{Title: "New", Author: "A", Price: 0, Stock: 0}))
	require.NoError(t, repo.Update(ctx, b))

	got, err := repo.FindByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "New", got.Title)
	assert.Equal(t, int64(0), got.Price)
	assert.Equal(t, 0, got.Stock)

	ghost := &book.Book{ID: 77, Title: "x", Author: "y", UpdatedAt: time.Now()}
	assert.ErrorIs(t, repo.Update(ctx, ghost), book.ErrBookNotFound)
}

func TestBookRepository_DecrStock(t *testing.T) {
	repo := NewBookRepository(newTestDB(t))
	ctx := context.Background()

	b := seedBook(t, repo, "Stocked", 5)

	require.NoError(t, repo.DecrStock(ctx, b.ID, 3))
	got, err := repo.FindByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Stock)

	err = repo.DecrStock(ctx, b.ID, 3)
	assert.ErrorIs(t, err, book.ErrInsufficientStock)

	assert.ErrorIs(t, repo.DecrStock(ctx, 404, 1), book.ErrBookNotFound)
	assert.ErrorIs(t, repo.DecrStock(ctx, b.ID, 0), book.ErrInvalidStock)
}

func TestBookRepository_ConcurrentCreateUniqueIDs(t *testing.T) {
	repo := NewBookRepository(newTestDB(t))

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			b, err := book.NewBook(book.Fields{Title: fmt.Sprintf("Book %d", i), Author: "A", Stock: 1})
			if assert.NoError(t, err) {
				assert.NoError(t, repo.Create(context.Background(), b))
			}
		}(i)
	}
	wg.Wait()

	all, err := repo.List(context.Background(), book.ListParams{})
	require.NoError(t, err)
	require.Len(t, all, 5)
	for i, b := range all {
		assert.Equal(t, uint(i+1), b.ID)
	}
}

func TestCartRepository_Upsert(t *testing.T) {
	repo := NewCartRepository(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.AddQuantity(ctx, 1, 2, 1))
	require.NoError(t, repo.AddQuantity(ctx, 1, 2, 2))
	require.NoError(t, repo.AddQuantity(ctx, 1, 1, 1))
	require.NoError(t, repo.AddQuantity(ctx, 2, 2, 4))

	lines, err := repo.ListByUser(ctx, 1)
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, uint(1), lines[0].BookID)
	assert.Equal(t, uint(2), lines[1].BookID)
	assert.Equal(t, 3, lines[1].Quantity)

	line, err := repo.FindLine(ctx, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, 4, line.Quantity)
}

func TestCartRepository_SetRemoveClear(t *testing.T) {
	repo := NewCartRepository(newTestDB(t))
	ctx := context.Background()

	assert.ErrorIs(t, repo.SetQuantity(ctx, 1, 9, 2), cart.ErrLineNotFound)

	require.NoError(t, repo.AddQuantity(ctx, 1, 9, 1))
	require.NoError(t, repo.SetQuantity(ctx, 1, 9, 5))
	line, err := repo.FindLine(ctx, 1, 9)
	require.NoError(t, err)
	assert.Equal(t, 5, line.Quantity)

	require.NoError(t, repo.Remove(ctx, 1, 9))
	require.NoError(t, repo.Remove(ctx, 1, 9))
	_, err = repo.FindLine(ctx, 1, 9)
	assert.ErrorIs(t, err, cart.ErrLineNotFound)

	require.NoError(t, repo.AddQuantity(ctx, 1, 3, 1))
	require.NoError(t, repo.AddQuantity(ctx, 1, 4, 1))
	require.NoError(t, repo.ClearByUser(ctx, 1))
	lines, err := repo.ListByUser(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestOrderRepository_CreateFindUpdate(t *testing.T) {
	repo := NewOrderRepository(newTestDB(t))
	ctx := context.Background()

	o := order.NewOrder(order.NewID(), 1, []order.OrderItem{{BookID: 2, Quantity: 1}, {BookID: 5, Quantity: 3}}, 4000, order.PaymentPayPal)
	require.NoError(t, repo.Create(ctx, o))

	got, err := repo.FindByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, o.Items, got.Items)
	assert.Equal(t, int64(4000), got.TotalPrice)
	assert.Equal(t, order.PaymentPayPal, got.PaymentMethod)
	assert.Equal(t, order.StatusPending, got.Status)

	require.NoError(t, got.TransitionTo(order.StatusToShip))
	require.NoError(t, repo.Update(ctx, got))

	locked, err := repo.LockByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, order.StatusToShip, locked.Status)

	_, err = repo.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, order.ErrOrderNotFound)
}

func TestOrderRepository_ListAndPurchase(t *testing.T) {
	repo := NewOrderRepository(newTestDB(t))
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	older := order.NewOrder(order.NewID(), 1, []order.OrderItem{{BookID: 7, Quantity: 1}}, 100, order.PaymentCreditCard)
	older.CreatedAt = base
	older.Status = order.StatusDelivered
	newer := order.NewOrder(order.NewID(), 1, []order.OrderItem{{BookID: 7, Quantity: 2}}, 200, order.PaymentCreditCard)
	newer.CreatedAt = base.Add(time.Minute)
	other := order.NewOrder(order.NewID(), 2, []order.OrderItem{{BookID: 8, Quantity: 1}}, 300, order.PaymentCashOnDelivery)
	other.CreatedAt = base.Add(2 * time.Minute)

	for _, o := range []*order.Order{older, newer, other} {
		require.NoError(t, repo.Create(ctx, o))
	}

	mine, err := repo.ListByUserID(ctx, 1)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, newer.ID, mine[0].ID)

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, other.ID, all[0].ID)

	// 只有已送达的订单算作购买记录
	p, err := repo.FindDeliveredPurchase(ctx, 1, 7)
	require.NoError(t, err)
	assert.Equal(t, older.ID, p.ID)

	_, err = repo.FindDeliveredPurchase(ctx, 2, 8)
	assert.ErrorIs(t, err, order.ErrPurchaseNotFound)
	_, err = repo.FindDeliveredPurchase(ctx, 1, 8)
	assert.ErrorIs(t, err, order.ErrPurchaseNotFound)
}

func TestTxManager_Rollback(t *testing.T) {
	db := newTestDB(t)
	tm := NewTxManager(db)
	bookRepo := NewBookRepository(db)
	cartRepo := NewCartRepository(db)
	ctx := context.Background()

	b := seedBook(t, bookRepo, "Atomic", 2)
	require.NoError(t, cartRepo.AddQuantity(ctx, 1, b.ID, 1))

	boom := errors.New("boom")
	err := tm.Transaction(ctx, func(ctx context.Context) error {
		if err := bookRepo.DecrStock(ctx, b.ID, 2); err != nil {
			return err
		}
		if err := cartRepo.ClearByUser(ctx, 1); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := bookRepo.FindByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Stock)

	lines, err := cartRepo.ListByUser(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, lines, 1)
}

func TestUserRepository(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))
	ctx := context.Background()

	u := user.NewUser("a@example.com", "hash", "Alice", "")
	require.NoError(t, repo.Create(ctx, u))
	assert.NotZero(t, u.ID)

	dup := user.NewUser("a@example.com", "hash", "Alice2", "")
	assert.ErrorIs(t, repo.Create(ctx, dup), apperrors.ErrEmailDuplicate)

	u.PromoteToAdmin()
	u.UpdateProfile("Alice Admin", "https://img/a.png")
	require.NoError(t, repo.Update(ctx, u))

	got, err := repo.FindByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	assert.True(t, got.IsAdmin)
	assert.Equal(t, "Alice Admin", got.Name)
	assert.Equal(t, "https://img/a.png", got.Photo)

	_, err = repo.FindByID(ctx, 999)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)

	require.NoError(t, repo.Create(ctx, user.NewUser("b@example.com", "hash", "Bob", "")))
	users, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "a@example.com", users[0].Email)
}
