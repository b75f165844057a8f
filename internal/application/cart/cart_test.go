package cart

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/bookapp/internal/domain/book"
	"github.com/xiebiao/bookapp/internal/domain/cart"
	"github.com/xiebiao/bookapp/internal/infrastructure/config"
	"github.com/xiebiao/bookapp/internal/infrastructure/persistence/gormdb"
	"github.com/xiebiao/bookapp/internal/infrastructure/persistence/redis"
)

type fixture struct {
	books book.Repository
	carts cart.Repository
	cache *redis.CartCache
	mr    *miniredis.Miniredis

	add    *AddItemUseCase
	set    *SetQuantityUseCase
	remove *RemoveItemUseCase
	clear  *ClearCartUseCase
	get    *GetCartUseCase
	list   *ListItemsUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	cfg := &config.Config{
		Server: config.ServerConfig{Mode: "test"},
		Database: config.DatabaseConfig{
			Driver:     "sqlite",
			SQLitePath: fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
		},
	}
	db, err := gormdb.NewDB(cfg)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	f := &fixture{
		books: gormdb.NewBookRepository(db),
		carts: gormdb.NewCartRepository(db),
		cache: redis.NewCartCache(client, 0),
		mr:    mr,
	}
	tx := gormdb.NewTxManager(db)
	reader := NewReader(f.carts, f.cache)

	f.add = NewAddItemUseCase(tx, f.books, f.carts, reader)
	f.set = NewSetQuantityUseCase(tx, f.books, f.carts, reader)
	f.remove = NewRemoveItemUseCase(f.carts, reader)
	f.clear = NewClearCartUseCase(f.carts, reader)
	f.get = NewGetCartUseCase(reader, f.books)
	f.list = NewListItemsUseCase(reader)
	return f
}

func (f *fixture) seedBook(t *testing.T, title string, price int64, stock int) *book.Book {
	t.Helper()
	b, err := book.NewBook(book.Fields{Title: title, Author: "Author", Price: price, Stock: stock})
	require.NoError(t, err)
	require.NoError(t, f.books.Create(context.Background(), b))
	return b
}

func TestAddItem_IncrementsExistingLine(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b := f.seedBook(t, "Go语言圣经", 1000, 2)

	line, err := f.add.Execute(ctx, 1, b.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, line.Quantity)

	line, err = f.add.Execute(ctx, 1, b.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, line.Quantity)

	lines, err := f.list.Execute(ctx, 1)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].Quantity)
}

func TestAddItem_ValidatesAgainstStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	soldOut := f.seedBook(t, "售罄", 1000, 0)
	_, err := f.add.Execute(ctx, 1, soldOut.ID, 1)
	assert.ErrorIs(t, err, cart.ErrInvalidQuantity)

	b := f.seedBook(t, "Book", 1000, 3)
	_, err = f.add.Execute(ctx, 1, b.ID, 2)
	require.NoError(t, err)

	// 累加后超过库存
	_, err = f.add.Execute(ctx, 1, b.ID, 2)
	assert.ErrorIs(t, err, cart.ErrInvalidQuantity)

	_, err = f.add.Execute(ctx, 1, b.ID, 0)
	assert.ErrorIs(t, err, cart.ErrInvalidQuantity)

	_, err = f.add.Execute(ctx, 1, 999, 1)
	assert.ErrorIs(t, err, book.ErrBookNotFound)

	line, err := f.carts.FindLine(ctx, 1, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, line.Quantity)
}

func TestSetQuantity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b := f.seedBook(t, "Book", 1000, 5)

	_, err := f.set.Execute(ctx, 1, b.ID, 2)
	assert.ErrorIs(t, err, cart.ErrLineNotFound)

	_, err = f.add.Execute(ctx, 1, b.ID, 1)
	require.NoError(t, err)

	line, err := f.set.Execute(ctx, 1, b.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, line.Quantity)

	_, err = f.set.Execute(ctx, 1, b.ID, 6)
	assert.ErrorIs(t, err, cart.ErrInvalidQuantity)

	_, err = f.set.Execute(ctx, 1, b.ID, 0)
	assert.ErrorIs(t, err, cart.ErrInvalidQuantity)
}

func TestRemoveAndClearAreIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b1 := f.seedBook(t, "A", 1000, 5)
	b2 := f.seedBook(t, "B", 1000, 5)

	_, err := f.add.Execute(ctx, 1, b1.ID, 1)
	require.NoError(t, err)
	_, err = f.add.Execute(ctx, 1, b2.ID, 1)
	require.NoError(t, err)

	require.NoError(t, f.remove.Execute(ctx, 1, b1.ID))
	require.NoError(t, f.remove.Execute(ctx, 1, b1.ID))

	lines, err := f.list.Execute(ctx, 1)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, b2.ID, lines[0].BookID)

	require.NoError(t, f.clear.Execute(ctx, 1))
	require.NoError(t, f.clear.Execute(ctx, 1))

	lines, err = f.list.Execute(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestGetCart_EnrichesAndKeepsMissingBooks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b1 := f.seedBook(t, "A", 1000, 5)
	b2 := f.seedBook(t, "B", 250, 5)

	_, err := f.add.Execute(ctx, 1, b1.ID, 2)
	require.NoError(t, err)
	_, err = f.add.Execute(ctx, 1, b2.ID, 1)
	require.NoError(t, err)

	require.NoError(t, f.books.Delete(ctx, b1.ID))

	view, err := f.get.Execute(ctx, 1)
	require.NoError(t, err)
	require.Len(t, view.Lines, 2)

	assert.True(t, view.Lines[0].Missing)
	assert.Equal(t, cart.UnknownBookTitle, view.Lines[0].Book.Title)
	assert.Equal(t, b1.ID, view.Lines[0].Book.ID)
	assert.Equal(t, 2, view.Lines[0].Quantity)

	assert.False(t, view.Lines[1].Missing)
	assert.Equal(t, "B", view.Lines[1].Book.Title)
	assert.Equal(t, int64(250), view.Total)
}

func TestMutationsInvalidateCache(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b := f.seedBook(t, "A", 1000, 5)

	_, err := f.add.Execute(ctx, 1, b.ID, 1)
	require.NoError(t, err)

	// 读取后回填缓存
	_, err = f.list.Execute(ctx, 1)
	require.NoError(t, err)
	assert.True(t, f.mr.Exists("cart:1"))

	_, err = f.set.Execute(ctx, 1, b.ID, 3)
	require.NoError(t, err)
	assert.False(t, f.mr.Exists("cart:1"))

	lines, err := f.list.Execute(ctx, 1)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 3, lines[0].Quantity)
}

// brokenCache 模拟Redis不可用
type brokenCache struct{}

func (brokenCache) Get(context.Context, uint) ([]cart.Line, error) {
	return nil, errors.New("connection refused")
}

func (brokenCache) Version(context.Context, uint) (int64, error) {
	return 0, errors.New("connection refused")
}

func (brokenCache) SetIfVersion(context.Context, uint, int64, []cart.Line) (bool, error) {
	return false, errors.New("connection refused")
}

func (brokenCache) Invalidate(context.Context, uint) error {
	return errors.New("connection refused")
}

func TestReader_FallsBackToRepositoryWhenCacheFails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b := f.seedBook(t, "A", 1000, 5)
	require.NoError(t, f.carts.AddQuantity(ctx, 1, b.ID, 2))

	reader := NewReader(f.carts, brokenCache{})
	lines, err := reader.Lines(ctx, 1)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].Quantity)

	// 删除缓存失败只记录日志
	reader.Invalidate(ctx, 1)
}

// gatedCache 读库完成后、回填之前暂停,等待测试放行
type gatedCache struct {
	*redis.CartCache
	loaded  chan struct{}
	release chan struct{}
}

func (g *gatedCache) SetIfVersion(ctx context.Context, userID uint, version int64, lines []cart.Line) (bool, error) {
	close(g.loaded)
	<-g.release
	return g.CartCache.SetIfVersion(ctx, userID, version, lines)
}

func TestReader_DiscardsBackfillRacingWithMutation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b := f.seedBook(t, "A", 1000, 5)

	gate := &gatedCache{CartCache: f.cache, loaded: make(chan struct{}), release: make(chan struct{})}
	slow := NewReader(f.carts, gate)

	done := make(chan []cart.Line, 1)
	go func() {
		lines, err := slow.Lines(ctx, 1)
		assert.NoError(t, err)
		done <- lines
	}()

	// 读请求已经拿到空购物车,此时加入图书并提交
	<-gate.loaded
	_, err := f.add.Execute(ctx, 1, b.ID, 2)
	require.NoError(t, err)
	close(gate.release)

	assert.Empty(t, <-done)
	assert.False(t, f.mr.Exists("cart:1"), "stale snapshot must not be written back")

	lines, err := f.list.Execute(ctx, 1)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].Quantity)

	// 正常回填后命中缓存
	assert.True(t, f.mr.Exists("cart:1"))
	lines, err = f.list.Execute(ctx, 1)
	require.NoError(t, err)
	require.Len(t, lines, 1)
}
