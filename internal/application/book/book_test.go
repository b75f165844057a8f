package book

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/bookapp/internal/domain/book"
	"github.com/xiebiao/bookapp/internal/infrastructure/config"
	"github.com/xiebiao/bookapp/internal/infrastructure/persistence/gormdb"
)

func newService(t *testing.T) book.Service {
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
	return book.NewService(gormdb.NewBookRepository(db))
}

func TestCatalogLifecycle(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	create := NewCreateBookUseCase(svc)
	list := NewListBooksUseCase(svc)
	get := NewGetBookUseCase(svc)
	update := NewUpdateBookUseCase(svc)
	remove := NewDeleteBookUseCase(svc)

	b1, err := create.Execute(ctx, book.Fields{Title: "The Go Programming Language", Author: "Donovan", Price: 3999, Stock: 5, Category: "Programming"})
	require.NoError(t, err)
	assert.Equal(t, uint(1), b1.ID)

	b2, err := create.Execute(ctx, book.Fields{Title: "三体", Author: "刘慈欣", Price: 2300, Stock: 10})
	require.NoError(t, err)
	assert.Equal(t, uint(2), b2.ID)
	assert.Equal(t, book.DefaultCategory, b2.Category)

	_, err = create.Execute(ctx, book.Fields{Author: "Nobody", Price: 100})
	assert.ErrorIs(t, err, book.ErrTitleRequired)

	books, err := list.Execute(ctx, ListBooksRequest{})
	require.NoError(t, err)
	require.Len(t, books, 2)
	assert.Equal(t, b1.ID, books[0].ID)

	books, err = list.Execute(ctx, ListBooksRequest{Keyword: " 刘慈欣 "})
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, b2.ID, books[0].ID)

	books, err = list.Execute(ctx, ListBooksRequest{Category: "Programming"})
	require.NoError(t, err)
	require.Len(t, books, 1)

	updated, err := update.Execute(ctx, b1.ID, book.Fields{Title: "The Go Programming Language", Author: "Donovan & Kernighan", Price: 0, Stock: 0})
	require.NoError(t, err)
	assert.Equal(t, int64(0), updated.Price)

	got, err := get.Execute(ctx, b1.ID)
	require.NoError(t, err)
	assert.Equal(t, "Donovan & Kernighan", got.Author)
	assert.Equal(t, 0, got.Stock)
	assert.Equal(t, book.DefaultCategory, got.Category)

	deleted, err := remove.Execute(ctx, b2.ID)
	require.NoError(t, err)
	assert.Equal(t, "三体", deleted.Title)

	_, err = get.Execute(ctx, b2.ID)
	assert.ErrorIs(t, err, book.ErrBookNotFound)
	_, err = remove.Execute(ctx, b2.ID)
	assert.ErrorIs(t, err, book.ErrBookNotFound)
	_, err = update.Execute(ctx, b2.ID, book.Fields{Title: "x", Author: "y"})
	assert.ErrorIs(t, err, book.ErrBookNotFound)
}
