package book

import (
	"context"
)

// Service 图书领域服务接口(目录存储)
// 目录存储独占图书的可变性:创建、编辑、删除都经由这里
type Service interface {
	CreateBook(ctx context.Context, f Fields) (*Book, error)
	GetBook(ctx context.Context, id uint) (*Book, error)
	ListBooks(ctx context.Context, params ListParams) ([]*Book, error)

	// UpdateBook 全字段替换,图书不存在返回ErrBookNotFound
	UpdateBook(ctx context.Context, id uint, f Fields) (*Book, error)

	// DeleteBook 删除并返回被删除的记录
	DeleteBook(ctx context.Context, id uint) (*Book, error)
}

type service struct {
	repo Repository
}

// NewService 创建图书领域服务
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) CreateBook(ctx context.Context, f Fields) (*Book, error) {
	b, err := NewBook(f)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *service) GetBook(ctx context.Context, id uint) (*Book, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *service) ListBooks(ctx context.Context, params ListParams) ([]*Book, error) {
	return s.repo.List(ctx, params)
}

func (s *service) UpdateBook(ctx context.Context, id uint, f Fields) (*Book, error) {
	// 参数错误优先于NotFound
	if err := f.Normalize().Validate(); err != nil {
		return nil, err
	}

	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := b.Replace(f); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *service) DeleteBook(ctx context.Context, id uint) (*Book, error) {
	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return nil, err
	}
	return b, nil
}
