package dao

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

type txKey struct{}

// Repo 通用仓储，事务通过 ctx 传递
type Repo[T any] struct {
	Db *gorm.DB
}

func NewRepo[T any](db *gorm.DB) Repo[T] {
	return Repo[T]{Db: db}
}

// Conn 当前 ctx 里有事务就用事务，否则用默认连接
func (r *Repo[T]) Conn(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return r.Db.WithContext(ctx)
}

func (r *Repo[T]) Model(ctx context.Context) *gorm.DB {
	return r.Conn(ctx).Model(new(T))
}

func (r *Repo[T]) Create(ctx context.Context, data *T) error {
	return r.Conn(ctx).Create(data).Error
}

// FindByWhere 查询单条，不存在时返回 (nil, nil)
func (r *Repo[T]) FindByWhere(ctx context.Context, where string, args ...any) (*T, error) {
	var item T
	err := r.Conn(ctx).Where(where, args...).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *Repo[T]) IsExist(ctx context.Context, where string, args ...any) (bool, error) {
	var count int64
	err := r.Model(ctx).Where(where, args...).Limit(1).Count(&count).Error
	return count > 0, err
}

// Tx 事务入口，fn 里的 DAO 调用通过 ctx 共享同一个事务
type Tx struct {
	Db *gorm.DB
}

func NewTx(db *gorm.DB) *Tx {
	return &Tx{Db: db}
}

func (t *Tx) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return fn(ctx)
	}
	return t.Db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}
