package database

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rpupo63/portfolio-site/backend"
	"github.com/rpupo63/portfolio-site/errs"
	"github.com/rpupo63/portfolio-site/models"
)

// RowRepo serves every content collection through one GORM connection.
type RowRepo struct {
	db *gorm.DB
}

var _ backend.Rows = (*RowRepo)(nil)

func NewRowRepo(db *gorm.DB) *RowRepo {
	return &RowRepo{db}
}

func (r *RowRepo) Select(ctx context.Context, collection string, q backend.Query, dest any) error {
	if models.New(collection) == nil {
		return errs.NewUnknownCollectionError(collection)
	}

	tx := r.db.WithContext(ctx).Table(collection)
	if q.OrderBy != "" {
		tx = tx.Order(clause.OrderByColumn{Column: clause.Column{Name: q.OrderBy}, Desc: q.Desc})
	}
	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}

	if err := tx.Find(dest).Error; err != nil {
		return errs.NewDatabaseError("select", collection, err)
	}
	return nil
}

func (r *RowRepo) Count(ctx context.Context, collection string) (int64, error) {
	if models.New(collection) == nil {
		return 0, errs.NewUnknownCollectionError(collection)
	}

	var n int64
	if err := r.db.WithContext(ctx).Table(collection).Count(&n).Error; err != nil {
		return 0, errs.NewDatabaseError("count", collection, err)
	}
	return n, nil
}

func (r *RowRepo) Insert(ctx context.Context, collection string, record any) error {
	if models.New(collection) == nil {
		return errs.NewUnknownCollectionError(collection)
	}

	if err := r.db.WithContext(ctx).Table(collection).Create(record).Error; err != nil {
		return errs.NewDatabaseError("insert", collection, err)
	}
	return nil
}

func (r *RowRepo) Update(ctx context.Context, collection string, id string, record any) error {
	if models.New(collection) == nil {
		return errs.NewUnknownCollectionError(collection)
	}

	res := r.db.WithContext(ctx).
		Model(record).
		Where("id = ?", id).
		Select("*").
		Omit("id", "created_at").
		Updates(record)
	if res.Error != nil {
		return errs.NewDatabaseError("update", collection, res.Error)
	}
	if res.RowsAffected == 0 {
		return errs.NewDatabaseError("update", collection, errs.NewNotFound(collection))
	}
	return nil
}

func (r *RowRepo) Delete(ctx context.Context, collection string, id string) error {
	model := models.New(collection)
	if model == nil {
		return errs.NewUnknownCollectionError(collection)
	}

	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(model)
	if res.Error != nil {
		return errs.NewDatabaseError("delete", collection, res.Error)
	}
	if res.RowsAffected == 0 {
		return errs.NewDatabaseError("delete", collection, errs.NewNotFound(collection))
	}
	return nil
}
