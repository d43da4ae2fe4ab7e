package implementation

import (
	"context"
	"errors"

	"ai-notecapture-be/internal/model"
	"ai-notecapture-be/internal/repository/contract"
	"ai-notecapture-be/internal/repository/specification"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BlobRepositoryImpl struct {
	db *gorm.DB
}

func NewBlobRepository(db *gorm.DB) contract.BlobRepository {
	return &BlobRepositoryImpl{
		db: db,
	}
}

func (r *BlobRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *BlobRepositoryImpl) Get(ctx context.Context, key string) ([]byte, error) {
	var m model.KeyValueBlob
	query := r.applySpecifications(r.db.WithContext(ctx), specification.ByKey{Key: key})
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return []byte(m.Value), nil
}

func (r *BlobRepositoryImpl) Put(ctx context.Context, key string, value []byte) error {
	m := model.KeyValueBlob{
		Key:   key,
		Value: datatypes.JSON(value),
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "blob_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&m).Error
}

func (r *BlobRepositoryImpl) Delete(ctx context.Context, key string) error {
	query := r.applySpecifications(r.db.WithContext(ctx), specification.ByKey{Key: key})
	return query.Delete(&model.KeyValueBlob{}).Error
}
