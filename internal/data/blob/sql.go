package blob

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yungbote/skugen-backend/internal/domain/sku"
	"github.com/yungbote/skugen-backend/internal/platform/logger"
)

// SQLStore keeps slots as rows of blob_entries. It works with any gorm
// dialect the app opens (sqlite, postgres).
type SQLStore struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSQLStore(db *gorm.DB, baseLog *logger.Logger) *SQLStore {
	return &SQLStore{
		db:  db,
		log: baseLog.With("store", "SQLStore"),
	}
}

func (s *SQLStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := validKey(key); err != nil {
		return nil, err
	}
	var row sku.BlobEntry
	if err := s.db.WithContext(ctx).
		Where("slot = ?", key).
		Limit(1).
		Find(&row).Error; err != nil {
		return nil, fmt.Errorf("load blob %q: %w", key, err)
	}
	if row.Key == "" {
		return nil, ErrNotFound
	}
	return []byte(row.Value), nil
}

func (s *SQLStore) Put(ctx context.Context, key string, value []byte) error {
	if err := validKey(key); err != nil {
		return err
	}
	if !json.Valid(value) {
		return fmt.Errorf("blob %q is not a JSON document: %w", key, ErrInvalidKey)
	}
	row := &sku.BlobEntry{
		Key:       key,
		Value:     datatypes.JSON(cloneBytes(value)),
		UpdatedAt: time.Now().UTC(),
	}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "slot"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(row).Error
	if err != nil {
		return fmt.Errorf("save blob %q: %w", key, err)
	}
	return nil
}

func (s *SQLStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
