package domain

import "github.com/yungbote/skugen-backend/internal/domain/sku"

// Models lists every gorm model that AutoMigrate must create.
func Models() []any {
	return []any{
		&sku.BlobEntry{},
	}
}
