// Package blob is the durable key/value boundary the SKU collection and the
// theme preference are persisted through. Each key names one slot holding a
// JSON document; Put replaces the whole slot.
package blob

import (
	"context"
	"fmt"
	"strings"

	pkgerrors "github.com/yungbote/skugen-backend/internal/pkg/errors"
)

var (
	ErrNotFound   = fmt.Errorf("blob slot: %w", pkgerrors.ErrNotFound)
	ErrInvalidKey = fmt.Errorf("invalid blob key: %w", pkgerrors.ErrInvalidArgument)
)

type Store interface {
	// Get returns the slot contents or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Close() error
}

type Driver string

const (
	DriverMemory     Driver = "memory"
	DriverFilesystem Driver = "filesystem"
	DriverSQLite     Driver = "sqlite"
	DriverPostgres   Driver = "postgres"
	DriverRedis      Driver = "redis"
	DriverGCS        Driver = "gcs"
)

var Drivers = []Driver{DriverMemory, DriverFilesystem, DriverSQLite, DriverPostgres, DriverRedis, DriverGCS}

func ParseDriver(raw string) (Driver, bool) {
	d := Driver(strings.ToLower(strings.TrimSpace(raw)))
	for _, known := range Drivers {
		if d == known {
			return d, true
		}
	}
	return d, false
}

func validKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("blob key is required: %w", ErrInvalidKey)
	}
	return nil
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
