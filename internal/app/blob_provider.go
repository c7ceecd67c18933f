package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/yungbote/skugen-backend/internal/config"
	"github.com/yungbote/skugen-backend/internal/data/blob"
	"github.com/yungbote/skugen-backend/internal/data/db"
	"github.com/yungbote/skugen-backend/internal/platform/logger"
)

var (
	newDBService   = db.NewService
	newRedisStore  = blob.NewRedisStore
	newGCSStore    = blob.NewGCSStore
	newFSBlobStore = blob.NewFilesystemStore
)

type BlobProviderBootstrapErrorCode string

const (
	BlobProviderBootstrapErrorInvalidDriver BlobProviderBootstrapErrorCode = "invalid_driver"
	BlobProviderBootstrapErrorMissingConfig BlobProviderBootstrapErrorCode = "missing_config"
	BlobProviderBootstrapErrorMigrateFailed BlobProviderBootstrapErrorCode = "migrate_failed"
	BlobProviderBootstrapErrorConnectFailed BlobProviderBootstrapErrorCode = "connect_failed"
)

type BlobProviderBootstrapError struct {
	Code   BlobProviderBootstrapErrorCode
	Driver string
	Cause  error
}

func (e *BlobProviderBootstrapError) Error() string {
	if e == nil {
		return "blob storage bootstrap failed"
	}
	return fmt.Sprintf("blob storage bootstrap failed (code=%s driver=%q): %v", e.Code, e.Driver, e.Cause)
}

func (e *BlobProviderBootstrapError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// blobProvider is the resolved storage backend plus the handles the metrics
// collectors sample.
type blobProvider struct {
	driver blob.Driver
	store  blob.Store
	db     *gorm.DB
	redis  *goredis.Options
}

func resolveBlobStore(ctx context.Context, log *logger.Logger, cfg config.StorageConfig) (blobProvider, error) {
	driver, ok := blob.ParseDriver(cfg.Driver)
	if !ok {
		err := &BlobProviderBootstrapError{
			Code:   BlobProviderBootstrapErrorInvalidDriver,
			Driver: cfg.Driver,
			Cause:  fmt.Errorf("unsupported blob driver %q", cfg.Driver),
		}
		log.Error("Blob storage provider selection failed", "driver", cfg.Driver, "error_code", err.Code, "error", err)
		return blobProvider{}, err
	}
	if err := checkBlobConfig(driver, cfg); err != nil {
		log.Error("Blob storage provider misconfigured", "driver", driver, "error_code", BlobProviderBootstrapErrorMissingConfig, "error", err)
		return blobProvider{}, err
	}

	log.Info("Selecting blob storage provider", "driver", driver)
	p, err := openBlobStore(ctx, log, driver, cfg)
	if err != nil {
		classified := classifyBlobProviderBootstrapError(driver, err)
		log.Error("Blob storage provider bootstrap failed",
			"driver", driver,
			"error_code", blobProviderBootstrapErrorCode(classified),
			"error", classified,
		)
		return blobProvider{}, classified
	}
	return p, nil
}

func checkBlobConfig(driver blob.Driver, cfg config.StorageConfig) error {
	missing := ""
	switch driver {
	case blob.DriverPostgres:
		if strings.TrimSpace(cfg.PostgresDSN) == "" {
			missing = "storage.postgres_dsn"
		}
	case blob.DriverRedis:
		if strings.TrimSpace(cfg.Redis.Addr) == "" {
			missing = "storage.redis.addr"
		}
	case blob.DriverGCS:
		if strings.TrimSpace(cfg.GCS.Bucket) == "" {
			missing = "storage.gcs.bucket"
		}
	}
	if missing == "" {
		return nil
	}
	return &BlobProviderBootstrapError{
		Code:   BlobProviderBootstrapErrorMissingConfig,
		Driver: string(driver),
		Cause:  fmt.Errorf("%s is required for the %s driver", missing, driver),
	}
}

func openBlobStore(ctx context.Context, log *logger.Logger, driver blob.Driver, cfg config.StorageConfig) (blobProvider, error) {
	p := blobProvider{driver: driver}
	switch driver {
	case blob.DriverMemory:
		p.store = blob.NewMemoryStore()
	case blob.DriverFilesystem:
		fs, err := newFSBlobStore(cfg.FSDir)
		if err != nil {
			return p, err
		}
		p.store = fs
	case blob.DriverSQLite, blob.DriverPostgres:
		opts := db.Options{Dialect: db.DialectSQLite, DSN: cfg.SQLitePath}
		if driver == blob.DriverPostgres {
			opts = db.Options{Dialect: db.DialectPostgres, DSN: cfg.PostgresDSN}
		}
		svc, err := newDBService(log, opts)
		if err != nil {
			return p, err
		}
		if err := svc.AutoMigrateAll(); err != nil {
			return p, &BlobProviderBootstrapError{Code: BlobProviderBootstrapErrorMigrateFailed, Driver: string(driver), Cause: err}
		}
		p.db = svc.DB()
		p.store = blob.NewSQLStore(svc.DB(), log)
	case blob.DriverRedis:
		rs, err := newRedisStore(ctx, log, blob.RedisOptions{
			Addr:      cfg.Redis.Addr,
			Password:  cfg.Redis.Password,
			DB:        cfg.Redis.DB,
			KeyPrefix: cfg.Redis.Prefix,
		})
		if err != nil {
			return p, err
		}
		p.store = rs
		p.redis = &goredis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB}
	case blob.DriverGCS:
		gs, err := newGCSStore(ctx, log, blob.GCSOptions{
			Bucket:          cfg.GCS.Bucket,
			Prefix:          cfg.GCS.Prefix,
			EmulatorHost:    cfg.GCS.EmulatorHost,
			CredentialsFile: cfg.GCS.CredentialsFile,
		})
		if err != nil {
			return p, err
		}
		p.store = gs
	}
	return p, nil
}

func classifyBlobProviderBootstrapError(driver blob.Driver, err error) error {
	var bootstrapErr *BlobProviderBootstrapError
	if errors.As(err, &bootstrapErr) {
		return bootstrapErr
	}
	return &BlobProviderBootstrapError{
		Code:   BlobProviderBootstrapErrorConnectFailed,
		Driver: string(driver),
		Cause:  err,
	}
}

func blobProviderBootstrapErrorCode(err error) BlobProviderBootstrapErrorCode {
	var bootstrapErr *BlobProviderBootstrapError
	if errors.As(err, &bootstrapErr) && bootstrapErr.Code != "" {
		return bootstrapErr.Code
	}
	return BlobProviderBootstrapErrorConnectFailed
}
