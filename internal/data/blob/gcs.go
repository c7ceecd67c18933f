package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/yungbote/skugen-backend/internal/platform/logger"
)

type GCSOptions struct {
	Bucket string
	Prefix string
	// EmulatorHost points the client at a fake-gcs style emulator; credentials are skipped.
	EmulatorHost string
	// CredentialsFile or CredentialsJSON; both empty means application default credentials.
	CredentialsFile string
	CredentialsJSON string
}

// GCSStore keeps each slot as the object <prefix>/<key>.json in one bucket.
type GCSStore struct {
	log    *logger.Logger
	client *storage.Client
	bucket string
	prefix string
}

func NewGCSStore(ctx context.Context, log *logger.Logger, opts GCSOptions) (*GCSStore, error) {
	bucket := strings.TrimSpace(opts.Bucket)
	if bucket == "" {
		return nil, fmt.Errorf("missing gcs bucket")
	}
	client, err := storage.NewClient(ctx, gcsClientOptions(opts)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	s := &GCSStore{
		log:    log.With("store", "GCSStore"),
		client: client,
		bucket: bucket,
		prefix: strings.Trim(strings.TrimSpace(opts.Prefix), "/"),
	}
	s.log.Info("Object storage initialized", "bucket", bucket, "prefix", s.prefix, "emulator_host", opts.EmulatorHost)
	return s, nil
}

func gcsClientOptions(opts GCSOptions) []option.ClientOption {
	if host := strings.TrimRight(strings.TrimSpace(opts.EmulatorHost), "/"); host != "" {
		_ = os.Setenv("STORAGE_EMULATOR_HOST", host)
		return []option.ClientOption{option.WithoutAuthentication()}
	}
	var out []option.ClientOption
	switch {
	case strings.TrimSpace(opts.CredentialsJSON) != "":
		out = append(out, option.WithCredentialsJSON([]byte(opts.CredentialsJSON)))
	case strings.TrimSpace(opts.CredentialsFile) != "":
		out = append(out, option.WithCredentialsFile(opts.CredentialsFile))
	}
	return append(out, option.WithScopes(storage.ScopeReadWrite))
}

func (s *GCSStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := validKey(key); err != nil {
		return nil, err
	}
	ctx2, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	r, err := s.client.Bucket(s.bucket).Object(s.objectName(key)).NewReader(ctx2)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("open gcs object %q: %w", key, err)
	}
	defer r.Close()
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read gcs object %q: %w", key, err)
	}
	return b, nil
}

func (s *GCSStore) Put(ctx context.Context, key string, value []byte) error {
	if err := validKey(key); err != nil {
		return err
	}
	ctx2, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	w := s.client.Bucket(s.bucket).Object(s.objectName(key)).NewWriter(ctx2)
	w.ContentType = "application/json"
	if _, err := w.Write(value); err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to write data to GCS: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close GCS writer: %w", err)
	}
	return nil
}

func (s *GCSStore) Close() error {
	if s == nil || s.client == nil {
		return nil
	}
	return s.client.Close()
}

func (s *GCSStore) objectName(key string) string {
	name := key + ".json"
	if s.prefix == "" {
		return name
	}
	return path.Join(s.prefix, name)
}
