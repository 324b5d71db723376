// Package export writes passphrase-encrypted snapshots of the household,
// vault included, to disk and optionally to S3-compatible storage.
package export

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscreds "github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/davidbloss/wghub/internal/store"
)

// s3Client is an interface for testability.
type s3Client interface {
	PutObject(ctx context.Context, input *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Config holds S3-compatible storage configuration. Upload is skipped
// when the bucket is empty.
type S3Config struct {
	Endpoint  string `env:"WGHUB_S3_ENDPOINT"`
	Bucket    string `env:"WGHUB_S3_BUCKET"`
	Region    string `env:"WGHUB_S3_REGION" envDefault:"auto"`
	AccessKey string `env:"WGHUB_S3_ACCESS_KEY"`
	SecretKey string `env:"WGHUB_S3_SECRET_KEY"`
}

// Config holds export manager configuration.
type Config struct {
	Dir string `env:"WGHUB_EXPORT_DIR" envDefault:"exports"`
	S3  S3Config
}

// Result describes where an export landed.
type Result struct {
	Path     string `json:"path"`
	Uploaded bool   `json:"uploaded"`
	Size     int    `json:"size"`
}

// Manager produces encrypted exports.
type Manager struct {
	cfg    Config
	store  *store.Store
	client s3Client
	logger *slog.Logger
	now    func() time.Time
}

func NewManager(cfg Config, st *store.Store, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	m := &Manager{cfg: cfg, store: st, logger: logger, now: time.Now}
	if cfg.S3.Bucket != "" {
		m.client = newS3Client(cfg.S3)
	}
	return m
}

// Export snapshots the household, encrypts it with the passphrase, writes
// the file under the export dir, and uploads it when S3 is configured. A
// failed upload is reported in the error but the local file survives.
func (m *Manager) Export(ctx context.Context, passphrase string) (Result, error) {
	if passphrase == "" {
		return Result{}, fmt.Errorf("passphrase is required")
	}

	snap := m.store.Snapshot()
	plain, err := json.Marshal(snap)
	if err != nil {
		return Result{}, fmt.Errorf("marshal snapshot: %w", err)
	}

	sealed, err := Encrypt(plain, passphrase)
	if err != nil {
		return Result{}, fmt.Errorf("encrypt snapshot: %w", err)
	}

	if err := os.MkdirAll(m.cfg.Dir, 0700); err != nil {
		return Result{}, fmt.Errorf("create export dir: %w", err)
	}
	name := fmt.Sprintf("wghub-%s-%s.enc", snap.WGID, m.now().Format("20060102-150405"))
	path := filepath.Join(m.cfg.Dir, name)
	if err := os.WriteFile(path, sealed, 0600); err != nil {
		return Result{}, fmt.Errorf("write export: %w", err)
	}

	res := Result{Path: path, Size: len(sealed)}
	if m.client == nil {
		return res, nil
	}

	if err := m.upload(ctx, name, sealed); err != nil {
		return res, fmt.Errorf("upload export: %w", err)
	}
	res.Uploaded = true
	m.logger.Info("export uploaded", "key", name, "bucket", m.cfg.S3.Bucket)
	return res, nil
}

// Restore decrypts an export file back into a snapshot. It does not touch
// the store; re-importing is an operator action on a fresh database.
func (m *Manager) Restore(path, passphrase string) (store.Snapshot, error) {
	sealed, err := os.ReadFile(path)
	if err != nil {
		return store.Snapshot{}, fmt.Errorf("read export: %w", err)
	}
	plain, err := Decrypt(sealed, passphrase)
	if err != nil {
		return store.Snapshot{}, fmt.Errorf("decrypt export: %w", err)
	}
	var snap store.Snapshot
	if err := json.Unmarshal(plain, &snap); err != nil {
		return store.Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return snap, nil
}

func (m *Manager) upload(ctx context.Context, key string, data []byte) error {
	_, err := m.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(m.cfg.S3.Bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(data),
	})
	return err
}

func newS3Client(cfg S3Config) *s3.Client {
	return s3.New(s3.Options{
		Region:       cfg.Region,
		BaseEndpoint: aws.String(cfg.Endpoint),
		Credentials:  awscreds.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
	})
}
