package gcp

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/yungbote/pinforge-backend/internal/platform/envutil"
)

type StorageMode string

const (
	StorageModeGCS      StorageMode = "gcs"
	StorageModeEmulator StorageMode = "gcs_emulator"
)

var ErrStorageConfig = errors.New("invalid object storage config")

// StorageConfig selects between real GCS and a fake-gcs-server style emulator.
type StorageConfig struct {
	Mode          StorageMode
	Bucket        string
	EmulatorHost  string
	PublicBaseURL string
	CDNDomain     string
	// Inferred is set when the mode was derived from STORAGE_EMULATOR_HOST alone.
	Inferred bool
}

func (c StorageConfig) Emulated() bool { return c.Mode == StorageModeEmulator }

// StorageConfigFromEnv reads OBJECT_STORAGE_MODE, STORAGE_EMULATOR_HOST, PIN_GCS_BUCKET_NAME,
// PIN_CDN_DOMAIN and OBJECT_STORAGE_PUBLIC_BASE_URL.
func StorageConfigFromEnv() (StorageConfig, error) {
	cfg := StorageConfig{
		Bucket:        envutil.String("PIN_GCS_BUCKET_NAME", ""),
		EmulatorHost:  strings.TrimRight(envutil.String("STORAGE_EMULATOR_HOST", ""), "/"),
		PublicBaseURL: strings.TrimRight(envutil.String("OBJECT_STORAGE_PUBLIC_BASE_URL", ""), "/"),
		CDNDomain:     envutil.String("PIN_CDN_DOMAIN", ""),
	}
	raw := envutil.String("OBJECT_STORAGE_MODE", "")
	switch StorageMode(strings.ToLower(raw)) {
	case "":
		cfg.Mode = StorageModeGCS
		if cfg.EmulatorHost != "" {
			cfg.Mode = StorageModeEmulator
			cfg.Inferred = true
		}
	case StorageModeGCS:
		cfg.Mode = StorageModeGCS
	case StorageModeEmulator:
		cfg.Mode = StorageModeEmulator
	default:
		return cfg, fmt.Errorf("%w: OBJECT_STORAGE_MODE=%q (allowed: %q, %q)", ErrStorageConfig, raw, StorageModeGCS, StorageModeEmulator)
	}
	return cfg, cfg.Validate()
}

func (c StorageConfig) Validate() error {
	if c.Mode != StorageModeGCS && c.Mode != StorageModeEmulator {
		return fmt.Errorf("%w: unknown mode %q", ErrStorageConfig, c.Mode)
	}
	if strings.TrimSpace(c.Bucket) == "" {
		return fmt.Errorf("%w: missing PIN_GCS_BUCKET_NAME", ErrStorageConfig)
	}
	if c.PublicBaseURL != "" && !absoluteURL(c.PublicBaseURL) {
		return fmt.Errorf("%w: OBJECT_STORAGE_PUBLIC_BASE_URL=%q must be an absolute URL", ErrStorageConfig, c.PublicBaseURL)
	}
	if !c.Emulated() {
		return nil
	}
	if c.EmulatorHost == "" {
		return fmt.Errorf("%w: %s requires STORAGE_EMULATOR_HOST", ErrStorageConfig, StorageModeEmulator)
	}
	if !absoluteURL(c.EmulatorHost) {
		return fmt.Errorf("%w: STORAGE_EMULATOR_HOST=%q must look like http://fake-gcs:4443", ErrStorageConfig, c.EmulatorHost)
	}
	return nil
}

func absoluteURL(raw string) bool {
	u, err := url.Parse(raw)
	return err == nil && u.Scheme != "" && u.Host != ""
}
