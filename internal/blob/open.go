package blob

import (
	"context"
	"fmt"

	"github.com/runnerr0/fedai/internal/config"
)

// Open selects a Store for the export section of the config.
func Open(ctx context.Context, cfg config.ExportConfig) (Store, error) {
	switch Driver(cfg.Driver) {
	case DriverFilesystem, "":
		root, err := config.ExpandPath(cfg.FSRoot)
		if err != nil {
			return nil, err
		}
		return NewFilesystem(root)
	case DriverS3:
		return NewS3(ctx, S3Config{
			Bucket:          cfg.S3.Bucket,
			Region:          cfg.S3.Region,
			Endpoint:        cfg.S3.Endpoint,
			Prefix:          cfg.S3.Prefix,
			PathStyle:       cfg.S3.PathStyle,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
		})
	case DriverMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown blob driver %q", cfg.Driver)
	}
}
