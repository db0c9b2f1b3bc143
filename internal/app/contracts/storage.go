package contracts

import (
	"context"
	"time"
)

type Storage interface {
	UploadObject(ctx context.Context, objectName, contentType string, data []byte) error
	PresignedURL(ctx context.Context, objectName string, expiry time.Duration) (string, error)
}
