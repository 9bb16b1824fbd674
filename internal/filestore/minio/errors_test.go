package minio

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/koustreak/cursorkit/internal/errs"
	"github.com/koustreak/cursorkit/internal/filestore"
	miniogo "github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ filestore.Store = (*Driver)(nil)

func TestMapError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind errs.ErrKind
	}{
		{"deadline", context.DeadlineExceeded, errs.ErrKindTimeout},
		{"no such key", miniogo.ErrorResponse{Code: "NoSuchKey", StatusCode: http.StatusNotFound}, errs.ErrKindNotFound},
		{"no such bucket code only", miniogo.ErrorResponse{Code: "NoSuchBucket"}, errs.ErrKindNotFound},
		{"access denied", miniogo.ErrorResponse{Code: "AccessDenied", StatusCode: http.StatusForbidden}, errs.ErrKindPermissionDenied},
		{"bad name", miniogo.ErrorResponse{Code: "InvalidBucketName", StatusCode: http.StatusBadRequest}, errs.ErrKindInvalidInput},
		{"slow down", miniogo.ErrorResponse{Code: "SlowDown", StatusCode: http.StatusServiceUnavailable}, errs.ErrKindTimeout},
		{"status only", miniogo.ErrorResponse{StatusCode: http.StatusUnauthorized}, errs.ErrKindPermissionDenied},
		{"network", errors.New("connection reset by peer"), errs.ErrKindConnectionFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mapError(tt.err, "get object")
			require.NotNil(t, got)
			assert.Equal(t, tt.kind, got.Kind)
		})
	}
	assert.Nil(t, mapError(nil, "unused"))
}

func TestNew_InvalidConfig(t *testing.T) {
	_, err := New(context.Background(), &filestore.Config{Provider: "gcs", Endpoint: "x"})
	assert.True(t, errs.IsInvalidInput(err))

	_, err = New(context.Background(), filestore.DefaultConfig("", "key", "secret"))
	assert.True(t, errs.IsInvalidInput(err))
}
