// Package service holds the business rules: token issuance, the withdrawal
// ledger and the admin catalog. Handlers call it; it calls the store.
package service

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/Neeraj-1996/mlmbackend/internal/apperror"
	"github.com/Neeraj-1996/mlmbackend/internal/store"
)

// ImageUploader stores an image and returns its public URL
type ImageUploader interface {
	Upload(ctx context.Context, filename string, file io.Reader) (string, error)
}

// ImageFile is an uploaded file handed over by the transport layer
type ImageFile struct {
	Filename string
	Content  io.Reader
}

func uploadImage(ctx context.Context, images ImageUploader, file *ImageFile, what string) (string, error) {
	if file == nil || file.Content == nil {
		return "", apperror.Validationf("%s file is required", what)
	}
	url, err := images.Upload(ctx, file.Filename, file.Content)
	if err != nil {
		return "", apperror.Upload("Error while uploading "+what, err)
	}
	if url == "" {
		return "", apperror.Upload("Error while uploading "+what, nil)
	}
	return url, nil
}

// storeError classifies a store failure
func storeError(err error, notFound string) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return apperror.NotFound(notFound)
	case errors.Is(err, store.ErrDuplicate):
		return apperror.Conflict("Record already exists")
	}
	return apperror.Server("store failure", err)
}

// required returns a validation error naming the first blank field
func required(fields ...[2]string) error {
	for _, f := range fields {
		if strings.TrimSpace(f[1]) == "" {
			return apperror.Validationf("%s is required", f[0])
		}
	}
	return nil
}
