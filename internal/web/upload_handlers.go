package web

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/rentora/rentora/internal/auth"
)

const maxUploadMemory = 32 << 20 // 32 MiB

// handleUpload forwards multipart images to the external image store
// and returns the issued public URLs. Files upload concurrently; any
// single failure fails the whole batch with no partial result.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if _, err := s.authn.RequireRole(r, auth.RoleOwner); err != nil {
		authError(w, err)
		return
	}

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		apiError(w, "invalid multipart form", http.StatusBadRequest)
		return
	}

	files := r.MultipartForm.File["images"]
	if len(files) == 0 {
		apiError(w, "no files uploaded", http.StatusBadRequest)
		return
	}

	// The derived context cancels the remaining uploads once one fails.
	urls := make([]string, len(files))
	g, ctx := errgroup.WithContext(r.Context())
	for i, fh := range files {
		i, fh := i, fh
		g.Go(func() error {
			url, err := s.uploadOne(ctx, fh)
			if err != nil {
				return err
			}
			urls[i] = url
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		apiError(w, "image upload failed", http.StatusInternalServerError)
		return
	}

	apiJSON(w, map[string]interface{}{
		"message":   "Images uploaded successfully",
		"imageUrls": urls,
	}, http.StatusOK)
}

func (s *Server) uploadOne(ctx context.Context, fh *multipart.FileHeader) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", fh.Filename, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			err = fmt.Errorf("%w (also failed to close: %v)", err, closeErr)
		}
	}()

	data, err := io.ReadAll(f)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", fh.Filename, err)
	}

	return s.images.Upload(ctx, data, fh.Header.Get("Content-Type"))
}
