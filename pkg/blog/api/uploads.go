package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/ayushpk/cryptoblog/pkg/blog"
)

// formUpload reads one file from a multipart form field. A missing field
// returns (nil, nil) so optional uploads fall through naturally.
func formUpload(r *http.Request, field string) (*blog.Upload, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading form file %q: %w", field, err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("reading form file %q: %w", field, err)
	}

	return &blog.Upload{
		Data:     data,
		FileName: header.Filename,
		MimeType: header.Header.Get("Content-Type"),
	}, nil
}
