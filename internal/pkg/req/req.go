/*
Package req provides helpers for HTTP request parsing and data binding.

It encapsulates JSON and multipart form parsing with size limits and maps
parse failures onto the application's error codes, so handlers only deal
with well-formed input.
*/
package req

import (
	"encoding/json"
	"net/http"
	"strings"

	"atvault/internal/pkg/errs"
)

const (
	// MaxFormMemory is the amount of memory (8 MB) ParseMultipartForm keeps
	// for non-file fields before spilling to temporary files.
	MaxFormMemory int64 = 8 << 20 // 8 MB

	// MaxUploadSize is the maximum allowed size (10 MB) for the entire
	// multipart request body, enforced via http.MaxBytesReader. Uploads here
	// are blog cover images, avatars, and short audio clips.
	MaxUploadSize int64 = 10 << 20 // 10 MB
)

// BindJSON binds the JSON request body to the destination struct dst.
// Unknown fields and trailing content are rejected.
func BindJSON(r *http.Request, dst any) *errs.CustomError {
	contentType := r.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "application/json") {
		return errs.NewError(errs.ErrUnsupportedMediaType)
	}

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		return errs.NewError(errs.ErrInvalidJSONFormat)
	}

	if decoder.More() {
		return errs.NewError(errs.ErrExtraContentInBody)
	}

	return nil
}

// SetupMultipart parses multipart form data from the request with the
// package's size limits applied.
func SetupMultipart(w http.ResponseWriter, r *http.Request) *errs.CustomError {
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadSize)

	err := r.ParseMultipartForm(MaxFormMemory)

	if err != nil {
		if strings.Contains(err.Error(), "request body too large") {
			return errs.NewError(errs.ErrRequestEntityTooLarge)
		}

		return errs.NewError(errs.ErrFormParseFailed)
	}

	return nil
}
