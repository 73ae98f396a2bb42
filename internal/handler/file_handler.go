/*
Package handler provides the HTTP handlers and routing setup for the AT Vault server.

This file contains the image upload endpoint used by the blog admin for cover
images and avatars, and the presigned-download redirect for private objects.
*/
package handler

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"atvault/internal/pkg/auth/jwt"
	"atvault/internal/pkg/auth/policy"
	"atvault/internal/pkg/errs"
	"atvault/internal/pkg/logx"
	"atvault/internal/pkg/req"
	"atvault/internal/pkg/resp"
)

// presignedDownloadDuration bounds how long a download link stays valid.
const presignedDownloadDuration = 15 * time.Minute

// allowedImageExtensions maps permitted upload extensions to their MIME type.
var allowedImageExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
}

// HandleUpload stores an uploaded image in object storage and returns its
// public URL. Admin only; uploads come from the blog editor.
func HandleUpload(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requirePermission(w, r, policy.ActionUpload) {
			return
		}

		if customErr := req.SetupMultipart(w, r); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}
		defer file.Close()

		ext := strings.ToLower(filepath.Ext(header.Filename))
		mimeType, ok := allowedImageExtensions[ext]
		if !ok {
			resp.RespondError(w, r, errs.NewError(errs.ErrFileTypeInvalid))
			return
		}

		key := fmt.Sprintf("uploads/%s%s", uuid.New().String(), ext)

		url, err := deps.Storage.Upload(r.Context(), key, mimeType, file)
		if err != nil {
			logx.Error(err, "upload: storage write failed", "key", key)
			resp.RespondError(w, r, errs.NewError(errs.ErrFileStorageFailed))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"url": url,
			"key": key,
		})
	}
}

// HandlePresignDownload redirects an authenticated user to a time-limited
// download URL for the requested object key.
func HandlePresignDownload(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if jwt.CurrentUser(r) == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		fileKey := r.URL.Query().Get("k")
		if fileKey == "" || strings.Contains(fileKey, "..") {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		url, err := deps.Storage.PresignDownload(r.Context(), fileKey, presignedDownloadDuration)
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrFileStorageFailed))
			return
		}

		http.Redirect(w, r, url, http.StatusFound)
	}
}
