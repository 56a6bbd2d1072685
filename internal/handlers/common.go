package handlers

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/vanshsoni916/VideoTweetApp/internal/content"
)

// maxUploadBytes bounds multipart request memory before spilling to disk.
const maxUploadBytes = 32 << 20

// bearerToken extracts the opaque access token from the Authorization header.
func bearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return ""
	}
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// requireUser resolves the request's bearer token to a user id. An empty or
// unknown token fails the request.
func requireUser(r *http.Request, sessions SessionManager) (string, error) {
	token := bearerToken(r)
	if token == "" {
		return "", fmt.Errorf("missing bearer token")
	}
	return sessions.Authenticate(r.Context(), token)
}

// optionalUser resolves the bearer token when present but never fails; an
// anonymous caller yields an empty user id.
func optionalUser(r *http.Request, sessions SessionManager) string {
	token := bearerToken(r)
	if token == "" {
		return ""
	}
	userID, err := sessions.Authenticate(r.Context(), token)
	if err != nil {
		return ""
	}
	return userID
}

// parsePage reads the pagination query parameters. Out-of-range values are
// normalized later by the service layer.
func parsePage(r *http.Request) content.PageRequest {
	query := r.URL.Query()
	page, _ := strconv.Atoi(query.Get("page"))
	limit, _ := strconv.Atoi(query.Get("limit"))
	return content.PageRequest{
		Page:    page,
		Limit:   limit,
		SortBy:  query.Get("sortBy"),
		SortDir: query.Get("sortType"),
	}
}

// stageUpload copies a multipart file part into the staging directory and
// returns its path. The caller owns the staged file; the media store removes
// it after upload.
func stageUpload(r *http.Request, field, dir string) (string, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		return "", fmt.Errorf("read %s upload: %w", field, err)
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	staged, err := os.CreateTemp(dir, "upload-*"+ext)
	if err != nil {
		return "", fmt.Errorf("stage %s upload: %w", field, err)
	}

	if _, err := io.Copy(staged, file); err != nil {
		staged.Close()
		os.Remove(staged.Name())
		return "", fmt.Errorf("write staged %s upload: %w", field, err)
	}
	if err := staged.Close(); err != nil {
		os.Remove(staged.Name())
		return "", fmt.Errorf("close staged %s upload: %w", field, err)
	}

	return staged.Name(), nil
}
