package gateway

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
)

// UploadResult is the backend's acknowledgement of an accepted document.
// For CVs the id is the uploading user's id; for JDs it is the new role's.
type UploadResult struct {
	ID               string `json:"id"`
	OriginalFilename string `json:"original_filename"`
	SavedFilename    string `json:"saved_filename"`
	Status           string `json:"status"`
}

// CVStatusResult is the backend's view of an in-flight CV processing run.
type CVStatusResult struct {
	Status    string `json:"status"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

// UploadCV submits a CV document for the given user. The backend queues it
// for processing; progress is read back through CVStatus.
func (c *Client) UploadCV(ctx context.Context, userID, filename string, file io.Reader) (UploadResult, error) {
	return c.uploadDocument(ctx, "upload_cv", "/api/cvs/upload-cv", userID, filename, file)
}

// UploadJD submits a job description on behalf of a recruiter. The backend
// rejects non-recruiters with a 403.
func (c *Client) UploadJD(ctx context.Context, userID, filename string, file io.Reader) (UploadResult, error) {
	return c.uploadDocument(ctx, "upload_jd", "/api/roles/upload-jd", userID, filename, file)
}

// CVStatus polls the processing status of a user's CV. Returns ErrNotFound
// when no run exists (the user has never uploaded).
func (c *Client) CVStatus(ctx context.Context, userID string) (CVStatusResult, error) {
	var res CVStatusResult
	err := c.doJSON(ctx, "cv_status", http.MethodGet, "/api/cvs/cv-status/"+url.PathEscape(userID), nil, nil, &res)

	return res, err
}

func (c *Client) uploadDocument(ctx context.Context, op, path, userID, filename string, file io.Reader) (UploadResult, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return UploadResult{}, fmt.Errorf("gateway: build %s form: %w", op, err)
	}

	if _, err := io.Copy(part, file); err != nil {
		return UploadResult{}, fmt.Errorf("gateway: copy %s payload: %w", op, err)
	}

	if err := mw.WriteField("user_id", userID); err != nil {
		return UploadResult{}, fmt.Errorf("gateway: build %s form: %w", op, err)
	}

	if err := mw.Close(); err != nil {
		return UploadResult{}, fmt.Errorf("gateway: finalize %s form: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return UploadResult{}, fmt.Errorf("gateway: build %s request: %w", op, err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	var res UploadResult
	if err := c.roundTrip(op, req, &res); err != nil {
		return UploadResult{}, err
	}

	return res, nil
}
