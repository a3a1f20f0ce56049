// Package client is the Go counterpart of the browser client: a typed REST
// client for the board API plus a WebSocket subscription for live events.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"path/filepath"
	"strings"
	"time"

	"github.com/dkuiper/taskboard/internal/domain"
)

// APIError carries a non-2xx response from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (%d): %s", e.Status, e.Message)
}

type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// do issues a JSON request and decodes the response into out when non-nil.
// A 404 is reported as domain.ErrNotFound so callers can branch on it.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var rd io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		rd = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req, out)
}

func (c *Client) send(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return domain.ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var body struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&body)
		if body.Error == "" {
			body.Error = resp.Status
		}
		return &APIError{Status: resp.StatusCode, Message: body.Error}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// --- Jobs ---

func (c *Client) ListJobs(ctx context.Context) ([]*domain.Job, error) {
	var jobs []*domain.Job
	err := c.do(ctx, http.MethodGet, "/api/jobs", nil, &jobs)
	return jobs, err
}

func (c *Client) GetJob(ctx context.Context, id int64) (*domain.Job, error) {
	var job domain.Job
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/jobs/%d", id), nil, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

func (c *Client) CreateJob(ctx context.Context, in *domain.JobInput) (*domain.Job, error) {
	var job domain.Job
	if err := c.do(ctx, http.MethodPost, "/api/jobs", in, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

func (c *Client) UpdateJob(ctx context.Context, id int64, update *domain.JobUpdate) (*domain.Job, error) {
	var job domain.Job
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/jobs/%d", id), update, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

func (c *Client) DeleteJob(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/jobs/%d", id), nil, nil)
}

// --- Tasks ---

func (c *Client) ListTasks(ctx context.Context) ([]*domain.Task, error) {
	var tasks []*domain.Task
	err := c.do(ctx, http.MethodGet, "/api/tasks", nil, &tasks)
	return tasks, err
}

func (c *Client) ListTeamTasks(ctx context.Context, teamID string) ([]*domain.Task, error) {
	var tasks []*domain.Task
	err := c.do(ctx, http.MethodGet, "/api/tasks/team/"+teamID, nil, &tasks)
	return tasks, err
}

func (c *Client) GetTask(ctx context.Context, id int64) (*domain.Task, error) {
	var task domain.Task
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/tasks/%d", id), nil, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (c *Client) CreateTask(ctx context.Context, in *domain.TaskInput) (*domain.Task, error) {
	var task domain.Task
	if err := c.do(ctx, http.MethodPost, "/api/tasks", in, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (c *Client) UpdateTask(ctx context.Context, id int64, update *domain.TaskUpdate) (*domain.Task, error) {
	var task domain.Task
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/tasks/%d", id), update, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// UpdateTaskStatus is the status-only update a team member makes in the
// field.
func (c *Client) UpdateTaskStatus(ctx context.Context, id int64, status domain.Status) (*domain.Task, error) {
	return c.UpdateTask(ctx, id, &domain.TaskUpdate{Status: &status})
}

func (c *Client) DeleteTask(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/tasks/%d", id), nil, nil)
}

// --- Photos ---

// UploadPhoto streams one image to a task as a multipart form. The part
// content type is derived from the filename extension.
func (c *Client) UploadPhoto(ctx context.Context, taskID int64, filename, caption string, data io.Reader) (*domain.Photo, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	hdr := textproto.MIMEHeader{}
	hdr.Set("Content-Disposition", fmt.Sprintf(`form-data; name="photo"; filename="%s"`, filename))
	hdr.Set("Content-Type", imageContentType(filename))
	part, err := mw.CreatePart(hdr)
	if err != nil {
		return nil, fmt.Errorf("failed to build multipart form: %w", err)
	}
	if _, err := io.Copy(part, data); err != nil {
		return nil, fmt.Errorf("failed to write photo data: %w", err)
	}
	if caption != "" {
		if err := mw.WriteField("caption", caption); err != nil {
			return nil, fmt.Errorf("failed to write caption field: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish multipart form: %w", err)
	}

	url := fmt.Sprintf("%s/api/tasks/%d/photos", c.baseURL, taskID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var photo domain.Photo
	if err := c.send(req, &photo); err != nil {
		return nil, err
	}
	return &photo, nil
}

func (c *Client) UpdatePhotoCaption(ctx context.Context, id int64, caption string) (*domain.Photo, error) {
	var photo domain.Photo
	body := map[string]string{"caption": caption}
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/tasks/photos/%d", id), body, &photo); err != nil {
		return nil, err
	}
	return &photo, nil
}

func (c *Client) DeletePhoto(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/tasks/photos/%d", id), nil, nil)
}

// FetchPhoto downloads the stored image at the photo's public path.
func (c *Client) FetchPhoto(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return nil, domain.ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{Status: resp.StatusCode, Message: resp.Status}
	}
	return io.ReadAll(resp.Body)
}

// --- Notes ---

func (c *Client) AddNote(ctx context.Context, taskID int64, content string) (*domain.Note, error) {
	var note domain.Note
	body := &domain.NoteInput{Content: content}
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/tasks/%d/notes", taskID), body, &note); err != nil {
		return nil, err
	}
	return &note, nil
}

func (c *Client) ListNotes(ctx context.Context, taskID int64) ([]*domain.Note, error) {
	var notes []*domain.Note
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/tasks/%d/notes", taskID), nil, &notes)
	return notes, err
}

func (c *Client) DeleteNote(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/tasks/notes/%d", id), nil, nil)
}

// --- Misc ---

func (c *Client) ListTeams(ctx context.Context) ([]domain.Team, error) {
	var teams []domain.Team
	err := c.do(ctx, http.MethodGet, "/api/teams", nil, &teams)
	return teams, err
}

// Health reports whether the server answers its health check.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/api/health", nil, nil)
}

func imageContentType(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	default:
		return "application/octet-stream"
	}
}
