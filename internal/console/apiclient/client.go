// Package apiclient implements console.CandidateService over the backend's REST endpoints.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"
	"strings"
	"time"

	"thinqor-ats/internal/console"
	"thinqor-ats/internal/domain"
)

// maxErrorBody bounds how much of a failed response is read for its message.
const maxErrorBody = 64 << 10

type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New returns a client for baseURL. A nil httpClient gets a 10 second timeout.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), httpClient: httpClient}
}

// List calls GET /get-candidates, scoped to actor when it has an id.
func (c *Client) List(ctx context.Context, actor *console.Actor) ([]domain.Candidate, error) {
	endpoint := c.baseURL + "/get-candidates"
	if actor != nil && actor.ID != 0 {
		q := url.Values{}
		q.Set("user_id", strconv.FormatInt(actor.ID, 10))
		q.Set("user_role", actor.Role)
		endpoint += "?" + q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build list request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to list candidates: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, serverError(resp)
	}

	var candidates []domain.Candidate
	if err := json.NewDecoder(resp.Body).Decode(&candidates); err != nil {
		return nil, fmt.Errorf("failed to decode candidates: %w", err)
	}
	return candidates, nil
}

// Create calls POST /submit-candidate.
func (c *Client) Create(ctx context.Context, p console.Payload) (string, error) {
	return c.submit(ctx, http.MethodPost, "/submit-candidate", p)
}

// Update calls PUT /update-candidate/{id}. created_by is never sent.
func (c *Client) Update(ctx context.Context, id int64, p console.Payload) (string, error) {
	p.CreatedBy = nil
	return c.submit(ctx, http.MethodPut, "/update-candidate/"+strconv.FormatInt(id, 10), p)
}

// Delete calls DELETE /delete-candidate/{id}.
func (c *Client) Delete(ctx context.Context, id int64) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/delete-candidate/"+strconv.FormatInt(id, 10), nil)
	if err != nil {
		return "", fmt.Errorf("failed to build delete request: %w", err)
	}
	return c.doMessage(req)
}

func (c *Client) submit(ctx context.Context, method, path string, p console.Payload) (string, error) {
	body, contentType, err := EncodePayload(p)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	return c.doMessage(req)
}

func (c *Client) doMessage(req *http.Request) (string, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to reach backend: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", serverError(resp)
	}

	var payload struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	return payload.Message, nil
}

// EncodePayload builds the multipart body shared by create and update.
func EncodePayload(p console.Payload) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, name := range console.FieldNames {
		value, _ := p.Fields.Get(name)
		if err := w.WriteField(name, value); err != nil {
			return nil, "", fmt.Errorf("failed to write field %s: %w", name, err)
		}
	}
	if p.CreatedBy != nil {
		if err := w.WriteField("created_by", strconv.FormatInt(*p.CreatedBy, 10)); err != nil {
			return nil, "", fmt.Errorf("failed to write created_by: %w", err)
		}
	}

	if p.Resume != nil {
		contentType := p.Resume.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="resume"; filename="%s"`, escapeQuotes(p.Resume.Filename)))
		h.Set("Content-Type", contentType)
		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", fmt.Errorf("failed to create resume part: %w", err)
		}
		if _, err := part.Write(p.Resume.Data); err != nil {
			return nil, "", fmt.Errorf("failed to write resume: %w", err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to close multipart body: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}

func serverError(resp *http.Response) error {
	var payload struct {
		Message string `json:"message"`
	}
	_ = json.NewDecoder(io.LimitReader(resp.Body, maxErrorBody)).Decode(&payload)
	return &console.ServerError{StatusCode: resp.StatusCode, Message: payload.Message}
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
