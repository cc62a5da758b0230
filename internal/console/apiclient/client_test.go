package apiclient

import (
	"context"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"
	"testing"

	"thinqor-ats/internal/console"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func newTestClient(fn roundTripperFunc) *Client {
	return New("http://api.test/", &http.Client{Transport: fn})
}

func readForm(t *testing.T, r *http.Request) *multipart.Form {
	t.Helper()
	mediaType, params, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	require.NoError(t, err)
	require.Equal(t, "multipart/form-data", mediaType)
	form, err := multipart.NewReader(r.Body, params["boundary"]).ReadForm(1 << 20)
	require.NoError(t, err)
	return form
}

func TestClientList(t *testing.T) {
	t.Run("Should scope by actor id and role", func(t *testing.T) {
		var gotURL string
		c := newTestClient(func(r *http.Request) (*http.Response, error) {
			gotURL = r.URL.String()
			return jsonResponse(http.StatusOK, `[{"id":1,"name":"Asha","ctc":6.5}]`), nil
		})

		list, err := c.List(context.Background(), &console.Actor{ID: 7, Role: "RECRUITER"})
		require.NoError(t, err)
		assert.Equal(t, "http://api.test/get-candidates?user_id=7&user_role=RECRUITER", gotURL)
		require.Len(t, list, 1)
		assert.Equal(t, 6.5, *list[0].CTC)
	})

	t.Run("Should omit the query for an anonymous actor", func(t *testing.T) {
		var gotURL string
		c := newTestClient(func(r *http.Request) (*http.Response, error) {
			gotURL = r.URL.String()
			return jsonResponse(http.StatusOK, `[]`), nil
		})

		_, err := c.List(context.Background(), nil)
		require.NoError(t, err)
		assert.Equal(t, "http://api.test/get-candidates", gotURL)
	})
}

func TestClientCreate(t *testing.T) {
	createdBy := int64(7)
	c := newTestClient(func(r *http.Request) (*http.Response, error) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/submit-candidate", r.URL.Path)

		form := readForm(t, r)
		assert.Equal(t, []string{"Asha"}, form.Value["name"])
		assert.Equal(t, []string{"6.5"}, form.Value["ctc"])
		assert.Equal(t, []string{""}, form.Value["ectc"])
		assert.Equal(t, []string{"7"}, form.Value["created_by"])
		require.Len(t, form.File["resume"], 1)
		assert.Equal(t, "cv.pdf", form.File["resume"][0].Filename)

		return jsonResponse(http.StatusCreated, `{"success":true,"message":"Candidate submitted successfully"}`), nil
	})

	msg, err := c.Create(context.Background(), console.Payload{
		Fields:    console.Fields{Name: "Asha", Email: "asha@example.com", CTC: "6.5"},
		Resume:    &console.Attachment{Filename: "cv.pdf", ContentType: "application/pdf", Data: []byte("%PDF")},
		CreatedBy: &createdBy,
	})
	require.NoError(t, err)
	assert.Equal(t, "Candidate submitted successfully", msg)
}

func TestClientUpdate(t *testing.T) {
	createdBy := int64(7)
	c := newTestClient(func(r *http.Request) (*http.Response, error) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/update-candidate/12", r.URL.Path)

		form := readForm(t, r)
		assert.NotContains(t, form.Value, "created_by")
		assert.Empty(t, form.File["resume"])
		return jsonResponse(http.StatusOK, `{"message":"Candidate updated successfully"}`), nil
	})

	msg, err := c.Update(context.Background(), 12, console.Payload{
		Fields:    console.Fields{Name: "Asha", Email: "asha@example.com"},
		CreatedBy: &createdBy,
	})
	require.NoError(t, err)
	assert.Equal(t, "Candidate updated successfully", msg)
}

func TestClientErrors(t *testing.T) {
	t.Run("Should decode the server message", func(t *testing.T) {
		c := newTestClient(func(r *http.Request) (*http.Response, error) {
			return jsonResponse(http.StatusConflict, `{"success":false,"message":"duplicate email"}`), nil
		})

		_, err := c.Delete(context.Background(), 3)
		var serverErr *console.ServerError
		require.True(t, errors.As(err, &serverErr))
		assert.Equal(t, http.StatusConflict, serverErr.StatusCode)
		assert.Equal(t, "duplicate email", serverErr.Message)
	})

	t.Run("Should leave the message empty for a non JSON body", func(t *testing.T) {
		c := newTestClient(func(r *http.Request) (*http.Response, error) {
			return &http.Response{StatusCode: http.StatusBadGateway, Body: io.NopCloser(strings.NewReader("<html>"))}, nil
		})

		_, err := c.List(context.Background(), nil)
		var serverErr *console.ServerError
		require.True(t, errors.As(err, &serverErr))
		assert.Empty(t, serverErr.Message)
	})

	t.Run("Should return transport failures as plain errors", func(t *testing.T) {
		c := newTestClient(func(r *http.Request) (*http.Response, error) {
			return nil, errors.New("connection refused")
		})

		_, err := c.Create(context.Background(), console.Payload{})
		require.Error(t, err)
		var serverErr *console.ServerError
		assert.False(t, errors.As(err, &serverErr))
	})
}
