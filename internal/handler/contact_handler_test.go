package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/firehawk/backend/internal/model"
	"github.com/firehawk/backend/internal/repository"
	"github.com/firehawk/backend/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// Mock ContactService
// ---------------------------------------------------------------------------

type mockContactService struct {
	submitFunc func(ctx context.Context, sub model.ContactSubmission) (*model.ContactMessage, error)
	listFunc   func(ctx context.Context, opts model.ContactListOptions) ([]*model.ContactMessage, error)
	getFunc    func(ctx context.Context, id string) (*model.ContactMessage, error)
	replyFunc  func(ctx context.Context, id string, reply model.ContactReply) (*model.ContactMessage, error)
}

func (m *mockContactService) Submit(ctx context.Context, sub model.ContactSubmission) (*model.ContactMessage, error) {
	if m.submitFunc != nil {
		return m.submitFunc(ctx, sub)
	}
	return &model.ContactMessage{ID: "id-1", Status: model.ContactStatusNew}, nil
}

func (m *mockContactService) List(ctx context.Context, opts model.ContactListOptions) ([]*model.ContactMessage, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, opts)
	}
	return nil, nil
}

func (m *mockContactService) Get(ctx context.Context, id string) (*model.ContactMessage, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, id)
	}
	return nil, repository.ErrNotFound
}

func (m *mockContactService) Reply(ctx context.Context, id string, reply model.ContactReply) (*model.ContactMessage, error) {
	if m.replyFunc != nil {
		return m.replyFunc(ctx, id, reply)
	}
	return nil, repository.ErrNotFound
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorResponse {
	t.Helper()
	var resp errorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

// ---------------------------------------------------------------------------
// Submit
// ---------------------------------------------------------------------------

func TestContactHandler_Submit_Success(t *testing.T) {
	var captured model.ContactSubmission
	now := time.Date(2025, 1, 2, 3, 4, 5, 6000000, time.UTC)
	mock := &mockContactService{
		submitFunc: func(ctx context.Context, sub model.ContactSubmission) (*model.ContactMessage, error) {
			captured = sub
			return &model.ContactMessage{
				ID: "abc", Name: sub.Name, Email: sub.Email, Subject: sub.Subject, Message: sub.Message,
				Status: model.ContactStatusNew, CreatedAt: now,
			}, nil
		},
	}
	h := NewContactHandler(mock, nil)

	body := `{"name":"Ana","email":"ana@x.com","subject":"Hi","message":"1234567890"}`
	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.Submit(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, model.ContactSubmission{Name: "Ana", Email: "ana@x.com", Subject: "Hi", Message: "1234567890"}, captured)

	var raw map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&raw))
	assert.Equal(t, "abc", raw["id"])
	assert.Equal(t, "new", raw["status"])
	assert.Equal(t, "2025-01-02T03:04:05.006Z", raw["createdAt"])
	assert.Contains(t, raw, "reply")
	assert.Nil(t, raw["reply"])
	assert.Contains(t, raw, "repliedAt")
	assert.Nil(t, raw["repliedAt"])
}

func TestContactHandler_Submit_ValidationError(t *testing.T) {
	mock := &mockContactService{
		submitFunc: func(ctx context.Context, sub model.ContactSubmission) (*model.ContactMessage, error) {
			return nil, &service.ValidationError{Violations: []service.FieldViolation{
				{Field: "name", Message: "Name is required"},
			}}
		},
	}
	metrics := NewMetrics()
	h := NewContactHandler(mock, metrics)

	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	h.Submit(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeError(t, rec)
	assert.Equal(t, "Validation failed", resp.Error)
	assert.Contains(t, resp.Message, "name")
	assert.Equal(t, "Name is required", resp.Fields["name"])
}

func TestContactHandler_Submit_InvalidJSON(t *testing.T) {
	called := false
	mock := &mockContactService{
		submitFunc: func(ctx context.Context, sub model.ContactSubmission) (*model.ContactMessage, error) {
			called = true
			return nil, nil
		},
	}
	h := NewContactHandler(mock, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader("{bad json"))
	rec := httptest.NewRecorder()
	h.Submit(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid JSON body", decodeError(t, rec).Message)
	assert.False(t, called)
}

func TestContactHandler_Submit_EmptyBodyIsValidatedAsEmptyObject(t *testing.T) {
	var captured *model.ContactSubmission
	mock := &mockContactService{
		submitFunc: func(ctx context.Context, sub model.ContactSubmission) (*model.ContactMessage, error) {
			captured = &sub
			return nil, &service.ValidationError{Violations: []service.FieldViolation{{Field: "name", Message: "Name is required"}}}
		},
	}
	h := NewContactHandler(mock, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/contact", http.NoBody)
	rec := httptest.NewRecorder()
	h.Submit(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, captured)
	assert.Equal(t, model.ContactSubmission{}, *captured)
}

func TestContactHandler_Submit_ServiceError(t *testing.T) {
	mock := &mockContactService{
		submitFunc: func(ctx context.Context, sub model.ContactSubmission) (*model.ContactMessage, error) {
			return nil, errors.New("db connection lost")
		},
	}
	h := NewContactHandler(mock, nil)

	body := `{"name":"Ana","email":"ana@x.com","subject":"Hi","message":"1234567890"}`
	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Submit(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	resp := decodeError(t, rec)
	assert.Equal(t, "Failed to create message", resp.Error)
	assert.NotContains(t, rec.Body.String(), "db connection lost")
}

func TestContactHandler_Submit_BodyTooLarge(t *testing.T) {
	h := NewContactHandler(&mockContactService{}, nil)

	body := `{"name":"` + strings.Repeat("a", maxBodyBytes+1) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Submit(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// ---------------------------------------------------------------------------
// List
// ---------------------------------------------------------------------------

func TestContactHandler_List_Success(t *testing.T) {
	now := time.Now()
	messages := []*model.ContactMessage{
		{ID: "2", Name: "Bo", Status: model.ContactStatusNew, CreatedAt: now},
		{ID: "1", Name: "Ana", Status: model.ContactStatusNew, CreatedAt: now.Add(-time.Minute)},
	}
	mock := &mockContactService{
		listFunc: func(ctx context.Context, opts model.ContactListOptions) ([]*model.ContactMessage, error) {
			return messages, nil
		},
	}
	h := NewContactHandler(mock, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/contact", nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var got []*model.ContactMessage
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	require.Len(t, got, 2)
	assert.Equal(t, "2", got[0].ID)
}

func TestContactHandler_List_EmptyIsArray(t *testing.T) {
	h := NewContactHandler(&mockContactService{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/contact", nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))
}

func TestContactHandler_List_ForwardsQuery(t *testing.T) {
	tests := []struct {
		query string
		want  model.ContactListOptions
	}{
		{"", model.ContactListOptions{}},
		{"?status=replied", model.ContactListOptions{Status: model.ContactStatusReplied}},
		{"?status=all", model.ContactListOptions{}},
		{"?limit=10&offset=20", model.ContactListOptions{Limit: 10, Offset: 20}},
		{"?limit=0&offset=-1", model.ContactListOptions{}},
		{"?limit=500", model.ContactListOptions{}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			var captured model.ContactListOptions
			mock := &mockContactService{
				listFunc: func(ctx context.Context, opts model.ContactListOptions) ([]*model.ContactMessage, error) {
					captured = opts
					return nil, nil
				},
			}
			h := NewContactHandler(mock, nil)

			req := httptest.NewRequest(http.MethodGet, "/api/contact"+tt.query, nil)
			rec := httptest.NewRecorder()
			h.List(rec, req)

			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.want, captured)
		})
	}
}

func TestContactHandler_List_ServiceError(t *testing.T) {
	mock := &mockContactService{
		listFunc: func(ctx context.Context, opts model.ContactListOptions) ([]*model.ContactMessage, error) {
			return nil, errors.New("database error")
		},
	}
	h := NewContactHandler(mock, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/contact", nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Failed to fetch messages", decodeError(t, rec).Error)
}

// ---------------------------------------------------------------------------
// Get / Reply
// ---------------------------------------------------------------------------

func TestContactHandler_Get_NotFound(t *testing.T) {
	h := NewContactHandler(&mockContactService{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/contact/missing", nil)
	rec := httptest.NewRecorder()
	h.Get(rec, req, "missing")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Message not found", decodeError(t, rec).Error)
}

func TestContactHandler_Get_ServiceError(t *testing.T) {
	mock := &mockContactService{
		getFunc: func(ctx context.Context, id string) (*model.ContactMessage, error) {
			return nil, errors.New("timeout")
		},
	}
	h := NewContactHandler(mock, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/contact/x", nil)
	rec := httptest.NewRecorder()
	h.Get(rec, req, "x")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Failed to fetch message", decodeError(t, rec).Error)
}

func TestContactHandler_Reply_Success(t *testing.T) {
	var gotID string
	var gotReply model.ContactReply
	mock := &mockContactService{
		replyFunc: func(ctx context.Context, id string, reply model.ContactReply) (*model.ContactMessage, error) {
			gotID, gotReply = id, reply
			now := time.Now()
			return &model.ContactMessage{ID: id, Status: model.ContactStatusReplied, Reply: &reply.Reply, RepliedAt: &now}, nil
		},
	}
	h := NewContactHandler(mock, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/contact/abc/reply", strings.NewReader(`{"reply":"Thanks!"}`))
	rec := httptest.NewRecorder()
	h.Reply(rec, req, "abc")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "abc", gotID)
	assert.Equal(t, "Thanks!", gotReply.Reply)
	var got model.ContactMessage
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, model.ContactStatusReplied, got.Status)
}

func TestContactHandler_Reply_ServiceError(t *testing.T) {
	mock := &mockContactService{
		replyFunc: func(ctx context.Context, id string, reply model.ContactReply) (*model.ContactMessage, error) {
			return nil, errors.New("write failed")
		},
	}
	h := NewContactHandler(mock, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/contact/abc/reply", strings.NewReader(`{"reply":"x"}`))
	rec := httptest.NewRecorder()
	h.Reply(rec, req, "abc")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Failed to send reply", decodeError(t, rec).Error)
}

func TestContactHandler_Reply_InvalidJSON(t *testing.T) {
	h := NewContactHandler(&mockContactService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/contact/abc/reply", strings.NewReader(`{"reply":`))
	rec := httptest.NewRecorder()
	h.Reply(rec, req, "abc")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
