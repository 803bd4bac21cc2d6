package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/writingportfolio/backend/internal/model"
	"github.com/writingportfolio/backend/internal/repository"
)

// ---------------------------------------------------------------------------
// Mock ContactService
// ---------------------------------------------------------------------------

type mockContactService struct {
	submitFunc       func(ctx context.Context, c *model.Contact) error
	getFunc          func(ctx context.Context, id string) (*model.Contact, error)
	listFunc         func(ctx context.Context, opts model.ContactListOptions) (*model.ContactPage, error)
	updateStatusFunc func(ctx context.Context, id string, status model.ContactStatus) error
	statsFunc        func(ctx context.Context) (*model.ContactStats, error)
}

func (m *mockContactService) Submit(ctx context.Context, c *model.Contact) error {
	if m.submitFunc != nil {
		return m.submitFunc(ctx, c)
	}
	c.ID = "generated-id"
	return nil
}

func (m *mockContactService) Get(ctx context.Context, id string) (*model.Contact, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, id)
	}
	return nil, repository.ErrNotFound
}

func (m *mockContactService) List(ctx context.Context, opts model.ContactListOptions) (*model.ContactPage, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, opts)
	}
	return &model.ContactPage{Skip: opts.Skip, Limit: opts.Limit}, nil
}

func (m *mockContactService) UpdateStatus(ctx context.Context, id string, status model.ContactStatus) error {
	if m.updateStatusFunc != nil {
		return m.updateStatusFunc(ctx, id, status)
	}
	return nil
}

func (m *mockContactService) Stats(ctx context.Context) (*model.ContactStats, error) {
	if m.statsFunc != nil {
		return m.statsFunc(ctx)
	}
	return &model.ContactStats{}, nil
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorResponse {
	t.Helper()
	var resp errorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

const validBody = `{"name":"Alice","email":"alice@example.com","service":"Academic Writing","message":"Hello!"}`

// ---------------------------------------------------------------------------
// POST /api/contact tests
// ---------------------------------------------------------------------------

func TestContactHandler_Submit_Success(t *testing.T) {
	var captured *model.Contact
	h := NewContactHandler(&mockContactService{
		submitFunc: func(ctx context.Context, c *model.Contact) error {
			captured = c
			c.ID = "abc-123"
			return nil
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(validBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.Submit(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	require.NotNil(t, captured)
	assert.Equal(t, "Alice", captured.Name)
	assert.Equal(t, "alice@example.com", captured.Email)
	assert.Equal(t, "Academic Writing", captured.Service)
	assert.Equal(t, "Hello!", captured.Message)

	var resp submitResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "abc-123", resp.ID)
	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, "Contact form submitted successfully", resp.Message)
}

func TestContactHandler_Submit_InvalidEmail(t *testing.T) {
	called := false
	h := NewContactHandler(&mockContactService{
		submitFunc: func(ctx context.Context, c *model.Contact) error {
			called = true
			return nil
		},
	})

	body := `{"name":"Bob","email":"invalid-email","service":"Technical Writing","message":"Hi"}`
	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Submit(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.False(t, called, "service must not be called for invalid input")

	resp := decodeError(t, rec)
	assert.Equal(t, "validation_failed", resp.Error)
	assert.Equal(t, "value is not a valid email address", resp.Fields["email"])
}

func TestContactHandler_Submit_MissingFields(t *testing.T) {
	h := NewContactHandler(&mockContactService{})

	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(`{"name":"Test User"}`))
	rec := httptest.NewRecorder()
	h.Submit(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	resp := decodeError(t, rec)
	assert.Equal(t, "field required", resp.Fields["email"])
	assert.Equal(t, "field required", resp.Fields["service"])
	assert.Equal(t, "field required", resp.Fields["message"])
	assert.NotContains(t, resp.Fields, "name")
}

func TestContactHandler_Submit_EmptyStringIsPresent(t *testing.T) {
	var captured *model.Contact
	h := NewContactHandler(&mockContactService{
		submitFunc: func(ctx context.Context, c *model.Contact) error {
			captured = c
			c.ID = "abc"
			return nil
		},
	})

	body := `{"name":"","email":"a@b.com","service":"","message":""}`
	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Submit(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NotNil(t, captured)
	assert.Equal(t, "", captured.Name)
	assert.Equal(t, "a@b.com", captured.Email)
}

func TestContactHandler_Submit_NullIsMissing(t *testing.T) {
	h := NewContactHandler(&mockContactService{})

	body := `{"name":null,"email":"a@b.com","service":"x","message":"y"}`
	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Submit(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "field required", decodeError(t, rec).Fields["name"])
}

func TestContactHandler_Submit_EmptyEmailIsInvalid(t *testing.T) {
	h := NewContactHandler(&mockContactService{})

	body := `{"name":"a","email":"","service":"x","message":"y"}`
	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Submit(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "value is not a valid email address", decodeError(t, rec).Fields["email"])
}

func TestContactHandler_Submit_NonObjectBody(t *testing.T) {
	for _, body := range []string{`[1,2]`, `"hello"`, `42`, `true`} {
		t.Run(body, func(t *testing.T) {
			called := false
			h := NewContactHandler(&mockContactService{
				submitFunc: func(ctx context.Context, c *model.Contact) error {
					called = true
					return nil
				},
			})

			req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(body))
			rec := httptest.NewRecorder()
			h.Submit(rec, req)

			assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
			assert.False(t, called)
			raw := rec.Body.String()
			assert.NotContains(t, raw, "submitRequest")
			assert.NotContains(t, raw, "handler.")

			var resp errorResponse
			require.NoError(t, json.Unmarshal([]byte(raw), &resp))
			assert.Equal(t, "Request body must be a JSON object", resp.Detail)
			assert.Empty(t, resp.Fields)
		})
	}
}

func TestContactHandler_Submit_TypeNamesAreJSONTypes(t *testing.T) {
	tests := map[string]string{
		`{"name":123,"email":"a@b.com","service":"x","message":"y"}`:     "must be a string",
		`{"name":"a","email":"a@b.com","service":["x"],"message":"y"}`:  "must be a string",
		`{"name":"a","email":"a@b.com","service":"x","message":{"k":1}}`: "must be a string",
	}
	for body, want := range tests {
		h := NewContactHandler(&mockContactService{})
		req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(body))
		rec := httptest.NewRecorder()
		h.Submit(rec, req)

		require.Equal(t, http.StatusUnprocessableEntity, rec.Code, body)
		raw := rec.Body.String()
		assert.NotContains(t, raw, "*string", body)
		assert.Contains(t, raw, want, body)
	}
}

func TestJSONTypeName(t *testing.T) {
	assert.Equal(t, "a string", jsonTypeName(reflect.String))
	assert.Equal(t, "a number", jsonTypeName(reflect.Int64))
	assert.Equal(t, "a number", jsonTypeName(reflect.Float64))
	assert.Equal(t, "a boolean", jsonTypeName(reflect.Bool))
	assert.Equal(t, "an array", jsonTypeName(reflect.Slice))
	assert.Equal(t, "an object", jsonTypeName(reflect.Struct))
}

func TestContactHandler_Submit_TrailingData(t *testing.T) {
	for _, suffix := range []string{" trailing", " {}", `{"name":"x"}`} {
		t.Run(suffix, func(t *testing.T) {
			called := false
			h := NewContactHandler(&mockContactService{
				submitFunc: func(ctx context.Context, c *model.Contact) error {
					called = true
					return nil
				},
			})

			req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(validBody+suffix))
			rec := httptest.NewRecorder()
			h.Submit(rec, req)

			assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
			assert.False(t, called, "service must not see a body with trailing data")
			assert.Equal(t, "Malformed JSON body", decodeError(t, rec).Detail)
		})
	}
}

func TestContactHandler_Submit_TrailingWhitespaceAccepted(t *testing.T) {
	h := NewContactHandler(&mockContactService{})

	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(validBody+"\n  \n"))
	rec := httptest.NewRecorder()
	h.Submit(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestContactHandler_Submit_WrongType(t *testing.T) {
	h := NewContactHandler(&mockContactService{})

	body := `{"name":123,"email":"a@b.com","service":"x","message":"y"}`
	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Submit(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "must be a string", decodeError(t, rec).Fields["name"])
}

func TestContactHandler_Submit_InvalidJSON(t *testing.T) {
	h := NewContactHandler(&mockContactService{})

	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader("{bad json"))
	rec := httptest.NewRecorder()
	h.Submit(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "Malformed JSON body", decodeError(t, rec).Detail)
}

func TestContactHandler_Submit_EmptyBody(t *testing.T) {
	h := NewContactHandler(&mockContactService{})

	req := httptest.NewRequest(http.MethodPost, "/api/contact", http.NoBody)
	rec := httptest.NewRecorder()
	h.Submit(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "Request body is required", decodeError(t, rec).Detail)
}

func TestContactHandler_Submit_BodyTooLarge(t *testing.T) {
	h := NewContactHandler(&mockContactService{})

	big, _ := json.Marshal(map[string]string{
		"name": "x", "email": "a@b.com", "service": "x",
		"message": strings.Repeat("a", maxBodyBytes+1),
	})
	req := httptest.NewRequest(http.MethodPost, "/api/contact", bytes.NewReader(big))
	rec := httptest.NewRecorder()
	h.Submit(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestContactHandler_Submit_ServiceError(t *testing.T) {
	h := NewContactHandler(&mockContactService{
		submitFunc: func(ctx context.Context, c *model.Contact) error {
			return errors.New("db connection lost")
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(validBody))
	rec := httptest.NewRecorder()
	h.Submit(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	resp := decodeError(t, rec)
	assert.Equal(t, "Internal server error", resp.Detail)
	assert.NotContains(t, rec.Body.String(), "db connection lost")
}

// ---------------------------------------------------------------------------
// GET /api/contacts tests
// ---------------------------------------------------------------------------

func TestContactHandler_List_DefaultPagination(t *testing.T) {
	var capturedOpts model.ContactListOptions
	h := NewContactHandler(&mockContactService{
		listFunc: func(ctx context.Context, opts model.ContactListOptions) (*model.ContactPage, error) {
			capturedOpts = opts
			return &model.ContactPage{Skip: opts.Skip, Limit: opts.Limit}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/contacts", nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, model.ContactListOptions{Skip: 0, Limit: 100}, capturedOpts)

	var resp map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, []any{}, resp["contacts"], "empty list must be [] not null")
	assert.EqualValues(t, 0, resp["total"])
	assert.EqualValues(t, 0, resp["skip"])
	assert.EqualValues(t, 100, resp["limit"])
}

func TestContactHandler_List_ForwardsPagination(t *testing.T) {
	now := time.Now().UTC()
	var capturedOpts model.ContactListOptions
	h := NewContactHandler(&mockContactService{
		listFunc: func(ctx context.Context, opts model.ContactListOptions) (*model.ContactPage, error) {
			capturedOpts = opts
			return &model.ContactPage{
				Contacts: []*model.Contact{
					{ID: "1", Email: "a@b.com", Status: model.StatusNew, CreatedAt: now},
				},
				Total: 21,
				Skip:  opts.Skip,
				Limit: opts.Limit,
			}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/contacts?skip=20&limit=10", nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, model.ContactListOptions{Skip: 20, Limit: 10}, capturedOpts)

	var resp listResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Len(t, resp.Contacts, 1)
	assert.EqualValues(t, 21, resp.Total)
	assert.Equal(t, 20, resp.Skip)
	assert.Equal(t, 10, resp.Limit)
}

func TestContactHandler_List_InvalidQuery(t *testing.T) {
	for _, q := range []string{"skip=-1", "skip=abc", "limit=0", "limit=1001", "limit=ten"} {
		t.Run(q, func(t *testing.T) {
			h := NewContactHandler(&mockContactService{
				listFunc: func(ctx context.Context, opts model.ContactListOptions) (*model.ContactPage, error) {
					t.Fatal("service must not be called")
					return nil, nil
				},
			})
			req := httptest.NewRequest(http.MethodGet, "/api/contacts?"+q, nil)
			rec := httptest.NewRecorder()
			h.List(rec, req)

			assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		})
	}
}

func TestContactHandler_List_ServiceError(t *testing.T) {
	h := NewContactHandler(&mockContactService{
		listFunc: func(ctx context.Context, opts model.ContactListOptions) (*model.ContactPage, error) {
			return nil, errors.New("database error")
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/contacts", nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

// ---------------------------------------------------------------------------
// GET /api/contacts/{id} tests
// ---------------------------------------------------------------------------

func TestContactHandler_Get_Success(t *testing.T) {
	created := time.Date(2026, 10, 1, 8, 0, 0, 0, time.UTC)
	h := NewContactHandler(&mockContactService{
		getFunc: func(ctx context.Context, id string) (*model.Contact, error) {
			return &model.Contact{
				ID: id, Name: "Alice", Email: "alice@example.com", Service: "Academic Writing",
				Message: "Hello!", Status: model.StatusNew, CreatedAt: created,
			}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/contacts/abc", nil)
	req.SetPathValue("id", "abc")
	rec := httptest.NewRecorder()
	h.Get(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "abc", resp["id"])
	assert.Equal(t, "new", resp["status"])
	assert.Equal(t, "2026-10-01T08:00:00Z", resp["created_at"])
	assert.NotContains(t, resp, "updated_at", "unset updated_at must be omitted")
	assert.NotContains(t, resp, "_id")
}

func TestContactHandler_Get_NotFound(t *testing.T) {
	h := NewContactHandler(&mockContactService{})

	req := httptest.NewRequest(http.MethodGet, "/api/contacts/nope", nil)
	req.SetPathValue("id", "nope")
	rec := httptest.NewRecorder()
	h.Get(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Contact not found", decodeError(t, rec).Detail)
}

func TestContactHandler_Get_ServiceError(t *testing.T) {
	h := NewContactHandler(&mockContactService{
		getFunc: func(ctx context.Context, id string) (*model.Contact, error) {
			return nil, errors.New("socket closed")
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/contacts/x", nil)
	req.SetPathValue("id", "x")
	rec := httptest.NewRecorder()
	h.Get(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

// ---------------------------------------------------------------------------
// PUT /api/contacts/{id}/status tests
// ---------------------------------------------------------------------------

func TestContactHandler_UpdateStatus_Success(t *testing.T) {
	var gotID string
	var gotStatus model.ContactStatus
	h := NewContactHandler(&mockContactService{
		updateStatusFunc: func(ctx context.Context, id string, status model.ContactStatus) error {
			gotID, gotStatus = id, status
			return nil
		},
	})

	req := httptest.NewRequest(http.MethodPut, "/api/contacts/abc/status?status=in_progress", nil)
	req.SetPathValue("id", "abc")
	rec := httptest.NewRecorder()
	h.UpdateStatus(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "abc", gotID)
	assert.Equal(t, model.StatusInProgress, gotStatus)

	var resp updateStatusResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "abc", resp.ID)
	assert.Equal(t, model.StatusInProgress, resp.Status)
}

func TestContactHandler_UpdateStatus_InvalidStatus(t *testing.T) {
	called := false
	h := NewContactHandler(&mockContactService{
		updateStatusFunc: func(ctx context.Context, id string, status model.ContactStatus) error {
			called = true
			return nil
		},
	})

	req := httptest.NewRequest(http.MethodPut, "/api/contacts/abc/status?status=invalid_status", nil)
	req.SetPathValue("id", "abc")
	rec := httptest.NewRecorder()
	h.UpdateStatus(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, called)
	resp := decodeError(t, rec)
	assert.Equal(t, "Invalid status. Must be one of: new, in_progress, completed, archived", resp.Detail)
}

func TestContactHandler_UpdateStatus_MissingStatus(t *testing.T) {
	h := NewContactHandler(&mockContactService{})

	req := httptest.NewRequest(http.MethodPut, "/api/contacts/abc/status", nil)
	req.SetPathValue("id", "abc")
	rec := httptest.NewRecorder()
	h.UpdateStatus(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestContactHandler_UpdateStatus_NotFound(t *testing.T) {
	h := NewContactHandler(&mockContactService{
		updateStatusFunc: func(ctx context.Context, id string, status model.ContactStatus) error {
			return repository.ErrNotFound
		},
	})

	req := httptest.NewRequest(http.MethodPut, "/api/contacts/missing/status?status=completed", nil)
	req.SetPathValue("id", "missing")
	rec := httptest.NewRecorder()
	h.UpdateStatus(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestContactHandler_UpdateStatus_ServiceError(t *testing.T) {
	h := NewContactHandler(&mockContactService{
		updateStatusFunc: func(ctx context.Context, id string, status model.ContactStatus) error {
			return errors.New("write concern failed")
		},
	})

	req := httptest.NewRequest(http.MethodPut, "/api/contacts/x/status?status=archived", nil)
	req.SetPathValue("id", "x")
	rec := httptest.NewRecorder()
	h.UpdateStatus(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

// ---------------------------------------------------------------------------
// GET /api/stats tests
// ---------------------------------------------------------------------------

func TestContactHandler_Stats_Success(t *testing.T) {
	h := NewContactHandler(&mockContactService{
		statsFunc: func(ctx context.Context) (*model.ContactStats, error) {
			return &model.ContactStats{Total: 9, New: 4, InProgress: 3, Completed: 1, Recent: 7}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	rec := httptest.NewRecorder()
	h.Stats(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp statsResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, statsResponse{
		TotalContacts:     9,
		NewContacts:       4,
		InProgress:        3,
		CompletedProjects: 1,
		RecentContacts:    7,
		ExperienceYears:   5,
		SuccessRate:       "100%",
	}, resp)
}

func TestContactHandler_Stats_ServiceError(t *testing.T) {
	h := NewContactHandler(&mockContactService{
		statsFunc: func(ctx context.Context) (*model.ContactStats, error) {
			return nil, errors.New("count failed")
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	rec := httptest.NewRecorder()
	h.Stats(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
