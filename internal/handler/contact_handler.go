package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/writingportfolio/backend/internal/catalog"
	"github.com/writingportfolio/backend/internal/model"
	"github.com/writingportfolio/backend/internal/repository"
	"github.com/writingportfolio/backend/internal/service"
)

const (
	maxBodyBytes = 1 << 20

	defaultListLimit = 100
	maxListLimit     = 1000
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report JSON field names rather than Go field names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ContactHandler handles contact form submission, lookup, listing,
// status changes and statistics.
type ContactHandler struct {
	contactService service.ContactService
}

// NewContactHandler creates a ContactHandler with the given service.
func NewContactHandler(contactService service.ContactService) *ContactHandler {
	return &ContactHandler{contactService: contactService}
}

// submitRequest is the expected JSON body for POST /api/contact.
// Pointers make "required" a presence check: "" is accepted, absent or null is not.
type submitRequest struct {
	Name    *string `json:"name" validate:"required"`
	Email   *string `json:"email" validate:"required,email"`
	Service *string `json:"service" validate:"required"`
	Message *string `json:"message" validate:"required"`
}

type submitResponse struct {
	Message string `json:"message"`
	ID      string `json:"id"`
	Status  string `json:"status"`
}

// Submit handles POST /api/contact.
// All four fields must be present; email must be a valid address.
func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if detail, fields, ok := decodeSubmit(w, r, &req); !ok {
		contactSubmissions.WithLabelValues("invalid").Inc()
		writeValidationError(w, detail, fields)
		return
	}

	c := &model.Contact{
		Name:    *req.Name,
		Email:   *req.Email,
		Service: *req.Service,
		Message: *req.Message,
	}
	if err := h.contactService.Submit(r.Context(), c); err != nil {
		contactSubmissions.WithLabelValues("failed").Inc()
		writeInternalError(w, r, "submit contact failed", err)
		return
	}

	contactSubmissions.WithLabelValues("accepted").Inc()
	writeJSON(w, http.StatusOK, submitResponse{
		Message: "Contact form submitted successfully",
		ID:      c.ID,
		Status:  "success",
	})
}

// decodeSubmit parses and validates the body. On failure it returns a
// summary and a field -> reason map suitable for a 422 response.
func decodeSubmit(w http.ResponseWriter, r *http.Request, req *submitRequest) (string, map[string]string, bool) {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(req); err != nil {
		var typeErr *json.UnmarshalTypeError
		var maxErr *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return "Request body is required", nil, false
		case errors.As(err, &typeErr):
			if typeErr.Field == "" {
				return "Request body must be a JSON object", nil, false
			}
			return "Invalid request body", map[string]string{typeErr.Field: "must be " + jsonTypeName(typeErr.Type.Kind())}, false
		case errors.As(err, &maxErr):
			return "Request body too large", nil, false
		default:
			return "Malformed JSON body", nil, false
		}
	}
	// Exactly one JSON value; anything after it is malformed.
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return "Request body too large", nil, false
		}
		return "Malformed JSON body", nil, false
	}

	if err := validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return "Invalid request body", nil, false
		}
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fe.Field()] = validationMessage(fe)
		}
		return "Invalid request body", fields, false
	}
	return "", nil, true
}

// jsonTypeName names the JSON type a Go kind decodes from.
func jsonTypeName(k reflect.Kind) string {
	switch k {
	case reflect.String:
		return "a string"
	case reflect.Bool:
		return "a boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return "a number"
	case reflect.Slice, reflect.Array:
		return "an array"
	default:
		return "an object"
	}
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "field required"
	case "email":
		return "value is not a valid email address"
	default:
		return "failed " + fe.Tag() + " validation"
	}
}

// listResponse is the JSON response for GET /api/contacts.
type listResponse struct {
	Contacts []*model.Contact `json:"contacts"`
	Total    int64            `json:"total"`
	Skip     int              `json:"skip"`
	Limit    int              `json:"limit"`
}

// List handles GET /api/contacts.
// Supports query params: skip (default 0), limit (default 100, max 1000).
func (h *ContactHandler) List(w http.ResponseWriter, r *http.Request) {
	opts := model.ContactListOptions{Skip: 0, Limit: defaultListLimit}
	fields := map[string]string{}

	q := r.URL.Query()
	if s := q.Get("skip"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			fields["skip"] = "must be a non-negative integer"
		} else {
			opts.Skip = n
		}
	}
	if l := q.Get("limit"); l != "" {
		n, err := strconv.Atoi(l)
		if err != nil || n < 1 || n > maxListLimit {
			fields["limit"] = "must be an integer between 1 and " + strconv.Itoa(maxListLimit)
		} else {
			opts.Limit = n
		}
	}
	if len(fields) > 0 {
		writeValidationError(w, "Invalid query parameters", fields)
		return
	}

	page, err := h.contactService.List(r.Context(), opts)
	if err != nil {
		writeInternalError(w, r, "list contacts failed", err)
		return
	}

	// Return [] not null for empty lists
	contacts := page.Contacts
	if contacts == nil {
		contacts = []*model.Contact{}
	}

	writeJSON(w, http.StatusOK, listResponse{
		Contacts: contacts,
		Total:    page.Total,
		Skip:     page.Skip,
		Limit:    page.Limit,
	})
}

// Get handles GET /api/contacts/{id}.
func (h *ContactHandler) Get(w http.ResponseWriter, r *http.Request) {
	c, err := h.contactService.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "Contact not found")
			return
		}
		writeInternalError(w, r, "get contact failed", err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

type updateStatusResponse struct {
	Message string              `json:"message"`
	ID      string              `json:"id"`
	Status  model.ContactStatus `json:"status"`
}

// UpdateStatus handles PUT /api/contacts/{id}/status?status=X.
// X must be one of model.ContactStatuses; it is checked before the store is touched.
func (h *ContactHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	q := r.URL.Query()
	if !q.Has("status") {
		writeValidationError(w, "Invalid query parameters", map[string]string{"status": "field required"})
		return
	}
	status, err := model.ParseContactStatus(q.Get("status"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_status",
			"Invalid status. Must be one of: "+model.StatusList())
		return
	}

	if err := h.contactService.UpdateStatus(r.Context(), id, status); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "Contact not found")
			return
		}
		writeInternalError(w, r, "update contact status failed", err)
		return
	}

	statusUpdates.WithLabelValues(string(status)).Inc()
	writeJSON(w, http.StatusOK, updateStatusResponse{
		Message: "Contact status updated successfully",
		ID:      id,
		Status:  status,
	})
}

type statsResponse struct {
	TotalContacts     int64  `json:"total_contacts"`
	NewContacts       int64  `json:"new_contacts"`
	InProgress        int64  `json:"in_progress"`
	CompletedProjects int64  `json:"completed_projects"`
	RecentContacts    int64  `json:"recent_contacts"`
	ExperienceYears   int    `json:"experience_years"`
	SuccessRate       string `json:"success_rate"`
}

// Stats handles GET /api/stats. Counts are recomputed on every call.
func (h *ContactHandler) Stats(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	stats, err := h.contactService.Stats(r.Context())
	if err != nil {
		writeInternalError(w, r, "contact stats failed", err)
		return
	}
	statsLatency.Observe(time.Since(start).Seconds())

	writeJSON(w, http.StatusOK, statsResponse{
		TotalContacts:     stats.Total,
		NewContacts:       stats.New,
		InProgress:        stats.InProgress,
		CompletedProjects: stats.Completed,
		RecentContacts:    stats.Recent,
		ExperienceYears:   catalog.ExperienceYears,
		SuccessRate:       catalog.SuccessRate,
	})
}
