package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/Rrens/reply-assistant/internal/api/middleware"
	"github.com/Rrens/reply-assistant/internal/api/response"
	"github.com/Rrens/reply-assistant/internal/domain"
	"github.com/Rrens/reply-assistant/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// PersonHandler handles person and reply example endpoints
type PersonHandler struct {
	personService *service.PersonService
}

// NewPersonHandler creates a new person handler
func NewPersonHandler(personService *service.PersonService) *PersonHandler {
	return &PersonHandler{personService: personService}
}

// List handles listing the account's persons
func (h *PersonHandler) List(w http.ResponseWriter, r *http.Request) {
	accountID, ok := middleware.GetAccountID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	persons, err := h.personService.List(r.Context(), accountID)
	if err != nil {
		response.InternalError(w, err.Error())
		return
	}

	response.OK(w, persons)
}

// Create handles person creation
func (h *PersonHandler) Create(w http.ResponseWriter, r *http.Request) {
	accountID, ok := middleware.GetAccountID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	var input domain.PersonCreate
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := validate.Struct(input); err != nil {
		response.BadRequest(w, validationMessages(err))
		return
	}

	person, err := h.personService.Create(r.Context(), accountID, input)
	if err != nil {
		response.InternalError(w, err.Error())
		return
	}

	response.Created(w, person)
}

// Get handles getting a person by ID
func (h *PersonHandler) Get(w http.ResponseWriter, r *http.Request) {
	accountID, personID, ok := personScope(w, r)
	if !ok {
		return
	}

	person, err := h.personService.Get(r.Context(), accountID, personID)
	if err != nil {
		writePersonError(w, err)
		return
	}

	response.OK(w, person)
}

// Update handles renaming a person
func (h *PersonHandler) Update(w http.ResponseWriter, r *http.Request) {
	accountID, personID, ok := personScope(w, r)
	if !ok {
		return
	}

	var input domain.PersonUpdate
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := validate.Struct(input); err != nil {
		response.BadRequest(w, validationMessages(err))
		return
	}

	person, err := h.personService.Update(r.Context(), accountID, personID, input)
	if err != nil {
		writePersonError(w, err)
		return
	}

	response.OK(w, person)
}

// Delete handles deleting a person and its reply examples
func (h *PersonHandler) Delete(w http.ResponseWriter, r *http.Request) {
	accountID, personID, ok := personScope(w, r)
	if !ok {
		return
	}

	if err := h.personService.Delete(r.Context(), accountID, personID); err != nil {
		writePersonError(w, err)
		return
	}

	response.NoContent(w)
}

// ListExamples handles listing a person's reply examples, newest first
func (h *PersonHandler) ListExamples(w http.ResponseWriter, r *http.Request) {
	accountID, personID, ok := personScope(w, r)
	if !ok {
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			response.BadRequest(w, "invalid limit")
			return
		}
		limit = n
	}

	examples, err := h.personService.ListExamples(r.Context(), accountID, personID, limit)
	if err != nil {
		writePersonError(w, err)
		return
	}

	response.OK(w, examples)
}

func personScope(w http.ResponseWriter, r *http.Request) (string, uuid.UUID, bool) {
	accountID, ok := middleware.GetAccountID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return "", uuid.Nil, false
	}

	personID, err := uuid.Parse(chi.URLParam(r, "personID"))
	if err != nil {
		response.BadRequest(w, "invalid person ID")
		return "", uuid.Nil, false
	}

	return accountID, personID, true
}

func writePersonError(w http.ResponseWriter, err error) {
	if errors.Is(err, service.ErrPersonNotFound) {
		response.NotFound(w, err.Error())
		return
	}
	response.InternalError(w, err.Error())
}
