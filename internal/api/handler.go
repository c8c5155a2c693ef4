package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"shareit/internal/apperr"
	"shareit/internal/domain"
	"shareit/internal/models"

	"github.com/go-chi/chi/v5"
)

// sharerHeader carries the id of the user making the request.
const sharerHeader = "X-Sharer-User-Id"

type Handler struct {
	users    domain.UserService
	items    domain.ItemService
	bookings domain.BookingService
}

func NewHandler(users domain.UserService, items domain.ItemService, bookings domain.BookingService) *Handler {
	return &Handler{users: users, items: items, bookings: bookings}
}

func (h *Handler) routes(r chi.Router) {
	r.Route("/users", func(r chi.Router) {
		r.Post("/", h.createUser)
		r.Get("/", h.listUsers)
		r.Get("/{id}", h.getUser)
		r.Patch("/{id}", h.updateUser)
		r.Delete("/{id}", h.deleteUser)
	})

	r.Route("/items", func(r chi.Router) {
		r.Post("/", h.createItem)
		r.Get("/", h.listOwnItems)
		r.Get("/search", h.searchItems)
		r.Get("/{id}", h.getItem)
		r.Patch("/{id}", h.updateItem)
		r.Post("/{id}/comment", h.addComment)
	})

	r.Route("/bookings", func(r chi.Router) {
		r.Post("/", h.createBooking)
		r.Get("/", h.listBookingsForBooker)
		r.Get("/owner", h.listBookingsForOwner)
		r.Get("/{id}", h.getBooking)
		r.Patch("/{id}", h.decideBooking)
	})
}

// Request and response shapes. The camelCase field names are part of the
// public contract.

type createUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type updateUserRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}

type userResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type createItemRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Available   *bool  `json:"available"`
}

type updateItemRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Available   *bool   `json:"available"`
}

type itemResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Available   bool   `json:"available"`
}

type createBookingRequest struct {
	ItemID int64      `json:"itemId"`
	Start  *time.Time `json:"start"`
	End    *time.Time `json:"end"`
}

type commentRequest struct {
	Text string `json:"text"`
}

func toUserResponse(u *models.User) userResponse {
	return userResponse{ID: u.ID, Name: u.Name, Email: u.Email}
}

func toItemResponse(i *models.Item) itemResponse {
	return itemResponse{ID: i.ID, Name: i.Name, Description: i.Description, Available: i.Available}
}

// sharerID resolves the calling user from the request header.
func sharerID(r *http.Request) (int64, error) {
	raw := r.Header.Get(sharerHeader)
	if raw == "" {
		return 0, apperr.Validation("%s header is required", sharerHeader)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, apperr.Validation("%s header must be a number", sharerHeader)
	}
	return id, nil
}

func pathID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, apperr.Validation("invalid id: %s", raw)
	}
	return id, nil
}

func decodeBody(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperr.Validation("invalid request body")
	}
	return nil
}

// Users

func (h *Handler) createUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	user, err := h.users.Create(r.Context(), domain.CreateUser{Name: req.Name, Email: req.Email})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(user))
}

func (h *Handler) updateUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req updateUserRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	user, err := h.users.Update(r.Context(), id, domain.UpdateUser{Name: req.Name, Email: req.Email})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(user))
}

func (h *Handler) getUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	user, err := h.users.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(user))
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) deleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.users.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// Items

func (h *Handler) createItem(w http.ResponseWriter, r *http.Request) {
	callerID, err := sharerID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req createItemRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	item, err := h.items.Create(r.Context(), callerID, domain.CreateItem{
		Name:        req.Name,
		Description: req.Description,
		Available:   req.Available,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toItemResponse(item))
}

func (h *Handler) updateItem(w http.ResponseWriter, r *http.Request) {
	callerID, err := sharerID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	itemID, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req updateItemRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	item, err := h.items.Update(r.Context(), itemID, callerID, domain.UpdateItem{
		Name:        req.Name,
		Description: req.Description,
		Available:   req.Available,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toItemResponse(item))
}

func (h *Handler) getItem(w http.ResponseWriter, r *http.Request) {
	itemID, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	detail, err := h.items.Get(r.Context(), itemID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (h *Handler) listOwnItems(w http.ResponseWriter, r *http.Request) {
	callerID, err := sharerID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	details, err := h.items.ListByOwner(r.Context(), callerID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, details)
}

func (h *Handler) searchItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.items.Search(r.Context(), r.URL.Query().Get("text"))
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]itemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, toItemResponse(item))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) addComment(w http.ResponseWriter, r *http.Request) {
	callerID, err := sharerID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	itemID, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req commentRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	comment, err := h.items.AddComment(r.Context(), callerID, itemID, req.Text)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, comment)
}

// Bookings

func (h *Handler) createBooking(w http.ResponseWriter, r *http.Request) {
	callerID, err := sharerID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req createBookingRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Start == nil || req.End == nil {
		writeError(w, apperr.Validation("start and end are required"))
		return
	}

	detail, err := h.bookings.Create(r.Context(), callerID, domain.CreateBooking{
		ItemID: req.ItemID,
		Start:  *req.Start,
		End:    *req.End,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (h *Handler) decideBooking(w http.ResponseWriter, r *http.Request) {
	callerID, err := sharerID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	bookingID, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	raw := r.URL.Query().Get("approved")
	if raw == "" {
		writeError(w, apperr.Validation("approved parameter is required"))
		return
	}
	approved, err := strconv.ParseBool(raw)
	if err != nil {
		writeError(w, apperr.Validation("approved must be a boolean"))
		return
	}

	detail, err := h.bookings.UpdateStatus(r.Context(), callerID, bookingID, approved)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (h *Handler) getBooking(w http.ResponseWriter, r *http.Request) {
	callerID, err := sharerID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	bookingID, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	detail, err := h.bookings.Get(r.Context(), callerID, bookingID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (h *Handler) listBookingsForBooker(w http.ResponseWriter, r *http.Request) {
	callerID, err := sharerID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	details, err := h.bookings.ListForBooker(r.Context(), callerID, stateParam(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, details)
}

func (h *Handler) listBookingsForOwner(w http.ResponseWriter, r *http.Request) {
	callerID, err := sharerID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	details, err := h.bookings.ListForOwner(r.Context(), callerID, stateParam(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, details)
}

// stateParam defaults an absent or empty state filter to ALL; unknown values
// still reach the service and fail there.
func stateParam(r *http.Request) string {
	state := r.URL.Query().Get("state")
	if state == "" {
		return string(models.FilterAll)
	}
	return state
}
