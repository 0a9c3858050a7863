package api

import (
	"net/http"

	"skillmarket/internal/entities"
	"skillmarket/internal/repository"
	"skillmarket/internal/service"
)

type AdminHandler struct {
	Bookings *service.BookingService
	Users    repository.UserRepository
}

func NewAdminHandler(bookings *service.BookingService, users repository.UserRepository) *AdminHandler {
	return &AdminHandler{Bookings: bookings, Users: users}
}

func (h *AdminHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	status := r.URL.Query().Get("status")

	bookings, err := h.Bookings.AdminList(date, status)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bookings)
}

func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Users.List()
	if err != nil {
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}
	responses := make([]entities.UserResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, entities.UserResponse{
			ID:        u.ID,
			Name:      u.Name,
			Email:     u.Email,
			Phone:     u.Phone,
			Role:      u.Role,
			CreatedAt: u.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, responses)
}
