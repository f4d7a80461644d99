package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/healspace/booking/internal/repository"
)

// ProfileHandler serves the authenticated resident's own profile.
type ProfileHandler struct {
	Users *repository.UserRepo
}

func NewProfileHandler(users *repository.UserRepo) *ProfileHandler {
	return &ProfileHandler{Users: users}
}

type profileResp struct {
	ID         uint64  `json:"id"`
	Email      string  `json:"email"`
	FirstName  string  `json:"first_name"`
	LastName   string  `json:"last_name"`
	Role       string  `json:"role"`
	Birthday   *string `json:"birthday,omitempty"`
	RoomNumber *string `json:"room_number,omitempty"`
	Phone      *string `json:"phone,omitempty"`
}

type updateProfileReq struct {
	FirstName  string  `json:"first_name"`
	LastName   string  `json:"last_name"`
	Birthday   *string `json:"birthday"`
	RoomNumber *string `json:"room_number"`
	Phone      *string `json:"phone"`
}

// Me returns the current user's profile.
func (h *ProfileHandler) Me(c echo.Context) error {
	uid, ok := getUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
	}

	resp := profileResp{
		ID:         u.ID,
		Email:      u.Email,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		Role:       u.Role,
		RoomNumber: u.RoomNumber,
		Phone:      u.Phone,
	}
	if u.Birthday != nil {
		bd := u.Birthday.Format("2006-01-02")
		resp.Birthday = &bd
	}
	return c.JSON(http.StatusOK, echo.Map{"user": resp})
}

// Update changes the current user's profile fields.  Email and role are
// immutable through this endpoint.
func (h *ProfileHandler) Update(c echo.Context) error {
	uid, ok := getUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req updateProfileReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	if req.FirstName == "" || req.LastName == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "first_name/last_name required"})
	}

	var birthday *time.Time
	if req.Birthday != nil && *req.Birthday != "" {
		bd, err := time.Parse("2006-01-02", *req.Birthday)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "birthday must be YYYY-MM-DD"})
		}
		birthday = &bd
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Users.UpdateProfile(ctx, uid, req.FirstName, req.LastName, birthday, req.RoomNumber, req.Phone); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return h.Me(c)
}
