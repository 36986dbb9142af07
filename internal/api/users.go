package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mr1hm/go-disaster-relief/internal/models"
	"github.com/mr1hm/go-disaster-relief/internal/repository"
)

type userResponse struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	Name        string     `json:"name"`
	ZipCode     string     `json:"zipCode"`
	Status      string     `json:"status"`
	Balance     int64      `json:"balance"`
	LastAlertAt *time.Time `json:"lastAlertAt,omitempty"`
	LastAlertID string     `json:"lastAlertId,omitempty"`
	PayoutAt    *time.Time `json:"payoutAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

func toUserResponse(u *models.User) userResponse {
	return userResponse{
		ID:          u.ID,
		Email:       u.Email,
		Name:        u.DisplayName(),
		ZipCode:     u.ZipCode,
		Status:      string(u.Status),
		Balance:     u.Balance,
		LastAlertAt: u.LastAlertAt,
		LastAlertID: u.LastAlertID,
		PayoutAt:    u.PayoutAt,
		CreatedAt:   u.CreatedAt,
	}
}

func toUserResponses(users []models.User) []userResponse {
	out := make([]userResponse, 0, len(users))
	for i := range users {
		out = append(out, toUserResponse(&users[i]))
	}
	return out
}

func (h *Handler) listUsers(c *gin.Context) {
	filter := listFilter(c)
	filter.ZipCode = c.Query("zip")
	if s := c.Query("status"); s != "" {
		status := models.UserStatus(strings.ToUpper(s))
		if status != models.UserStatusActive && status != models.UserStatusPaid {
			fail(c, http.StatusBadRequest, errors.New("status must be ACTIVE or PAID"))
			return
		}
		filter.Status = &status
	}

	users, err := h.users.ListUsers(c.Request.Context(), filter)
	if err != nil {
		fail(c, http.StatusOK, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"userCount": len(users),
		"users":     toUserResponses(users),
	})
}

type createUserRequest struct {
	Email   string `json:"email" binding:"required,email"`
	Name    string `json:"name"`
	ZipCode string `json:"zipCode" binding:"required"`
	Balance int64  `json:"balance" binding:"gte=0"`
}

func (h *Handler) createUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}

	u := &models.User{
		Email:   strings.TrimSpace(req.Email),
		Name:    strings.TrimSpace(req.Name),
		ZipCode: strings.TrimSpace(req.ZipCode),
		Balance: req.Balance,
	}
	if err := h.users.CreateUser(c.Request.Context(), u); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			fail(c, http.StatusBadRequest, err)
			return
		}
		h.log.Error("creating user failed", "error", err)
		fail(c, http.StatusOK, err)
		return
	}

	h.log.Info("user created", "user_id", u.ID, "zip", u.ZipCode)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    toUserResponse(u),
	})
}

func (h *Handler) getUser(c *gin.Context) {
	u, err := h.users.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, http.StatusOK, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    toUserResponse(u),
	})
}

type balanceRequest struct {
	Balance *int64 `json:"balance" binding:"required,gte=0"`
}

func (h *Handler) setBalance(c *gin.Context) {
	var req balanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}

	id := c.Param("id")
	if err := h.users.SetBalance(c.Request.Context(), id, *req.Balance); err != nil {
		fail(c, http.StatusOK, err)
		return
	}
	h.log.Info("balance set", "user_id", id, "balance", *req.Balance)
	h.respondUser(c, id)
}

func (h *Handler) resetUser(c *gin.Context) {
	id := c.Param("id")
	if err := h.users.ResetUser(c.Request.Context(), id); err != nil {
		fail(c, http.StatusOK, err)
		return
	}
	h.log.Info("user reset", "user_id", id)
	h.respondUser(c, id)
}

func (h *Handler) deleteUser(c *gin.Context) {
	id := c.Param("id")
	if err := h.users.DeleteUser(c.Request.Context(), id); err != nil {
		fail(c, http.StatusOK, err)
		return
	}
	h.log.Info("user deleted", "user_id", id)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) respondUser(c *gin.Context, id string) {
	u, err := h.users.GetUser(c.Request.Context(), id)
	if err != nil {
		fail(c, http.StatusOK, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    toUserResponse(u),
	})
}
