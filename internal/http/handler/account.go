package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tenantkit.dev/api/internal/http/dto"
	"tenantkit.dev/api/internal/http/middleware"
	"tenantkit.dev/api/internal/service"
)

// AccountHandler serves the signed-in user's own account under /auth/me.
type AccountHandler struct {
	accountService service.AccountService
	isProduction   bool
}

func NewAccountHandler(accountService service.AccountService, isProduction bool) *AccountHandler {
	return &AccountHandler{accountService: accountService, isProduction: isProduction}
}

func (h *AccountHandler) UpdateProfile(c *gin.Context) {
	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request: first_name and last_name are required")
		return
	}

	user, err := h.accountService.UpdateProfile(c.Request.Context(), currentUser(c), service.UpdateProfileParams{
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToUserResponse(user))
}

// Delete ends every session of the user, so the caller's cookie goes too.
func (h *AccountHandler) Delete(c *gin.Context) {
	var req dto.DeleteAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request: confirmation is required")
		return
	}

	if err := h.accountService.DeleteAccount(c.Request.Context(), currentUser(c), req.Confirmation); err != nil {
		respondError(c, err)
		return
	}
	middleware.ClearSessionCookie(c, h.isProduction)
	c.Status(http.StatusNoContent)
}
