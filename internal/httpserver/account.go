package httpserver

import (
	"net/http"

	"arayesh-shop/internal/service/account"
	"github.com/gin-gonic/gin"
)

type signupRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	FullName string `json:"full_name"`
}

type tokenRequest struct {
	Email    string `json:"email" form:"username" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" form:"refresh_token" binding:"required"`
}

func (h *handlers) signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	cust, err := h.Accounts.Signup(c.Request.Context(), account.SignupInput{
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
	})
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"customer": toCustomerResponse(*cust)})
}

// token logs a customer in. Both JSON and form-encoded bodies are accepted.
func (h *handlers) token(c *gin.Context) {
	var req tokenRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	sess, err := h.Accounts.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, toTokenResponse(sess))
}

func (h *handlers) refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	sess, err := h.Accounts.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, toTokenResponse(sess))
}

func (h *handlers) logout(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	if err := h.Accounts.Logout(c.Request.Context(), req.RefreshToken); err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, messageResponse{Message: msgLoggedOut})
}

func (h *handlers) me(c *gin.Context) {
	cust, err := h.Accounts.LookupByToken(c.Request.Context(), tokenFrom(c))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, toCustomerResponse(*cust))
}

func toTokenResponse(s *account.Session) tokenResponse {
	resp := tokenResponse{
		AccessToken:  s.AccessToken,
		TokenType:    "Bearer",
		ExpiresIn:    s.ExpiresIn,
		RefreshToken: s.RefreshToken,
	}
	if s.Customer != nil {
		cr := toCustomerResponse(*s.Customer)
		resp.Customer = &cr
	}
	return resp
}
