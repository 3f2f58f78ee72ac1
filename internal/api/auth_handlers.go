package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rollbook/internal/auth"
)

type signupRequest struct {
	Username        string `json:"username"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	UniversityCode  string `json:"university_code"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresAt   int64  `json:"expires_at"`
	Role        string `json:"role"`
	Username    string `json:"username"`
}

func (h *handlers) signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	err := h.Accounts.Register(c.Request.Context(), req.Username, req.Password, req.ConfirmPassword, req.UniversityCode)
	if err != nil {
		respondErr(c, h.Log, err)
		return
	}
	success(c, http.StatusCreated, gin.H{"username": req.Username})
}

func (h *handlers) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	s, err := h.Accounts.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondErr(c, h.Log, err)
		return
	}
	h.issue(c, s)
}

func (h *handlers) adminLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	s, err := h.Accounts.AuthenticateAdmin(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondErr(c, h.Log, err)
		return
	}
	h.issue(c, s)
}

func (h *handlers) issue(c *gin.Context, s auth.Session) {
	tok, err := h.Issuer.Issue(s)
	if err != nil {
		respondErr(c, h.Log, err)
		return
	}
	success(c, http.StatusOK, tokenResponse{
		AccessToken: tok.AccessToken,
		ExpiresAt:   tok.ExpiresAt.Unix(),
		Role:        s.Kind.String(),
		Username:    s.Username,
	})
}
