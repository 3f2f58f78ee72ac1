package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"rollbook/internal/auth"
)

type nameRequest struct {
	Name string `json:"name"`
}

func (h *handlers) listCodes(c *gin.Context) {
	codes, err := h.Codes.List(c.Request.Context())
	if err != nil {
		respondErr(c, h.Log, err)
		return
	}
	success(c, http.StatusOK, codes)
}

func (h *handlers) addCode(c *gin.Context) {
	var req struct {
		Code string `json:"code"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.Codes.Add(c.Request.Context(), req.Code); err != nil {
		respondErr(c, h.Log, err)
		return
	}
	h.Log.Info("university code added", zap.String("by", auth.FromContext(c).Username))
	success(c, http.StatusCreated, gin.H{"code": req.Code})
}

func (h *handlers) removeCode(c *gin.Context) {
	code := c.Param("code")
	if err := h.Codes.Remove(c.Request.Context(), code); err != nil {
		respondErr(c, h.Log, err)
		return
	}
	h.Log.Info("university code removed", zap.String("by", auth.FromContext(c).Username))
	success(c, http.StatusOK, gin.H{"code": code})
}

func (h *handlers) setInstitution(c *gin.Context) {
	var req nameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.Attendance.SetInstitution(c.Request.Context(), req.Name); err != nil {
		respondErr(c, h.Log, err)
		return
	}
	success(c, http.StatusOK, gin.H{"institution": req.Name})
}
