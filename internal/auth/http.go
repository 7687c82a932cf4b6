package auth

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ideaforge/ideaforge-backend/internal/users"
)

type Handler struct {
	repo   *users.Repo
	issuer *TokenIssuer
}

func Register(rg *gin.RouterGroup, repo *users.Repo, issuer *TokenIssuer) {
	h := &Handler{repo: repo, issuer: issuer}

	rg.POST("/register", h.register)
	rg.POST("/login", h.login)
}

type registerReq struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

func (h *Handler) register(c *gin.Context) {
	var req registerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid body"})
		return
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "valid email required"})
		return
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	u, err := h.repo.Create(c.Request.Context(), req.Email, strings.TrimSpace(req.DisplayName), hash)
	if err != nil {
		if errors.Is(err, users.ErrEmailTaken) {
			c.JSON(http.StatusConflict, gin.H{"success": false, "error": "email already registered"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "could not create account"})
		return
	}

	token, err := h.issuer.Issue(u.ID, string(u.Role))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "could not issue token"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "token": token, "user": u})
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "email and password required"})
		return
	}

	u, err := h.repo.GetByEmail(c.Request.Context(), req.Email)
	if err != nil || !CheckPassword(u.PasswordHash, req.Password) || u.Status != users.StatusActive {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "invalid credentials"})
		return
	}

	if err := h.repo.TouchLastSeen(c.Request.Context(), u.ID); err != nil {
		log.Printf("[warn] touch last seen user=%s error=%v", u.ID, err)
	}

	token, err := h.issuer.Issue(u.ID, string(u.Role))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "could not issue token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "token": token, "user": u})
}
