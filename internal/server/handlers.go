package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/notewell/backend/internal/notes"
	"github.com/notewell/backend/internal/users"
)

type noteCreatePayload struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

type noteUpdatePayload struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

type userCreatePayload struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userUpdatePayload struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}

type loginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *httpHandler) handleNoteList(c *gin.Context) {
	result, err := h.notesService.List(c.Request.Context())
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *httpHandler) handleNoteGet(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	note, err := h.notesService.Get(c.Request.Context(), id)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, note)
}

func (h *httpHandler) handleNoteCreate(c *gin.Context) {
	var payload noteCreatePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}
	note, err := h.notesService.Create(c.Request.Context(), notes.CreateRequest{
		Name:        payload.Name,
		Description: payload.Description,
	})
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, note)
}

func (h *httpHandler) handleNoteUpdate(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var payload noteUpdatePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}
	note, err := h.notesService.Update(c.Request.Context(), id, notes.UpdateRequest{
		Name:        payload.Name,
		Description: payload.Description,
	})
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, note)
}

func (h *httpHandler) handleNoteDelete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if err := h.notesService.Delete(c.Request.Context(), id); err != nil {
		h.writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "note deleted"})
}

func (h *httpHandler) handleUserSearch(c *gin.Context) {
	result, err := h.usersService.Search(c.Request.Context(), c.Query("name"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *httpHandler) handleUserGet(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	user, err := h.usersService.GetOne(c.Request.Context(), id)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *httpHandler) handleUserCreate(c *gin.Context) {
	var payload userCreatePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}
	user, err := h.usersService.Create(c.Request.Context(), users.CreateRequest{
		Name:     payload.Name,
		Email:    payload.Email,
		Password: payload.Password,
	})
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

func (h *httpHandler) handleUserUpdate(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var payload userUpdatePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}
	user, err := h.usersService.Update(c.Request.Context(), id, users.UpdateRequest{
		Name:  payload.Name,
		Email: payload.Email,
	})
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *httpHandler) handleUserDelete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if err := h.usersService.Delete(c.Request.Context(), id); err != nil {
		h.writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "user deleted"})
}

func (h *httpHandler) handleLogin(c *gin.Context) {
	var payload loginPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}
	session, err := h.usersService.Login(c.Request.Context(), users.LoginRequest{
		Email:    payload.Email,
		Password: payload.Password,
	})
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"access_token": session.AccessToken,
		"expires_in":   session.ExpiresIn,
		"token_type":   "Bearer",
	})
}
