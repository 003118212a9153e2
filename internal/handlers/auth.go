package handlers

import (
	"net/http"

	"itam-backend/internal/apperr"
	"itam-backend/internal/auth"
	"itam-backend/internal/middleware"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

type loginForm struct {
	Username string `form:"username"`
	Password string `form:"password"`
}

// Login accepts the OAuth2 password form (username is the email). Besides the
// bearer token it also sets the session cookie for browser clients.
func (h *Handler) Login(c *gin.Context) {
	var form loginForm
	if err := c.ShouldBind(&form); err != nil {
		fail(c, apperr.Wrap(apperr.InvalidInput, "invalid login form", err))
		return
	}

	res, err := h.Auth.Login(c.Request.Context(), form.Username, form.Password)
	if err != nil {
		fail(c, err)
		return
	}

	sess := sessions.Default(c)
	sess.Set(middleware.SessionUserID, res.User.ID)
	sess.Set(middleware.SessionRole, string(res.User.Role))
	if err := sess.Save(); err != nil {
		fail(c, apperr.Wrap(apperr.Internal, "save session", err))
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *Handler) Logout(c *gin.Context) {
	sess := sessions.Default(c)
	sess.Clear()
	sess.Options(sessions.Options{Path: "/", MaxAge: -1})
	_ = sess.Save()
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// ПРОФИЛЬ

func (h *Handler) Me(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	c.JSON(http.StatusOK, user)
}

func (h *Handler) UpdateMe(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	var in auth.ProfileInput
	if !bindJSON(c, &in) {
		return
	}
	updated, err := h.Auth.UpdateProfile(c.Request.Context(), user.ID, in)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *Handler) UploadAvatar(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	fh, err := formFile(c, h.Avatars.MaxSize(), "image")
	if err != nil {
		fail(c, err)
		return
	}
	f, err := fh.Open()
	if err != nil {
		fail(c, apperr.Wrap(apperr.InvalidInput, "file: cannot open upload", err))
		return
	}
	defer f.Close()

	url, err := h.Avatars.Save(c.Request.Context(), fh.Filename, f)
	if err != nil {
		fail(c, err)
		return
	}
	updated, err := h.Auth.SetAvatar(c.Request.Context(), user.ID, url)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}
