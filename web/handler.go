package web

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/kbukum/signup/errors"
	"github.com/kbukum/signup/i18n"
	"github.com/kbukum/signup/logger"
	"github.com/kbukum/signup/registration"
	"github.com/kbukum/signup/server"
	"github.com/kbukum/signup/server/middleware"
	"github.com/kbukum/signup/sse"
	"github.com/kbukum/signup/util"
	"github.com/kbukum/signup/validation"
)

// RegisterRoute is the entry point of the flow.
const RegisterRoute = "/register"

//go:embed templates/*.html
var templateFS embed.FS

// Handler serves the registration pages and their JSON/SSE endpoints.
type Handler struct {
	cfg        Config
	store      *Store
	hub        *sse.Hub
	catalog    *i18n.Catalog
	pages      *template.Template
	loginRoute string
	log        *logger.Logger
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithLoginRoute sets the path of the login page. It must match the
// controllers' redirect target.
func WithLoginRoute(route string) HandlerOption {
	return func(h *Handler) {
		if route != "" {
			h.loginRoute = route
		}
	}
}

// WithCatalog replaces the default message catalog.
func WithCatalog(c *i18n.Catalog) HandlerOption {
	return func(h *Handler) { h.catalog = c }
}

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) HandlerOption {
	return func(h *Handler) { h.log = l }
}

// NewHandler parses the page templates and returns the handler.
func NewHandler(cfg Config, store *Store, hub *sse.Hub, opts ...HandlerOption) (*Handler, error) {
	pages, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	h := &Handler{
		cfg:        cfg,
		store:      store,
		hub:        hub,
		catalog:    i18n.Default(),
		pages:      pages,
		loginRoute: registration.DefaultLoginRoute,
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.log == nil {
		h.log = logger.WithComponent("web")
	}
	return h, nil
}

// Register mounts the routes. guards run in front of POST /register only.
func (h *Handler) Register(r gin.IRouter, guards ...gin.HandlerFunc) {
	r.GET(RegisterRoute, h.RegisterPage)
	r.POST(RegisterRoute, append(guards, h.Submit)...)
	r.GET(RegisterRoute+"/state", h.State)
	r.GET(RegisterRoute+"/events", h.Events)
	r.GET(h.loginRoute, h.LoginPage)
}

// SubmitResponse is the body of an accepted submission.
type SubmitResponse struct {
	SessionID string             `json:"session_id"`
	Phase     string             `json:"phase"`
	State     registration.State `json:"state"`
}

// Submit starts a submission for the caller's session. The response
// carries the state after the loading emission; the rest of the protocol
// runs in the background and reaches the browser over /register/events.
func (h *Handler) Submit(c *gin.Context) {
	var form registration.Form
	if err := c.ShouldBind(&form); err != nil {
		server.RespondWithError(c, apperrors.InvalidInput("malformed registration form").WithCause(err))
		return
	}
	if err := validation.Validate(&form); err != nil {
		server.RespondWithError(c, err)
		return
	}

	sess := h.session(c)
	sub, err := sess.Controller.Begin(form)
	if errors.Is(err, registration.ErrSubmissionInFlight) {
		server.RespondWithError(c, apperrors.SubmissionInFlight())
		return
	}
	if err != nil {
		server.RespondWithError(c, err)
		return
	}

	ctx := logger.ContextWithRequestID(sess.Context(), c.GetHeader(middleware.HeaderRequestID))
	phase, _ := sub.Step(ctx)
	h.store.Go(sess, func() { h.run(ctx, sess, sub) })

	server.RespondAccepted(c, SubmitResponse{
		SessionID: sess.ID,
		Phase:     phase.String(),
		State:     sess.Controller.State(),
	})
}

func (h *Handler) run(ctx context.Context, sess *Session, sub *registration.Submission) {
	phase, err := sub.Run(ctx)
	fields := logger.Fields(logger.FieldPhase, phase.String(), logger.FieldEmailHash, util.EmailFingerprint(sub.Form().Email))
	if err != nil {
		h.log.WithContext(ctx).Debug("submission interrupted", fields)
		return
	}
	h.log.WithContext(ctx).Debug("submission finished", fields)
}

// State returns the current state of the caller's session.
func (h *Handler) State(c *gin.Context) {
	sess, ok := h.existingSession(c)
	if !ok {
		server.RespondWithError(c, apperrors.NotFound("registration session"))
		return
	}
	server.RespondOK(c, sess.Controller.State())
}

// Events streams the session's events as SSE. Every tab gets its own
// client; all of them receive the session's events.
func (h *Handler) Events(c *gin.Context) {
	sess := h.session(c)
	sse.ServeSSE(h.hub, c.Writer, c.Request, sess.NewClientID(), sse.WithSessionID(sess.ID))
}

type registerPage struct {
	Lang          string
	Title         string
	Button        string
	LoginText     string
	LoginRoute    string
	RegisterRoute string
	SuccessText   string
	State         registration.State
}

// RegisterPage renders the registration form.
func (h *Handler) RegisterPage(c *gin.Context) {
	sess := h.session(c)
	loc := sess.Localizer
	h.render(c, "register.html", registerPage{
		Lang:          loc.Language().String(),
		Title:         loc.Text(i18n.KeyRegisterTitle),
		Button:        loc.Text(i18n.KeyRegisterButton),
		LoginText:     loc.Text(i18n.KeyLoginLink),
		LoginRoute:    h.loginRoute,
		RegisterRoute: RegisterRoute,
		SuccessText:   loc.Text(i18n.KeyRegistrationSucceeded),
		State:         sess.Controller.State(),
	})
}

type loginPage struct {
	Lang          string
	Title         string
	RegisterRoute string
	RegisterText  string
}

// LoginPage renders the placeholder the flow redirects to.
func (h *Handler) LoginPage(c *gin.Context) {
	loc := h.localizer(c)
	h.render(c, "login.html", loginPage{
		Lang:          loc.Language().String(),
		Title:         loc.Text(i18n.KeyLoginTitle),
		RegisterRoute: RegisterRoute,
		RegisterText:  loc.Text(i18n.KeyRegisterTitle),
	})
}

func (h *Handler) render(c *gin.Context, name string, data any) {
	var buf bytes.Buffer
	if err := h.pages.ExecuteTemplate(&buf, name, data); err != nil {
		h.log.WithContext(c.Request.Context()).Error("page not rendered", logger.ErrorFields(name, err))
		server.RespondWithError(c, apperrors.Internal(err))
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

func (h *Handler) existingSession(c *gin.Context) (*Session, bool) {
	id, err := c.Cookie(h.cfg.CookieName)
	if err != nil {
		return nil, false
	}
	return h.store.Get(id)
}

// session returns the caller's session, creating one and setting the
// cookie when there is none.
func (h *Handler) session(c *gin.Context) *Session {
	if sess, ok := h.existingSession(c); ok {
		return sess
	}
	sess := h.store.Create(h.localizer(c))
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cfg.CookieName, sess.ID, int(h.cfg.TTL.Seconds()), "/", "", h.cfg.CookieSecure, true)
	return sess
}

func (h *Handler) localizer(c *gin.Context) *i18n.Localizer {
	if !h.cfg.NegotiateLanguage {
		return h.catalog.Localizer(i18n.BaseLanguage)
	}
	return h.catalog.Localizer(h.catalog.Match(c.GetHeader("Accept-Language")))
}
