// Package web serves the journal over HTTP: server-rendered pages for the
// browser and a JSON API under /api/v1.
package web

import (
	"context"
	"html/template"
	"log/slog"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"golang.org/x/text/language"

	"journal-go/internal/journal"
)

// Options are the knobs of the HTTP layer.
type Options struct {
	CookieName   string
	SecureCookie bool
	AllowOrigins []string
	Goals        []string
}

// Server exposes the Fiber application.
type Server struct {
	app      *fiber.App
	svc      *journal.Service
	gate     journal.SessionGate
	logger   *slog.Logger
	opts     Options
	lang     language.Tag
	registry *registry
	pages    map[string]*template.Template
}

const sessionKey = "session"

// NewServer wires handlers and middleware.
func NewServer(svc *journal.Service, gate journal.SessionGate, logger *slog.Logger, opts Options) *Server {
	if opts.CookieName == "" {
		opts.CookieName = "journal_session"
	}

	s := &Server{
		svc:      svc,
		gate:     gate,
		logger:   logger,
		opts:     opts,
		lang:     svc.Language(),
		registry: newRegistry(svc, gate),
	}
	s.pages = s.parseTemplates()

	s.app = fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ReadTimeout:           15 * time.Second,
		WriteTimeout:          15 * time.Second,
		ErrorHandler:          s.errorHandler,
	})
	s.app.Use(recover.New())
	s.app.Use(requestid.New(requestid.Config{
		Generator: func() string { return uuid.New().String() },
	}))
	s.app.Use(s.logRequests)
	s.app.Use(s.loadSession)

	s.registerRoutes()
	return s
}

// App returns the underlying fiber application.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen serves HTTP on addr until ctx is cancelled.
func (s *Server) Listen(ctx context.Context, addr string) error {
	go func() {
		<-ctx.Done()
		_ = s.app.ShutdownWithTimeout(5 * time.Second)
	}()
	return s.app.Listen(addr)
}

func (s *Server) registerRoutes() {
	s.app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	s.app.Get("/", s.handleIndex)
	s.app.Get("/goals", s.handleGoals)
	s.app.Get("/signin", s.handleSignInForm)
	s.app.Post("/signin", s.handleSignIn)
	s.app.Post("/signout", s.handleSignOut)
	s.app.Get("/entries/new", s.handleNewEntryForm)
	s.app.Post("/entries", s.handleCreateEntry)
	s.app.Get("/entries/:id", s.handleEntry)
	s.app.Post("/entries/:id/edit", s.detailAction(s.beginEdit))
	s.app.Post("/entries/:id/secondary", s.handleBeginAddSecondary)
	s.app.Post("/entries/:id/save", s.handleSave)
	s.app.Post("/entries/:id/cancel", s.detailAction(s.cancel))
	s.app.Post("/entries/:id/delete", s.detailAction(s.requestDelete))
	s.app.Post("/entries/:id/delete/confirm", s.handleConfirmDelete)

	origins := "*"
	if len(s.opts.AllowOrigins) > 0 {
		origins = strings.Join(s.opts.AllowOrigins, ",")
	}
	api := s.app.Group("/api/v1", cors.New(cors.Config{
		AllowOrigins: origins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE",
	}))
	api.Get("/entries", s.apiListEntries)
	api.Post("/entries", s.apiCreateEntry)
	api.Get("/entries/:id", s.apiGetEntry)
	api.Put("/entries/:id", s.apiUpdateEntry)
	api.Post("/entries/:id/secondary", s.apiAddSecondary)
	api.Delete("/entries/:id", s.apiDeleteEntry)
	api.Post("/session", s.apiSignIn)
	api.Delete("/session", s.apiSignOut)
	api.Get("/goals", s.apiGoals)
}

// logRequests writes one log line per request.
func (s *Server) logRequests(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()
	status := c.Response().StatusCode()
	if err != nil {
		status = statusFor(err)
	}
	s.logger.Info("request",
		"method", c.Method(),
		"path", c.Path(),
		"status", status,
		"latency", time.Since(start).Truncate(time.Microsecond).String(),
		"request_id", c.GetRespHeader(fiber.HeaderXRequestID),
	)
	return err
}

// loadSession resolves the bearer token or session cookie. Requests without a
// valid session continue anonymously.
func (s *Server) loadSession(c *fiber.Ctx) error {
	token := bearerToken(c.Get(fiber.HeaderAuthorization))
	if token == "" {
		token = c.Cookies(s.opts.CookieName)
	}
	if token != "" {
		if sess, ok := s.gate.Current(c.UserContext(), token); ok {
			c.Locals(sessionKey, sess)
		}
	}
	return c.Next()
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}

// sessionOf returns the active session of the request, or nil.
func sessionOf(c *fiber.Ctx) *journal.Session {
	sess, _ := c.Locals(sessionKey).(*journal.Session)
	return sess
}

// requireSession returns the active session or ErrNotAuthenticated.
func requireSession(c *fiber.Ctx) (*journal.Session, error) {
	sess := sessionOf(c)
	if sess == nil {
		return nil, journal.ErrNotAuthenticated
	}
	return sess, nil
}

func (s *Server) setSessionCookie(c *fiber.Ctx, sess *journal.Session) {
	c.Cookie(&fiber.Cookie{
		Name:     s.opts.CookieName,
		Value:    sess.Token,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		HTTPOnly: true,
		Secure:   s.opts.SecureCookie,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func (s *Server) clearSessionCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     s.opts.CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		Secure:   s.opts.SecureCookie,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// t translates a ui text key.
func (s *Server) t(key string) string {
	return translate(s.lang, key)
}
