package http

import (
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/yathrananda/admin-console/internal/domain"
	"github.com/yathrananda/admin-console/internal/service"
	"github.com/yathrananda/admin-console/internal/util"
)

const (
	sessionCookieName = "auth-token"
	loginPath         = "/login"

	contextSessionKey = "admin_session"
)

// RequireSession guards admin routes. Requests without a valid session cookie
// are sent to the login page.
func RequireSession(auth *service.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(sessionCookieName)
			if err != nil || strings.TrimSpace(cookie.Value) == "" {
				return redirectToLogin(c)
			}
			session, err := auth.Authenticate(c.Request().Context(), cookie.Value)
			if err != nil {
				return redirectToLogin(c)
			}
			c.Set(contextSessionKey, session)
			return next(c)
		}
	}
}

func redirectToLogin(c echo.Context) error {
	target := loginPath
	if path := c.Request().URL.RequestURI(); path != "" && path != "/" {
		target += "?next=" + url.QueryEscape(path)
	}
	return c.Redirect(http.StatusTemporaryRedirect, target)
}

func CurrentSession(c echo.Context) (*domain.AdminSession, bool) {
	session, ok := c.Get(contextSessionKey).(*domain.AdminSession)
	return session, ok && session != nil
}

// RequireAPIToken checks the static bearer token shared with the public site.
func RequireAPIToken(token string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
				return c.JSON(http.StatusUnauthorized, util.Error("Missing or invalid authorization header"))
			}
			if token == "" || !util.EqualConstantTime(strings.TrimSpace(parts[1]), token) {
				return c.JSON(http.StatusUnauthorized, util.Error("Invalid token"))
			}
			return next(c)
		}
	}
}

// PublicCORS answers for the public read API. The request origin is echoed
// when allowed; otherwise the first allowed origin is advertised. Preflight
// requests end here with 204.
func PublicCORS(allowOrigins []string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowOrigins))
	for _, origin := range allowOrigins {
		allowed[strings.TrimRight(origin, "/")] = struct{}{}
	}
	fallback := ""
	if len(allowOrigins) > 0 {
		fallback = strings.TrimRight(allowOrigins[0], "/")
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Response().Header()
			origin := c.Request().Header.Get(echo.HeaderOrigin)
			allowOrigin := fallback
			if _, ok := allowed[origin]; ok {
				allowOrigin = origin
			}
			header.Add(echo.HeaderVary, echo.HeaderOrigin)
			if allowOrigin != "" {
				header.Set(echo.HeaderAccessControlAllowOrigin, allowOrigin)
			}
			header.Set(echo.HeaderAccessControlAllowCredentials, "true")
			header.Set(echo.HeaderAccessControlAllowMethods, "GET, OPTIONS")
			header.Set(echo.HeaderAccessControlAllowHeaders, "Authorization, Content-Type, Accept")
			header.Set(echo.HeaderAccessControlMaxAge, "86400")

			if c.Request().Method == http.MethodOptions {
				return c.NoContent(http.StatusNoContent)
			}
			return next(c)
		}
	}
}

// LoginRateLimiter throttles login attempts per client IP.
func LoginRateLimiter(perMinute int) echo.MiddlewareFunc {
	if perMinute <= 0 {
		perMinute = 10
	}
	store := middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Every(time.Minute / time.Duration(perMinute)),
		Burst:     perMinute,
		ExpiresIn: 10 * time.Minute,
	})
	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return c.JSON(http.StatusForbidden, util.Error("unable to identify client"))
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return c.JSON(http.StatusTooManyRequests, util.Error("Too many login attempts, try again later"))
		},
	})
}

// tracing opens a server span per request.
func tracing(serviceName string) echo.MiddlewareFunc {
	tracer := otel.Tracer(serviceName)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			route := c.Path()
			if route == "" {
				route = req.URL.Path
			}
			ctx, span := tracer.Start(req.Context(), req.Method+" "+route,
				trace.WithSpanKind(trace.SpanKindServer),
				trace.WithAttributes(
					semconv.HTTPRequestMethodKey.String(req.Method),
					semconv.HTTPRoute(route),
					attribute.String("http.client_ip", c.RealIP()),
				),
			)
			defer span.End()
			c.SetRequest(req.WithContext(ctx))

			err := next(c)
			status := c.Response().Status
			var he *echo.HTTPError
			if errors.As(err, &he) {
				status = he.Code
			}
			span.SetAttributes(semconv.HTTPResponseStatusCode(status))
			if err != nil || status >= http.StatusInternalServerError {
				span.SetStatus(codes.Error, http.StatusText(status))
			}
			return err
		}
	}
}
