package router

import (
	stderrors "errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v4"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"internhub/internal/auth"
	"internhub/internal/config"
	apperrors "internhub/internal/errors"
	"internhub/internal/handler"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	jwtService *auth.JWTService,
	tokenStore auth.TokenStoreInterface,
	authHandler *handler.AuthHandler,
	internshipHandler *handler.InternshipHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.ContextTimeout(cfg.StoreTimeout))

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.GET("/internships", internshipHandler.ListPublic)

	// Secured routes (require a valid, non-revoked bearer token)
	secured := api.Group("", echojwt.WithConfig(echojwt.Config{
		ParseTokenFunc: parseTokenFunc(jwtService, tokenStore),
		ErrorHandler:   jwtErrorHandler,
	}))

	secured.POST("/auth/logout", authHandler.Logout)
	secured.GET("/auth/me", authHandler.Me)

	// The static my-internships segment must be registered alongside the
	// parameterized :id route; echo matches static segments first, so the
	// owned listing is never shadowed by the id lookup.
	secured.GET("/internships/my-internships", internshipHandler.ListOwned)
	secured.POST("/internships", internshipHandler.Create)
	secured.PUT("/internships/:id", internshipHandler.Update)
	secured.PATCH("/internships/:id/status", internshipHandler.UpdateStatus)

	api.GET("/internships/:id", internshipHandler.Get)
}

// parseTokenFunc verifies the bearer token and rejects revoked tokens.
func parseTokenFunc(jwtService *auth.JWTService, tokenStore auth.TokenStoreInterface) func(c echo.Context, tokenString string) (interface{}, error) {
	return func(c echo.Context, tokenString string) (interface{}, error) {
		claims, err := jwtService.ValidateToken(tokenString)
		if err != nil {
			return nil, err
		}
		if claims.ID != "" {
			revoked, _ := tokenStore.IsBlacklisted(c.Request().Context(), claims.ID)
			if revoked {
				return nil, apperrors.ErrTokenInvalid
			}
		}
		return &jwt.Token{Claims: claims, Valid: true}, nil
	}
}

// jwtErrorHandler maps token failures to the error taxonomy, keeping
// expired and invalid distinguishable to clients.
func jwtErrorHandler(c echo.Context, err error) error {
	if stderrors.Is(err, apperrors.ErrTokenExpired) {
		httpErr := apperrors.MapErrorToHTTP(apperrors.ErrTokenExpired)
		return c.JSON(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	httpErr := apperrors.MapErrorToHTTP(apperrors.ErrTokenInvalid)
	return c.JSON(httpErr.StatusCode, httpErr.ToErrorResponse())
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
