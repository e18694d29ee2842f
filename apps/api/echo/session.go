package echoapi

import (
	"net/http"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/NathJo212/Overd-OSE-sub001/core"
	"github.com/NathJo212/Overd-OSE-sub001/core/yearctx"
)

// Session roles
const (
	RoleStudent      = "student"
	RoleEmployer     = "employer"
	RoleGestionnaire = "gestionnaire"
)

var (
	Roles = []string{RoleStudent, RoleEmployer, RoleGestionnaire}

	contextTokenKey = "sessionToken"
	contextStoreKey = "yearStore"

	errStoreNotFoundInCtx = errors.New("year store not found in echo.Context")
)

// Claims represents the session claims transmitted via a JWT. Subject is the session ID.
type Claims struct {
	jwt.StandardClaims
	Role string `json:"role"`
}

type sessionAuth struct {
	jwtConfig middleware.JWTConfig
	provider  *yearctx.Provider
	appName   string
	ttl       time.Duration
}

func newSessionAuth(conf *core.Config, provider *yearctx.Provider) *sessionAuth {
	return &sessionAuth{
		jwtConfig: middleware.JWTConfig{
			SigningKey:    []byte(conf.SecretKey),
			SigningMethod: middleware.AlgorithmHS256,
			ContextKey:    contextTokenKey,
			Claims:        new(Claims),
		},
		provider: provider,
		appName:  conf.AppName,
		ttl:      conf.Session.TTL,
	}
}

// middleware authenticates the session token, then loads the session's year store into the context.
func (a *sessionAuth) middleware() echo.MiddlewareFunc {
	jwtMiddleware := middleware.JWTWithConfig(a.jwtConfig)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return jwtMiddleware(func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return err
			}
			store, err := a.provider.Store(claims.Subject)
			if err != nil {
				return errors.Wrap(err, "finding session store")
			}
			if !store.Initialized() {
				// the provider only hands out initialized stores: in-process state is corrupt
				return core.NewShutdownError("session year store is not initialized")
			}
			ctx.Set(contextStoreKey, store)
			return next(ctx)
		})
	}
}

func (a *sessionAuth) claims(sessionID, role string) *Claims {
	now := time.Now()
	claims := &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:   a.appName,
			Subject:  sessionID,
			IssuedAt: now.Unix(),
		},
		Role: role,
	}
	if a.ttl > 0 {
		claims.ExpiresAt = now.Add(a.ttl).Unix()
	}
	return claims
}

// generateToken generates a signed JWT token string representing the session Claims.
func (a *sessionAuth) generateToken(claims *Claims) (string, error) {
	method := jwt.GetSigningMethod(a.jwtConfig.SigningMethod)
	token := jwt.NewWithClaims(method, claims)

	ss, err := token.SignedString(a.jwtConfig.SigningKey)
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}
	return ss, nil
}

func getContextClaims(ctx echo.Context) (Claims, error) {
	if token, ok := ctx.Get(contextTokenKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			return *claims, nil
		}
	}
	return Claims{}, errSessionNotFound
}

func getContextStore(ctx echo.Context) (*yearctx.Store, error) {
	if store, ok := ctx.Get(contextStoreKey).(*yearctx.Store); ok {
		return store, nil
	}
	return nil, errStoreNotFoundInCtx
}

type sessionApi struct {
	auth     *sessionAuth
	validate *validator.Validate
}

func registerSessionAPI(g *echo.Group, auth *sessionAuth, validate *validator.Validate) {
	api := sessionApi{auth: auth, validate: validate}

	sg := g.Group("/sessions")
	sg.POST("", api.open)
	sg.DELETE("", api.close, auth.middleware())
}

// Handlers

func (api *sessionApi) open(ctx echo.Context) error {
	var data NewSession
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSession")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	sessionID := uuid.New().String()
	store := api.auth.provider.Open(sessionID)
	year, err := store.SelectedYear()
	if err != nil {
		return errors.Wrap(err, "reading selected year")
	}

	token, err := api.auth.generateToken(api.auth.claims(sessionID, data.Role))
	if err != nil {
		api.auth.provider.Close(sessionID)
		return errors.Wrap(err, "generating token")
	}
	return ctx.JSON(http.StatusCreated, SessionResponse{Token: token, Role: data.Role, SelectedYear: year})
}

func (api *sessionApi) close(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	api.auth.provider.Close(claims.Subject)
	return ctx.NoContent(http.StatusNoContent)
}

type (
	NewSession struct {
		Role string `json:"role" validate:"required,oneof=student employer gestionnaire"`
	}

	SessionResponse struct {
		Token        string `json:"token"`
		Role         string `json:"role"`
		SelectedYear int    `json:"selected_year"`
	}
)

func (ns *NewSession) Validate(validate *validator.Validate) error {
	ns.Role = core.CleanString(ns.Role, true /* lower */)
	return validate.Struct(ns)
}
