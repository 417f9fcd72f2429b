package middleware

import (
	"github.com/alphabatem/common/context"
	"github.com/gofiber/fiber/v2"
	"github.com/mindforge/forge_api/services"
	"github.com/mindforge/forge_api/shared"
	log "github.com/sirupsen/logrus"
)

type TokenVerifier interface {
	ExtractTokenFromHeader(authHeader string) (string, error)
	VerifyJWTToken(token string) (*services.CustomClaims, error)
}

type AuthMiddleware struct {
	context.DefaultService

	jwtSvc TokenVerifier
}

func NewAuthMiddleware(jwtSvc TokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{jwtSvc: jwtSvc}
}

func (svc AuthMiddleware) Id() string {
	return services.AUTH_SVC
}

func (svc *AuthMiddleware) Configure(ctx *context.Context) error {
	return svc.DefaultService.Configure(ctx)
}

func (svc *AuthMiddleware) Start() error {
	svc.jwtSvc = svc.Service(services.JWT_SVC).(*services.JWTService)
	return nil
}

// RequiredAuth rejects requests without a valid bearer token and stores the
// token's identity in the request locals.
func (svc *AuthMiddleware) RequiredAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, err := svc.jwtSvc.ExtractTokenFromHeader(c.Get(fiber.HeaderAuthorization))
		if err != nil {
			return shared.NewUnauthorizedError(err, "Unauthorized")
		}

		claims, err := svc.jwtSvc.VerifyJWTToken(token)
		if err != nil {
			log.WithField("path", c.Path()).WithError(err).Debug("Rejected bearer token")
			return shared.NewUnauthorizedError(err, "Invalid JWT token")
		}

		setIdentity(c, claims)
		return c.Next()
	}
}

// OptionalAuth attaches the identity when a valid token is present and lets
// anonymous requests through.
func (svc *AuthMiddleware) OptionalAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, err := svc.jwtSvc.ExtractTokenFromHeader(c.Get(fiber.HeaderAuthorization))
		if err != nil {
			return c.Next()
		}
		if claims, err := svc.jwtSvc.VerifyJWTToken(token); err == nil {
			setIdentity(c, claims)
		}
		return c.Next()
	}
}

func setIdentity(c *fiber.Ctx, claims *services.CustomClaims) {
	c.Locals(shared.UserID, claims.UserID)
	c.Locals(shared.Email, claims.Email)
	c.Locals(shared.FullName, claims.FullName)
}
