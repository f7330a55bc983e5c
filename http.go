package auth

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
	"github.com/microposts/auth/middleware/jwtware"
)

// LoginRequest carries the credentials presented to the login endpoint
type LoginRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 255)),
		validation.Field(&r.Password, validation.Required, validation.Length(1, 255)),
	)
}

// RegisterRequest carries a self-service registration payload
type RegisterRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 255)),
		validation.Field(&r.Password, validation.Required, validation.Length(3, 255)),
	)
}

// AuthController exposes the login and registration endpoints plus the
// admin-gated principal listing.
type AuthController struct {
	Logger   Logger
	Auther   Authenticator
	Register *RegisterPrincipalHandler
	Repo     RepositoryManager
}

func NewAuthController(auther Authenticator, register *RegisterPrincipalHandler, repo RepositoryManager) *AuthController {
	return &AuthController{
		Logger:   defLogger{},
		Auther:   auther,
		Register: register,
		Repo:     repo,
	}
}

func (c *AuthController) WithLogger(logger Logger) *AuthController {
	if logger != nil {
		c.Logger = logger
	}
	return c
}

// LoginPost exchanges credentials for a signed access token.
func (c *AuthController) LoginPost(ctx *fiber.Ctx) error {
	payload := LoginRequest{}
	if err := ctx.BodyParser(&payload); err != nil {
		return WriteError(ctx, errors.Wrap(err, errors.CategoryBadInput, "could not parse login payload"))
	}

	if err := payload.Validate(); err != nil {
		return WriteError(ctx, errors.Wrap(err, errors.CategoryValidation, "invalid login payload"))
	}

	result, err := c.Auther.Login(ctx.UserContext(), payload.Name, payload.Password)
	if err != nil {
		return WriteError(ctx, err)
	}

	return ctx.JSON(result)
}

// RegistrationCreate registers a new principal with the default role.
func (c *AuthController) RegistrationCreate(ctx *fiber.Ctx) error {
	payload := RegisterRequest{}
	if err := ctx.BodyParser(&payload); err != nil {
		return WriteError(ctx, errors.Wrap(err, errors.CategoryBadInput, "could not parse registration payload"))
	}

	if err := payload.Validate(); err != nil {
		return WriteError(ctx, errors.Wrap(err, errors.CategoryValidation, "invalid registration payload"))
	}

	err := c.Register.Execute(ctx.UserContext(), RegisterPrincipalMessage{
		Name:     payload.Name,
		Password: payload.Password,
	})
	if err != nil {
		return WriteError(ctx, err)
	}

	return ctx.SendStatus(fiber.StatusCreated)
}

// PrincipalsList returns every principal. Route wiring must place this
// behind Protected with the admin scope.
func (c *AuthController) PrincipalsList(ctx *fiber.Ctx) error {
	records, err := c.Repo.Principals().ListAll(ctx.UserContext())
	if err != nil {
		return WriteError(ctx, errors.Wrap(err, ErrStoreUnavailable.Category, ErrStoreUnavailable.Message).
			WithTextCode(TextCodeStoreUnavailable))
	}

	return ctx.JSON(records)
}

// RegisterAuthRoutes mounts the controller. protected gates the listing
// endpoint and is built via Protected with the admin scope.
func RegisterAuthRoutes(app *fiber.App, c *AuthController, protected fiber.Handler) {
	app.Post("/login", c.LoginPost)
	app.Post("/users", c.RegistrationCreate)
	app.Get("/users", protected, c.PrincipalsList)
}

// Protected builds the bearer-token middleware for a route: extract token,
// validate signature and expiry, then require the given scope. An empty
// requiredScope authenticates without gating on scope.
func Protected(cfg Config, validator TokenValidator, requiredScope string) fiber.Handler {
	return jwtware.New(jwtware.Config{
		TokenValidator:  validatorAdapter{validator},
		RequiredScope:   requiredScope,
		ContextKey:      cfg.GetContextKey(),
		TokenLookup:     cfg.GetTokenLookup(),
		AuthScheme:      cfg.GetAuthScheme(),
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// The middleware package keeps its own sentinels to avoid an
			// import cycle; fold them back into the taxonomy here.
			switch {
			case errors.Is(err, jwtware.ErrInsufficientScope):
				return WriteError(c, ErrInsufficientScope)
			case errors.Is(err, jwtware.ErrJWTMissingOrMalformed):
				return WriteError(c, ErrTokenMalformed)
			default:
				return WriteError(c, err)
			}
		},
		ContextEnricher: ContextEnricherAdapter,
	})
}

// ContextEnricherAdapter stores validated claims in the standard context so
// handlers can use GetClaims and Allowed without touching fiber locals.
func ContextEnricherAdapter(c context.Context, claims jwtware.AccessClaims) context.Context {
	accessClaims, ok := claims.(AccessClaims)
	if !ok {
		return c
	}
	return WithClaimsContext(c, accessClaims)
}

// validatorAdapter bridges the root TokenValidator to the middleware's local
// interface, which mirrors it to avoid an import cycle.
type validatorAdapter struct {
	v TokenValidator
}

func (a validatorAdapter) Validate(raw string) (jwtware.AccessClaims, error) {
	claims, err := a.v.Validate(raw)
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// StatusFromError maps the error taxonomy onto transport status codes.
func StatusFromError(err error) int {
	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		if IsMalformedError(err) || IsTokenExpiredError(err) {
			return fiber.StatusUnauthorized
		}
		return fiber.StatusInternalServerError
	}

	switch richErr.Category {
	case errors.CategoryAuth:
		return fiber.StatusUnauthorized
	case errors.CategoryAuthz:
		return fiber.StatusForbidden
	case errors.CategoryConflict:
		return fiber.StatusConflict
	case errors.CategoryNotFound:
		return fiber.StatusNotFound
	case errors.CategoryValidation, errors.CategoryBadInput:
		return fiber.StatusBadRequest
	case errors.CategoryRateLimit:
		return fiber.StatusTooManyRequests
	default:
		return fiber.StatusInternalServerError
	}
}

// WriteError renders an error response. Authentication rejections share one
// body regardless of which check failed; the distinct reason stays
// server-side for observability.
func WriteError(ctx *fiber.Ctx, err error) error {
	status := StatusFromError(err)

	switch status {
	case fiber.StatusUnauthorized:
		return ctx.Status(status).JSON(fiber.Map{"error": "unauthorized"})
	case fiber.StatusForbidden:
		return ctx.Status(status).JSON(fiber.Map{"error": "forbidden"})
	case fiber.StatusInternalServerError:
		return ctx.Status(status).JSON(fiber.Map{"error": "internal error"})
	}

	var richErr *errors.Error
	if errors.As(err, &richErr) {
		return ctx.Status(status).JSON(fiber.Map{"error": richErr.Message})
	}

	return ctx.Status(status).JSON(fiber.Map{"error": err.Error()})
}
