package identity

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shandysiswandi/goblog/internal/identity/inbound"
	"github.com/shandysiswandi/goblog/internal/identity/outbound/db"
	"github.com/shandysiswandi/goblog/internal/identity/usecase"
	"github.com/shandysiswandi/goblog/internal/pkg/clock"
	"github.com/shandysiswandi/goblog/internal/pkg/hash"
	"github.com/shandysiswandi/goblog/internal/pkg/instrument"
	"github.com/shandysiswandi/goblog/internal/pkg/jwt"
	"github.com/shandysiswandi/goblog/internal/pkg/openapi"
	"github.com/shandysiswandi/goblog/internal/pkg/ratelimit"
	"github.com/shandysiswandi/goblog/internal/pkg/router"
	"github.com/shandysiswandi/goblog/internal/pkg/uid"
	"github.com/shandysiswandi/goblog/internal/pkg/validator"
)

type Dependency struct {
	DBConn        *pgxpool.Pool              `validate:"required"`
	Router        *router.Router             `validate:"required"`
	Docs          *openapi.Registry          `validate:"required"`
	Instrument    instrument.Instrumentation `validate:"required"`
	UUID          uid.StringID               `validate:"required"`
	Bcrypt        hash.Hash                  `validate:"required"`
	Clock         clock.Clocker              `validate:"required"`
	Validator     *validator.V10Validator    `validate:"required"`
	JWT           jwt.JWT                    `validate:"required"`
	SignInLimiter ratelimit.Limiter
	SignUpLimiter ratelimit.Limiter
}

func New(dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	dbUser := db.NewDB(dep.DBConn, dep.Instrument)

	uc := usecase.New(usecase.Dependency{
		RepoDB:     dbUser,
		Bcrypt:     dep.Bcrypt,
		UUID:       dep.UUID,
		Clock:      dep.Clock,
		JWT:        dep.JWT,
		Instrument: dep.Instrument,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, dep.Docs, dep.Validator, inbound.Limiters{
		SignIn: dep.SignInLimiter,
		SignUp: dep.SignUpLimiter,
	}, uc)

	return nil
}
