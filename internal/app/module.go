package app

import (
	"context"
	"fmt"

	"github.com/shandysiswandi/goblog/internal/identity"
	"github.com/shandysiswandi/goblog/internal/post"
)

func (a *App) initModules(context.Context) error {
	if a.config.GetBool("modules.identity.enabled") {
		if err := identity.New(identity.Dependency{
			DBConn:        a.dbConn,
			Router:        a.router,
			Docs:          a.docs,
			Instrument:    a.ins,
			UUID:          a.uuid,
			Bcrypt:        a.bcrypt,
			Clock:         a.clock,
			Validator:     a.validator,
			JWT:           a.jwt,
			SignInLimiter: a.signInLimiter,
			SignUpLimiter: a.signUpLimiter,
		}); err != nil {
			return fmt.Errorf("identity: %w", err)
		}
	}

	if a.config.GetBool("modules.post.enabled") {
		if err := post.New(post.Dependency{
			DBConn:     a.dbConn,
			Router:     a.router,
			Docs:       a.docs,
			Instrument: a.ins,
			UUID:       a.uuid,
			Clock:      a.clock,
			Validator:  a.validator,
		}); err != nil {
			return fmt.Errorf("post: %w", err)
		}
	}

	return nil
}
