package router

import (
	"github.com/oksasatya/accounts-api/internal/container"
	handlers "github.com/oksasatya/accounts-api/internal/interface/http"
	"github.com/oksasatya/accounts-api/internal/router/modules"
	"github.com/oksasatya/accounts-api/pkg/validation"
)

// InitModules builds the handlers from c and adds every feature module to r.
// Call RegisterAll afterwards.
func InitModules(r *Registry, c *container.Container) {
	validation.Init()

	userHandler := handlers.NewUserHandler(c.Service, c.Logger)
	authHandler := handlers.NewAuthHandler(c.Service, c.Logger)
	healthHandler := handlers.NewHealthHandler(c.Store, c.Logger)

	r.Add(modules.NewHealthModule(healthHandler))
	r.Add(modules.NewAuthModule(authHandler))
	r.Add(modules.NewUserModule(userHandler, c.JWT))
	if c.Config.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}
