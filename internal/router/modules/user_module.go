package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/accounts-api/internal/interface/http"
	"github.com/oksasatya/accounts-api/internal/interface/middleware"
)

// UserModule wires user HTTP handlers and bearer auth into routes
// Public: POST /users
// Protected: GET /users, GET /users/search, GET|PUT|DELETE /users/:id, PATCH /users/:id/password
type UserModule struct {
	Handler *handlers.UserHandler
	Tokens  middleware.TokenVerifier
}

func NewUserModule(h *handlers.UserHandler, tokens middleware.TokenVerifier) *UserModule {
	return &UserModule{Handler: h, Tokens: tokens}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	rg.POST("/users", m.Handler.Register)

	auth := rg.Group("/users")
	auth.Use(middleware.Auth(m.Tokens))
	{
		auth.GET("", m.Handler.List)
		auth.GET("/search", m.Handler.Search)
		auth.GET("/:id", m.Handler.Get)
		auth.PUT("/:id", m.Handler.Update)
		auth.PATCH("/:id/password", m.Handler.UpdatePassword)
		auth.DELETE("/:id", m.Handler.Delete)
	}
}
