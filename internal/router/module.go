package router

import "github.com/gin-gonic/gin"

// Module mounts one feature's routes on the registry's base group.
// Modules apply their own auth middleware per subgroup.
type Module interface {
	Register(rg *gin.RouterGroup)
}
