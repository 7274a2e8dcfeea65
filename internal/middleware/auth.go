package middleware

import (
	"net/http"
	"strings"

	"github.com/AlejndroSG/ImpulsaTelecom-sub002/internal/apierror"
	"github.com/AlejndroSG/ImpulsaTelecom-sub002/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	ActorKey = "actor"
)

// JWTAuth validates the Bearer access token on every protected route and
// stores the caller as a service.Actor.
func JWTAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Autenticacion requerida"))
			return
		}

		tokenStr := strings.TrimPrefix(header, "Bearer ")
		claims, err := service.ParseToken(secret, tokenStr, service.TokenAccess)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Token invalido o expirado"))
			return
		}

		c.Set(ActorKey, claims.Actor())
		c.Next()
	}
}

// RequireRole rejects requests whose JWT role is not in the allowed list.
func RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(c *gin.Context) {
		actor, ok := c.Get(ActorKey)
		if a, _ := actor.(service.Actor); !ok || !allowed[a.Rol] {
			c.AbortWithStatusJSON(http.StatusForbidden, apierror.New("Permisos insuficientes"))
			return
		}
		c.Next()
	}
}

// GetActor is a helper to retrieve the authenticated caller from the Gin context.
func GetActor(c *gin.Context) service.Actor {
	actor, _ := c.MustGet(ActorKey).(service.Actor)
	return actor
}
