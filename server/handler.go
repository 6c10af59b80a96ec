package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sealvault/go-sealvault/middleware"
	"github.com/sealvault/go-sealvault/registry"
	"github.com/sealvault/go-sealvault/service/persist"
	"github.com/sealvault/go-sealvault/util"
)

// HandlersInit wires the registry onto the router
func HandlersInit(router *gin.Engine, reg *registry.Registry) *gin.Engine {
	router.GET("/alive", util.HealthCheckHandler())

	vault := router.Group("/vault/v1", middleware.AddInvocationContext())
	vault.POST("/execute", executeHandler(reg))
	vault.GET("/query", queryHandler(reg))
	vault.POST("/query", queryHandler(reg))

	return router
}

func executeHandler(reg *registry.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		var msg registry.ExecuteMsg
		if err := c.ShouldBindJSON(&msg); err != nil {
			util.ErrResponse(c, http.StatusBadRequest, err)
			return
		}

		answer, err := reg.Execute(c.Request.Context(), middleware.ExecCtxFor(c), msg)
		if err != nil {
			util.ErrResponse(c, statusForError(err), err)
			return
		}
		c.JSON(http.StatusOK, answer)
	}
}

func queryHandler(reg *registry.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		var msg registry.QueryMsg
		if err := c.ShouldBindJSON(&msg); err != nil {
			util.ErrResponse(c, http.StatusBadRequest, err)
			return
		}

		answer, err := reg.Query(c.Request.Context(), middleware.QueryCtxFor(c), msg)
		if err != nil {
			util.ErrResponse(c, statusForError(err), err)
			return
		}
		c.JSON(http.StatusOK, answer)
	}
}

func statusForError(err error) int {
	var (
		notFound      persist.ErrTokenNotFound
		unauthorized  persist.ErrUnauthorized
		alreadyExists persist.ErrTokenAlreadyExists
	)
	switch {
	case errors.As(err, &notFound), errors.Is(err, persist.ErrConfigNotFound{}):
		return http.StatusNotFound
	case errors.As(err, &unauthorized), errors.Is(err, persist.ErrNotAdmin{}), errors.Is(err, persist.ErrNotMinter{}):
		return http.StatusForbidden
	case errors.As(err, &alreadyExists), errors.Is(err, persist.ErrAlreadyInstantiated{}):
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}
