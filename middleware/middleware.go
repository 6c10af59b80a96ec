// Package middleware holds the gin middleware shared by the HTTP surface.
package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sealvault/go-sealvault/registry"
	"github.com/sealvault/go-sealvault/service/logger"
	"github.com/sealvault/go-sealvault/service/persist"
	"github.com/sealvault/go-sealvault/util"
	"github.com/sirupsen/logrus"
)

const (
	// CallerHeader names the verified address the host attributes the
	// request to. The host authenticates it before the request reaches us.
	CallerHeader = "X-Caller-Address"
	HeightHeader = "X-Block-Height"
	TimeHeader   = "X-Block-Time"
)

const (
	callerContextKey = "middleware.caller"
	heightContextKey = "middleware.height"
	timeContextKey   = "middleware.time"
)

// AddInvocationContext captures the caller address and the invocation's
// height and time from the request headers, once, so every handler and
// expiration check in the request sees the same values. Time defaults to
// the wall clock when the host does not supply one.
func AddInvocationContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		caller := persist.Address(c.GetHeader(CallerHeader))

		height, err := headerUint(c, HeightHeader, 0)
		if err != nil {
			util.ErrResponse(c, http.StatusBadRequest, err)
			return
		}
		now, err := headerUint(c, TimeHeader, uint64(time.Now().Unix()))
		if err != nil {
			util.ErrResponse(c, http.StatusBadRequest, err)
			return
		}

		c.Set(callerContextKey, caller)
		c.Set(heightContextKey, height)
		c.Set(timeContextKey, now)

		if caller.Valid() {
			c.Request = c.Request.WithContext(logger.ContextWithFields(c.Request.Context(), logrus.Fields{"caller": caller}))
		}
		c.Next()
	}
}

// ExecCtxFor returns the execution context captured for this request
func ExecCtxFor(c *gin.Context) registry.ExecCtx {
	caller, _ := c.Get(callerContextKey)
	addr, _ := caller.(persist.Address)
	return registry.ExecCtx{
		Caller: addr,
		Height: c.GetUint64(heightContextKey),
		Time:   c.GetUint64(timeContextKey),
	}
}

// QueryCtxFor returns the read-only context captured for this request
func QueryCtxFor(c *gin.Context) registry.QueryCtx {
	return registry.QueryCtx{
		Height: c.GetUint64(heightContextKey),
		Time:   c.GetUint64(timeContextKey),
	}
}

// ErrLogger logs any error a handler attached to the request
func ErrLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		if len(c.Errors) > 0 {
			logger.For(c.Request.Context()).Errorf("%s %s: %s", c.Request.Method, c.Request.URL.Path, c.Errors.JSON())
		}
	}
}

func headerUint(c *gin.Context, header string, def uint64) (uint64, error) {
	raw := c.GetHeader(header)
	if raw == "" {
		return def, nil
	}
	parsed, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s header: %q", header, raw)
	}
	return parsed, nil
}
