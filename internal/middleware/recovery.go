package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Recovery turns panics into a 500 envelope. The panic value and stack
// are only echoed to the client when exposeDetails is set.
func Recovery(logger *logrus.Logger, exposeDetails bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}

			stack := string(debug.Stack())
			logger.WithFields(logrus.Fields{
				"panic":  fmt.Sprint(rec),
				"method": c.Request.Method,
				"path":   c.Request.URL.Path,
				"stack":  stack,
			}).Error("Recovered from panic")

			body := gin.H{
				"success":   false,
				"error":     "Internal server error",
				"timestamp": time.Now().UTC(),
			}
			if exposeDetails {
				body["details"] = []string{fmt.Sprint(rec), stack}
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, body)
		}()

		c.Next()
	}
}
