package middleware

import (
	"log"

	"main/utils"

	"github.com/gin-gonic/gin"
)

func RecoveryMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Printf("panic recovered (request_id=%s): %v", c.GetString("request_id"), err)
				utils.TrackError("http", "panic")
				c.AbortWithStatus(500)
			}
		}()
		c.Next()
	}
}
