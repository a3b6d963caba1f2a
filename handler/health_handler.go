package handler

import (
	"context"
	"time"

	"main/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// HealthHandler reports store reachability and basic system load.
func HealthHandler(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	mongoStatus := "ok"
	if utils.MongoClient == nil {
		mongoStatus = "not configured"
	} else if err := utils.MongoClient.Ping(ctx, readpref.Primary()); err != nil {
		mongoStatus = "unreachable"
	}

	utils.Success(c, gin.H{
		"mongo":          mongoStatus,
		"cpu_percent":    utils.GetCPUUsage(),
		"memory_percent": utils.GetMemoryUsage(),
	})
}
