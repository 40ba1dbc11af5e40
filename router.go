package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	accountpkg "github.com/SwiftLogistics-Solutions/SwiftLogisticks-Backend-Auth/account"
	"github.com/SwiftLogistics-Solutions/SwiftLogisticks-Backend-Auth/auth"
	"github.com/SwiftLogistics-Solutions/SwiftLogisticks-Backend-Auth/gazetteer"
	api "github.com/SwiftLogistics-Solutions/SwiftLogisticks-Backend-Auth/handler"
	mw "github.com/SwiftLogistics-Solutions/SwiftLogisticks-Backend-Auth/middleware"
)

func newRouter(log *zap.Logger, svc accountpkg.Service, gateway auth.Gateway, places *gazetteer.Gazetteer) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), mw.RequestLogger(log))

	accountHandler := api.NewAccountHandler(svc)
	districtHandler := api.NewDistrictHandler(places)
	requireIdentity := mw.RequireIdentity(gateway)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "districts": len(places.Names())})
	})

	// Original paths, kept for existing clients.
	api.RegisterAccountRoutes(r, accountHandler, requireIdentity)
	api.RegisterDistrictRoutes(r, districtHandler)

	// API v1 routes
	v1 := r.Group("/api/v1")
	{
		api.RegisterAccountRoutes(v1.Group("/users"), accountHandler, requireIdentity)
		api.RegisterDistrictRoutes(v1, districtHandler)
	}
	return r
}
