package routes

import (
	"time"

	"flixcrd-backend/billing"
	"flixcrd-backend/config"
	"flixcrd-backend/gateway"
	"flixcrd-backend/ledger"
	"flixcrd-backend/middleware"
	"flixcrd-backend/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

// Dependencies are the wired components the HTTP layer needs.
type Dependencies struct {
	Config *config.Config
	DB     *gorm.DB
	Store  *ledger.Store
	Engine *billing.Engine
	Asaas  gateway.AsaasClient
}

func SetupRouter(deps Dependencies) *gin.Engine {
	r := gin.New()
	r.Use(gin.LoggerWithWriter(utils.LogWriter()), gin.Recovery())
	r.Use(middleware.Prometheus())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	HealthRoutes(r, deps)
	WebhookRoutes(r, deps)
	AdminRoutes(r, deps)

	return r
}
