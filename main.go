// main.go
package main

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/ariqfadlan/medpractice/config"
	"github.com/ariqfadlan/medpractice/endpoint"
	"github.com/ariqfadlan/medpractice/middleware"
	"github.com/ariqfadlan/medpractice/model"
	"github.com/ariqfadlan/medpractice/store"
	"github.com/ariqfadlan/medpractice/util"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.LoadConfig()

	db, err := config.ConnectDatabase()
	if err != nil {
		log.Fatalf("Error connecting to database: %v", err)
	}
	if err := db.AutoMigrate(
		&model.Patient{},
		&model.Visit{},
		&model.Account{},
		&model.User{},
		&model.SecurityLog{},
	); err != nil {
		log.Fatalf("Error migrating schema: %v", err)
	}

	util.SetSecurityLoggerDB(db)

	if _, err := config.ConnectRedis(); err != nil {
		log.Printf("Redis unavailable, sessions degrade to JWT expiry: %v", err)
	}

	if err := util.InitGeoIP(cfg.GeoIPPath); err != nil {
		log.Printf("GeoIP disabled: %v", err)
	}
	defer util.CloseGeoIP()

	// The account directory is fixed at startup: gorm against the live
	// database, or the seeded in-memory fake for demo runs.
	var directory store.Directory
	if cfg.Directory == "memory" {
		directory = store.NewMemorySeeded()
		if err := store.SeedDemoPatients(db); err != nil {
			log.Printf("Failed to seed demo patients: %v", err)
		}
	} else {
		directory = store.NewGorm(db)
	}

	gin.SetMode(cfg.GinMode)

	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		MaxAge:           24 * time.Hour,
		AllowCredentials: false,
	}))
	router.Use(middleware.DatabaseMiddleware(db))
	router.Use(middleware.DirectoryMiddleware(directory))
	router.Use(middleware.EndpointCallLogger())

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": fmt.Sprintf("Welcome to %s!", cfg.AppName),
		})
	})

	router.POST("/login", middleware.RateLimiter(middleware.RateLimitConfig{}), endpoint.Login)

	authed := router.Group("/", middleware.AuthRequired())
	{
		authed.POST("/logout", endpoint.Logout)
		authed.GET("/session", endpoint.CheckSession)

		authed.GET("/patient", endpoint.ListPatients)
		authed.POST("/patient", endpoint.CreatePatient)
		authed.GET("/patient/:id", endpoint.GetPatientInfo)
		authed.PATCH("/patient/:id", endpoint.UpdatePatient)
		authed.DELETE("/patient/:id", endpoint.DeletePatient)
		authed.GET("/patient/:id/visit", endpoint.ListVisits)
		authed.POST("/patient/:id/visit", endpoint.AddVisit)

		authed.GET("/doctor", endpoint.ListDoctors)
		authed.POST("/doctor", endpoint.CreateDoctor)
		authed.GET("/doctor/:id", endpoint.GetDoctor)
		authed.PATCH("/doctor/:id", endpoint.UpdateDoctor)
		authed.POST("/doctor/:id/reset-password", endpoint.ResetDoctorPassword)
		authed.POST("/doctor/:id/toggle-status", endpoint.ToggleDoctorStatus)

		authed.GET("/lab", endpoint.ListLabs)
		authed.GET("/lab/:id", endpoint.GetLab)
		authed.PATCH("/lab/:id", endpoint.UpdateLab)

		authed.GET("/pharmacy", endpoint.ListPharmacies)
		authed.GET("/pharmacy/:id", endpoint.GetPharmacy)
		authed.PATCH("/pharmacy/:id", endpoint.UpdatePharmacy)

		authed.GET("/subscription", endpoint.ListSubscriptions)
		authed.PATCH("/subscription/:id", endpoint.UpdateSubscription)

		authed.GET("/dashboard/stats", endpoint.DashboardStats)
		authed.GET("/dashboard/top-drugs", endpoint.TopDrugs)
		authed.GET("/dashboard/top-tests", endpoint.TopTests)
		authed.GET("/dashboard/recent-visits", endpoint.RecentVisits)

		authed.GET("/export/:type", endpoint.ExportData)
	}

	address := fmt.Sprintf(":%d", cfg.AppPort)
	if err := router.Run(address); err != nil {
		log.Fatalf("error starting server: %v", err)
	}
}
