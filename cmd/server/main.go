package main

import (
	"log"
	"net/http"

	"github.com/Yudzxml/PANELSV2/internal/api/router"
	"github.com/Yudzxml/PANELSV2/internal/cache"
	"github.com/Yudzxml/PANELSV2/internal/config"
	"github.com/Yudzxml/PANELSV2/internal/core/repository"
	"github.com/Yudzxml/PANELSV2/internal/core/service"
	"github.com/Yudzxml/PANELSV2/internal/provision"
)

func main() {
	cfg := config.LoadConfig()

	// Initialize repositories
	var userRepo repository.UserRepository
	var panelRepo repository.PanelRepository

	if cfg.TestMode {
		log.Println("TEST_MODE enabled, using in-memory repositories")
		userRepo = repository.NewInMemoryUserRepository()
		panelRepo = repository.NewInMemoryPanelRepository()
	} else {
		// Load MongoDB configuration and connect
		mongoConfig := config.NewMongoConfig()
		db, err := config.ConnectMongoDB(mongoConfig)
		if err != nil {
			log.Fatalf("Failed to connect to MongoDB: %v", err)
		}
		userRepo = repository.NewMongoUserRepository(db)
		panelRepo = repository.NewMongoPanelRepository(db)
	}

	// Optional Redis cache
	c := cache.New(cfg.RedisURL)
	defer c.Close()

	// Provisioning API client
	provisioner := provision.NewHTTPClient(cfg.ProvisionBaseURL, cfg.ProvisionOrigin)

	// Initialize services
	userService := service.NewUserService(userRepo, panelRepo)
	panelService := service.NewPanelService(userRepo, panelRepo, provisioner, c)

	// Initialize router
	r := router.NewRouter(userService, panelService)

	// Start server
	addr := cfg.Host + ":" + cfg.Port
	log.Printf("Server starting on %s", addr)
	if err := http.ListenAndServe(addr, r); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
