package main

import (
	"context"
	"log"

	"github.com/code-gritt/maiden/internal/bootstrap"
	"github.com/code-gritt/maiden/internal/config"
	"github.com/code-gritt/maiden/internal/server"
	"github.com/code-gritt/maiden/internal/tracer"
	"github.com/code-gritt/maiden/pkg/database"
)

func main() {
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	cfg := config.Load()

	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	container := bootstrap.NewContainer(gormDB, cfg)
	defer container.Logger.Sync()

	go func() {
		log.Println("Background: Starting audit event consumer...")
		if err := container.ConsumerService.Consume(context.Background()); err != nil {
			log.Printf("Background consumer error: %v", err)
		}
	}()

	srv := server.New(cfg, container)

	log.Fatal(srv.Run())
}
