package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ardhiansyah/toko-api/internal/config"
	"github.com/ardhiansyah/toko-api/internal/httpserver"
	"github.com/ardhiansyah/toko-api/internal/imagestore"
	"github.com/ardhiansyah/toko-api/internal/logging"
	"github.com/ardhiansyah/toko-api/internal/mykafka"
	"github.com/ardhiansyah/toko-api/internal/repo"
	"github.com/ardhiansyah/toko-api/internal/search"
	"github.com/ardhiansyah/toko-api/internal/service"
)

func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(configuration.LOG_LEVEL)

	db, err := config.InitDB(configuration)
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}

	prod := mykafka.NewProducer(configuration.KAFKA_ADDRESS)

	esClient, err := search.NewClient(configuration)
	if err != nil {
		log.Fatalf("elasticsearch init error: %v", err)
	}
	index := &search.Index{ES: esClient, Name: search.ProductIndex}

	uploader, err := imagestore.NewGCS(context.Background(), configuration.GCS_BUCKET, configuration.GCS_CREDS)
	if err != nil {
		log.Fatalf("image store init error: %v", err)
	}

	r := repo.New(db)
	jwtSecret := []byte(configuration.JWT_SECRET)

	authSvc := &service.AuthService{
		Repo:      r,
		Producer:  prod,
		JWTSecret: jwtSecret,
		JWTExpire: configuration.JWT_EXPIRE,
	}
	productSvc := &service.ProductService{Repo: r, Uploader: uploader, Producer: prod, Index: index}
	adminSvc := &service.AdminService{Repo: r, Uploader: uploader, Producer: prod, Index: index}

	e := echo.New()
	httpserver.Register(e, &httpserver.Deps{
		AuthHandler:    &httpserver.AuthHandler{Svc: authSvc},
		ProductHandler: &httpserver.ProductHandler{Svc: productSvc},
		AdminHandler:   &httpserver.AdminHandler{Svc: adminSvc},
		Actor:          &httpserver.ActorMiddleware{Repo: r},
		JWTSecret:      jwtSecret,
		Logger:         logger,
	})

	srv := &http.Server{
		Addr:         ":" + configuration.PORT,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	} else {
		log.Printf("db() error: %v", err)
	}

	if err := prod.Close(); err != nil {
		log.Printf("kafka close error: %v", err)
	}

	log.Println("shutdown complete")
}
