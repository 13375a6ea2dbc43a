package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	intconfig "tsharaki/internal/config"
	"tsharaki/internal/database"
	"tsharaki/internal/domain/models"
	router "tsharaki/internal/http"
	"tsharaki/internal/repositories"
	"tsharaki/internal/session"

	"github.com/gin-gonic/gin"
)

func main() {
	env := intconfig.LoadEnv()
	if env.GinMode != "" {
		gin.SetMode(env.GinMode)
	}

	intconfig.ConnectDB(env)
	defer intconfig.CloseDB()

	if err := database.RunMigrations(env.DatabaseURL); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	userRepo := repositories.UserRepository{}
	sessions := session.NewManager(func(ctx context.Context, authID string) (*models.User, error) {
		return userRepo.GetByAuthID(ctx, authID)
	})
	go sessions.Run()
	defer sessions.Stop()

	// Router (Gin engine)
	r := router.NewRouter(env, sessions)

	srv := &http.Server{
		Addr:              env.AppAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       20 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("server listening on http://localhost%s", env.AppAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server shutdown failed: %v", err)
	}

	log.Println("server stopped cleanly.")
}
