package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/shuyuzheng19/go-blog-api/internal/app"
)

// @title       go-blog-api
// @version     1.0
// @description Blog platform backend: cached listings, view counters, taxonomy and files.
// @securityDefinitions.apikey BearerAuth
// @in   header
// @name Authorization
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.Build(ctx)
	if err != nil {
		log.Fatalf("build failed: %v", err)
	}
	if err := a.Run(ctx); err != nil {
		log.Fatalf("run failed: %v", err)
	}
}
