package main

import (
	"context"
	"log"

	"github.com/dmitrijs2005/filesmanager/internal/server"
	"github.com/dmitrijs2005/filesmanager/internal/server/config"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()
	w, err := server.NewWorkerApp(ctx, cfg)

	if err != nil {
		log.Printf("%v", err)
		return
	}

	if err := w.Run(ctx); err != nil {
		log.Printf("%v", err)
	}

}
