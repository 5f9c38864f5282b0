package main

import (
	"fmt"
	"log"
	"net/http"

	"go.uber.org/zap"

	"github.com/nimblechat/chat-viewer-api/api/handlers"
	"github.com/nimblechat/chat-viewer-api/config"
)

func main() {
	a := handlers.App{}
	a.Config = *config.New()

	if err := a.Initialize(); err != nil { //build store, fetch dataset, create router
		zap.S().With(err).Fatal("failed to initialize chat-viewer-api")
	}

	zap.S().Infow("chat-viewer-api is up and running",
		"port", a.Config.Port,
		"url", a.Config.BaseURL,
	)
	log.Fatal(http.ListenAndServe(fmt.Sprintf(":%v", a.Config.Port), a.Router))
}
