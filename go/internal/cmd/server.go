package main

import (
	"fmt"
	"net/http"

	"github.com/hardwoodgm/hardwood/go/internal/gateway"
	"github.com/hardwoodgm/hardwood/go/internal/httpapi"
)

func setupServer(services *Services, ws *gateway.Handler) *http.Server {
	api := httpapi.NewServer(
		services.Seasons,
		services.Playoffs,
		services.Draft,
		services.FreeAgency,
		services.Trades,
		ws,
	)

	return &http.Server{
		Addr:    fmt.Sprintf(":%s", getEnv("PORT", "8080")),
		Handler: api.Handler(),
	}
}
