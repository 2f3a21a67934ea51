package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/diagmatrix/go-travel/internal/api/handlers"
	"github.com/diagmatrix/go-travel/internal/domain"
	"github.com/diagmatrix/go-travel/internal/ports"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(repo ports.TripRepository, provider ports.RoutingProvider, defaultUnits domain.UnitSystem) http.Handler {
	r := mux.NewRouter()

	tripHandler := &handlers.TripHandler{
		Repo:         repo,
		Provider:     provider,
		DefaultUnits: defaultUnits,
	}

	r.HandleFunc("/health", handlers.Health).Methods(http.MethodGet)
	r.HandleFunc("/trips", tripHandler.Create).Methods(http.MethodPost)
	r.HandleFunc("/trips", tripHandler.List).Methods(http.MethodGet)
	r.HandleFunc("/trips/{id}", tripHandler.Get).Methods(http.MethodGet)
	r.HandleFunc("/trips/{id}/calendar.csv", tripHandler.Calendar).Methods(http.MethodGet)

	return requestIDMiddleware(loggingMiddleware(r))
}
