package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "contacts-manager/docs"
	"contacts-manager/internal/metrics"
)

// NewRouter builds the full route tree: the API under /api/v1, its Swagger
// UI at /api/v1/swagger/ and, when collector is set, /metrics.
func NewRouter(h *HTTPHandler, collector *metrics.Collector) *mux.Router {
	mainRouter := mux.NewRouter()

	router := mainRouter.PathPrefix("/api/v1").Subrouter()
	router.Use(RequestID, Logging(collector))
	h.RegisterRoutes(router)

	router.PathPrefix("/swagger/").Handler(httpSwagger.Handler(
		httpSwagger.URL("doc.json"),
		httpSwagger.DeepLinking(true),
	))

	if collector != nil {
		mainRouter.Handle("/metrics", collector.Handler()).Methods(http.MethodGet)
	}
	return mainRouter
}
