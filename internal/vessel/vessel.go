package vessel

import (
	"log/slog"

	"vesselregistry/internal/vessel/handler"
	"vesselregistry/internal/vessel/service"
)

// Service exposes vessel registry orchestration.
type Service = service.Service

// Handler wires HTTP endpoints to the vessel service.
type Handler = handler.Handler

// NewService constructs the vessel registry service with required dependencies.
func NewService(vessels service.VesselStore, opts ...service.Option) *Service {
	return service.New(vessels, opts...)
}

// NewHandler constructs an HTTP handler for vessel registry routes.
func NewHandler(s *Service, logger *slog.Logger) *Handler {
	return handler.New(s, logger)
}
