package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"discipulado/src/services/attendance"
	"discipulado/src/services/hierarchy"
	"discipulado/src/services/network"
)

// Server representa o servidor HTTP da API
type Server struct {
	logger            *slog.Logger
	server            *http.Server
	mux               *http.ServeMux
	port              int
	hierarchyService  *hierarchy.HierarchyService
	networkService    *network.NetworkService
	attendanceService *attendance.AttendanceService
}

// NewServer cria uma nova instância do servidor
func NewServer(
	logger *slog.Logger,
	port int,
	hierarchyService *hierarchy.HierarchyService,
	networkService *network.NetworkService,
	attendanceService *attendance.AttendanceService,
) *Server {
	server := &Server{
		mux:               http.NewServeMux(),
		port:              port,
		logger:            logger,
		hierarchyService:  hierarchyService,
		networkService:    networkService,
		attendanceService: attendanceService,
	}

	server.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      server.mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Rotas de Leitura
	server.mux.HandleFunc("GET /v1/network/{id}", server.GetNetwork)
	server.mux.HandleFunc("GET /v1/network/{ancestorId}/descendants/{targetId}", server.CheckDescendant)

	// Rotas de Escrita
	server.mux.HandleFunc("POST /v1/hierarchy/assign", server.AssignHierarchy)
	server.mux.HandleFunc("DELETE /v1/hierarchy/{childId}", server.RemoveHierarchy)

	server.mux.HandleFunc("POST /v1/attendance/ingest", server.IngestAttendance)

	return server
}

// Start inicia o servidor HTTP
func (s *Server) Start() error {
	s.logger.Info("Server started", "port", s.port)

	return s.server.ListenAndServe()
}

// Shutdown encerra o servidor HTTP de forma graciosa
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down server...")
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
