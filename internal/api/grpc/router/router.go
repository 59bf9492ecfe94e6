package router

import (
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/dtroode/certledger/internal/api/grpc/middleware"
	"github.com/dtroode/certledger/internal/api/grpc/proto"
	"github.com/dtroode/certledger/internal/logger"
)

// Router registers the ledger service and its interceptors on a gRPC
// server.
type Router struct {
	ledger proto.LedgerServer
	logger *logger.Logger
}

// New creates new gRPC Router instance.
func New(ledger proto.LedgerServer, logger *logger.Logger) *Router {
	return &Router{
		ledger: ledger,
		logger: logger,
	}
}

// Register builds the gRPC server with recovery and request logging
// interceptors, the ledger service, health checks and reflection.
func (r *Router) Register() *grpc.Server {
	logging := middleware.NewLogging(r.logger)
	recovery := middleware.NewRecovery(r.logger)

	s := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			recovery.Unary(),
			logging.HandleGRPC,
		),
	)

	proto.RegisterLedgerServer(s, r.ledger)

	healthServer := health.NewServer()
	healthServer.SetServingStatus(proto.ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(s, healthServer)

	reflection.Register(s)

	return s
}
