package middleware

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/dtroode/certledger/internal/api/grpc/proto"
	"github.com/dtroode/certledger/internal/logger"
)

// Logging is a unary interceptor that logs gRPC requests and results.
type Logging struct {
	logger *logger.Logger
}

// NewLogging creates a new Logging middleware.
func NewLogging(logger *logger.Logger) *Logging {
	return &Logging{logger: logger}
}

// HandleGRPC logs method, ledger function, duration and status for each
// unary request.
func (l *Logging) HandleGRPC(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	log := l.logger.With("method", info.FullMethod)
	if function := functionName(req); function != "" {
		log = log.With("function", function)
	}

	log.Debug("gRPC request started")

	resp, err := handler(ctx, req)

	code := codes.OK
	if err != nil {
		if st, ok := status.FromError(err); ok {
			code = st.Code()
		} else {
			code = codes.Internal
		}
	}

	log.Info("gRPC request completed",
		"duration_ms", time.Since(start).Milliseconds(),
		"status", code.String())

	if err != nil {
		log.Warn("gRPC request failed",
			"error", err.Error(),
			"status", code.String())
	}

	return resp, err
}

func functionName(req any) string {
	s, ok := req.(*structpb.Struct)
	if !ok {
		return ""
	}
	return s.GetFields()[proto.FieldFunction].GetStringValue()
}
