package model

import (
	"context"
	"net"
)

// SecurityLayer opens the listener a server accepts connections on,
// with or without TLS.
type SecurityLayer interface {
	Listen(protocol, addr string) (net.Listener, error)
}

// Server is a network server with a blocking Start and a graceful Stop.
type Server interface {
	Start(securityLayer SecurityLayer) error
	Stop(ctx context.Context) error
	Address() string
}
