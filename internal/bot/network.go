package bot

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

// Network timeouts
const (
	DialTimeout      = 30 * time.Second
	KeepAlive        = 30 * time.Second
	HandshakeTimeout = 45 * time.Second
)

// forceIPv4 maps a dial network to its IPv4 only form
func forceIPv4(network string) string {
	switch network {
	case "tcp", "tcp6":
		return "tcp4"
	case "udp", "udp6":
		return "udp4"
	case "ip", "ip6":
		return "ip4"
	}
	return network
}

func dialIPv4() func(ctx context.Context, network, addr string) (net.Conn, error) {
	dialer := &net.Dialer{
		Timeout:   DialTimeout,
		KeepAlive: KeepAlive,
		Resolver:  &net.Resolver{PreferGo: true},
	}
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		return dialer.DialContext(ctx, forceIPv4(network), addr)
	}
}

// NewHTTPClient returns a client that only dials IPv4
func NewHTTPClient() *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DialContext = dialIPv4()
	return &http.Client{Transport: transport, Timeout: 2 * time.Minute}
}

// NewWebsocketDialer returns a gateway dialer that only dials IPv4
func NewWebsocketDialer() *websocket.Dialer {
	return &websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		NetDialContext:   dialIPv4(),
		HandshakeTimeout: HandshakeTimeout,
	}
}
