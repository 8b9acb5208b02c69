package server

import (
	"net/http"
	"net/url"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ServerConfig configures the panel server.
type ServerConfig struct {
	// Address is the listen address. Default: ":8080".
	Address string

	// MetricsPath is the route of the Prometheus endpoint.
	// Default: "/metrics".
	MetricsPath string

	// DisableMetrics removes the metrics route.
	DisableMetrics bool

	// Gatherer serves the metrics route.
	// Default: prometheus.DefaultGatherer.
	Gatherer prometheus.Gatherer

	// WebSocket

	// ReadBufferSize and WriteBufferSize size the websocket buffers.
	// Default: 4096 each.
	ReadBufferSize  int
	WriteBufferSize int

	// CheckOrigin validates the Origin header of websocket upgrades.
	// Default: SameOriginCheck.
	CheckOrigin func(r *http.Request) bool

	// MaxMessageSize bounds an incoming client frame. Default: 64KB.
	MaxMessageSize int64

	// SendQueue is the number of frames buffered per client. A client
	// that falls further behind is disconnected. Default: 64.
	SendQueue int

	// WriteTimeout bounds one frame write. Default: 10 seconds.
	WriteTimeout time.Duration

	// PingInterval is the websocket keepalive period. The read deadline
	// is twice this. Default: 30 seconds.
	PingInterval time.Duration

	// HTTP

	// MaxEventBytes bounds the body of POST /api/events. Default: 64KB.
	MaxEventBytes int64

	// ReadHeaderTimeout for the HTTP server. Default: 5 seconds.
	ReadHeaderTimeout time.Duration

	// ShutdownTimeout bounds graceful shutdown. Default: 30 seconds.
	ShutdownTimeout time.Duration
}

// DefaultServerConfig returns a ServerConfig with sensible defaults.
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		Address:           ":8080",
		MetricsPath:       "/metrics",
		Gatherer:          prometheus.DefaultGatherer,
		ReadBufferSize:    4096,
		WriteBufferSize:   4096,
		CheckOrigin:       SameOriginCheck,
		MaxMessageSize:    64 * 1024,
		SendQueue:         64,
		WriteTimeout:      10 * time.Second,
		PingInterval:      30 * time.Second,
		MaxEventBytes:     64 * 1024,
		ReadHeaderTimeout: 5 * time.Second,
		ShutdownTimeout:   30 * time.Second,
	}
}

// withDefaults returns a copy of c with unset fields filled in.
func (c *ServerConfig) withDefaults() *ServerConfig {
	defaults := DefaultServerConfig()
	if c == nil {
		return defaults
	}

	out := *c
	if out.Address == "" {
		out.Address = defaults.Address
	}
	if out.MetricsPath == "" {
		out.MetricsPath = defaults.MetricsPath
	}
	if out.Gatherer == nil {
		out.Gatherer = defaults.Gatherer
	}
	if out.ReadBufferSize == 0 {
		out.ReadBufferSize = defaults.ReadBufferSize
	}
	if out.WriteBufferSize == 0 {
		out.WriteBufferSize = defaults.WriteBufferSize
	}
	if out.CheckOrigin == nil {
		out.CheckOrigin = defaults.CheckOrigin
	}
	if out.MaxMessageSize == 0 {
		out.MaxMessageSize = defaults.MaxMessageSize
	}
	if out.SendQueue == 0 {
		out.SendQueue = defaults.SendQueue
	}
	if out.WriteTimeout == 0 {
		out.WriteTimeout = defaults.WriteTimeout
	}
	if out.PingInterval == 0 {
		out.PingInterval = defaults.PingInterval
	}
	if out.MaxEventBytes == 0 {
		out.MaxEventBytes = defaults.MaxEventBytes
	}
	if out.ReadHeaderTimeout == 0 {
		out.ReadHeaderTimeout = defaults.ReadHeaderTimeout
	}
	if out.ShutdownTimeout == 0 {
		out.ShutdownTimeout = defaults.ShutdownTimeout
	}
	return &out
}

// WithAddress sets the listen address.
func (c *ServerConfig) WithAddress(addr string) *ServerConfig {
	c.Address = addr
	return c
}

// SameOriginCheck accepts websocket upgrades whose Origin host matches the
// request host, and requests without an Origin header.
func SameOriginCheck(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}

	originURL, err := url.Parse(origin)
	if err != nil {
		return false
	}

	host := r.Host
	if host == "" {
		return false
	}
	return originURL.Host == host
}
