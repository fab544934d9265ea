package main

import (
	"net/http"
	"testing"
	"time"

	"github.com/iho/balanceledger/internal/infrastructure/config"
)

func TestNewHTTPServer(t *testing.T) {
	cfg := &config.Config{
		HTTPPort:         "9090",
		HTTPReadTimeout:  time.Second,
		HTTPWriteTimeout: 2 * time.Second,
		HTTPIdleTimeout:  3 * time.Second,
	}

	server := newHTTPServer(cfg, http.NotFoundHandler())

	if server.Addr != ":9090" {
		t.Fatalf("expected :9090, got %s", server.Addr)
	}
	if server.ReadTimeout != time.Second || server.WriteTimeout != 2*time.Second || server.IdleTimeout != 3*time.Second {
		t.Fatalf("unexpected timeouts %v %v %v", server.ReadTimeout, server.WriteTimeout, server.IdleTimeout)
	}
}

func TestRedisEnabled(t *testing.T) {
	if redisEnabled(&config.Config{}) {
		t.Fatalf("expected redis to be disabled without a URL")
	}
	if !redisEnabled(&config.Config{RedisURL: "redis://localhost:6379"}) {
		t.Fatalf("expected redis to be enabled")
	}
}
