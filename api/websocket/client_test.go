package websocket_test

import (
	"testing"
	"time"

	"github.com/OldStager01/cloud-autoscaler/api/websocket"
	"github.com/OldStager01/cloud-autoscaler/pkg/config"
)

func TestNewWebSocketSettings_NilConfigUsesDefaults(t *testing.T) {
	settings := websocket.NewWebSocketSettings(nil)

	if settings.WriteWait != 10*time.Second {
		t.Errorf("expected default write wait 10s, got %v", settings.WriteWait)
	}
	if settings.MaxMessageSize != 512 {
		t.Errorf("expected default max message size 512, got %d", settings.MaxMessageSize)
	}
}

func TestNewWebSocketSettings_HonorsOverrides(t *testing.T) {
	cfg := &config.WebSocketConfig{
		WriteTimeout:   5 * time.Second,
		PongTimeout:    20 * time.Second,
		MaxMessageSize: 2048,
		ClientBuffer:   64,
	}
	settings := websocket.NewWebSocketSettings(cfg)

	if settings.WriteWait != 5*time.Second {
		t.Errorf("expected overridden write wait 5s, got %v", settings.WriteWait)
	}
	if settings.PongWait != 20*time.Second {
		t.Errorf("expected overridden pong wait 20s, got %v", settings.PongWait)
	}
	if settings.ClientBuffer != 64 {
		t.Errorf("expected overridden client buffer 64, got %d", settings.ClientBuffer)
	}
}

func TestNewWebSocketSettings_PingPeriodDerivedFromPongWait(t *testing.T) {
	cfg := &config.WebSocketConfig{PongTimeout: 10 * time.Second}
	settings := websocket.NewWebSocketSettings(cfg)

	want := (10 * time.Second * 9) / 10
	if settings.PingPeriod != want {
		t.Errorf("expected ping period %v, got %v", want, settings.PingPeriod)
	}
}
