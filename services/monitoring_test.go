package services

import (
	"testing"
	"time"
)

func TestMonitoringStartReturnsPromptly(t *testing.T) {
	t.Setenv("PROMETHEUS_PORT", "0")

	svc := &MonitoringService{}
	done := make(chan error, 1)
	go func() { done <- svc.Start() }()

	// The container starts services in order; a Start that sits in
	// Listen would keep the API server from ever binding.
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Start() error = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Start() blocked on the metrics listener")
	}

	svc.Shutdown()
}
