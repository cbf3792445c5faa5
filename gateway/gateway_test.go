package gateway

import (
	"context"
	"os/exec"
	"testing"
)

func TestRestart_MissingBinarySimulates(t *testing.T) {
	r := NewRestarter("definitely-not-installed-anywhere", nil)

	result, err := r.Restart(context.Background(), 5000, "maintenance window")
	if err != nil {
		t.Fatalf("Restart: %v", err)
	}
	if !result.Restarted || !result.Simulated {
		t.Errorf("result = %+v, want simulated restart", result)
	}
	if result.DelayMS != 5000 || result.Note != "maintenance window" {
		t.Errorf("request fields not echoed: %+v", result)
	}
	if result.Status == "" || result.Message == "" {
		t.Error("simulated result should explain itself")
	}
}

func TestRestart_RunsCommand(t *testing.T) {
	echo, err := exec.LookPath("echo")
	if err != nil {
		t.Skip("echo not available")
	}

	r := NewRestarter("echo", nil)
	r.lookPath = func(string) (string, error) { return echo, nil }

	result, err := r.Restart(context.Background(), 250, "")
	if err != nil {
		t.Fatalf("Restart: %v", err)
	}
	if !result.Restarted || result.Simulated {
		t.Errorf("result = %+v", result)
	}
	if result.Output != "gateway restart --delay 250" {
		t.Errorf("Output = %q", result.Output)
	}
}

func TestRestart_DefaultBinary(t *testing.T) {
	r := NewRestarter("", nil)
	if r.binary != DefaultBinary {
		t.Errorf("binary = %q, want %q", r.binary, DefaultBinary)
	}
}
