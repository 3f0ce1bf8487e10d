//go:build unix

package cancel_test

import (
	"context"
	"errors"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/randomizedcoder/tokenq/internal/cancel"
)

func TestSignalCanceler_Signal(t *testing.T) {
	c := cancel.NewSignal(context.Background(), syscall.SIGUSR1)
	defer c.Cancel(nil)

	if err := syscall.Kill(syscall.Getpid(), syscall.SIGUSR1); err != nil {
		t.Fatalf("Kill() error: %v", err)
	}

	select {
	case <-c.Context().Done():
	case <-time.After(time.Second):
		t.Fatal("expected cancellation after SIGUSR1")
	}

	cause := c.Cause()
	if !errors.Is(cause, cancel.ErrSignalled) {
		t.Fatalf("expected ErrSignalled, got %v", cause)
	}
	if !strings.Contains(cause.Error(), syscall.SIGUSR1.String()) {
		t.Errorf("cause %q does not name the signal", cause)
	}
}
