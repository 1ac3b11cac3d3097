//go:build unix

package lifecycle

import (
	"syscall"
	"testing"
	"time"

	"go.uber.org/goleak"
)

func TestSignalTrigger(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	stopped := make(chan struct{})
	release := SignalTrigger(syscall.SIGUSR1)(func() { close(stopped) })
	defer release()

	if err := syscall.Kill(syscall.Getpid(), syscall.SIGUSR1); err != nil {
		t.Fatalf("failed to signal self: %v", err)
	}

	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("stop was not called after the signal")
	}
}

func TestSignalTriggerRelease(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	release := SignalTrigger(syscall.SIGUSR2)(func() { t.Error("stop must not run after release") })
	release()
	release()
}
