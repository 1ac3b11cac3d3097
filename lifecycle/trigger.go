package lifecycle

import (
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// Trigger arranges for stop to be called when the process should terminate.
// It returns a release function that uninstalls the trigger without
// blocking; release may be called more than once.
type Trigger func(stop func()) (release func())

// SignalTrigger calls stop on the first of sigs. Without sigs it listens
// for os.Interrupt and SIGTERM. The signal is consumed, so the process keeps
// running until its owner observes Controller.Done.
func SignalTrigger(sigs ...os.Signal) Trigger {
	if len(sigs) == 0 {
		sigs = []os.Signal{os.Interrupt, syscall.SIGTERM}
	}
	return func(stop func()) func() {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, sigs...)
		quit := make(chan struct{})

		go func() {
			select {
			case <-ch:
				signal.Stop(ch)
				stop()
			case <-quit:
			}
		}()

		var once sync.Once
		return func() {
			once.Do(func() {
				signal.Stop(ch)
				close(quit)
			})
		}
	}
}
