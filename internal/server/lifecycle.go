// Package server coordinates the long-running pieces of the game server,
// such as the telnet acceptor and the database pool, through one graceful
// startup and shutdown sequence.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// Service is one long-running component under lifecycle control.
type Service interface {
	// Start runs the service and blocks until it stops or fails.
	Start() error
	// Stop asks the service to shut down; Start returns soon after.
	Stop()
}

// FuncService lifts a start/stop function pair into a Service. The telnet
// acceptor and the database health loop are wired this way.
type FuncService struct {
	StartFn func() error
	StopFn  func()
}

func (f *FuncService) Start() error { return f.StartFn() }
func (f *FuncService) Stop()        { f.StopFn() }

type entry struct {
	name string
	svc  Service
}

// Lifecycle starts registered services together and stops them in reverse
// registration order, so the acceptor goes down before the database pool it
// writes through.
type Lifecycle struct {
	logger  *zap.Logger
	mu      sync.Mutex
	entries []entry
}

// NewLifecycle creates an empty Lifecycle.
//
// Precondition: logger must be non-nil.
func NewLifecycle(logger *zap.Logger) *Lifecycle {
	return &Lifecycle{logger: logger}
}

// Add registers a service under a name used in lifecycle logs. Registration
// order is start order.
//
// Precondition: name is non-empty; svc is non-nil.
func (l *Lifecycle) Add(name string, svc Service) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, entry{name: name, svc: svc})
}

// Run launches every registered service and blocks until SIGINT or SIGTERM
// arrives, ctx is cancelled, or a service fails. It then stops the services
// in reverse order.
//
// Postcondition: every service's Stop has been called when Run returns.
func (l *Lifecycle) Run(ctx context.Context) error {
	start := time.Now()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	failures := make(chan error, len(l.entries))
	for _, e := range l.entries {
		go l.launch(e, failures, cancel)
	}
	l.logger.Info("server up",
		zap.Int("services", len(l.entries)),
		zap.Duration("startup", time.Since(start)),
	)

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-signals:
		l.logger.Info("signal received, shutting down", zap.String("signal", sig.String()))
	case err := <-failures:
		l.logger.Error("service failure, shutting down", zap.Error(err))
	case <-ctx.Done():
		l.logger.Info("context cancelled, shutting down")
	}

	l.stopAll()
	l.logger.Info("server down", zap.Duration("uptime", time.Since(start)))
	return nil
}

func (l *Lifecycle) launch(e entry, failures chan<- error, cancel context.CancelFunc) {
	l.logger.Info("service starting", zap.String("service", e.name))
	began := time.Now()
	if err := e.svc.Start(); err != nil {
		l.logger.Error("service exited with error",
			zap.String("service", e.name),
			zap.Duration("uptime", time.Since(began)),
			zap.Error(err),
		)
		failures <- fmt.Errorf("service %s: %w", e.name, err)
		cancel()
	}
}

func (l *Lifecycle) stopAll() {
	for i := len(l.entries) - 1; i >= 0; i-- {
		e := l.entries[i]
		began := time.Now()
		e.svc.Stop()
		l.logger.Info("service stopped",
			zap.String("service", e.name),
			zap.Duration("elapsed", time.Since(began)),
		)
	}
}
