// Package health reports database reachability over the standard gRPC
// health protocol and to the HTTP /healthz probe.
package health

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	grpchealth "google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// Service is the name registered next to the overall ("") status.
const Service = "storefront"

type Pinger interface {
	Ping(ctx context.Context) error
}

type Checker struct {
	db       Pinger
	srv      *grpchealth.Server
	interval time.Duration
	log      *zap.Logger
	healthy  atomic.Bool
}

func NewChecker(db Pinger, interval time.Duration, log *zap.Logger) *Checker {
	c := &Checker{db: db, srv: grpchealth.NewServer(), interval: interval, log: log}
	c.set(false)
	return c
}

// Server is registered on the gRPC server with healthpb.RegisterHealthServer.
func (c *Checker) Server() *grpchealth.Server { return c.srv }

func (c *Checker) Healthy() bool { return c.healthy.Load() }

// Check pings the database once and publishes the result.
func (c *Checker) Check(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	err := c.db.Ping(ctx)
	ok := err == nil
	if ok != c.healthy.Load() {
		if ok {
			c.log.Info("database reachable")
		} else {
			c.log.Warn("database unreachable", zap.Error(err))
		}
	}
	c.set(ok)
	return err
}

// Run checks on every tick until ctx is done, then reports NOT_SERVING.
func (c *Checker) Run(ctx context.Context) {
	_ = c.Check(ctx)
	t := time.NewTicker(c.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			c.srv.Shutdown()
			c.healthy.Store(false)
			return
		case <-t.C:
			_ = c.Check(ctx)
		}
	}
}

func (c *Checker) set(ok bool) {
	c.healthy.Store(ok)
	st := healthpb.HealthCheckResponse_NOT_SERVING
	if ok {
		st = healthpb.HealthCheckResponse_SERVING
	}
	c.srv.SetServingStatus("", st)
	c.srv.SetServingStatus(Service, st)
}
