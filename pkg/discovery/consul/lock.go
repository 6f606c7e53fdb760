package consul

import (
	"context"
	"time"

	consul "github.com/hashicorp/consul/api"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

// Acquire tries once to take the Consul session lock stored under key.
// It reports false without error when another holder owns the lock.
// The returned release function must be called once the work is done.
func (r *Registry) Acquire(ctx context.Context, key string) (bool, func() error, error) {
	_, span := otel.Tracer(tracerID).Start(ctx, "Acquire")
	defer span.End()
	lock, err := r.client.LockOpts(&consul.LockOptions{
		Key:          key,
		LockTryOnce:  true,
		LockWaitTime: time.Second,
	})
	if err != nil {
		return false, nil, err
	}
	lost, err := lock.Lock(ctx.Done())
	if err != nil {
		return false, nil, err
	}
	if lost == nil {
		r.logger.Debug("Lock is held by another instance", zap.String("key", key))
		return false, func() error { return nil }, nil
	}
	return true, lock.Unlock, nil
}
