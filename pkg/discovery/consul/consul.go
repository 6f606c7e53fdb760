package consul

import (
	"context"
	"fmt"
	"net"
	"strconv"

	"cinevault/pkg/discovery"
	"cinevault/pkg/logging"

	consul "github.com/hashicorp/consul/api"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

const (
	tracerID = "discovery-consul"

	// checkTTL must exceed the heartbeat interval of registered instances.
	checkTTL = "5s"
	// Instances whose check stays critical this long are removed by Consul.
	deregisterAfter = "1m"
)

// Registry defines a Consul service registry. It also hands out the
// session locks that keep periodic jobs single-flight across replicas.
type Registry struct {
	client *consul.Client
	logger *zap.Logger
}

// NewRegistry creates a registry talking to the Consul agent at addr.
func NewRegistry(addr string, logger *zap.Logger) (*Registry, error) {
	config := consul.DefaultConfig()
	config.Address = addr
	client, err := consul.NewClient(config)
	if err != nil {
		return nil, fmt.Errorf("consul client: %w", err)
	}
	return &Registry{
		client: client,
		logger: logger.With(
			zap.String(logging.FieldComponent, "discovery"),
			zap.String(logging.FieldType, "consul"),
		),
	}, nil
}

// Register records an instance with a TTL health check that
// ReportHealthyState keeps passing.
func (r *Registry) Register(ctx context.Context, instanceID string, serviceName string, hostPort string) error {
	_, span := otel.Tracer(tracerID).Start(ctx, "Register")
	defer span.End()
	reg, err := registration(instanceID, serviceName, hostPort)
	if err != nil {
		return err
	}
	r.logger.Info("Registering service instance",
		zap.String("instance", instanceID),
		zap.String("service", serviceName),
		zap.String("address", hostPort),
	)
	return r.client.Agent().ServiceRegister(reg)
}

// Deregister removes an instance record.
func (r *Registry) Deregister(ctx context.Context, instanceID string, _ string) error {
	ctx, span := otel.Tracer(tracerID).Start(ctx, "Deregister")
	defer span.End()
	r.logger.Info("Deregistering service instance", zap.String("instance", instanceID))
	return r.client.Agent().ServiceDeregisterOpts(instanceID, (&consul.QueryOptions{}).WithContext(ctx))
}

// ServiceAddresses returns the addresses of the passing instances of a service.
func (r *Registry) ServiceAddresses(ctx context.Context, serviceName string) ([]string, error) {
	ctx, span := otel.Tracer(tracerID).Start(ctx, "ServiceAddresses")
	defer span.End()
	entries, _, err := r.client.Health().Service(serviceName, "", true, (&consul.QueryOptions{}).WithContext(ctx))
	if err != nil {
		return nil, err
	}
	res := addresses(entries)
	if len(res) == 0 {
		return nil, discovery.ErrNotFound
	}
	return res, nil
}

// ReportHealthyState marks the instance TTL check as passing.
func (r *Registry) ReportHealthyState(instanceID string, _ string) error {
	_, span := otel.Tracer(tracerID).Start(context.Background(), "ReportHealthyState")
	defer span.End()
	return r.client.Agent().UpdateTTL(checkID(instanceID), "", consul.HealthPassing)
}

func checkID(instanceID string) string {
	return "service:" + instanceID
}

func registration(instanceID, serviceName, hostPort string) (*consul.AgentServiceRegistration, error) {
	host, rawPort, err := net.SplitHostPort(hostPort)
	if err != nil {
		return nil, fmt.Errorf("invalid address %q: %w", hostPort, err)
	}
	port, err := strconv.Atoi(rawPort)
	if err != nil || port <= 0 || port > 65535 {
		return nil, fmt.Errorf("invalid port in address %q", hostPort)
	}
	return &consul.AgentServiceRegistration{
		ID:      instanceID,
		Name:    serviceName,
		Address: host,
		Port:    port,
		Check: &consul.AgentServiceCheck{
			CheckID:                        checkID(instanceID),
			TTL:                            checkTTL,
			DeregisterCriticalServiceAfter: deregisterAfter,
		},
	}, nil
}

// addresses lists entries as host:port. A service registered without an
// address is reachable on its node address.
func addresses(entries []*consul.ServiceEntry) []string {
	res := make([]string, 0, len(entries))
	seen := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		if e.Service == nil {
			continue
		}
		host := e.Service.Address
		if host == "" && e.Node != nil {
			host = e.Node.Address
		}
		if host == "" {
			continue
		}
		addr := net.JoinHostPort(host, strconv.Itoa(e.Service.Port))
		if _, ok := seen[addr]; ok {
			continue
		}
		seen[addr] = struct{}{}
		res = append(res, addr)
	}
	return res
}
