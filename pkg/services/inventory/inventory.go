// Package inventory defines the provider-neutral resource descriptors that
// collectors price. The aws subpackage produces them from live accounts.
package inventory

import (
	"context"
	"time"
)

// Instance is a running virtual machine. PublicIP is empty for private
// instances.
type Instance struct {
	ID           string
	Name         string
	InstanceType string
	Region       string
	PublicIP     string
}

// DBInstance is an available managed database instance.
type DBInstance struct {
	ID     string
	Class  string
	Engine string
	Region string
}

// Volume is an in-use block storage volume.
type Volume struct {
	ID                 string
	VolumeType         string
	SizeGB             float64
	Region             string
	AttachedInstanceID string
}

// Bucket is an object storage bucket with its measured size.
type Bucket struct {
	Name   string
	Region string
	SizeGB float64
}

// LoadBalancer is a provisioned load balancer of any family.
type LoadBalancer struct {
	Name           string
	Family         string // application, network, gateway or classic
	Region         string
	InternetFacing bool
}

// Function is a deployed serverless function with its trailing 24h
// invocation count.
type Function struct {
	Name           string
	MemoryMB       int64
	Region         string
	Invocations24h float64
}

// Distribution is an enabled CDN distribution.
type Distribution struct {
	ID         string
	DomainName string
}

// HostedZone is a DNS zone.
type HostedZone struct {
	ID   string
	Name string
}

// Address is a public IPv4 address, elastic or instance-ephemeral.
type Address struct {
	ID                 string
	IP                 string
	Region             string
	AttachedInstanceID string
}

// NATGateway is an available NAT gateway with its trailing 30-day
// processed volume. ProcessedGB30d is zero when the metric is unavailable.
type NATGateway struct {
	ID             string
	Region         string
	ProcessedGB30d float64
}

// VPCEndpoint is an available interface-type VPC endpoint with its trailing
// 30-day transferred volume. Gateway endpoints are free and never listed.
// ProcessedGB30d is zero when the metric is unavailable.
type VPCEndpoint struct {
	ID             string
	ServiceName    string
	Region         string
	ProcessedGB30d float64
}

// Topic is a pub/sub topic.
type Topic struct {
	ARN    string
	Region string
}

// Queue is a message queue.
type Queue struct {
	URL    string
	Name   string
	Region string
}

// Metric statistics supported by MetricQuery.
const (
	StatSum     = "Sum"
	StatAverage = "Average"
)

// MetricQuery describes a single aggregated metric lookup over a trailing
// window ending now.
type MetricQuery struct {
	Namespace  string
	MetricName string
	Dimensions map[string]string
	Stat       string // StatSum totals the window, StatAverage takes the newest datapoint
	Window     time.Duration
}

// MetricSource aggregates provider metrics. ok is false when the provider
// has no datapoints, which callers must treat as zero usage rather than an
// error.
type MetricSource interface {
	Query(ctx context.Context, region string, q MetricQuery) (float64, bool, error)
}
