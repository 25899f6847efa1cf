package domain

// Kind is the category of billable inventory a ResourceRecord belongs to.
type Kind string

const (
	KindCompute       Kind = "compute"
	KindDatabase      Kind = "database"
	KindBlockStorage  Kind = "block_storage"
	KindObjectStorage Kind = "object_storage"
	KindLoadBalancer  Kind = "load_balancer"
	KindFunction      Kind = "function"
	KindCDN           Kind = "cdn"
	KindDNS           Kind = "dns"
	KindPublicIP      Kind = "public_ip"
	KindNATGateway    Kind = "nat_gateway"
	KindVPCEndpoint   Kind = "vpc_endpoint"
	KindMessaging     Kind = "messaging"
)

// TrafficCategory is the synthetic reporting bucket for network-transfer
// billed kinds. It exists only in summary breakdowns and the stored
// category column; a record's Kind is never rewritten.
const TrafficCategory = "traffic"

// AttrTrafficType marks a record as a data-transfer charge. Compute records
// carrying AttrTrafficType=TrafficTypeDataTransferOut are reported under
// TrafficCategory.
const (
	AttrTrafficType        = "traffic_type"
	TrafficTypeDataOut     = "data_transfer_out"
	AttrInstanceClass      = "instance_class"
	AttrEngine             = "engine"
	AttrVolumeType         = "volume_type"
	AttrSizeGB             = "size_gb"
	AttrScheme             = "scheme"
	AttrFamily             = "family"
	AttrMemoryMB           = "memory_mb"
	AttrInvocations        = "invocations_24h"
	AttrProcessedGB        = "processed_gb_30d"
	AttrTransferredGB      = "transferred_gb_30d"
	AttrStorageClass       = "storage_class"
	AttrZoneName           = "zone_name"
	AttrAttachedInstanceID = "attached_instance_id"
)

var trafficKinds = map[Kind]bool{
	KindNATGateway:   true,
	KindVPCEndpoint:  true,
	KindLoadBalancer: true,
	KindCDN:          true,
	KindDNS:          true,
}

// AllKinds lists every supported kind in a stable order.
func AllKinds() []Kind {
	return []Kind{
		KindCompute, KindDatabase, KindBlockStorage, KindObjectStorage,
		KindLoadBalancer, KindFunction, KindCDN, KindDNS,
		KindPublicIP, KindNATGateway, KindVPCEndpoint, KindMessaging,
	}
}

// ParseKind maps a string to a known Kind.
func ParseKind(s string) (Kind, bool) {
	for _, k := range AllKinds() {
		if string(k) == s {
			return k, true
		}
	}
	return "", false
}
