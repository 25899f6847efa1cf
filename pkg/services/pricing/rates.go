package pricing

// Flat provider rates that need no live lookup. All values USD.
const (
	// Every public IPv4 address is billed since 2024-02-01, attached or not.
	PublicIPHourlyRate = 0.005

	NATGatewayHourlyRate     = 0.045
	NATGatewayPerGBProcessed = 0.045

	// Interface endpoints only; gateway endpoints are free.
	VPCEndpointHourlyRate     = 0.01
	VPCEndpointPerGBProcessed = 0.01

	DNSZoneMonthlyRate = 0.50

	LambdaPerGBSecond = 0.0000166667
	LambdaPerRequest  = 0.0000002

	// Default flat messaging rate; a free-tier policy zeroes it (see
	// Resolver options).
	messagingHourlyRate = 0.001

	// Data transfer out: first GB free, then tiered per GB.
	dataOutFreeGB     = 1.0
	dataOutTier1Limit = 10240.0 // 10 TB
	dataOutTier2Limit = 51200.0 // 50 TB
	dataOutTier1Rate  = 0.09
	dataOutTier2Rate  = 0.070
	dataOutTier3Rate  = 0.050
)

var loadBalancerHourlyRates = map[string]float64{
	"application": 0.0225,
	"network":     0.0225,
	"classic":     0.025,
}

const defaultLoadBalancerHourlyRate = 0.0225

// LoadBalancerHourly returns the flat hourly rate for a load balancer
// family (application, network or classic).
func LoadBalancerHourly(family string) float64 {
	if r, ok := loadBalancerHourlyRates[family]; ok {
		return r
	}
	return defaultLoadBalancerHourlyRate
}

// DataTransferOutMonthly prices a 30-day outbound transfer volume in GB
// through the tiered schedule. The first GB is free.
func DataTransferOutMonthly(volumeGB float64) float64 {
	switch {
	case volumeGB <= dataOutFreeGB:
		return 0
	case volumeGB <= dataOutTier1Limit:
		return (volumeGB - dataOutFreeGB) * dataOutTier1Rate
	case volumeGB <= dataOutTier2Limit:
		return (dataOutTier1Limit-dataOutFreeGB)*dataOutTier1Rate +
			(volumeGB-dataOutTier1Limit)*dataOutTier2Rate
	default:
		return (dataOutTier1Limit-dataOutFreeGB)*dataOutTier1Rate +
			(dataOutTier2Limit-dataOutTier1Limit)*dataOutTier2Rate +
			(volumeGB-dataOutTier2Limit)*dataOutTier3Rate
	}
}
