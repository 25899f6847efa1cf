package pricing

import "github.com/costwatch/costwatch/pkg/models/domain"

// Static fallback prices, used when the live price lookup fails or returns
// a non-positive price. Hourly USD for compute/database classes, monthly
// USD per GB for storage.

var computeFallback = map[string]float64{
	"t2.nano": 0.0058, "t2.micro": 0.0116, "t2.small": 0.023, "t2.medium": 0.0464,
	"t2.large": 0.0928, "t2.xlarge": 0.1856,
	"t3.nano": 0.0052, "t3.micro": 0.0104, "t3.small": 0.0208, "t3.medium": 0.0416,
	"t3.large": 0.0832, "t3.xlarge": 0.1664,
	"t3a.nano": 0.0047, "t3a.micro": 0.0094, "t3a.small": 0.0188, "t3a.medium": 0.0376,
	"t3a.large": 0.0752, "t3a.xlarge": 0.1504,
	"t4g.nano": 0.0042, "t4g.micro": 0.0084, "t4g.small": 0.0168, "t4g.medium": 0.0336,
	"t4g.large": 0.0672, "t4g.xlarge": 0.1344,
	"m5.large": 0.096, "m5.xlarge": 0.192, "m5.2xlarge": 0.384, "m5.4xlarge": 0.768,
	"m5a.large": 0.086, "m5a.xlarge": 0.172, "m5a.2xlarge": 0.344,
	"m6i.large": 0.0864, "m6i.xlarge": 0.1728, "m6a.large": 0.0864, "m6a.xlarge": 0.1728,
	"c5.large": 0.085, "c5.xlarge": 0.17, "c5.2xlarge": 0.34, "c5.4xlarge": 0.68,
	"c5a.large": 0.077, "c5a.xlarge": 0.154, "c6i.large": 0.0765, "c6i.xlarge": 0.153,
	"r5.large": 0.126, "r5.xlarge": 0.252, "r6i.large": 0.1134, "r6i.xlarge": 0.2268,
}

var databaseFallback = map[string]float64{
	"db.t2.micro": 0.017, "db.t2.small": 0.034,
	"db.t3.micro": 0.017, "db.t3.small": 0.034,
	"db.m4.large": 0.175, "db.m5.large": 0.192,
}

var blockStorageFallback = map[string]float64{
	"gp3": 0.08, "gp2": 0.10, "io1": 0.125, "io2": 0.125,
	"st1": 0.045, "sc1": 0.025, "standard": 0.05,
}

var objectStorageFallback = map[string]float64{
	"Standard": 0.023, "IA": 0.0125, "Glacier": 0.004,
}

const (
	defaultComputePrice       = 0.1
	defaultDatabasePrice      = 0.05
	defaultBlockStoragePrice  = 0.10
	defaultObjectStoragePrice = 0.023
)

// regionMultipliers scale the us-east-1 fallback price per region. Regions
// not listed fall back to 1.0.
var regionMultipliers = map[string]float64{
	"us-east-1": 1.0, "us-west-2": 1.0, "ap-southeast-1": 1.15,
	"ap-northeast-1": 1.12, "eu-west-1": 1.05, "ap-east-1": 1.18,
}

// blockStorageRegionMultipliers differ from the shared table only for
// ap-east-1, where EBS carries a steeper premium.
var blockStorageRegionMultipliers = map[string]float64{
	"us-east-1": 1.0, "us-west-2": 1.0, "ap-southeast-1": 1.15,
	"ap-northeast-1": 1.12, "eu-west-1": 1.05, "ap-east-1": 1.25,
}

func regionMultiplier(kind domain.Kind, region string) float64 {
	table := regionMultipliers
	if kind == domain.KindBlockStorage {
		table = blockStorageRegionMultipliers
	}
	if m, ok := table[region]; ok {
		return m
	}
	return 1.0
}

// fallbackPrice consults the static table for (kind, class) and applies the
// region multiplier. ok is false when the kind has no fallback table at all;
// an unknown class within a known kind still prices at the kind's default.
func fallbackPrice(kind domain.Kind, class, region string) (float64, bool) {
	var base float64
	switch kind {
	case domain.KindCompute:
		base = lookupOrDefault(computeFallback, class, defaultComputePrice)
	case domain.KindDatabase:
		// Database fallback is class-keyed only; regional spread is already
		// baked into the table.
		return lookupOrDefault(databaseFallback, class, defaultDatabasePrice), true
	case domain.KindBlockStorage:
		base = lookupOrDefault(blockStorageFallback, class, defaultBlockStoragePrice)
	case domain.KindObjectStorage:
		base = lookupOrDefault(objectStorageFallback, class, defaultObjectStoragePrice)
	default:
		return 0, false
	}
	return base * regionMultiplier(kind, region), true
}

func lookupOrDefault(table map[string]float64, key string, def float64) float64 {
	if v, ok := table[key]; ok {
		return v
	}
	return def
}
