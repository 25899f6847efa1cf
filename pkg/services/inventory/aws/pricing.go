package aws

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	pricingapi "github.com/aws/aws-sdk-go-v2/service/pricing"
	pricingtypes "github.com/aws/aws-sdk-go-v2/service/pricing/types"
	"github.com/costwatch/costwatch/pkg/models/domain"
	"github.com/costwatch/costwatch/pkg/services/inventory"
)

// The price list API is only served from us-east-1.
const priceListRegion = "us-east-1"

// regionLocations maps region codes to the location names the price list
// API filters on.
var regionLocations = map[string]string{
	"us-east-1":      "US East (N. Virginia)",
	"us-east-2":      "US East (Ohio)",
	"us-west-1":      "US West (N. California)",
	"us-west-2":      "US West (Oregon)",
	"eu-west-1":      "EU (Ireland)",
	"eu-central-1":   "EU (Frankfurt)",
	"ap-southeast-1": "Asia Pacific (Singapore)",
	"ap-southeast-2": "Asia Pacific (Sydney)",
	"ap-northeast-1": "Asia Pacific (Tokyo)",
	"ap-east-1":      "Asia Pacific (Hong Kong)",
}

// PriceList looks up on-demand unit prices from the AWS price list API.
type PriceList struct {
	client *pricingapi.Client
}

func NewPriceList(cfg awssdk.Config) *PriceList {
	return &PriceList{
		client: pricingapi.NewFromConfig(cfg, func(o *pricingapi.Options) { o.Region = priceListRegion }),
	}
}

// LookupPrice returns the on-demand USD unit price for a kind/class pair in
// a region: hourly for instances, GB-month for storage.
func (p *PriceList) LookupPrice(ctx context.Context, kind domain.Kind, class, region string) (float64, error) {
	location, ok := regionLocations[region]
	if !ok {
		return 0, fmt.Errorf("no price list location for region %q", region)
	}

	var serviceCode string
	var filters []pricingtypes.Filter
	switch kind {
	case domain.KindCompute:
		serviceCode = "AmazonEC2"
		filters = termFilters(map[string]string{
			"instanceType":    class,
			"location":        location,
			"operatingSystem": "Linux",
			"tenancy":         "Shared",
			"preInstalledSw":  "NA",
			"capacitystatus":  "Used",
		})
	case domain.KindDatabase:
		serviceCode = "AmazonRDS"
		filters = termFilters(map[string]string{
			"instanceType":     class,
			"location":         location,
			"deploymentOption": "Single-AZ",
			"databaseEngine":   "MySQL",
		})
	case domain.KindBlockStorage:
		serviceCode = "AmazonEC2"
		filters = termFilters(map[string]string{
			"volumeApiName": class,
			"location":      location,
			"productFamily": "Storage",
		})
	case domain.KindObjectStorage:
		serviceCode = "AmazonS3"
		filters = termFilters(map[string]string{
			"location":     location,
			"storageClass": "General Purpose",
		})
	default:
		return 0, fmt.Errorf("kind %q has no live price lookup", kind)
	}

	resp, err := p.client.GetProducts(ctx, &pricingapi.GetProductsInput{
		ServiceCode: awssdk.String(serviceCode),
		Filters:     filters,
		MaxResults:  awssdk.Int32(1),
	})
	if err != nil {
		return 0, inventory.Classify("GetProducts", region, err)
	}
	if len(resp.PriceList) == 0 {
		return 0, fmt.Errorf("no price list entry for %s %s in %s", kind, class, region)
	}

	price, err := parseOnDemandPrice(resp.PriceList[0])
	if err != nil {
		return 0, fmt.Errorf("failed to parse price list entry for %s %s: %w", kind, class, err)
	}
	return price, nil
}

func termFilters(fields map[string]string) []pricingtypes.Filter {
	filters := make([]pricingtypes.Filter, 0, len(fields))
	for field, value := range fields {
		filters = append(filters, pricingtypes.Filter{
			Type:  pricingtypes.FilterTypeTermMatch,
			Field: awssdk.String(field),
			Value: awssdk.String(value),
		})
	}
	return filters
}

// parseOnDemandPrice walks a price list document down to the first positive
// on-demand USD price per unit.
func parseOnDemandPrice(doc string) (float64, error) {
	var entry struct {
		Terms struct {
			OnDemand map[string]struct {
				PriceDimensions map[string]struct {
					PricePerUnit map[string]string `json:"pricePerUnit"`
				} `json:"priceDimensions"`
			} `json:"OnDemand"`
		} `json:"terms"`
	}
	if err := json.Unmarshal([]byte(doc), &entry); err != nil {
		return 0, err
	}

	for _, term := range entry.Terms.OnDemand {
		for _, dim := range term.PriceDimensions {
			usd, ok := dim.PricePerUnit["USD"]
			if !ok {
				continue
			}
			price, err := strconv.ParseFloat(usd, 64)
			if err != nil {
				continue
			}
			if price > 0 {
				return price, nil
			}
		}
	}
	return 0, fmt.Errorf("no positive USD on-demand price in document")
}
