package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/smithy-go"
)

// FailureCause classifies a provider error so callers can report and count
// failures without string-matching provider messages.
type FailureCause string

const (
	CauseTimeout   FailureCause = "timeout"
	CauseAuth      FailureCause = "auth"
	CauseNotFound  FailureCause = "not_found"
	CauseThrottled FailureCause = "throttled"
	CauseUnknown   FailureCause = "unknown"
)

// ProviderError wraps a provider API failure with the operation and region
// it happened in.
type ProviderError struct {
	Op     string
	Region string
	Cause  FailureCause
	Err    error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s failed in %s (%s): %v", e.Op, e.Region, e.Cause, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// Classify wraps err as a ProviderError, deriving the cause from the
// provider error code. A nil err returns nil.
func Classify(op, region string, err error) error {
	if err == nil {
		return nil
	}
	return &ProviderError{Op: op, Region: region, Cause: causeOf(err), Err: err}
}

func causeOf(err error) FailureCause {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return CauseTimeout
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		code := apiErr.ErrorCode()
		switch {
		case strings.Contains(code, "Throttl") || code == "TooManyRequestsException" || code == "RequestLimitExceeded":
			return CauseThrottled
		case code == "AccessDenied" || code == "AccessDeniedException" ||
			code == "UnauthorizedOperation" || code == "UnrecognizedClientException" ||
			code == "InvalidClientTokenId" || code == "ExpiredToken":
			return CauseAuth
		case strings.HasSuffix(code, "NotFound") || strings.HasSuffix(code, "NotFoundException") ||
			code == "NoSuchEntity" || code == "ResourceNotFoundException":
			return CauseNotFound
		}
	}
	return CauseUnknown
}
