package inventory

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyNil(t *testing.T) {
	assert.NoError(t, Classify("DescribeInstances", "us-east-1", nil))
}

func TestClassifyCauses(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want FailureCause
	}{
		{"deadline", context.DeadlineExceeded, CauseTimeout},
		{"canceled", context.Canceled, CauseTimeout},
		{"throttling", &smithy.GenericAPIError{Code: "ThrottlingException"}, CauseThrottled},
		{"request limit", &smithy.GenericAPIError{Code: "RequestLimitExceeded"}, CauseThrottled},
		{"access denied", &smithy.GenericAPIError{Code: "AccessDenied"}, CauseAuth},
		{"unauthorized", &smithy.GenericAPIError{Code: "UnauthorizedOperation"}, CauseAuth},
		{"expired token", &smithy.GenericAPIError{Code: "ExpiredToken"}, CauseAuth},
		{"not found", &smithy.GenericAPIError{Code: "NatGatewayNotFound"}, CauseNotFound},
		{"resource not found", &smithy.GenericAPIError{Code: "ResourceNotFoundException"}, CauseNotFound},
		{"other", errors.New("socket closed"), CauseUnknown},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Classify("DescribeInstances", "eu-west-1", tc.err)

			var provErr *ProviderError
			require.ErrorAs(t, err, &provErr)
			assert.Equal(t, tc.want, provErr.Cause)
			assert.Equal(t, "DescribeInstances", provErr.Op)
			assert.Equal(t, "eu-west-1", provErr.Region)
		})
	}
}

func TestClassifyWrapsOriginal(t *testing.T) {
	inner := errors.New("boom")
	err := Classify("ListTopics", "us-west-2", fmt.Errorf("wrapped: %w", inner))
	assert.ErrorIs(t, err, inner)
}
