package dynamolib

import (
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/cockroachdb/errors"
)

// ConditionalCheckFailed reports whether a conditional write was rejected
// because its condition did not hold.
func ConditionalCheckFailed(err error) bool {
	var condErr *dynamodb.ConditionalCheckFailedException
	if errors.As(err, &condErr) {
		return true
	}

	var awsErr awserr.Error
	if errors.As(err, &awsErr) {
		return awsErr.Code() == dynamodb.ErrCodeConditionalCheckFailedException
	}

	return false
}
