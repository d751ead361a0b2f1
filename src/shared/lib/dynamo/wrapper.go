package dynamolib

import (
	"context"

	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/guregu/dynamo"
	"github.com/veedubyou/separation-be/src/shared/config"
	"github.com/veedubyou/separation-be/src/shared/lib/cerr"
)

func NewDynamoDBWrapper(db *dynamo.DB) DynamoDBWrapper {
	return DynamoDBWrapper{DB: db}
}

// Connect opens a DynamoDB handle for either the hosted service or a
// dynamodb-local instance.
func Connect(dynamoConfig config.Dynamo) DynamoDBWrapper {
	dbSession := session.Must(session.NewSession())
	return NewDynamoDBWrapper(dynamo.New(dbSession, dynamoConfig.AWSConfig()))
}

type DynamoDBWrapper struct {
	*dynamo.DB
}

func (d DynamoDBWrapper) HasTable(ctx context.Context, tableName string) (bool, error) {
	tableNames, err := d.ListTables().AllWithContext(ctx)
	if err != nil {
		return false, cerr.Wrap(err).Error("Failed to list tables")
	}

	for _, name := range tableNames {
		if name == tableName {
			return true, nil
		}
	}

	return false, nil
}

// EnsureTable creates tableName from the dynamo tags of schema when it is
// missing. Hosted tables are provisioned ahead of time, so this is for local
// instances only.
func (d DynamoDBWrapper) EnsureTable(ctx context.Context, tableName string, schema any) error {
	exists, err := d.HasTable(ctx, tableName)
	if err != nil {
		return err
	}

	if exists {
		return nil
	}

	err = d.CreateTable(tableName, schema).
		OnDemand(true).
		RunWithContext(ctx)
	if err != nil {
		return cerr.Field("table", tableName).Wrap(err).Error("Failed to create table")
	}

	return nil
}
