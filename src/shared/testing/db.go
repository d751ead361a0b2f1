package testing

import (
	"context"

	. "github.com/onsi/gomega"
	"github.com/veedubyou/separation-be/src/shared/job/entity"
	"github.com/veedubyou/separation-be/src/shared/job/storage"
	"github.com/veedubyou/separation-be/src/shared/lib/dynamo"
)

func MakeTestDB() dynamolib.DynamoDBWrapper {
	return dynamolib.Connect(DynamoConfig())
}

func BeforeSuiteDB() dynamolib.DynamoDBWrapper {
	db := MakeTestDB()
	DeleteAllTables(db)
	return db
}

func AfterSuiteDB(db dynamolib.DynamoDBWrapper) {
	DeleteAllTables(db)
}

func ResetDB(db dynamolib.DynamoDBWrapper) {
	DeleteAllTables(db)
	CreateAllTables(db)
}

func CreateAllTables(db dynamolib.DynamoDBWrapper) {
	err := db.EnsureTable(context.Background(), jobstorage.JobsTable, jobentity.Job{})
	ExpectWithOffset(1, err).NotTo(HaveOccurred())
}

func DeleteAllTables(db dynamolib.DynamoDBWrapper) {
	tableResults := db.ListTables()
	tableNames := ExpectSuccess(tableResults.All())

	for _, tableName := range tableNames {
		err := db.Table(tableName).DeleteTable().Run()
		ExpectWithOffset(1, err).NotTo(HaveOccurred())
	}
}
