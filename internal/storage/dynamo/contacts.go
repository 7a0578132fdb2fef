package dynamo

import (
	"cinevault/proj/internal/domain/models"
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

func (db *DynamoDB) InsertContact(ctx context.Context, submission *models.ContactSubmission) error {
	const op = "dynamo.DynamoDB.InsertContact"
	item, err := attributevalue.MarshalMap(submission)
	if err != nil {
		return wrap(op, err)
	}
	if _, err := db.api.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(db.tables.Contact),
		Item:      item,
	}); err != nil {
		return wrap(op, err)
	}
	return nil
}
