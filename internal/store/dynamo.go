package store

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbattribute"

	"user-management-api/internal/domain"
)

type dynamoAPI interface {
	PutItemWithContext(aws.Context, *dynamodb.PutItemInput, ...request.Option) (*dynamodb.PutItemOutput, error)
	GetItemWithContext(aws.Context, *dynamodb.GetItemInput, ...request.Option) (*dynamodb.GetItemOutput, error)
	DeleteItemWithContext(aws.Context, *dynamodb.DeleteItemInput, ...request.Option) (*dynamodb.DeleteItemOutput, error)
}

// DynamoEngine keys items by userId in a single table. Update is a full-item
// overwrite, same as Put.
type DynamoEngine struct {
	client dynamoAPI
	table  string
}

func NewDynamoEngine(client dynamoAPI, table string) *DynamoEngine {
	return &DynamoEngine{client: client, table: table}
}

func (e *DynamoEngine) Put(ctx context.Context, u *domain.User) error {
	item, err := dynamodbattribute.MarshalMap(u)
	if err != nil {
		return fmt.Errorf("dynamo: marshal user %s: %w", u.UserID, err)
	}
	_, err = e.client.PutItemWithContext(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(e.table),
		Item:      item,
	})
	return err
}

func (e *DynamoEngine) Get(ctx context.Context, userID string) (*domain.User, error) {
	out, err := e.client.GetItemWithContext(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(e.table),
		Key:            e.key(userID),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, err
	}
	if len(out.Item) == 0 {
		return nil, nil
	}
	var u domain.User
	if err := dynamodbattribute.UnmarshalMap(out.Item, &u); err != nil {
		return nil, fmt.Errorf("dynamo: unmarshal user %s: %w", userID, err)
	}
	return &u, nil
}

func (e *DynamoEngine) Update(ctx context.Context, u *domain.User) error {
	return e.Put(ctx, u)
}

func (e *DynamoEngine) Delete(ctx context.Context, userID string) error {
	_, err := e.client.DeleteItemWithContext(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(e.table),
		Key:       e.key(userID),
	})
	return err
}

func (e *DynamoEngine) key(userID string) map[string]*dynamodb.AttributeValue {
	return map[string]*dynamodb.AttributeValue{
		"userId": {S: aws.String(userID)},
	}
}
