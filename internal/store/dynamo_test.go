package store

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"user-management-api/internal/domain"
)

// fakeDynamo keeps items in a map keyed by userId, enough to exercise the
// marshalling and key construction.
type fakeDynamo struct {
	items map[string]map[string]*dynamodb.AttributeValue
}

func newFakeDynamo() *fakeDynamo {
	return &fakeDynamo{items: map[string]map[string]*dynamodb.AttributeValue{}}
}

func (f *fakeDynamo) PutItemWithContext(_ aws.Context, in *dynamodb.PutItemInput, _ ...request.Option) (*dynamodb.PutItemOutput, error) {
	f.items[aws.StringValue(in.Item["userId"].S)] = in.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeDynamo) GetItemWithContext(_ aws.Context, in *dynamodb.GetItemInput, _ ...request.Option) (*dynamodb.GetItemOutput, error) {
	item := f.items[aws.StringValue(in.Key["userId"].S)]
	return &dynamodb.GetItemOutput{Item: item}, nil
}

func (f *fakeDynamo) DeleteItemWithContext(_ aws.Context, in *dynamodb.DeleteItemInput, _ ...request.Option) (*dynamodb.DeleteItemOutput, error) {
	delete(f.items, aws.StringValue(in.Key["userId"].S))
	return &dynamodb.DeleteItemOutput{}, nil
}

func TestDynamoEngineRoundTrip(t *testing.T) {
	e := NewDynamoEngine(newFakeDynamo(), "User")
	ctx := context.Background()
	u := &domain.User{UserID: "u-1", Name: "Ann", Email: "ann@example.com", Phone: "123", CreatedAt: 1, UpdatedAt: 2}

	require.NoError(t, e.Put(ctx, u))
	got, err := e.Get(ctx, "u-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, u, got)
}

func TestDynamoEngineMissAndDelete(t *testing.T) {
	e := NewDynamoEngine(newFakeDynamo(), "User")
	ctx := context.Background()

	got, err := e.Get(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, e.Put(ctx, &domain.User{UserID: "u-1", Name: "Ann"}))
	require.NoError(t, e.Delete(ctx, "u-1"))
	got, err = e.Get(ctx, "u-1")
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, e.Delete(ctx, "u-1"))
}
