package s3

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/mmghannam/scip/blobstore"
)

// DynamoDBClient is the subset of the DynamoDB API used by CommitStore.
// *dynamodb.Client satisfies it.
type DynamoDBClient interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
}

// CommitStore implements blobstore.CommitStore on a DynamoDB table.
//
// One item per solve scope holds the latest checkpoint pointer; the
// conditional write on the sequence number provides the atomic, monotone
// swap that the blobstore contract requires.
//
// Table schema:
//   - Partition key: scope (string)
//
// Create the table with:
//
//	aws dynamodb create-table \
//	  --table-name scip-checkpoints \
//	  --attribute-definitions AttributeName=scope,AttributeType=S \
//	  --key-schema AttributeName=scope,KeyType=HASH \
//	  --billing-mode PAY_PER_REQUEST
type CommitStore struct {
	client    DynamoDBClient
	tableName string
	scope     string
}

// NewCommitStore creates a DynamoDB commit store. scope identifies the solve
// (e.g. the S3 bucket/prefix the checkpoints live under).
func NewCommitStore(client DynamoDBClient, tableName, scope string) *CommitStore {
	return &CommitStore{
		client:    client,
		tableName: tableName,
		scope:     scope,
	}
}

// SetLatest records the latest checkpoint with a conditional write: it only
// succeeds if no pointer exists yet or the stored sequence is below seq.
func (c *CommitStore) SetLatest(ctx context.Context, seq uint64, name string) error {
	_, err := c.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(c.tableName),
		Item: map[string]types.AttributeValue{
			"scope": &types.AttributeValueMemberS{Value: c.scope},
			"seq":   &types.AttributeValueMemberN{Value: strconv.FormatUint(seq, 10)},
			"name":  &types.AttributeValueMemberS{Value: name},
		},
		ConditionExpression: aws.String("attribute_not_exists(seq) OR seq < :seq"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":seq": &types.AttributeValueMemberN{Value: strconv.FormatUint(seq, 10)},
		},
	})
	if err != nil {
		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			return blobstore.ErrStaleCommit
		}
		return fmt.Errorf("commit checkpoint pointer: %w", err)
	}
	return nil
}

// Latest returns the most recently committed sequence and blob name.
func (c *CommitStore) Latest(ctx context.Context) (uint64, string, error) {
	out, err := c.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(c.tableName),
		ConsistentRead: aws.Bool(true),
		Key: map[string]types.AttributeValue{
			"scope": &types.AttributeValueMemberS{Value: c.scope},
		},
	})
	if err != nil {
		return 0, "", fmt.Errorf("read checkpoint pointer: %w", err)
	}
	if len(out.Item) == 0 {
		return 0, "", blobstore.ErrNotFound
	}

	seqAttr, ok := out.Item["seq"].(*types.AttributeValueMemberN)
	if !ok {
		return 0, "", errors.New("s3: malformed seq attribute in commit item")
	}
	nameAttr, ok := out.Item["name"].(*types.AttributeValueMemberS)
	if !ok {
		return 0, "", errors.New("s3: malformed name attribute in commit item")
	}

	seq, err := strconv.ParseUint(seqAttr.Value, 10, 64)
	if err != nil {
		return 0, "", fmt.Errorf("parse checkpoint sequence: %w", err)
	}
	return seq, nameAttr.Value, nil
}
