// Package dynamo provides a DynamoDB-backed implementation of the
// RemoteStore port. Each user owns a single item keyed USER#<id> with
// language, theme and lastUpdated attributes. PutItem replaces the whole
// item, which gives the store last-write-wins semantics without any
// conditional expressions.
package dynamo

import (
	"context"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/veldt-labs/prefsync/internal/core/domain"
	"github.com/veldt-labs/prefsync/internal/core/ports/driven"
)

// api is the narrow slice of the DynamoDB client the store uses. Keeping
// it unexported lets tests substitute a fake without AWS credentials.
type api interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
}

// Config holds the DynamoDB connection settings.
type Config struct {
	TableName string
	Region    string
	// Endpoint overrides the AWS endpoint, e.g. for DynamoDB Local.
	Endpoint string
}

// Ensure Store implements the RemoteStore interface.
var _ driven.RemoteStore = (*Store)(nil)

// Store is a DynamoDB-backed remote preference store.
type Store struct {
	client    api
	tableName string
}

// NewStore creates a DynamoDB client and returns a Store.
func NewStore(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.TableName == "" {
		return nil, fmt.Errorf("dynamo: table name is required")
	}

	var opts []func(*config.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, config.WithRegion(cfg.Region))
	}
	if cfg.Endpoint != "" {
		opts = append(opts, config.WithBaseEndpoint(cfg.Endpoint))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	return &Store{
		client:    dynamodb.NewFromConfig(awsCfg),
		tableName: cfg.TableName,
	}, nil
}

func (s *Store) pk(userID string) string {
	return "USER#" + userID
}

// Get retrieves the raw preference record for userID. The record is
// returned exactly as stored so the caller can validate it; an absent
// item reports domain.ErrNotFound.
func (s *Store) Get(ctx context.Context, userID string) (domain.RawRecord, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: s.pk(userID)},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("GetItem: %w", err)
	}

	if out.Item == nil {
		return nil, domain.ErrNotFound
	}

	rec := make(domain.RawRecord)
	for name, attr := range out.Item {
		if name == "PK" {
			continue
		}
		if v, ok := attrValue(attr); ok {
			rec[name] = v
		}
	}
	return rec, nil
}

// Set replaces the full preference item for userID.
func (s *Store) Set(ctx context.Context, userID string, prefs domain.Preferences) error {
	item := map[string]types.AttributeValue{
		"PK":          &types.AttributeValueMemberS{Value: s.pk(userID)},
		"language":    &types.AttributeValueMemberS{Value: string(prefs.Language)},
		"theme":       &types.AttributeValueMemberS{Value: string(prefs.Theme)},
		"lastUpdated": &types.AttributeValueMemberN{Value: strconv.FormatInt(prefs.LastUpdated, 10)},
	}

	_, err := s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: &s.tableName,
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("PutItem: %w", err)
	}
	return nil
}

// Delete removes the preference item for userID. Deleting an absent item
// is not an error.
func (s *Store) Delete(ctx context.Context, userID string) error {
	_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: s.pk(userID)},
		},
	})
	if err != nil {
		return fmt.Errorf("DeleteItem: %w", err)
	}
	return nil
}

// attrValue converts a DynamoDB attribute to a plain Go value. Number
// attributes that fail to parse keep their raw string form so validation
// downstream can reject them.
func attrValue(attr types.AttributeValue) (any, bool) {
	switch v := attr.(type) {
	case *types.AttributeValueMemberS:
		return v.Value, true
	case *types.AttributeValueMemberN:
		if n, err := strconv.ParseInt(v.Value, 10, 64); err == nil {
			return n, true
		}
		if f, err := strconv.ParseFloat(v.Value, 64); err == nil {
			return f, true
		}
		return v.Value, true
	case *types.AttributeValueMemberBOOL:
		return v.Value, true
	default:
		return nil, false
	}
}
