package dynamodb

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Client es la parte de *dynamodb.Client que usan los repositorios.
type Client interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	BatchWriteItem(ctx context.Context, params *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error)
}

var _ Client = (*dynamodb.Client)(nil)

// Límite de DynamoDB por llamada a BatchWriteItem.
const batchSize = 25

const maxBatchRetries = 5

// Espera antes del primer reintento de elementos no procesados; se duplica en cada intento.
var batchRetryBase = 50 * time.Millisecond

func keyFor(id int64) (map[string]types.AttributeValue, error) {
	key, err := attributevalue.MarshalMap(map[string]int64{"id": id})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal key: %w", err)
	}
	return key, nil
}

func getItem(ctx context.Context, client Client, table string, id int64, out any) (bool, error) {
	key, err := keyFor(id)
	if err != nil {
		return false, err
	}

	result, err := client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(table),
		Key:       key,
	})
	if err != nil {
		return false, fmt.Errorf("failed to get item from DynamoDB: %w", err)
	}
	if result.Item == nil {
		return false, nil
	}
	if err := attributevalue.UnmarshalMap(result.Item, out); err != nil {
		return false, fmt.Errorf("failed to unmarshal item: %w", err)
	}
	return true, nil
}

func putItem(ctx context.Context, client Client, table string, item any) error {
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("failed to marshal item: %w", err)
	}

	_, err = client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(table),
		Item:      av,
	})
	if err != nil {
		return fmt.Errorf("failed to put item in DynamoDB: %w", err)
	}
	return nil
}

func deleteItem(ctx context.Context, client Client, table string, id int64) error {
	key, err := keyFor(id)
	if err != nil {
		return fmt.Errorf("failed to marshal key for delete: %w", err)
	}

	_, err = client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(table),
		Key:       key,
	})
	if err != nil {
		return fmt.Errorf("failed to delete item from DynamoDB: %w", err)
	}
	return nil
}

// scanAll recorre todas las páginas del Scan y decodifica los ítems en out.
func scanAll[T any](ctx context.Context, client Client, input *dynamodb.ScanInput) ([]T, error) {
	var items []T
	paginator := dynamodb.NewScanPaginator(client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to scan DynamoDB table: %w", err)
		}
		var batch []T
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &batch); err != nil {
			return nil, fmt.Errorf("failed to unmarshal items: %w", err)
		}
		items = append(items, batch...)
	}
	return items, nil
}

// batchWrite envía las escrituras en grupos de batchSize y reintenta las no procesadas.
func batchWrite(ctx context.Context, client Client, table string, requests []types.WriteRequest) error {
	for start := 0; start < len(requests); start += batchSize {
		end := min(start+batchSize, len(requests))
		pending := map[string][]types.WriteRequest{table: requests[start:end]}

		for attempt := 0; len(pending[table]) > 0; attempt++ {
			if attempt == maxBatchRetries {
				return fmt.Errorf("failed to write batch: %d items unprocessed", len(pending[table]))
			}
			if attempt > 0 {
				if err := sleepCtx(ctx, batchRetryBase<<(attempt-1)); err != nil {
					return fmt.Errorf("failed to write batch: %w", err)
				}
			}
			out, err := client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{RequestItems: pending})
			if err != nil {
				return fmt.Errorf("failed to batch write items: %w", err)
			}
			pending = out.UnprocessedItems
		}
	}
	return nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
