package dynamodb_test

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

type item = map[string]types.AttributeValue

// fakeDynamo guarda los ítems en memoria por tabla e id numérico.
type fakeDynamo struct {
	mu       sync.Mutex
	tables   map[string]map[int64]item
	pageSize int
	// unprocessed hace que la primera escritura en lote devuelva su último pedido sin procesar.
	unprocessed bool
	batchCalls  int
}

func newFakeDynamo() *fakeDynamo {
	return &fakeDynamo{tables: map[string]map[int64]item{}}
}

func idOf(av item) int64 {
	n, ok := av["id"].(*types.AttributeValueMemberN)
	if !ok {
		return 0
	}
	id, _ := strconv.ParseInt(n.Value, 10, 64)
	return id
}

func (f *fakeDynamo) table(name *string) map[int64]item {
	t, ok := f.tables[aws.ToString(name)]
	if !ok {
		t = map[int64]item{}
		f.tables[aws.ToString(name)] = t
	}
	return t
}

func (f *fakeDynamo) PutItem(_ context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.table(in.TableName)[idOf(in.Item)] = in.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeDynamo) GetItem(_ context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return &dynamodb.GetItemOutput{Item: f.table(in.TableName)[idOf(in.Key)]}, nil
}

func (f *fakeDynamo) DeleteItem(_ context.Context, in *dynamodb.DeleteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.table(in.TableName), idOf(in.Key))
	return &dynamodb.DeleteItemOutput{}, nil
}

// UpdateItem entiende solo expresiones "SET #a = :a, #b = :b".
func (f *fakeDynamo) UpdateItem(_ context.Context, in *dynamodb.UpdateItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	expr := strings.TrimSpace(aws.ToString(in.UpdateExpression))
	if !strings.HasPrefix(expr, "SET ") {
		return nil, errors.New("unsupported update expression")
	}

	t := f.table(in.TableName)
	id := idOf(in.Key)
	current := item{}
	for k, v := range t[id] {
		current[k] = v
	}
	for k, v := range in.Key {
		current[k] = v
	}
	for _, assign := range strings.Split(strings.TrimPrefix(expr, "SET "), ",") {
		parts := strings.SplitN(assign, "=", 2)
		if len(parts) != 2 {
			return nil, errors.New("malformed assignment")
		}
		name := in.ExpressionAttributeNames[strings.TrimSpace(parts[0])]
		current[name] = in.ExpressionAttributeValues[strings.TrimSpace(parts[1])]
	}
	t[id] = current
	return &dynamodb.UpdateItemOutput{}, nil
}

func (f *fakeDynamo) Scan(_ context.Context, in *dynamodb.ScanInput, _ ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	t := f.table(in.TableName)
	ids := make([]int64, 0, len(t))
	for id := range t {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	if in.ExclusiveStartKey != nil {
		after := idOf(in.ExclusiveStartKey)
		for len(ids) > 0 && ids[0] <= after {
			ids = ids[1:]
		}
	}

	out := &dynamodb.ScanOutput{}
	for _, id := range ids {
		if f.pageSize > 0 && len(out.Items) == f.pageSize {
			out.LastEvaluatedKey = item{"id": out.Items[len(out.Items)-1]["id"]}
			break
		}
		out.Items = append(out.Items, t[id])
	}
	return out, nil
}

func (f *fakeDynamo) BatchWriteItem(_ context.Context, in *dynamodb.BatchWriteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.batchCalls++

	out := &dynamodb.BatchWriteItemOutput{UnprocessedItems: map[string][]types.WriteRequest{}}
	for name, requests := range in.RequestItems {
		if f.unprocessed && len(requests) > 0 {
			f.unprocessed = false
			out.UnprocessedItems[name] = requests[len(requests)-1:]
			requests = requests[:len(requests)-1]
		}
		t := f.table(aws.String(name))
		for _, req := range requests {
			switch {
			case req.PutRequest != nil:
				t[idOf(req.PutRequest.Item)] = req.PutRequest.Item
			case req.DeleteRequest != nil:
				delete(t, idOf(req.DeleteRequest.Key))
			}
		}
	}
	return out, nil
}
