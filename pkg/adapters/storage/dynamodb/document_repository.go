package dynamodb

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"legal-document-manager/pkg/domain"
	"legal-document-manager/pkg/ports"
)

// DocumentItem representa la estructura del ítem de DynamoDB para un Document
type DocumentItem struct {
	ID                int64              `dynamodbav:"id"`
	Title             string             `dynamodbav:"title"`
	Content           string             `dynamodbav:"content"`
	State             string             `dynamodbav:"state"`
	AssignedTo        *int64             `dynamodbav:"assignedTo,omitempty"`
	CreatedBy         *int64             `dynamodbav:"createdBy,omitempty"`
	RequiresSignature bool               `dynamodbav:"requiresSignature"`
	Variables         []domain.Variable  `dynamodbav:"variables,omitempty"`
	Tags              []domain.Tag       `dynamodbav:"tags,omitempty"`
	Signatures        []domain.Signature `dynamodbav:"signatures,omitempty"`
	Summary           domain.Summary     `dynamodbav:"summary"`
	CreatedAt         string             `dynamodbav:"createdAt"` // Fecha como string ISO 8601
	UpdatedAt         string             `dynamodbav:"updatedAt"`
}

type documentRepository struct {
	client    Client
	tableName string
}

// NewDocumentRepository crea una nueva instancia de DocumentRepository
func NewDocumentRepository(client Client, tableName string) ports.DocumentRepository {
	return &documentRepository{
		client:    client,
		tableName: tableName,
	}
}

// toDocumentItem convierte un domain.Document a DocumentItem
func toDocumentItem(doc *domain.Document) *DocumentItem {
	return &DocumentItem{
		ID:                doc.ID,
		Title:             doc.Title,
		Content:           doc.Content,
		State:             string(doc.State),
		AssignedTo:        doc.AssignedTo,
		CreatedBy:         doc.CreatedBy,
		RequiresSignature: doc.RequiresSignature,
		Variables:         doc.Variables,
		Tags:              doc.Tags,
		Signatures:        doc.Signatures,
		Summary:           doc.Summary,
		CreatedAt:         doc.CreatedAt.Format(time.RFC3339Nano),
		UpdatedAt:         doc.UpdatedAt.Format(time.RFC3339Nano),
	}
}

// toDomainDocument convierte un DocumentItem a domain.Document
func toDomainDocument(item *DocumentItem) (*domain.Document, error) {
	createdAt, err := time.Parse(time.RFC3339Nano, item.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse CreatedAt: %w", err)
	}
	updatedAt, err := time.Parse(time.RFC3339Nano, item.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse UpdatedAt: %w", err)
	}
	return &domain.Document{
		ID:                item.ID,
		Title:             item.Title,
		Content:           item.Content,
		State:             domain.DocumentState(item.State),
		AssignedTo:        item.AssignedTo,
		CreatedBy:         item.CreatedBy,
		RequiresSignature: item.RequiresSignature,
		Variables:         item.Variables,
		Tags:              item.Tags,
		Signatures:        item.Signatures,
		Summary:           item.Summary,
		CreatedAt:         createdAt,
		UpdatedAt:         updatedAt,
	}, nil
}

// Save implementa ports.DocumentRepository.
func (r *documentRepository) Save(ctx context.Context, doc *domain.Document) error {
	if err := putItem(ctx, r.client, r.tableName, toDocumentItem(doc)); err != nil {
		return fmt.Errorf("failed to save document %d: %w", doc.ID, err)
	}
	return nil
}

// FindByID implementa ports.DocumentRepository.
func (r *documentRepository) FindByID(ctx context.Context, id int64) (*domain.Document, error) {
	var item DocumentItem
	found, err := getItem(ctx, r.client, r.tableName, id, &item)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil // No encontrado
	}
	return toDomainDocument(&item)
}

// FindAll implementa ports.DocumentRepository.
func (r *documentRepository) FindAll(ctx context.Context) ([]domain.Document, error) {
	items, err := scanAll[DocumentItem](ctx, r.client, &dynamodb.ScanInput{
		TableName: aws.String(r.tableName),
	})
	if err != nil {
		return nil, err
	}

	documents := make([]domain.Document, len(items))
	for i := range items {
		doc, err := toDomainDocument(&items[i])
		if err != nil {
			return nil, fmt.Errorf("failed to convert item to domain document: %w", err)
		}
		documents[i] = *doc
	}
	return documents, nil
}

// Delete implementa ports.DocumentRepository.
func (r *documentRepository) Delete(ctx context.Context, id int64) error {
	return deleteItem(ctx, r.client, r.tableName, id)
}

// Replace implementa ports.DocumentRepository: escribe docs y borra los ítems que ya no están.
func (r *documentRepository) Replace(ctx context.Context, docs []domain.Document) error {
	existing, err := r.existingIDs(ctx)
	if err != nil {
		return err
	}

	keep := make(map[int64]bool, len(docs))
	requests := make([]types.WriteRequest, 0, len(docs))
	for i := range docs {
		keep[docs[i].ID] = true
		av, err := attributevalue.MarshalMap(toDocumentItem(&docs[i]))
		if err != nil {
			return fmt.Errorf("failed to marshal document item: %w", err)
		}
		requests = append(requests, types.WriteRequest{PutRequest: &types.PutRequest{Item: av}})
	}
	for _, id := range existing {
		if keep[id] {
			continue
		}
		key, err := keyFor(id)
		if err != nil {
			return err
		}
		requests = append(requests, types.WriteRequest{DeleteRequest: &types.DeleteRequest{Key: key}})
	}

	if err := batchWrite(ctx, r.client, r.tableName, requests); err != nil {
		return fmt.Errorf("failed to replace documents: %w", err)
	}
	return nil
}

func (r *documentRepository) existingIDs(ctx context.Context) ([]int64, error) {
	proj := expression.NamesList(expression.Name("id"))
	expr, err := expression.NewBuilder().WithProjection(proj).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build expression: %w", err)
	}

	keys, err := scanAll[struct {
		ID int64 `dynamodbav:"id"`
	}](ctx, r.client, &dynamodb.ScanInput{
		TableName:                aws.String(r.tableName),
		ProjectionExpression:     expr.Projection(),
		ExpressionAttributeNames: expr.Names(),
	})
	if err != nil {
		return nil, err
	}

	ids := make([]int64, len(keys))
	for i, k := range keys {
		ids[i] = k.ID
	}
	return ids, nil
}

// Asegurarse de que documentRepository implementa ports.DocumentRepository
var _ ports.DocumentRepository = (*documentRepository)(nil)
