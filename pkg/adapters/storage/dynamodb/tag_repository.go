package dynamodb

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"legal-document-manager/pkg/domain"
	"legal-document-manager/pkg/ports"
)

// TagItem representa la estructura del ítem de DynamoDB para un Tag
type TagItem struct {
	ID        int64  `dynamodbav:"id"`
	Name      string `dynamodbav:"name"`
	ColorID   int    `dynamodbav:"colorId"`
	CreatedBy *int64 `dynamodbav:"createdBy,omitempty"`
}

type tagRepository struct {
	client    Client
	tableName string
}

// NewTagRepository crea una nueva instancia de TagRepository
func NewTagRepository(client Client, tableName string) ports.TagRepository {
	return &tagRepository{
		client:    client,
		tableName: tableName,
	}
}

// Save implementa ports.TagRepository. Es un upsert con UpdateItem para no pisar
// atributos que el ítem tenga y la etiqueta no conozca.
func (r *tagRepository) Save(ctx context.Context, tag *domain.Tag) error {
	update := expression.Set(expression.Name("name"), expression.Value(tag.Name))
	update.Set(expression.Name("colorId"), expression.Value(tag.ColorID))
	if tag.CreatedBy != nil {
		update.Set(expression.Name("createdBy"), expression.Value(*tag.CreatedBy))
	}

	expr, err := expression.NewBuilder().WithUpdate(update).Build()
	if err != nil {
		return fmt.Errorf("failed to build expression: %w", err)
	}

	key, err := keyFor(tag.ID)
	if err != nil {
		return err
	}

	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       key,
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		UpdateExpression:          expr.Update(),
	})
	if err != nil {
		return fmt.Errorf("failed to update item in DynamoDB: %w", err)
	}
	return nil
}

// FindByID implementa ports.TagRepository.
func (r *tagRepository) FindByID(ctx context.Context, id int64) (*domain.Tag, error) {
	var item TagItem
	found, err := getItem(ctx, r.client, r.tableName, id, &item)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil // Etiqueta no encontrada
	}
	return &domain.Tag{ID: item.ID, Name: item.Name, ColorID: item.ColorID, CreatedBy: item.CreatedBy}, nil
}

// FindAll implementa ports.TagRepository.
func (r *tagRepository) FindAll(ctx context.Context) ([]domain.Tag, error) {
	items, err := scanAll[TagItem](ctx, r.client, &dynamodb.ScanInput{
		TableName: aws.String(r.tableName),
	})
	if err != nil {
		return nil, err
	}

	tags := make([]domain.Tag, len(items))
	for i, item := range items {
		tags[i] = domain.Tag{ID: item.ID, Name: item.Name, ColorID: item.ColorID, CreatedBy: item.CreatedBy}
	}
	return tags, nil
}

// Delete implementa ports.TagRepository.
func (r *tagRepository) Delete(ctx context.Context, id int64) error {
	return deleteItem(ctx, r.client, r.tableName, id)
}

// Asegurarse de que tagRepository implementa ports.TagRepository
var _ ports.TagRepository = (*tagRepository)(nil)
