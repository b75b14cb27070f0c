package dynamodb

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"legal-document-manager/pkg/domain"
	"legal-document-manager/pkg/ports"
)

// UserItem representa la estructura del ítem de DynamoDB para un User
type UserItem struct {
	ID             int64  `dynamodbav:"id"`
	FirstName      string `dynamodbav:"firstName"`
	LastName       string `dynamodbav:"lastName"`
	Email          string `dynamodbav:"email"`
	Identification string `dynamodbav:"identification"`
	Role           string `dynamodbav:"role"`
}

type userRepository struct {
	client    Client
	tableName string
}

// NewUserRepository crea una nueva instancia de UserRepository
func NewUserRepository(client Client, tableName string) ports.UserRepository {
	return &userRepository{
		client:    client,
		tableName: tableName,
	}
}

func toUserItem(u *domain.User) *UserItem {
	return &UserItem{
		ID:             u.ID,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		Email:          u.Email,
		Identification: u.Identification,
		Role:           string(u.Role),
	}
}

func toDomainUser(item *UserItem) domain.User {
	return domain.User{
		ID:             item.ID,
		FirstName:      item.FirstName,
		LastName:       item.LastName,
		Email:          item.Email,
		Identification: item.Identification,
		Role:           domain.Role(item.Role),
	}
}

// Save implementa ports.UserRepository.
func (r *userRepository) Save(ctx context.Context, user *domain.User) error {
	if err := putItem(ctx, r.client, r.tableName, toUserItem(user)); err != nil {
		return fmt.Errorf("failed to save user %d: %w", user.ID, err)
	}
	return nil
}

// FindByID implementa ports.UserRepository.
func (r *userRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	var item UserItem
	found, err := getItem(ctx, r.client, r.tableName, id, &item)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil // Usuario no encontrado
	}
	user := toDomainUser(&item)
	return &user, nil
}

// FindAll implementa ports.UserRepository.
func (r *userRepository) FindAll(ctx context.Context) ([]domain.User, error) {
	items, err := scanAll[UserItem](ctx, r.client, &dynamodb.ScanInput{
		TableName: aws.String(r.tableName),
	})
	if err != nil {
		return nil, err
	}

	users := make([]domain.User, len(items))
	for i := range items {
		users[i] = toDomainUser(&items[i])
	}
	return users, nil
}

// Delete implementa ports.UserRepository.
func (r *userRepository) Delete(ctx context.Context, id int64) error {
	return deleteItem(ctx, r.client, r.tableName, id)
}

// Asegurarse de que userRepository implementa ports.UserRepository
var _ ports.UserRepository = (*userRepository)(nil)
