package dynamodb_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ddb "legal-document-manager/pkg/adapters/storage/dynamodb"
	"legal-document-manager/pkg/domain"
)

func TestDocumentRepository(t *testing.T) {
	fake := newFakeDynamo()
	fake.pageSize = 2
	repo := ddb.NewDocumentRepository(fake, "documents")
	ctx := context.Background()

	created := time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)
	doc := domain.Document{
		ID:         1,
		Title:      "Contrato",
		Content:    "<p>{{name}}</p>",
		State:      domain.StateProgress,
		AssignedTo: domain.Int64Ptr(7),
		Variables: []domain.Variable{
			{NameEn: "name", Value: domain.StringPtr("Ana")},
			{NameEn: "empty"},
		},
		Signatures: []domain.Signature{{SignerEmail: "ana@cliente.co", Signed: true, SignedAt: &created}},
		Summary:    domain.Summary{SummaryValue: domain.StringPtr("1000")},
		CreatedAt:  created,
		UpdatedAt:  created,
	}
	require.NoError(t, repo.Save(ctx, &doc))

	got, err := repo.FindByID(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, doc.Title, got.Title)
	assert.Equal(t, doc.State, got.State)
	assert.True(t, got.IsAssignedTo(7))
	assert.Equal(t, "Ana", got.Variables[0].ValueOrEmpty())
	assert.Nil(t, got.Variables[1].Value)
	assert.True(t, got.Signatures[0].SignedAt.Equal(created))
	assert.Equal(t, "1000", *got.SummaryValue)
	assert.True(t, got.CreatedAt.Equal(created))

	missing, err := repo.FindByID(ctx, 99)
	require.NoError(t, err)
	assert.Nil(t, missing)

	require.NoError(t, repo.Delete(ctx, 1))
	missing, err = repo.FindByID(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestDocumentRepositoryReplace(t *testing.T) {
	fake := newFakeDynamo()
	fake.pageSize = 3
	repo := ddb.NewDocumentRepository(fake, "documents")
	ctx := context.Background()

	for i := int64(1); i <= 4; i++ {
		require.NoError(t, repo.Save(ctx, &domain.Document{ID: i, Title: fmt.Sprintf("viejo %d", i)}))
	}

	var docs []domain.Document
	for i := int64(3); i <= 32; i++ {
		docs = append(docs, domain.Document{ID: i, Title: fmt.Sprintf("nuevo %d", i), State: domain.StateDraft})
	}
	fake.unprocessed = true
	require.NoError(t, repo.Replace(ctx, docs))

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 30)
	assert.Equal(t, int64(3), all[0].ID)
	assert.Equal(t, "nuevo 3", all[0].Title)
	// 32 escrituras en dos lotes más un reintento del pedido no procesado.
	assert.Equal(t, 3, fake.batchCalls)
}

func TestDocumentRepositoryReplaceStopsRetryingWhenContextEnds(t *testing.T) {
	fake := newFakeDynamo()
	repo := ddb.NewDocumentRepository(fake, "documents")
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	fake.unprocessed = true
	err := repo.Replace(ctx, []domain.Document{{ID: 1, Title: "a"}, {ID: 2, Title: "b"}})
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, fake.batchCalls)
}

func TestUserRepository(t *testing.T) {
	repo := ddb.NewUserRepository(newFakeDynamo(), "users")
	ctx := context.Background()

	user := domain.User{ID: 7, FirstName: "Ana", LastName: "Ruiz", Email: "ana@cliente.co", Role: domain.RoleClient}
	require.NoError(t, repo.Save(ctx, &user))
	require.NoError(t, repo.Save(ctx, &domain.User{ID: 8, FirstName: "Pedro"}))

	got, err := repo.FindByID(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, user, *got)

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	require.NoError(t, repo.Delete(ctx, 8))
	got, err = repo.FindByID(ctx, 8)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestTagRepository(t *testing.T) {
	repo := ddb.NewTagRepository(newFakeDynamo(), "tags")
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, &domain.Tag{ID: 1, Name: "Laboral", ColorID: 3, CreatedBy: domain.Int64Ptr(1)}))
	require.NoError(t, repo.Save(ctx, &domain.Tag{ID: 1, Name: "Laboral y seguridad social", ColorID: 4}))

	got, err := repo.FindByID(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Laboral y seguridad social", got.Name)
	assert.Equal(t, 4, got.ColorID)
	require.NotNil(t, got.CreatedBy)
	assert.Equal(t, int64(1), *got.CreatedBy)

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, repo.Delete(ctx, 1))
	all, err = repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}
