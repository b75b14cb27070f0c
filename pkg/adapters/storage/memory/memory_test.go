package memory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"legal-document-manager/pkg/adapters/storage/memory"
	"legal-document-manager/pkg/domain"
)

func TestDocumentRepository(t *testing.T) {
	repo := memory.NewDocumentRepository()
	ctx := context.Background()

	doc := domain.Document{ID: 2, Title: "Poder"}
	require.NoError(t, repo.Save(ctx, &doc))
	doc.Title = "cambiado después de guardar"

	got, err := repo.FindByID(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "Poder", got.Title)

	require.NoError(t, repo.Replace(ctx, []domain.Document{{ID: 5}, {ID: 3}}))
	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, int64(3), all[0].ID)

	got, err = repo.FindByID(ctx, 2)
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, repo.Delete(ctx, 3))
	all, _ = repo.FindAll(ctx)
	assert.Len(t, all, 1)
}

func TestUserAndTagRepositories(t *testing.T) {
	ctx := context.Background()

	users := memory.NewUserRepository()
	require.NoError(t, users.Save(ctx, &domain.User{ID: 1, FirstName: "Laura"}))
	u, err := users.FindByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Laura", u.FirstName)
	require.NoError(t, users.Delete(ctx, 1))
	u, err = users.FindByID(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, u)

	tags := memory.NewTagRepository()
	require.NoError(t, tags.Save(ctx, &domain.Tag{ID: 4, Name: "Civil"}))
	all, err := tags.FindAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.Tag{{ID: 4, Name: "Civil"}}, all)
}
