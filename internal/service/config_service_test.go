package service

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/solvesync/internal/dto"
)

func TestConfigServiceNotConfigured(t *testing.T) {
	svc := NewConfigService(newTestRepository(t), validator.New(), testLogger())
	_, err := svc.Get(context.Background())
	require.ErrorIs(t, err, ErrRepoNotConfigured)
}

func TestConfigServiceSaveMasksTokenAndAppliesDefaults(t *testing.T) {
	repo := newTestRepository(t)
	svc := NewConfigService(repo, validator.New(), testLogger())
	ctx := context.Background()

	saved, err := svc.Save(ctx, dto.RepoConfigRequest{Owner: "octo", Repo: "solutions", Token: "ghp_1234567890abcd"})
	require.NoError(t, err)
	require.Equal(t, "********abcd", saved.Token)
	require.True(t, saved.HasToken)
	require.Equal(t, DefaultPathTemplate, saved.PathTemplate)
	require.Equal(t, DefaultCommitMessage, saved.CommitMessage)

	stored, found, err := repo.GetConfig(ctx)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "ghp_1234567890abcd", stored.Token)

	got, err := svc.Get(ctx)
	require.NoError(t, err)
	require.Equal(t, saved, got)
}

func TestConfigServiceKeepsTokenWhenMaskedOrEmpty(t *testing.T) {
	repo := newTestRepository(t)
	svc := NewConfigService(repo, validator.New(), testLogger())
	ctx := context.Background()

	first, err := svc.Save(ctx, dto.RepoConfigRequest{Owner: "octo", Repo: "solutions", Token: "ghp_1234567890abcd"})
	require.NoError(t, err)

	_, err = svc.Save(ctx, dto.RepoConfigRequest{Owner: "octo", Repo: "renamed", Token: first.Token})
	require.NoError(t, err)
	_, err = svc.Save(ctx, dto.RepoConfigRequest{Owner: "octo", Repo: "renamed", Branch: "main"})
	require.NoError(t, err)

	stored, _, err := repo.GetConfig(ctx)
	require.NoError(t, err)
	require.Equal(t, "ghp_1234567890abcd", stored.Token)
	require.Equal(t, "renamed", stored.Repo)
	require.Equal(t, "main", stored.Branch)
}

func TestConfigServiceRejectsInvalidConfig(t *testing.T) {
	svc := NewConfigService(newTestRepository(t), validator.New(), testLogger())
	ctx := context.Background()

	_, err := svc.Save(ctx, dto.RepoConfigRequest{Owner: "octo", Repo: "solutions"})
	require.Error(t, err, "token is required on first save")

	_, err = svc.Save(ctx, dto.RepoConfigRequest{Repo: "solutions", Token: "ghp_x"})
	require.Error(t, err)

	_, err = svc.Save(ctx, dto.RepoConfigRequest{Owner: "octo", Repo: "solutions", Token: "ghp_x", PathTemplate: "{difficulty}/{problem}.txt"})
	require.ErrorIs(t, err, ErrInvalidTemplate)
}

func TestMaskToken(t *testing.T) {
	require.Equal(t, "", maskToken(""))
	require.Equal(t, tokenMask, maskToken("short"))
	require.Equal(t, tokenMask+"wxyz", maskToken("ghp_abcdefghwxyz"))
}
