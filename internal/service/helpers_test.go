package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/noah-isme/solvesync/internal/models"
	"github.com/noah-isme/solvesync/internal/repository"
)

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

func newTestRepository(t *testing.T) repository.SolutionRepository {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.KVEntry{}))
	return repository.NewSolutionRepository(repository.NewGormKVStore(db))
}
