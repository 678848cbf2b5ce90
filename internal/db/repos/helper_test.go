package repos

import (
	"context"
	"crypto/rand"
	"encoding/hex"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/vectorops/dbdock/internal/db/models"
	"github.com/vectorops/dbdock/internal/types"
)

// DBRepositoryTestSuite provides a base test suite for repository tests
type DBRepositoryTestSuite struct {
	suite.Suite
	db           *gorm.DB
	ctx          context.Context
	databaseRepo *DatabaseRepository
	uploadRepo   *UploadRepository
}

// randomOwnerID creates a random owner ID using crypto/rand
func (s *DBRepositoryTestSuite) randomOwnerID() string {
	buf := make([]byte, 8)
	_, err := rand.Read(buf)
	s.Require().NoError(err, "Failed to generate random owner ID")
	return hex.EncodeToString(buf)
}

func (s *DBRepositoryTestSuite) SetupTest() {
	// Create new in-memory database with JSON support
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared&_json=1"), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   logger.Default.LogMode(logger.Silent),
	})
	require.NoError(s.T(), err, "Failed to create in-memory database")

	// Run migrations
	err = db.AutoMigrate(&models.Database{}, &models.Upload{})
	require.NoError(s.T(), err, "Failed to run database migrations")

	// Initialize repositories
	s.db = db
	s.databaseRepo = NewDatabaseRepository(s.db)
	s.uploadRepo = NewUploadRepository(s.db)
	s.ctx = context.Background()
}

func (s *DBRepositoryTestSuite) TearDownTest() {
	sqlDB, err := s.db.DB()
	if err == nil && sqlDB != nil {
		_ = sqlDB.Close()
	}
}

// Helper methods for creating test data

func (s *DBRepositoryTestSuite) randomDatabase(ownerID string) *models.Database {
	return &models.Database{
		OwnerID:      ownerID,
		OwnerEmail:   ownerID + "@example.com",
		Name:         "testdb",
		Engine:       types.EnginePostgres,
		StorageGB:    20,
		ExecutionID:  "exec-" + ownerID,
		DeploymentID: "deploy-" + ownerID,
		ResourceName: "pg-testdb-" + ownerID[:4],
		Status:       models.DatabaseStatusCreating,
	}
}

func (s *DBRepositoryTestSuite) createTestDatabase(ownerID string) *models.Database {
	database := s.randomDatabase(ownerID)
	err := s.databaseRepo.Create(s.ctx, database)
	s.Require().NoError(err)
	s.Require().NotZero(database.ID)
	return database
}

func (s *DBRepositoryTestSuite) randomUpload(ownerID string, databaseID uint) *models.Upload {
	return &models.Upload{
		OwnerID:        ownerID,
		DatabaseID:     databaseID,
		FileName:       "document.pdf",
		FileSizeBytes:  1024,
		EmbeddingModel: "amazon.titan-embed-text-v1",
		ChunkSize:      500,
		ChunkOverlap:   50,
		Status:         models.UploadStatusPending,
	}
}
