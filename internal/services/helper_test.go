package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/vectorops/dbdock/internal/db/models"
	"github.com/vectorops/dbdock/internal/db/repos"
	"github.com/vectorops/dbdock/internal/provision"
	"github.com/vectorops/dbdock/internal/types"
)

// mockBackend is a configurable provision.Client for service tests.
type mockBackend struct {
	deployResult *provision.DeployResult
	deployErr    error

	deleteResult *provision.DeleteResult
	deleteErr    error

	statusBody []byte
	statusErr  error

	deployedPayloads []*provision.Payload
	deletedPayloads  []*provision.DeletePayload
}

func (m *mockBackend) Deploy(_ context.Context, payload *provision.Payload) (*provision.DeployResult, error) {
	m.deployedPayloads = append(m.deployedPayloads, payload)
	if m.deployErr != nil {
		return nil, m.deployErr
	}
	return m.deployResult, nil
}

func (m *mockBackend) Delete(_ context.Context, payload *provision.DeletePayload) (*provision.DeleteResult, error) {
	m.deletedPayloads = append(m.deletedPayloads, payload)
	if m.deleteErr != nil {
		return nil, m.deleteErr
	}
	return m.deleteResult, nil
}

func (m *mockBackend) ExecutionStatus(_ context.Context, _ string) ([]byte, error) {
	if m.statusErr != nil {
		return nil, m.statusErr
	}
	return m.statusBody, nil
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared&_json=1"), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Database{}, &models.Upload{}))

	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil && sqlDB != nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func newTestServices(t *testing.T, backend provision.Client) (*Database, *Upload, *repos.DatabaseRepository) {
	t.Helper()
	db := newTestDB(t)
	databaseRepo := repos.NewDatabaseRepository(db)
	uploadRepo := repos.NewUploadRepository(db)

	placement := provision.Placement{
		Subnets:        []string{"subnet-1"},
		SecurityGroups: []string{"sg-1"},
	}
	return NewDatabase(databaseRepo, backend, placement), NewUpload(uploadRepo, databaseRepo), databaseRepo
}

func validCreateRequest() *types.CreateDatabaseRequest {
	return &types.CreateDatabaseRequest{
		Engine:     types.EnginePostgres,
		DBName:     "mydata",
		DBPassword: "supersecret",
		StorageGB:  20,
		UserID:     "user1234",
		UserEmail:  "user@example.com",
	}
}
