package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	fiber "github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/vectorops/dbdock/internal/api/v1/middleware"
	"github.com/vectorops/dbdock/internal/db/models"
	"github.com/vectorops/dbdock/internal/db/repos"
	"github.com/vectorops/dbdock/internal/provision"
	"github.com/vectorops/dbdock/internal/services"
	"github.com/vectorops/dbdock/internal/types"
)

const testOwnerID = "user1234"

// mockBackend is a configurable provision.Client for handler tests.
type mockBackend struct {
	deployResult *provision.DeployResult
	deployErr    error

	deleteResult *provision.DeleteResult
	deleteErr    error

	statusBody []byte
	statusErr  error
}

func (m *mockBackend) Deploy(_ context.Context, _ *provision.Payload) (*provision.DeployResult, error) {
	if m.deployErr != nil {
		return nil, m.deployErr
	}
	return m.deployResult, nil
}

func (m *mockBackend) Delete(_ context.Context, _ *provision.DeletePayload) (*provision.DeleteResult, error) {
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

// testEnv bundles the app under test with its repositories.
type testEnv struct {
	app          *fiber.App
	databaseRepo *repos.DatabaseRepository
	uploadRepo   *repos.UploadRepository
}

func newTestEnv(t *testing.T, backend provision.Client) *testEnv {
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

	databaseRepo := repos.NewDatabaseRepository(db)
	uploadRepo := repos.NewUploadRepository(db)

	databaseService := services.NewDatabase(databaseRepo, backend, provision.Placement{
		Subnets:        []string{"subnet-1"},
		SecurityGroups: []string{"sg-1"},
	})
	uploadService := services.NewUpload(uploadRepo, databaseRepo)

	app := fiber.New()
	app.Get("/health", HealthCheck)

	v1 := app.Group("/api/v1", middleware.AuthRequired())
	databases := v1.Group("/databases")
	databases.Post("/", NewDatabaseHandler(databaseService).CreateDatabase)
	databases.Get("/", NewDatabaseHandler(databaseService).ListDatabases)
	databases.Post("/status", NewDatabaseHandler(databaseService).CheckDatabaseStatus)
	databases.Get("/:id", NewDatabaseHandler(databaseService).GetDatabase)
	databases.Delete("/", NewDatabaseHandler(databaseService).DeleteDatabase)

	uploads := v1.Group("/uploads")
	uploads.Post("/", NewUploadHandler(uploadService).RegisterUploads)
	uploads.Get("/", NewUploadHandler(uploadService).ListUploads)

	return &testEnv{app: app, databaseRepo: databaseRepo, uploadRepo: uploadRepo}
}

// request sends an authenticated JSON request to the app under test.
func (e *testEnv) request(t *testing.T, method, target string, body interface{}) *http.Response {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, target, reqBody)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer test-token")
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

// seedDatabase inserts a record directly through the repository.
func (e *testEnv) seedDatabase(t *testing.T, status models.DatabaseStatus) *models.Database {
	t.Helper()
	record := &models.Database{
		OwnerID:      testOwnerID,
		OwnerEmail:   "user@example.com",
		Name:         "mydata",
		Engine:       types.EnginePostgres,
		StorageGB:    20,
		ExecutionID:  "exec-abc",
		DeploymentID: "exec-abc",
		ResourceName: "pg-mydata-user",
		Status:       status,
	}
	require.NoError(t, e.databaseRepo.Create(context.Background(), record))
	return record
}

func validCreateBody() types.CreateDatabaseRequest {
	return types.CreateDatabaseRequest{
		Engine:     types.EnginePostgres,
		DBName:     "mydata",
		DBPassword: "supersecret",
		StorageGB:  20,
		UserID:     testOwnerID,
		UserEmail:  "user@example.com",
	}
}
