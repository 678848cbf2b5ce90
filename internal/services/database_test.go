package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vectorops/dbdock/internal/db/models"
	"github.com/vectorops/dbdock/internal/provision"
	"github.com/vectorops/dbdock/internal/types"
)

func TestCreateDatabase(t *testing.T) {
	backend := &mockBackend{
		deployResult: &provision.DeployResult{DeploymentID: "deploy-abc"},
	}
	svc, _, repo := newTestServices(t, backend)
	ctx := context.Background()

	resp, record, err := svc.Create(ctx, validCreateRequest())
	require.NoError(t, err)

	assert.Equal(t, "deploy-abc", resp.ExecutionID)
	assert.Equal(t, "deploy-abc", resp.DeploymentID)
	assert.Equal(t, types.EnginePostgres, resp.DatabaseEngine)
	assert.Equal(t, "pg-mydata-user", resp.ContainerName)
	assert.Equal(t, "3-5 minutes", resp.EstimatedCompletionTime)

	// The record is persisted as CREATING
	require.NotNil(t, record)
	require.NotZero(t, record.ID)
	persisted, err := repo.GetByID(ctx, "user1234", record.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DatabaseStatusCreating, persisted.Status)
	assert.Equal(t, "deploy-abc", persisted.ExecutionID)
	assert.Equal(t, "pg-mydata-user", persisted.ResourceName)

	// The deploy payload carried the placement constants
	require.Len(t, backend.deployedPayloads, 1)
	assert.Equal(t, []string{"subnet-1"}, backend.deployedPayloads[0].Subnets)
}

func TestCreateDatabaseGeneratesIDWhenBackendOmitsOne(t *testing.T) {
	backend := &mockBackend{deployResult: &provision.DeployResult{}}
	svc, _, _ := newTestServices(t, backend)

	resp, _, err := svc.Create(context.Background(), validCreateRequest())
	require.NoError(t, err)
	assert.Contains(t, resp.ExecutionID, "deploy-")
}

func TestCreateDatabaseBackendFailure(t *testing.T) {
	backend := &mockBackend{deployErr: errors.New("boom")}
	svc, _, repo := newTestServices(t, backend)

	_, _, err := svc.Create(context.Background(), validCreateRequest())
	require.Error(t, err)

	// Nothing persisted when the backend rejects the deploy
	records, err := repo.List(context.Background(), "user1234", nil)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestCreateDatabaseUnsupportedEngine(t *testing.T) {
	svc, _, _ := newTestServices(t, &mockBackend{})

	req := validCreateRequest()
	req.Engine = "mysql"
	_, _, err := svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
}

func seedRecord(t *testing.T, svc *Database, backend *mockBackend) *models.Database {
	t.Helper()
	backend.deployResult = &provision.DeployResult{DeploymentID: "deploy-abc"}
	_, record, err := svc.Create(context.Background(), validCreateRequest())
	require.NoError(t, err)
	return record
}

func TestDeleteDatabase(t *testing.T) {
	backend := &mockBackend{
		deleteResult: &provision.DeleteResult{DeletionID: "del-1", Status: "DELETING"},
	}
	svc, _, repo := newTestServices(t, backend)
	record := seedRecord(t, svc, backend)

	resp, err := svc.Delete(context.Background(), &types.DeleteDatabaseRequest{
		DatabaseID:    "1",
		ContainerName: record.ResourceName,
		UserID:        "user1234",
		Engine:        types.EnginePostgres,
	})
	require.NoError(t, err)

	assert.True(t, resp.Success)
	assert.Equal(t, "del-1", resp.DeletionID)
	assert.Equal(t, "DELETING", resp.Status)
	assert.False(t, resp.SoftDelete)
	assert.Equal(t, "2-3 minutes", resp.EstimatedDeletionTime)

	// Record marked DELETING while the cleanup grace period runs
	persisted, err := repo.GetByID(context.Background(), "user1234", record.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DatabaseStatusDeleting, persisted.Status)
	assert.Equal(t, "del-1", persisted.DeletionID)
}

func TestDeleteDatabaseSoftDeleteOnNotFound(t *testing.T) {
	backend := &mockBackend{deleteErr: provision.ErrNotFound}
	svc, _, repo := newTestServices(t, backend)
	record := seedRecord(t, svc, backend)

	resp, err := svc.Delete(context.Background(), &types.DeleteDatabaseRequest{
		DatabaseID:    "1",
		ContainerName: record.ResourceName,
		UserID:        "user1234",
	})
	require.NoError(t, err)

	assert.True(t, resp.Success)
	assert.True(t, resp.SoftDelete)
	assert.Equal(t, "DELETED", resp.Status)
	assert.Contains(t, resp.DeletionID, "not-found-")
	assert.NotEmpty(t, resp.Warning)

	// The record is gone immediately
	_, err = repo.GetByID(context.Background(), "user1234", record.ID)
	require.Error(t, err)
}

func TestDeleteDatabaseSoftDeleteOnUnreachable(t *testing.T) {
	backend := &mockBackend{deleteErr: provision.ErrUnreachable}
	svc, _, repo := newTestServices(t, backend)
	record := seedRecord(t, svc, backend)

	resp, err := svc.Delete(context.Background(), &types.DeleteDatabaseRequest{
		DatabaseID:    "1",
		ContainerName: record.ResourceName,
		UserID:        "user1234",
	})
	require.NoError(t, err)

	assert.True(t, resp.SoftDelete)
	assert.Contains(t, resp.DeletionID, "soft-delete-")
	assert.Contains(t, resp.Warning, "manually")

	_, err = repo.GetByID(context.Background(), "user1234", record.ID)
	require.Error(t, err)
}

func TestDeleteDatabaseOtherBackendErrorPropagates(t *testing.T) {
	backend := &mockBackend{deleteErr: errors.New("access denied")}
	svc, _, repo := newTestServices(t, backend)
	record := seedRecord(t, svc, backend)

	_, err := svc.Delete(context.Background(), &types.DeleteDatabaseRequest{
		DatabaseID:    "1",
		ContainerName: record.ResourceName,
		UserID:        "user1234",
	})
	require.Error(t, err)

	// The record survives a hard failure
	_, err = repo.GetByID(context.Background(), "user1234", record.ID)
	require.NoError(t, err)
}

func TestDeleteDatabaseMissingRecord(t *testing.T) {
	svc, _, _ := newTestServices(t, &mockBackend{})

	_, err := svc.Delete(context.Background(), &types.DeleteDatabaseRequest{
		DatabaseID:    "999",
		ContainerName: "pg-gone-user",
		UserID:        "user1234",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestDeleteDatabaseInvalidID(t *testing.T) {
	svc, _, _ := newTestServices(t, &mockBackend{})

	_, err := svc.Delete(context.Background(), &types.DeleteDatabaseRequest{
		DatabaseID:    "not-a-number",
		ContainerName: "pg-x-user",
		UserID:        "user1234",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
}

func TestCheckStatusPersistsOutcome(t *testing.T) {
	backend := &mockBackend{
		statusBody: []byte(`{"status": "SUCCEEDED", "output": "{\"host\": \"pg.internal\", \"database\": \"mydata\", \"username\": \"admin\"}"}`),
	}
	svc, _, repo := newTestServices(t, backend)
	record := seedRecord(t, svc, backend)

	report, err := svc.CheckStatus(context.Background(), &types.StatusCheckRequest{
		ExecutionID: record.ExecutionID,
		UserID:      "user1234",
		Engine:      types.EnginePostgres,
	})
	require.NoError(t, err)

	assert.Equal(t, "Completed", report.UserFriendlyStatus)
	assert.Equal(t, 100, report.ProgressPercentage)
	require.NotNil(t, report.ConnectionInfo)

	persisted, err := repo.GetByID(context.Background(), "user1234", record.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DatabaseStatusCompleted, persisted.Status)
	require.NotNil(t, persisted.ConnectionInfo)
	assert.Equal(t, "pg.internal", persisted.ConnectionInfo.Host)
	assert.NotNil(t, persisted.LastCheckedAt)
}

func TestCheckStatusUnknownDoesNotOverwrite(t *testing.T) {
	backend := &mockBackend{statusBody: []byte(`garbage response`)}
	svc, _, repo := newTestServices(t, backend)
	record := seedRecord(t, svc, backend)

	report, err := svc.CheckStatus(context.Background(), &types.StatusCheckRequest{
		ExecutionID: record.ExecutionID,
		UserID:      "user1234",
		Engine:      types.EnginePostgres,
	})
	require.NoError(t, err)
	assert.Equal(t, "UNKNOWN", report.Status)

	// The stored lifecycle status is untouched
	persisted, err := repo.GetByID(context.Background(), "user1234", record.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DatabaseStatusCreating, persisted.Status)
}

func TestCheckStatusExecutionNotFound(t *testing.T) {
	backend := &mockBackend{statusErr: provision.ErrNotFound}
	svc, _, _ := newTestServices(t, backend)

	_, err := svc.CheckStatus(context.Background(), &types.StatusCheckRequest{
		ExecutionID: "exec-gone",
		UserID:      "user1234",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestScheduledCleanupRemovesRecord(t *testing.T) {
	backend := &mockBackend{
		deleteResult: &provision.DeleteResult{DeletionID: "del-1"},
	}
	svc, _, repo := newTestServices(t, backend)
	svc.cleanupDelay = 20 * time.Millisecond
	record := seedRecord(t, svc, backend)

	_, err := svc.Delete(context.Background(), &types.DeleteDatabaseRequest{
		DatabaseID:    "1",
		ContainerName: record.ResourceName,
		UserID:        "user1234",
	})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		_, err := repo.GetByID(context.Background(), "user1234", record.ID)
		return err != nil
	}, time.Second, 10*time.Millisecond, "record should be removed after the grace period")
}

func TestGetDatabase(t *testing.T) {
	backend := &mockBackend{}
	svc, _, _ := newTestServices(t, backend)
	record := seedRecord(t, svc, backend)

	found, err := svc.Get(context.Background(), "user1234", record.ID)
	require.NoError(t, err)
	assert.Equal(t, record.ID, found.ID)

	_, err = svc.Get(context.Background(), "user1234", 999)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRecordNotFound)
}
