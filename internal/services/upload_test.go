package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vectorops/dbdock/internal/db/models"
	"github.com/vectorops/dbdock/internal/events"
	"github.com/vectorops/dbdock/internal/provision"
	"github.com/vectorops/dbdock/internal/types"
)

func validUploadRequest(databaseID uint) *types.RegisterUploadRequest {
	return &types.RegisterUploadRequest{
		DatabaseID:     databaseID,
		UserID:         "user1234",
		EmbeddingModel: "amazon.titan-embed-text-v1",
		ChunkSize:      500,
		ChunkOverlap:   50,
		Files: []types.UploadFile{
			{Name: "report.pdf", SizeBytes: 2048},
			{Name: "notes.pdf", SizeBytes: 1024},
		},
	}
}

func TestRegisterUploads(t *testing.T) {
	backend := &mockBackend{deployResult: &provision.DeployResult{DeploymentID: "deploy-abc"}}
	dbSvc, uploadSvc, repo := newTestServices(t, backend)
	ctx := context.Background()

	record := seedRecord(t, dbSvc, backend)
	require.NoError(t, repo.UpdateStatus(ctx, record.ID, models.DatabaseStatusCompleted))

	jobs, err := uploadSvc.Register(ctx, validUploadRequest(record.ID))
	require.NoError(t, err)
	require.Len(t, jobs, 2)

	for _, job := range jobs {
		assert.NotZero(t, job.ID)
		assert.Equal(t, record.ID, job.DatabaseID)
		assert.Equal(t, models.UploadStatusPending, job.Status)
		assert.Equal(t, "amazon.titan-embed-text-v1", job.EmbeddingModel)
	}

	listed, err := uploadSvc.List(ctx, "user1234", 0, 0)
	require.NoError(t, err)
	assert.Len(t, listed, 2)
}

func TestRegisterUploadsDatabaseNotReady(t *testing.T) {
	backend := &mockBackend{deployResult: &provision.DeployResult{DeploymentID: "deploy-abc"}}
	dbSvc, uploadSvc, _ := newTestServices(t, backend)

	// Record is still CREATING
	record := seedRecord(t, dbSvc, backend)

	_, err := uploadSvc.Register(context.Background(), validUploadRequest(record.ID))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
	assert.Contains(t, err.Error(), "not ready for uploads")
}

func TestRegisterUploadsDatabaseMissing(t *testing.T) {
	_, uploadSvc, _ := newTestServices(t, &mockBackend{})

	_, err := uploadSvc.Register(context.Background(), validUploadRequest(999))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestDatabaseDeletedFailsUnfinishedUploads(t *testing.T) {
	backend := &mockBackend{deployResult: &provision.DeployResult{DeploymentID: "deploy-abc"}}
	dbSvc, uploadSvc, repo := newTestServices(t, backend)
	ctx := context.Background()

	record := seedRecord(t, dbSvc, backend)
	require.NoError(t, repo.UpdateStatus(ctx, record.ID, models.DatabaseStatusCompleted))

	jobs, err := uploadSvc.Register(ctx, validUploadRequest(record.ID))
	require.NoError(t, err)
	require.Len(t, jobs, 2)

	// One job already finished; it must keep its status.
	require.NoError(t, uploadSvc.repo.UpdateStatus(ctx, jobs[0].ID, models.UploadStatusCompleted, ""))

	require.NoError(t, uploadSvc.handleDatabaseDeleted(ctx, events.Event{
		Type:       events.EventDatabaseDeleted,
		DatabaseID: record.ID,
		OwnerID:    "user1234",
	}))

	finished, err := uploadSvc.repo.GetByID(ctx, "user1234", jobs[0].ID)
	require.NoError(t, err)
	assert.Equal(t, models.UploadStatusCompleted, finished.Status)

	failed, err := uploadSvc.repo.GetByID(ctx, "user1234", jobs[1].ID)
	require.NoError(t, err)
	assert.Equal(t, models.UploadStatusFailed, failed.Status)
	assert.Equal(t, "target database was deleted", failed.Error)
}

func TestSoftDeleteDispatchesUploadFailure(t *testing.T) {
	backend := &mockBackend{deployResult: &provision.DeployResult{DeploymentID: "deploy-abc"}}
	dbSvc, uploadSvc, repo := newTestServices(t, backend)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	record := seedRecord(t, dbSvc, backend)
	require.NoError(t, repo.UpdateStatus(ctx, record.ID, models.DatabaseStatusCompleted))

	jobs, err := uploadSvc.Register(ctx, validUploadRequest(record.ID))
	require.NoError(t, err)
	require.Len(t, jobs, 2)

	events.Start(ctx)

	backend.deleteErr = provision.ErrNotFound
	_, err = dbSvc.Delete(ctx, &types.DeleteDatabaseRequest{
		DatabaseID:    fmt.Sprintf("%d", record.ID),
		ContainerName: record.ResourceName,
		UserID:        "user1234",
	})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		job, err := uploadSvc.repo.GetByID(ctx, "user1234", jobs[0].ID)
		return err == nil && job.Status == models.UploadStatusFailed
	}, time.Second, 10*time.Millisecond)
}
