// Package events provides event handling functionality
package events

import (
	"context"
	"sync"

	"github.com/vectorops/dbdock/internal/logger"
	"github.com/vectorops/dbdock/internal/types"
)

// EventType represents the type of database lifecycle event
type EventType string

const (
	// EventDatabaseCreated is emitted when a provisioning request is accepted
	EventDatabaseCreated EventType = "database_created"
	// EventDatabaseDeleted is emitted when a deletion is confirmed or soft-deleted
	EventDatabaseDeleted EventType = "database_deleted"
	// EventUploadRegistered is emitted when PDF ingestion jobs are registered
	EventUploadRegistered EventType = "upload_registered"
	// EventChannelSize is the buffer size for the event channel
	EventChannelSize = 100
)

// Event represents a database lifecycle event
type Event struct {
	Type        EventType
	DatabaseID  uint
	OwnerID     string
	Engine      types.Engine
	ExecutionID string
	SoftDelete  bool
}

// Handler is a function that handles an event
type Handler func(context.Context, Event) error

var (
	handlers   = make(map[EventType][]Handler)
	handlersMu sync.RWMutex
	eventChan  = make(chan Event, EventChannelSize)
)

// Subscribe registers a handler for a specific event type
func Subscribe(eventType EventType, handler Handler) {
	handlersMu.Lock()
	defer handlersMu.Unlock()
	handlers[eventType] = append(handlers[eventType], handler)
	logger.Debugf("Registered handler for event type: %s", eventType)
}

// Publish sends an event to be processed. Publishing is non-blocking: when
// the buffer is full the event is dropped with a warning, because lifecycle
// events are advisory and the record store remains the source of truth.
func Publish(event Event) {
	select {
	case eventChan <- event:
		logger.Debugf("Published event: %s (database: %d)", event.Type, event.DatabaseID)
	default:
		logger.Warnf("Event channel full, dropping event: %s", event.Type)
	}
}

// Start starts the event processing loop
func Start(ctx context.Context) {
	go processEvents(ctx)
	logger.Info("Started event processing loop")
}

func processEvents(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			logger.Info("Stopping event processing loop")
			return
		case event := <-eventChan:
			dispatch(ctx, event)
		}
	}
}

func dispatch(ctx context.Context, event Event) {
	handlersMu.RLock()
	registered := handlers[event.Type]
	handlersMu.RUnlock()

	for _, handler := range registered {
		if err := handler(ctx, event); err != nil {
			logger.ErrorWithFields("Event handler failed", map[string]interface{}{
				"event_type":  event.Type,
				"database_id": event.DatabaseID,
				"error":       err.Error(),
			})
		}
	}
}
