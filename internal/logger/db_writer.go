package logger

import (
	"context"
	"fmt"
	"time"

	"go-formhub/internal/config"
	"go-formhub/internal/database"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap/zapcore"
)

// LogEntry holds the data passed from Zap to the worker
type LogEntry struct {
	Level     zapcore.Level
	Message   string
	IpAddress string
	FormID    string
	Caller    string
}

type storedLog struct {
	AppID     string    `bson:"app_id"`
	Level     string    `bson:"level"`
	Message   string    `bson:"message"`
	IpAddress string    `bson:"ip_address,omitempty"`
	FormID    string    `bson:"form_id,omitempty"`
	Caller    string    `bson:"caller,omitempty"`
	CreatedAt time.Time `bson:"created_at"`
}

// DBLogWriter handles the async writing
type DBLogWriter struct {
	db      *mongo.Database
	logChan chan LogEntry
	appId   string
}

func NewDBLogWriter(mongodb *database.MongodbDB, cfg *config.Config) *DBLogWriter {
	writer := &DBLogWriter{
		db:      mongodb.DB,
		logChan: make(chan LogEntry, 1000),
		appId:   cfg.AppId,
	}

	go writer.processLogs()

	return writer
}

// AddLog is called by the Zap core hook
func (w *DBLogWriter) AddLog(entry LogEntry) {
	select {
	case w.logChan <- entry:
	default:
		// Channel full: drop rather than block the request path
		fmt.Println("DB Log Channel Full! Dropping log:", entry.Message)
	}
}

func (w *DBLogWriter) processLogs() {
	for entry := range w.logChan {
		record := storedLog{
			AppID:     w.appId,
			Level:     entry.Level.String(),
			Message:   entry.Message,
			IpAddress: entry.IpAddress,
			FormID:    entry.FormID,
			Caller:    entry.Caller,
			CreatedAt: time.Now().UTC(),
		}

		// Insert errors are swallowed to keep the app running
		w.db.Collection("logs").InsertOne(context.Background(), record)
	}
}
