package recording

import (
	"embed"

	"github.com/kbukum/scribe/database"
	"github.com/kbukum/scribe/transcription"
)

// Migrations holds the recordings schema.
//
//go:embed migrations/*.sql
var Migrations embed.FS

// MigrationsDir is the directory inside Migrations.
const MigrationsDir = "migrations"

// Model is the recordings row.
type Model struct {
	database.BaseModel
	Title           string
	AudioKey        string
	Status          string `gorm:"index"`
	TranscribedText string
}

// TableName pins the table name.
func (Model) TableName() string { return "recordings" }

func (m Model) toRecording() transcription.Recording {
	return transcription.Recording{
		ID:              m.ID,
		Title:           m.Title,
		AudioKey:        m.AudioKey,
		Status:          transcription.Status(m.Status),
		TranscribedText: m.TranscribedText,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}
