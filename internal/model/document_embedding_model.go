package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

// DocumentEmbedding stores one embedded chunk of a synced source document.
// Rows are immutable; a resync replaces the document's rows wholesale.
type DocumentEmbedding struct {
	Id             uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId         uuid.UUID         `gorm:"type:uuid;not null;index"`
	DocumentType   string            `gorm:"type:varchar(50);not null;index"`
	DocumentId     uuid.UUID         `gorm:"type:uuid;not null;index"`
	Chunk          string            `gorm:"type:text;not null"`
	EmbeddingValue pgvector.Vector   `gorm:"type:vector(768)"` // text-embedding-004 / nomic-embed-text dims
	ChunkIndex     int               `gorm:"not null;default:0"`
	Metadata       datatypes.JSONMap `gorm:"type:jsonb"`
	CreatedAt      time.Time         `gorm:"autoCreateTime"`
}

func (DocumentEmbedding) TableName() string {
	return "document_embeddings"
}
