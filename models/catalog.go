// models/catalog.go - Shared catalog entries
package models

import (
	"time"
)

// CatalogEntry is a read-only pointer in the public catalog back to a
// resource in its creator's namespace. Sharing creates one of these (the
// original stays where it is); copying duplicates the resource instead and
// never goes through the catalog's SourcePath.
type CatalogEntry struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	ResourceType  string    `json:"resource_type" gorm:"not null;size:20;index:idx_catalog_resource,unique"` // "set" or "quiz"
	ResourceID    uint      `json:"resource_id" gorm:"not null;index:idx_catalog_resource,unique"`
	CreatorID     uint      `json:"creator_id" gorm:"not null;index"`
	Creator       *User     `json:"creator,omitempty" gorm:"foreignKey:CreatorID"`
	Title         string    `json:"title" gorm:"not null;size:200"`
	Subject       string    `json:"subject" gorm:"size:100"`
	Description   string    `json:"description" gorm:"type:text"`
	CoverImageURL string    `json:"cover_image_url" gorm:"size:500"`

	// SourcePath addresses the original document, e.g.
	// "users/42/sets/7". Resolving a share link re-reads through it.
	SourcePath string    `json:"source_path" gorm:"not null;size:200"`
	SharedAt   time.Time `json:"shared_at"`
}

func (CatalogEntry) TableName() string {
	return "catalog_entries"
}
