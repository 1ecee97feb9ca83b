package page

import (
	"database/sql"
	"time"

	"github.com/Ramsey-B/fern/pkg/database"
	"github.com/Ramsey-B/fern/pkg/models"
)

const pageTable = "pages"

type PageRow struct {
	PageID     sql.NullString                        `db:"page_id"`
	Definition database.JSONB[models.PageDefinition] `db:"definition"`
	IsDeleted  sql.NullBool                          `db:"is_deleted"`
	CreatedTS  sql.NullTime                          `db:"created_at"`
	UpdatedTS  sql.NullTime                          `db:"updated_at"`
}

var pageStruct = database.NewStruct(new(PageRow))

// Record is a stored page definition with its bookkeeping columns.
type Record struct {
	Definition models.PageDefinition `json:"definition"`
	CreatedTS  time.Time             `json:"createdAt"`
	UpdatedTS  time.Time             `json:"updatedAt"`
}

func FromPage(definition models.PageDefinition, now time.Time) *PageRow {
	return &PageRow{
		PageID:     sql.NullString{String: definition.PageID, Valid: definition.PageID != ""},
		Definition: database.JSONB[models.PageDefinition]{Data: definition},
		IsDeleted:  sql.NullBool{Bool: false, Valid: true},
		CreatedTS:  sql.NullTime{Time: now, Valid: true},
		UpdatedTS:  sql.NullTime{Time: now, Valid: true},
	}
}

func ToRecord(row *PageRow) Record {
	definition := row.Definition.Data
	if definition.PageID == "" {
		definition.PageID = row.PageID.String
	}

	return Record{
		Definition: definition,
		CreatedTS:  row.CreatedTS.Time,
		UpdatedTS:  row.UpdatedTS.Time,
	}
}
