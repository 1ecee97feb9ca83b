package page

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/fern/pkg/database"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/tracing"
)

type PageRepository interface {
	Upsert(ctx context.Context, definition models.PageDefinition) (Record, error)
	Get(ctx context.Context, pageID string) (Record, error)
	List(ctx context.Context) ([]string, error)
	Delete(ctx context.Context, pageID string) error
}

type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

func (r *Repository) Upsert(ctx context.Context, definition models.PageDefinition) (Record, error) {
	ctx, span := tracing.StartSpan(ctx, "PageRepository.Upsert")
	defer span.End()

	now := time.Now().UTC()
	row := FromPage(definition, now)

	ib := pageStruct.InsertInto(pageTable, row)
	ub := ib.OnConflict("page_id")
	ub.Set(
		ub.Assign("definition", database.Excluded("definition")),
		ub.Assign("is_deleted", false),
		ub.Assign("updated_at", now),
	)
	query, args := ib.Build()

	ctx, tx, err := r.db.GetTx(ctx, nil)
	if err != nil {
		return Record{}, err
	}
	defer tx.Rollback(ctx)

	logger := r.logger.WithContext(ctx).WithField("page_id", definition.PageID)
	logger.Info("Upserting page definition")

	if _, err = tx.ExecContext(ctx, query, args...); err != nil {
		logger.WithError(err).Error("error upserting page definition")
		return Record{}, httperror.NewHTTPError(http.StatusInternalServerError, "error upserting page definition")
	}

	if err = tx.Commit(ctx); err != nil {
		return Record{}, err
	}

	return ToRecord(row), nil
}

func (r *Repository) Get(ctx context.Context, pageID string) (Record, error) {
	ctx, span := tracing.StartSpan(ctx, "PageRepository.Get")
	defer span.End()

	sb := pageStruct.SelectFrom(pageTable)
	sb.Where(
		sb.Equal("page_id", pageID),
		sb.Equal("is_deleted", false),
	)
	query, args := sb.Build()

	var row PageRow
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.logger.WithContext(ctx).WithField("page_id", pageID).Warn("Page definition not found")
			return Record{}, httperror.NewHTTPError(http.StatusNotFound, "page definition not found")
		}

		r.logger.WithContext(ctx).WithError(err).WithField("page_id", pageID).Error("error getting page definition")
		return Record{}, httperror.NewHTTPError(http.StatusInternalServerError, "error getting page definition")
	}

	return ToRecord(&row), nil
}

// List returns the ids of every live page, most recently updated first.
func (r *Repository) List(ctx context.Context) ([]string, error) {
	ctx, span := tracing.StartSpan(ctx, "PageRepository.List")
	defer span.End()

	sb := database.NewSelectBuilder()
	sb.Select("page_id").From(pageTable)
	sb.Where(sb.Equal("is_deleted", false))
	sb.OrderBy("updated_at").Desc()
	query, args := sb.Build()

	pageIDs := []string{}
	if err := r.db.SelectContext(ctx, &pageIDs, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("error listing page definitions")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "error listing page definitions")
	}
	return pageIDs, nil
}

// Delete soft deletes the page so running contexts keep their definition.
func (r *Repository) Delete(ctx context.Context, pageID string) error {
	ctx, span := tracing.StartSpan(ctx, "PageRepository.Delete")
	defer span.End()

	ub := database.NewUpdateBuilder()
	ub.Update(pageTable).Set(
		ub.Assign("is_deleted", true),
		ub.Assign("updated_at", time.Now().UTC()),
	).Where(ub.Equal("page_id", pageID))
	query, args := ub.Build()

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithField("page_id", pageID).Error("error deleting page definition")
		return httperror.NewHTTPError(http.StatusInternalServerError, "error deleting page definition")
	}

	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return httperror.NewHTTPError(http.StatusNotFound, "page definition not found")
	}
	return nil
}
