package page

import (
	"context"
	"net/http"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	pagerepo "github.com/Ramsey-B/fern/internal/repositories/page"
	"github.com/Ramsey-B/fern/pkg/actions"
	"github.com/Ramsey-B/fern/pkg/blocks"
	fernerr "github.com/Ramsey-B/fern/pkg/errors"
	"github.com/Ramsey-B/fern/pkg/events"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/operators"
	"github.com/Ramsey-B/fern/pkg/operators/builtin"
	"github.com/Ramsey-B/fern/pkg/snapshot"
	"github.com/Ramsey-B/fern/pkg/tracing"
	"github.com/Ramsey-B/fern/pkg/utils"
)

// Engine is what every context the service creates shares.
type Engine struct {
	Operators *operators.Registry
	Actions   *actions.Registry
	Requests  blocks.RequestRunner
	Global    *blocks.Global
	Publisher events.Publisher
}

type Service struct {
	logger    ectologger.Logger
	repo      pagerepo.PageRepository
	pages     map[string]models.PageDefinition
	engine    Engine
	contexts  *blocks.Contexts
	snapshots snapshot.Store
}

// NewService serves the app's pages and, when repo is set, pages stored in postgres. App pages win.
func NewService(logger ectologger.Logger, repo pagerepo.PageRepository, app models.AppDefinition, engine Engine, snapshots snapshot.Store) *Service {
	pages := make(map[string]models.PageDefinition, len(app.Pages))
	for _, definition := range app.Pages {
		pages[definition.PageID] = definition
	}
	if engine.Operators == nil {
		engine.Operators = builtin.NewRegistry()
	}
	if engine.Actions == nil {
		engine.Actions = actions.DefaultRegistry(nil)
	}
	if engine.Global == nil {
		engine.Global = blocks.NewGlobal(app.Global)
	}
	if snapshots == nil {
		snapshots = snapshot.NewMemoryStore()
	}

	return &Service{
		logger:    logger,
		repo:      repo,
		pages:     pages,
		engine:    engine,
		contexts:  blocks.NewContexts(),
		snapshots: snapshots,
	}
}

func (s *Service) Engine() Engine {
	return s.engine
}

// SavePage checks and stores a page definition.
func (s *Service) SavePage(ctx context.Context, definition models.PageDefinition) (pagerepo.Record, error) {
	ctx, span := tracing.StartSpan(ctx, "page.SavePage")
	defer span.End()

	if s.repo == nil {
		return pagerepo.Record{}, httperror.NewHTTPError(http.StatusNotImplemented, "page storage is not configured")
	}
	if _, ok := s.pages[definition.PageID]; ok {
		return pagerepo.Record{}, httperror.NewHTTPError(http.StatusConflict, "page is defined by the app configuration")
	}

	if _, err := utils.Validate(definition); err != nil {
		return pagerepo.Record{}, httperror.WrapError(http.StatusBadRequest, err)
	}
	if err := blocks.Check(definition, s.engine.Operators, s.engine.Actions); err != nil {
		return pagerepo.Record{}, fernerr.ToHTTPError(err)
	}

	s.logger.WithContext(ctx).WithField("page_id", definition.PageID).Info("saving page definition")
	return s.repo.Upsert(ctx, definition)
}

func (s *Service) GetPage(ctx context.Context, pageID string) (models.PageDefinition, error) {
	ctx, span := tracing.StartSpan(ctx, "page.GetPage")
	defer span.End()

	if definition, ok := s.pages[pageID]; ok {
		return definition, nil
	}
	if s.repo == nil {
		return models.PageDefinition{}, httperror.NewHTTPError(http.StatusNotFound, "page definition not found")
	}

	record, err := s.repo.Get(ctx, pageID)
	if err != nil {
		return models.PageDefinition{}, err
	}
	return record.Definition, nil
}

// CreateContext starts a live context for pageID.
func (s *Service) CreateContext(ctx context.Context, pageID string, input, state map[string]any) (*blocks.Context, error) {
	ctx, span := tracing.StartSpan(ctx, "page.CreateContext")
	defer span.End()

	definition, err := s.GetPage(ctx, pageID)
	if err != nil {
		return nil, err
	}

	pageContext, err := blocks.NewContext(ctx, blocks.ContextConfig{
		Page:         definition,
		Registry:     s.engine.Operators,
		Actions:      s.engine.Actions,
		Requests:     s.engine.Requests,
		Global:       s.engine.Global,
		Input:        input,
		InitialState: state,
		Logger:       s.logger,
		Publisher:    s.engine.Publisher,
	})
	if err != nil {
		return nil, fernerr.ToHTTPError(err)
	}

	s.contexts.Add(pageContext)
	s.logger.WithContext(ctx).WithFields(map[string]any{
		"context_id": pageContext.ID(),
		"page_id":    pageID,
	}).Info("created page context")

	return pageContext, s.save(ctx, pageContext)
}

func (s *Service) GetContext(contextID string) (*blocks.Context, error) {
	pageContext, ok := s.contexts.Get(contextID)
	if !ok {
		return nil, httperror.NewHTTPError(http.StatusNotFound, "context not found")
	}
	return pageContext, nil
}

// Snapshot returns the live snapshot, or the stored one when the context is no longer in memory.
func (s *Service) Snapshot(ctx context.Context, contextID string) (snapshot.Record, error) {
	if pageContext, ok := s.contexts.Get(contextID); ok {
		return record(pageContext), nil
	}

	stored, err := s.snapshots.Load(ctx, contextID)
	if err == snapshot.ErrNotFound {
		return snapshot.Record{}, httperror.NewHTTPError(http.StatusNotFound, "context not found")
	}
	return stored, err
}

func (s *Service) SetValue(ctx context.Context, contextID, blockID string, value any) (snapshot.Record, error) {
	ctx, span := tracing.StartSpan(ctx, "page.SetValue")
	defer span.End()

	pageContext, err := s.GetContext(contextID)
	if err != nil {
		return snapshot.Record{}, err
	}

	if err := pageContext.SetValue(blockID, value); err != nil {
		return snapshot.Record{}, httperror.WrapError(http.StatusBadRequest, err)
	}
	pageContext.Update()

	return record(pageContext), s.save(ctx, pageContext)
}

func (s *Service) CallAction(ctx context.Context, contextID, blockID, event string, opts actions.CallOptions) (models.ActionCallResult, error) {
	ctx, span := tracing.StartSpan(ctx, "page.CallAction")
	defer span.End()

	pageContext, err := s.GetContext(contextID)
	if err != nil {
		return models.ActionCallResult{}, err
	}

	result, err := pageContext.CallAction(ctx, blockID, event, opts)
	if err != nil {
		return models.ActionCallResult{}, httperror.WrapError(http.StatusNotFound, err)
	}

	return result, s.save(ctx, pageContext)
}

func (s *Service) ShowValidationErrors(ctx context.Context, contextID string, show bool) (snapshot.Record, error) {
	pageContext, err := s.GetContext(contextID)
	if err != nil {
		return snapshot.Record{}, err
	}

	pageContext.ShowValidationErrors(show)
	return record(pageContext), s.save(ctx, pageContext)
}

func (s *Service) DeleteContext(ctx context.Context, contextID string) error {
	ctx, span := tracing.StartSpan(ctx, "page.DeleteContext")
	defer span.End()

	if !s.contexts.Delete(contextID) {
		return httperror.NewHTTPError(http.StatusNotFound, "context not found")
	}
	return s.snapshots.Delete(ctx, contextID)
}

func (s *Service) save(ctx context.Context, pageContext *blocks.Context) error {
	if err := s.snapshots.Save(ctx, record(pageContext)); err != nil {
		s.logger.WithContext(ctx).WithError(err).WithField("context_id", pageContext.ID()).Error("failed to save snapshot")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to save snapshot")
	}
	return nil
}

func record(pageContext *blocks.Context) snapshot.Record {
	return snapshot.Record{
		ContextID: pageContext.ID(),
		PageID:    pageContext.PageID(),
		State:     pageContext.State(),
		Snapshot:  pageContext.Snapshot(),
		UpdatedAt: time.Now().UTC(),
	}
}
