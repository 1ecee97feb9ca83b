package page

import (
	"context"
	"net/http"
	"testing"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	pagerepo "github.com/Ramsey-B/fern/internal/repositories/page"
	"github.com/Ramsey-B/fern/pkg/actions"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/snapshot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryRepository struct {
	pages map[string]models.PageDefinition
}

func (m *memoryRepository) Upsert(_ context.Context, definition models.PageDefinition) (pagerepo.Record, error) {
	m.pages[definition.PageID] = definition
	return pagerepo.Record{Definition: definition}, nil
}

func (m *memoryRepository) Get(_ context.Context, pageID string) (pagerepo.Record, error) {
	definition, ok := m.pages[pageID]
	if !ok {
		return pagerepo.Record{}, httperror.NewHTTPError(http.StatusNotFound, "page definition not found")
	}
	return pagerepo.Record{Definition: definition}, nil
}

func (m *memoryRepository) List(context.Context) ([]string, error) {
	ids := []string{}
	for id := range m.pages {
		ids = append(ids, id)
	}
	return ids, nil
}

func (m *memoryRepository) Delete(_ context.Context, pageID string) error {
	delete(m.pages, pageID)
	return nil
}

func signupPage() models.PageDefinition {
	return models.PageDefinition{
		PageID: "signup",
		Blocks: []models.BlockDefinition{
			{
				BlockID: "email",
				Type:    "TextInput",
				Meta:    models.BlockMeta{Category: models.BlockCategoryInput, ValueType: models.ValueTypeString},
				Validate: []models.ValidationRule{{
					Pass:    map[string]any{"_regex": map[string]any{"pattern": "@", "key": "email"}},
					Message: "Enter an email",
				}},
			},
			{
				BlockID: "submit",
				Type:    "Button",
				Meta:    models.BlockMeta{Category: models.BlockCategoryDisplay},
				Actions: map[string][]models.ActionStep{
					"onClick": {{ID: "check", Type: "Validate"}},
				},
			},
		},
	}
}

func newService(repo pagerepo.PageRepository) (*Service, *snapshot.MemoryStore) {
	logger := ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
	store := snapshot.NewMemoryStore()
	app := models.AppDefinition{AppID: "app", Pages: []models.PageDefinition{signupPage()}}
	return NewService(logger, repo, app, Engine{}, store), store
}

func statusCode(err error) int {
	return httperror.GetStatusCode(err)
}

func TestContextLifecycle(t *testing.T) {
	ctx := context.Background()
	service, store := newService(nil)

	pageContext, err := service.CreateContext(ctx, "signup", nil, nil)
	require.NoError(t, err)

	stored, err := store.Load(ctx, pageContext.ID())
	require.NoError(t, err)
	assert.Equal(t, "signup", stored.PageID)
	assert.Equal(t, models.ValidationStatusNone, stored.Snapshot["email"].ValidationResult.Status)

	result, err := service.CallAction(ctx, pageContext.ID(), "submit", "onClick", actions.CallOptions{})
	require.NoError(t, err)
	require.Len(t, result.Error, 1)
	assert.Equal(t, "check", result.Error[0].ID)

	current, err := service.Snapshot(ctx, pageContext.ID())
	require.NoError(t, err)
	assert.Equal(t, models.ValidationStatusError, current.Snapshot["email"].ValidationResult.Status)

	current, err = service.SetValue(ctx, pageContext.ID(), "email", "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", current.Snapshot["email"].Value)
	assert.Empty(t, current.Snapshot["email"].ValidationResult.Errors)

	current, err = service.ShowValidationErrors(ctx, pageContext.ID(), false)
	require.NoError(t, err)
	assert.Equal(t, models.ValidationStatusNone, current.Snapshot["email"].ValidationResult.Status)

	require.NoError(t, service.DeleteContext(ctx, pageContext.ID()))
	_, err = service.Snapshot(ctx, pageContext.ID())
	assert.Equal(t, http.StatusNotFound, statusCode(err))
	assert.Equal(t, http.StatusNotFound, statusCode(service.DeleteContext(ctx, pageContext.ID())))
}

func TestSnapshotFallsBackToStore(t *testing.T) {
	ctx := context.Background()
	service, store := newService(nil)

	require.NoError(t, store.Save(ctx, snapshot.Record{ContextID: "old", PageID: "signup"}))

	record, err := service.Snapshot(ctx, "old")
	require.NoError(t, err)
	assert.Equal(t, "signup", record.PageID)
}

func TestErrors(t *testing.T) {
	ctx := context.Background()
	service, _ := newService(nil)

	_, err := service.CreateContext(ctx, "missing", nil, nil)
	assert.Equal(t, http.StatusNotFound, statusCode(err))

	_, err = service.SetValue(ctx, "missing", "email", "x")
	assert.Equal(t, http.StatusNotFound, statusCode(err))

	pageContext, err := service.CreateContext(ctx, "signup", nil, nil)
	require.NoError(t, err)

	_, err = service.SetValue(ctx, pageContext.ID(), "nope", "x")
	assert.Equal(t, http.StatusBadRequest, statusCode(err))

	_, err = service.CallAction(ctx, pageContext.ID(), "nope", "onClick", actions.CallOptions{})
	assert.Equal(t, http.StatusNotFound, statusCode(err))

	_, err = service.SavePage(ctx, models.PageDefinition{PageID: "new"})
	assert.Equal(t, http.StatusNotImplemented, statusCode(err))
}

func TestSavePage(t *testing.T) {
	ctx := context.Background()
	repo := &memoryRepository{pages: map[string]models.PageDefinition{}}
	service, _ := newService(repo)

	_, err := service.SavePage(ctx, signupPage())
	assert.Equal(t, http.StatusConflict, statusCode(err))

	_, err = service.SavePage(ctx, models.PageDefinition{PageID: "empty"})
	assert.Equal(t, http.StatusBadRequest, statusCode(err))

	broken := models.PageDefinition{
		PageID: "broken",
		Blocks: []models.BlockDefinition{{BlockID: "a", Visible: map[string]any{"_nope": true}}},
	}
	_, err = service.SavePage(ctx, broken)
	assert.Equal(t, http.StatusBadRequest, statusCode(err))

	stored := models.PageDefinition{PageID: "stored", Blocks: []models.BlockDefinition{{BlockID: "a", Type: "Box"}}}
	_, err = service.SavePage(ctx, stored)
	require.NoError(t, err)

	definition, err := service.GetPage(ctx, "stored")
	require.NoError(t, err)
	assert.Equal(t, "a", definition.Blocks[0].BlockID)

	pageContext, err := service.CreateContext(ctx, "stored", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "stored", pageContext.PageID())
}
