package routes

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Gobusters/ectologger"
	pageservice "github.com/Ramsey-B/fern/internal/services/page"
	"github.com/Ramsey-B/fern/pkg/middleware"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/snapshot"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer() *echo.Echo {
	logger := ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
	app := models.AppDefinition{
		AppID: "app",
		Pages: []models.PageDefinition{{
			PageID: "greeting",
			Blocks: []models.BlockDefinition{
				{
					BlockID: "name",
					Type:    "TextInput",
					Meta:    models.BlockMeta{Category: models.BlockCategoryInput, ValueType: models.ValueTypeString},
				},
				{
					BlockID:    "title",
					Type:       "Title",
					Properties: map[string]any{"content": map[string]any{"_state": "name"}},
				},
				{
					BlockID: "save",
					Type:    "Button",
					Actions: map[string][]models.ActionStep{
						"onClick": {{ID: "store", Type: "SetState", Params: map[string]any{"saved": map[string]any{"_args": "who"}}}},
					},
				},
			},
		}},
	}

	service := pageservice.NewService(logger, nil, app, pageservice.Engine{}, snapshot.NewMemoryStore())

	e := echo.New()
	e.HTTPErrorHandler = middleware.Error(logger)
	e.Use(middleware.Context())
	Register(e, service)
	return e
}

func do(t *testing.T, e *echo.Echo, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var decoded map[string]any
	if rec.Body.Len() > 0 && strings.HasPrefix(strings.TrimSpace(rec.Body.String()), "{") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	}
	return rec, decoded
}

func TestContextRoutes(t *testing.T) {
	e := newServer()

	rec, body := do(t, e, http.MethodPost, "/pages/greeting/contexts", `{"state":{"name":"Ada"}}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	contextID := body["contextId"].(string)
	assert.NotEmpty(t, contextID)

	snap := body["snapshot"].(map[string]any)
	title := snap["title"].(map[string]any)
	assert.Equal(t, map[string]any{"content": "Ada"}, title["properties"])

	rec, body = do(t, e, http.MethodPut, "/contexts/"+contextID+"/blocks/name/value", `{"value":"Grace"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	title = body["snapshot"].(map[string]any)["title"].(map[string]any)
	assert.Equal(t, map[string]any{"content": "Grace"}, title["properties"])

	rec, body = do(t, e, http.MethodPost, "/contexts/"+contextID+"/blocks/save/events/onClick", `{"args":{"who":"me"}}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Empty(t, body["error"])

	rec, body = do(t, e, http.MethodGet, "/contexts/"+contextID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "me", body["state"].(map[string]any)["saved"])

	rec, _ = do(t, e, http.MethodPut, "/contexts/"+contextID+"/validation", `{"show":true}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = do(t, e, http.MethodDelete, "/contexts/"+contextID, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec, body = do(t, e, http.MethodGet, "/contexts/"+contextID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, body["message"], "context not found")
	assert.NotEmpty(t, body["request_id"])
}

func TestPageRoutes(t *testing.T) {
	e := newServer()

	rec, body := do(t, e, http.MethodGet, "/pages/greeting", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "greeting", body["pageId"])

	rec, _ = do(t, e, http.MethodGet, "/pages/missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = do(t, e, http.MethodPut, "/pages/other", `{"blocks":[{"blockId":"a"}]}`)
	assert.Equal(t, http.StatusNotImplemented, rec.Code)
}

func TestRegistryRoutes(t *testing.T) {
	e := newServer()

	rec, _ := do(t, e, http.MethodGet, "/actions", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var types []string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &types))
	assert.Contains(t, types, "Validate")
	assert.Contains(t, types, "SetState")

	rec, _ = do(t, e, http.MethodGet, "/operators", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var definitions []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &definitions))
	assert.NotEmpty(t, definitions)
	assert.Equal(t, "_actions", definitions[0]["name"])
}
