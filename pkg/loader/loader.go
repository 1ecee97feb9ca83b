package loader

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/Ramsey-B/fern/pkg/actions"
	"github.com/Ramsey-B/fern/pkg/blocks"
	fernerr "github.com/Ramsey-B/fern/pkg/errors"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/operators"
	"github.com/Ramsey-B/fern/pkg/utils"
	"gopkg.in/yaml.v3"
)

// LoadFile reads an app document from a YAML or JSON file.
func LoadFile(path string) (models.AppDefinition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.AppDefinition{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return Load(data, path)
}

// Load decodes an app document. Numbers come out as float64 the same way documents sent over HTTP do.
func Load(data []byte, source string) (models.AppDefinition, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return models.AppDefinition{}, fernerr.NewConfigurationError(err.Error()).AddPath(source)
	}

	encoded, err := json.Marshal(raw)
	if err != nil {
		return models.AppDefinition{}, fernerr.NewConfigurationErrorf("unsupported document structure: %v", err).AddPath(source)
	}

	var app models.AppDefinition
	if err := json.Unmarshal(encoded, &app); err != nil {
		return models.AppDefinition{}, fernerr.NewConfigurationError(err.Error()).AddPath(source)
	}

	if _, err := utils.Validate(app); err != nil {
		return models.AppDefinition{}, fernerr.NewConfigurationError(err.Error()).AddPath(source)
	}

	return app, nil
}

// Check runs the load-time checks of every page and the cross references between pages and connections.
func Check(app models.AppDefinition, registry *operators.Registry, actionRegistry *actions.Registry) error {
	connections := map[string]bool{}
	for i, connection := range app.Connections {
		if connections[connection.ConnectionID] {
			return fernerr.NewConfigurationErrorf("duplicate connectionId %q", connection.ConnectionID).AddPath(fmt.Sprintf("connections[%d]", i))
		}
		connections[connection.ConnectionID] = true
	}

	pages := map[string]bool{}
	for i, page := range app.Pages {
		if pages[page.PageID] {
			return fernerr.NewConfigurationErrorf("duplicate pageId %q", page.PageID).AddPath(fmt.Sprintf("pages[%d]", i))
		}
		pages[page.PageID] = true

		for _, request := range page.Requests {
			if !connections[request.ConnectionID] {
				return fernerr.NewConfigurationErrorf("connection %q is not defined", request.ConnectionID).
					AddPath(fmt.Sprintf("pages.%s.requests.%s.connectionId", page.PageID, request.RequestID))
			}
		}

		if err := blocks.Check(page, registry, actionRegistry); err != nil {
			return fmt.Errorf("page %s: %w", page.PageID, err)
		}
	}

	return nil
}
