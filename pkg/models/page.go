package models

import "sort"

type PageDefinition struct {
	PageID   string              `json:"pageId" yaml:"pageId" validate:"required"`
	Blocks   []BlockDefinition   `json:"blocks" yaml:"blocks" validate:"required,min=1,dive"`
	Requests []RequestDefinition `json:"requests,omitempty" yaml:"requests" validate:"dive"`
	State    map[string]any      `json:"state,omitempty" yaml:"state"`
}

// Walk visits every block of the page depth first.
func (p PageDefinition) Walk(visit func(block BlockDefinition)) {
	for _, block := range p.Blocks {
		block.Walk(visit)
	}
}

type RequestDefinition struct {
	RequestID    string `json:"requestId" yaml:"requestId" validate:"required"`
	ConnectionID string `json:"connectionId" yaml:"connectionId" validate:"required"`
	Type         string `json:"type" yaml:"type" validate:"required"`
	Payload      any    `json:"payload,omitempty" yaml:"payload"`
}

type ConnectionDefinition struct {
	ConnectionID string         `json:"connectionId" yaml:"connectionId" validate:"required"`
	Type         string         `json:"type" yaml:"type" validate:"required,oneof=Postgres Redis Kafka"`
	Properties   map[string]any `json:"properties,omitempty" yaml:"properties"`
	Read         *bool          `json:"read,omitempty" yaml:"read"`
	Write        bool           `json:"write,omitempty" yaml:"write"`
}

// CanRead reports whether read resolvers may use the connection. Reads are allowed unless disabled.
func (c ConnectionDefinition) CanRead() bool {
	return c.Read == nil || *c.Read
}

// AppDefinition is the root document loaded from configuration files.
type AppDefinition struct {
	AppID       string                 `json:"appId" yaml:"appId" validate:"required"`
	Global      map[string]any         `json:"global,omitempty" yaml:"global"`
	Connections []ConnectionDefinition `json:"connections,omitempty" yaml:"connections" validate:"dive"`
	Pages       []PageDefinition       `json:"pages" yaml:"pages" validate:"dive"`
}

func (a AppDefinition) GetPage(pageID string) (PageDefinition, bool) {
	for _, page := range a.Pages {
		if page.PageID == pageID {
			return page, true
		}
	}
	return PageDefinition{}, false
}

// BlockSnapshot is the externally visible state of one block.
type BlockSnapshot struct {
	Value            any              `json:"value" yaml:"value"`
	Properties       any              `json:"properties" yaml:"properties"`
	ValidationResult ValidationResult `json:"validationResult" yaml:"validationResult"`
}

type Snapshot map[string]BlockSnapshot

func sortedKeys[T any](m map[string]T) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
