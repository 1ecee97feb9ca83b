package blocks

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/Ramsey-B/fern/pkg/actions"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/operators"
	"github.com/Ramsey-B/fern/pkg/utils"
	"github.com/Ramsey-B/fern/pkg/validation"
)

// Method is an imperative entry point a block exposes to actions and hosts.
type Method func(ctx context.Context, args any) (any, error)

// Block is one node of a live page. Evaluated fields are guarded by the owning context's lock.
type Block struct {
	page       *Context
	definition models.BlockDefinition
	parent     string

	properties map[string]any
	visible    bool
	required   bool
	validation models.ValidationResult
	err        error
	methods    map[string]Method
	calls      map[string][]models.ActionCallResult
}

func newBlock(page *Context, definition models.BlockDefinition, parent string) *Block {
	block := &Block{
		page:       page,
		definition: definition,
		parent:     parent,
		visible:    true,
		validation: models.NewValidationResult(),
		methods:    map[string]Method{},
		calls:      map[string][]models.ActionCallResult{},
	}

	if definition.IsInput() {
		block.methods["setValue"] = func(ctx context.Context, args any) (any, error) {
			if err := page.SetValue(definition.BlockID, args); err != nil {
				return nil, err
			}
			page.Update()
			return args, nil
		}
		block.methods["clear"] = func(ctx context.Context, args any) (any, error) {
			if err := page.SetValue(definition.BlockID, models.GetDefault(definition.Meta.ValueType)); err != nil {
				return nil, err
			}
			page.Update()
			return nil, nil
		}
	}

	return block
}

// evaluate resolves the block against parser's scope. Callers hold the context lock.
func (b *Block) evaluate(parser *operators.Parser, value any, parentVisible, showValidationErrors bool) error {
	blockID := b.definition.BlockID
	var errs []error

	visible := parentVisible
	if visible && b.definition.Visible != nil {
		resolved, err := parser.Parse(b.definition.Visible, blockID+".visible")
		if err != nil {
			errs = append(errs, err)
		} else {
			visible = utils.IsTruthy(resolved)
		}
	}
	b.visible = visible

	if b.definition.Required != nil {
		resolved, err := parser.Parse(b.definition.Required, blockID+".required")
		if err != nil {
			errs = append(errs, err)
		} else {
			b.required = utils.IsTruthy(resolved)
		}
	}

	resolved, err := parser.Parse(b.definition.Properties, blockID+".properties")
	if err != nil {
		errs = append(errs, err)
	} else if properties, ok := resolved.(map[string]any); ok {
		b.properties = properties
	} else {
		b.properties = map[string]any{}
	}

	if !visible {
		b.validation = models.NewValidationResult()
	} else {
		result, err := validation.Validate(blockID, b.definition.Validate, parser.Parse, showValidationErrors)
		if err != nil {
			errs = append(errs, err)
		}
		b.validation = validation.WithRequired(result, b.required && b.definition.IsInput(), value, showValidationErrors)
	}

	b.err = errors.Join(errs...)
	return b.err
}

func (b *Block) refreshStatus(showValidationErrors bool) {
	b.validation.Status = validation.Status(b.validation, showValidationErrors)
}

func (b *Block) ID() string {
	return b.definition.BlockID
}

func (b *Block) Definition() models.BlockDefinition {
	return b.definition
}

func (b *Block) Value() any {
	return b.page.Value(b.definition.BlockID)
}

// Properties returns a copy of the last successfully resolved properties.
func (b *Block) Properties() map[string]any {
	b.page.mu.RLock()
	defer b.page.mu.RUnlock()
	return utils.DeepCopyMap(b.properties)
}

func (b *Block) Visible() bool {
	b.page.mu.RLock()
	defer b.page.mu.RUnlock()
	return b.visible
}

func (b *Block) Required() bool {
	b.page.mu.RLock()
	defer b.page.mu.RUnlock()
	return b.required
}

func (b *Block) ValidationResult() models.ValidationResult {
	b.page.mu.RLock()
	defer b.page.mu.RUnlock()
	return b.validation.Copy()
}

// Err is the resolution failure of the last update, nil when every expression resolved.
func (b *Block) Err() error {
	b.page.mu.RLock()
	defer b.page.mu.RUnlock()
	return b.err
}

// RegisterMethod adds name to the block's methods. The last registration of a name wins.
func (b *Block) RegisterMethod(name string, method Method) {
	b.page.mu.Lock()
	defer b.page.mu.Unlock()
	b.methods[name] = method
}

func (b *Block) CallMethod(ctx context.Context, name string, args any) (any, error) {
	b.page.mu.RLock()
	method, ok := b.methods[name]
	b.page.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("block %q has no method %q", b.definition.BlockID, name)
	}

	return method(ctx, args)
}

// CallAction runs the block's steps for event. The result is also kept as the latest call of the event.
func (b *Block) CallAction(ctx context.Context, event string, opts actions.CallOptions) models.ActionCallResult {
	result := b.page.orchestrator.Call(ctx, b.page, b.definition.BlockID, event, b.definition.Actions[event], opts)

	b.page.mu.Lock()
	b.calls[event] = append([]models.ActionCallResult{result}, b.calls[event]...)
	b.page.mu.Unlock()

	return result
}

// Calls returns the results of every call of event, latest first.
func (b *Block) Calls(event string) []models.ActionCallResult {
	b.page.mu.RLock()
	defer b.page.mu.RUnlock()
	return append([]models.ActionCallResult{}, b.calls[event]...)
}

func sortedKeys[T any](m map[string]T) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
