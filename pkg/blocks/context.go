package blocks

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/fern/pkg/actions"
	fernerr "github.com/Ramsey-B/fern/pkg/errors"
	"github.com/Ramsey-B/fern/pkg/events"
	"github.com/Ramsey-B/fern/pkg/metrics"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/operators"
	"github.com/Ramsey-B/fern/pkg/operators/builtin"
	"github.com/Ramsey-B/fern/pkg/tracing"
	"github.com/Ramsey-B/fern/pkg/utils"
	"github.com/google/uuid"
)

// RequestRunner resolves one page request against the connection it names.
type RequestRunner interface {
	Run(ctx context.Context, request models.RequestDefinition, scope operators.Scope) (any, error)
}

type ContextConfig struct {
	// ContextID is generated when empty
	ContextID    string
	Page         models.PageDefinition
	Registry     *operators.Registry
	Actions      *actions.Registry
	Requests     RequestRunner
	Global       *Global
	Input        map[string]any
	InitialState map[string]any
	Logger       ectologger.Logger
	Publisher    events.Publisher
}

// Context is a live page: the block tree, its state and the results of the last update.
type Context struct {
	id           string
	page         models.PageDefinition
	operators    *operators.Registry
	orchestrator *actions.Orchestrator
	requests     RequestRunner
	global       *Global
	input        map[string]any
	initialState map[string]any
	logger       ectologger.Logger

	// mu guards everything below and every block's evaluated fields. It is never held while an action
	// step or a request runs.
	mu                   sync.RWMutex
	state                map[string]any
	responses            map[string]any
	showValidationErrors bool
	dirty                bool
	blocks               map[string]*Block
	order                []string
}

// NewContext checks the page, seeds state and runs the first update. Unknown operators, unknown action
// types and duplicate block ids fail here rather than during evaluation.
func NewContext(ctx context.Context, config ContextConfig) (*Context, error) {
	ctx, span := tracing.StartSpan(ctx, "blocks.NewContext")
	defer span.End()

	if config.Registry == nil {
		config.Registry = builtin.NewRegistry()
	}
	if config.Actions == nil {
		config.Actions = actions.DefaultRegistry(nil)
	}
	if config.Global == nil {
		config.Global = NewGlobal(nil)
	}
	if config.Logger == nil {
		config.Logger = ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
	}
	if config.ContextID == "" {
		config.ContextID = uuid.New().String()
	}

	c := &Context{
		id:           config.ContextID,
		page:         config.Page,
		operators:    config.Registry,
		orchestrator: actions.NewOrchestrator(config.Registry, config.Actions, config.Publisher, config.Logger),
		requests:     config.Requests,
		global:       config.Global,
		input:        utils.DeepCopyMap(config.Input),
		logger:       config.Logger,
		responses:    map[string]any{},
		blocks:       map[string]*Block{},
	}

	if err := c.build(config.Actions); err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}

	c.state = utils.DeepCopyMap(config.Page.State)
	for key, value := range config.InitialState {
		utils.AssignMapValue(c.state, key, utils.DeepCopy(value))
	}
	for _, blockID := range c.order {
		block := c.blocks[blockID]
		if !block.definition.IsInput() {
			continue
		}
		if value, ok := utils.GetPath(c.state, blockID); ok && value != nil {
			continue
		}
		utils.AssignMapValue(c.state, blockID, models.GetDefault(block.definition.Meta.ValueType))
	}
	c.initialState = utils.DeepCopyMap(c.state)

	c.Update()

	c.logger.WithContext(ctx).WithFields(map[string]any{
		"context_id": c.id,
		"page_id":    c.page.PageID,
		"blocks":     len(c.order),
	}).Debug("Page context created")

	return c, nil
}

// Check runs the load-time checks of NewContext without seeding state or evaluating anything.
func Check(page models.PageDefinition, registry *operators.Registry, actionRegistry *actions.Registry) error {
	if registry == nil {
		registry = builtin.NewRegistry()
	}
	if actionRegistry == nil {
		actionRegistry = actions.DefaultRegistry(nil)
	}

	c := &Context{page: page, operators: registry, blocks: map[string]*Block{}}
	return c.build(actionRegistry)
}

// build flattens the block tree and checks every expression and action type.
func (c *Context) build(actionRegistry *actions.Registry) error {
	checker := operators.NewParser(c.operators, operators.Scope{})
	var errs []error

	var visit func(definition models.BlockDefinition, parent string)
	visit = func(definition models.BlockDefinition, parent string) {
		blockID := definition.BlockID
		switch {
		case blockID == "":
			errs = append(errs, fernerr.NewConfigurationError("blockId is required").AddPath(joinPath(parent, "blocks")))
			return
		case c.blocks[blockID] != nil:
			errs = append(errs, fernerr.NewConfigurationErrorf("duplicate blockId %q", blockID).AddPath(blockID))
			return
		}

		block := newBlock(c, definition, parent)
		c.blocks[blockID] = block
		c.order = append(c.order, blockID)

		errs = append(errs, checkBlock(checker, actionRegistry, definition)...)

		for _, name := range sortedKeys(definition.Areas) {
			for _, child := range definition.Areas[name].Blocks {
				visit(child, blockID)
			}
		}
	}

	for _, definition := range c.page.Blocks {
		visit(definition, "")
	}

	for _, request := range c.page.Requests {
		if err := checker.Check(request.Payload, fmt.Sprintf("requests.%s.payload", request.RequestID)); err != nil {
			errs = append(errs, err)
		}
	}

	// the first problem is the one worth reporting, the rest usually follow from it
	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}

func checkBlock(checker *operators.Parser, actionRegistry *actions.Registry, definition models.BlockDefinition) []error {
	blockID := definition.BlockID
	var errs []error

	check := func(node any, location string) {
		if err := checker.Check(node, location); err != nil {
			errs = append(errs, err)
		}
	}

	check(definition.Properties, blockID+".properties")
	check(definition.Visible, blockID+".visible")
	check(definition.Required, blockID+".required")
	for i, rule := range definition.Validate {
		check(rule.Pass, fmt.Sprintf("%s.validate[%d].pass", blockID, i))
		check(rule.Message, fmt.Sprintf("%s.validate[%d].message", blockID, i))
	}

	for _, event := range sortedKeys(definition.Actions) {
		for i, step := range definition.Actions[event] {
			location := fmt.Sprintf("%s.actions.%s[%d]", blockID, event, i)
			check(step.Skip, location+".skip")
			check(step.Params, location+".params")
			check(step.Error, location+".error")
			check(step.Success, location+".success")

			if _, ok := actionRegistry.Get(step.Type); !ok {
				errs = append(errs, fernerr.NewActionNotFoundError(step.Type).AddActionID(step.ID).AddBlock(blockID))
			}
		}
	}

	return errs
}

func (c *Context) ID() string {
	return c.id
}

func (c *Context) PageID() string {
	return c.page.PageID
}

func (c *Context) Page() models.PageDefinition {
	return c.page
}

// Block returns the block with blockID.
func (c *Context) Block(blockID string) (*Block, bool) {
	block, ok := c.blocks[blockID]
	return block, ok
}

// BlockIDs returns every block id in tree order.
func (c *Context) BlockIDs() []string {
	return append([]string{}, c.order...)
}

// SetValue is the only way a block value changes. It does not re-evaluate, call Update for that.
func (c *Context) SetValue(blockID string, value any) error {
	if _, ok := c.blocks[blockID]; !ok {
		return fmt.Errorf("block %q not found", blockID)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	utils.AssignMapValue(c.state, blockID, utils.DeepCopy(value))
	c.dirty = true

	return nil
}

// Value returns a copy of blockID's current value.
func (c *Context) Value(blockID string) any {
	c.mu.RLock()
	defer c.mu.RUnlock()

	value, _ := utils.GetPath(c.state, blockID)
	return utils.DeepCopy(value)
}

// Dirty reports whether a value changed since the last update.
func (c *Context) Dirty() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.dirty
}

// Update re-resolves every block against the current state. A block whose expressions fail keeps its
// last good properties and reports the failure through Err; the other blocks still resolve.
func (c *Context) Update() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.update()
}

func (c *Context) update() {
	parser := operators.NewParser(c.operators, c.scope(""))
	failed := 0

	for _, blockID := range c.order {
		block := c.blocks[blockID]
		value, _ := utils.GetPath(c.state, blockID)

		parentVisible := true
		if parent, ok := c.blocks[block.parent]; ok {
			parentVisible = parent.visible
		}

		if err := block.evaluate(parser.WithScope(parser.Scope().WithBlock(blockID, value)), value, parentVisible, c.showValidationErrors); err != nil {
			failed++
			c.logger.WithError(err).WithFields(map[string]any{
				"context_id": c.id,
				"block_id":   blockID,
			}).Debug("Block failed to resolve")
		}
	}

	c.dirty = false
	metrics.RecordUpdate(c.page.PageID, failed)
}

// ShowValidationErrors toggles validation display for the whole context. Only statuses change.
func (c *Context) ShowValidationErrors(show bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.showValidationErrors = show
	for _, block := range c.blocks {
		block.refreshStatus(show)
	}
}

func (c *Context) ShowingValidationErrors() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.showValidationErrors
}

// ValidateBlocks raises validation display, updates and counts the errors of blockIDs. No ids means every
// input block.
func (c *Context) ValidateBlocks(blockIDs []string) (int, error) {
	for _, blockID := range blockIDs {
		if _, ok := c.blocks[blockID]; !ok {
			return 0, fmt.Errorf("Validate: block %q not found", blockID)
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.showValidationErrors = true
	c.update()

	if len(blockIDs) == 0 {
		for _, blockID := range c.order {
			if c.blocks[blockID].definition.IsInput() {
				blockIDs = append(blockIDs, blockID)
			}
		}
	}

	count := 0
	for _, blockID := range blockIDs {
		count += len(c.blocks[blockID].validation.Errors)
	}

	return count, nil
}

// SetState writes each path of values into state and updates. Paths index into lists the way `_state` reads them.
func (c *Context) SetState(values map[string]any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key, value := range values {
		utils.AssignMapValue(c.state, key, utils.DeepCopy(value))
	}
	c.update()

	return nil
}

// SetGlobal writes into the app global state and updates this context. Other contexts see the change on
// their next update.
func (c *Context) SetGlobal(values map[string]any) error {
	c.global.Set(values)
	c.Update()
	return nil
}

// Reset restores the state the context started with and hides validation errors.
func (c *Context) Reset() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state = utils.DeepCopyMap(c.initialState)
	c.showValidationErrors = false
	c.update()

	return nil
}

// RegisterMethod adds a callable method to a block. Registering a name again replaces it.
func (c *Context) RegisterMethod(blockID, name string, method Method) error {
	block, ok := c.blocks[blockID]
	if !ok {
		return fmt.Errorf("block %q not found", blockID)
	}
	block.RegisterMethod(name, method)
	return nil
}

func (c *Context) CallMethod(ctx context.Context, blockID, name string, args any) (any, error) {
	block, ok := c.blocks[blockID]
	if !ok {
		return nil, fmt.Errorf("block %q not found", blockID)
	}
	return block.CallMethod(ctx, name, args)
}

// CallAction runs the actions blockID has for event.
func (c *Context) CallAction(ctx context.Context, blockID, event string, opts actions.CallOptions) (models.ActionCallResult, error) {
	block, ok := c.blocks[blockID]
	if !ok {
		return models.ActionCallResult{}, fmt.Errorf("block %q not found", blockID)
	}
	return block.CallAction(ctx, event, opts), nil
}

// Request runs page requests in order and stores their responses for `_request`.
func (c *Context) Request(ctx context.Context, requestIDs []string) (map[string]any, error) {
	if c.requests == nil {
		return nil, errors.New("no request runner configured")
	}

	responses := make(map[string]any, len(requestIDs))
	for _, requestID := range requestIDs {
		request, ok := c.request(requestID)
		if !ok {
			return responses, fmt.Errorf("request %q not found on page %q", requestID, c.page.PageID)
		}

		response, err := c.requests.Run(ctx, request, c.Scope(""))
		if err != nil {
			return responses, err
		}
		responses[requestID] = response

		c.mu.Lock()
		c.responses[requestID] = utils.DeepCopy(response)
		c.update()
		c.mu.Unlock()
	}

	return responses, nil
}

func (c *Context) request(requestID string) (models.RequestDefinition, bool) {
	for _, request := range c.page.Requests {
		if request.RequestID == requestID {
			return request, true
		}
	}
	return models.RequestDefinition{}, false
}

// Scope returns a copy of the operator bindings for blockID.
func (c *Context) Scope(blockID string) operators.Scope {
	c.mu.RLock()
	defer c.mu.RUnlock()

	scope := c.scope(blockID)
	scope.State = utils.DeepCopyMap(scope.State)
	scope.Requests = utils.DeepCopyMap(scope.Requests)
	scope.Value = utils.DeepCopy(scope.Value)

	return scope
}

// scope shares the context maps, callers must hold mu.
func (c *Context) scope(blockID string) operators.Scope {
	value, _ := utils.GetPath(c.state, blockID)

	return operators.Scope{
		State:    c.state,
		Global:   c.global.Values(),
		Input:    c.input,
		Requests: c.responses,
	}.WithBlock(blockID, value)
}

// State returns a copy of the page state.
func (c *Context) State() map[string]any {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return utils.DeepCopyMap(c.state)
}

func (c *Context) Global() map[string]any {
	return c.global.Values()
}

// Snapshot returns value, properties and validation result of every block.
func (c *Context) Snapshot() models.Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	snapshot := make(models.Snapshot, len(c.blocks))
	for blockID, block := range c.blocks {
		value, _ := utils.GetPath(c.state, blockID)
		snapshot[blockID] = models.BlockSnapshot{
			Value:            utils.DeepCopy(value),
			Properties:       utils.DeepCopyMap(block.properties),
			ValidationResult: block.validation.Copy(),
		}
	}

	return snapshot
}

func joinPath(parent, key string) string {
	if parent == "" {
		return key
	}
	return parent + "." + key
}
