package main

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/Ramsey-B/fern/config"
	"github.com/Ramsey-B/fern/pkg/actions"
	"github.com/Ramsey-B/fern/pkg/events"
	"github.com/Ramsey-B/fern/pkg/loader"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type runOptions struct {
	pageID         string
	values         []string
	state          []string
	input          []string
	blockID        string
	event          string
	args           []string
	showValidation bool
}

// runOutput is what the run command prints.
type runOutput struct {
	ContextID string                   `yaml:"contextId"`
	Result    *models.ActionCallResult `yaml:"result,omitempty"`
	State     map[string]any           `yaml:"state"`
	Snapshot  models.Snapshot          `yaml:"snapshot"`
	Events    []events.ActionEvent     `yaml:"events,omitempty"`
}

func newRunCmd(flags *rootFlags) *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Evaluate a page once and print its snapshot as YAML",
		Long: `Run builds a context for one page of the app, applies --set values, optionally
fires --event on --block and prints the resulting state and snapshot.

Values are parsed as YAML scalars, so --set age=30 sets a number and --set name=ada a string.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			return runPage(cmd, cfg, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.pageID, "page", "p", "", "Page to evaluate (defaults to the first page)")
	cmd.Flags().StringArrayVar(&opts.values, "set", nil, "Block value as blockId=value, repeatable")
	cmd.Flags().StringArrayVar(&opts.state, "state", nil, "Initial state as key=value, repeatable")
	cmd.Flags().StringArrayVar(&opts.input, "input", nil, "Page input as key=value, repeatable")
	cmd.Flags().StringVar(&opts.blockID, "block", "", "Block whose event is fired")
	cmd.Flags().StringVar(&opts.event, "event", "", "Event to fire on --block")
	cmd.Flags().StringArrayVar(&opts.args, "arg", nil, "Event argument as key=value, repeatable")
	cmd.Flags().BoolVar(&opts.showValidation, "show-validation", false, "Report validation errors as errors")

	return cmd
}

func runPage(cmd *cobra.Command, cfg config.Config, opts *runOptions) error {
	if (opts.blockID == "") != (opts.event == "") {
		return fmt.Errorf("--block and --event must be used together")
	}

	cfg.PrettyLogs = true
	logger, flush, err := newLogger(cfg)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer flush()

	app, err := loadApp(cfg.AppFile)
	if err != nil {
		return err
	}

	page, err := selectPage(app, opts.pageID)
	if err != nil {
		return err
	}

	values, err := parseAssignments(opts.values)
	if err != nil {
		return fmt.Errorf("--set: %w", err)
	}
	state, err := parseAssignments(opts.state)
	if err != nil {
		return fmt.Errorf("--state: %w", err)
	}
	input, err := parseAssignments(opts.input)
	if err != nil {
		return fmt.Errorf("--input: %w", err)
	}
	eventArgs, err := parseAssignments(opts.args)
	if err != nil {
		return fmt.Errorf("--arg: %w", err)
	}

	published := &events.MemoryPublisher{}
	service, pool, err := newService(cfg, logger, app, &backends{publisher: published})
	if err != nil {
		return err
	}
	defer func() { _ = pool.Close() }()

	ctx := cmd.Context()
	pageContext, err := service.CreateContext(ctx, page.PageID, input, state)
	if err != nil {
		return err
	}

	for _, blockID := range sortedKeys(values) {
		if _, err := service.SetValue(ctx, pageContext.ID(), blockID, values[blockID]); err != nil {
			return err
		}
	}
	if opts.showValidation {
		if _, err := service.ShowValidationErrors(ctx, pageContext.ID(), true); err != nil {
			return err
		}
	}

	output := runOutput{ContextID: pageContext.ID()}
	if opts.event != "" {
		result, err := service.CallAction(ctx, pageContext.ID(), opts.blockID, opts.event, actions.CallOptions{Args: eventArgs})
		if err != nil {
			return err
		}
		output.Result = &result
	}

	output.State = pageContext.State()
	output.Snapshot = pageContext.Snapshot()
	output.Events = published.Events()

	return printYAML(cmd, output)
}

func loadApp(path string) (models.AppDefinition, error) {
	if path == "" {
		return models.AppDefinition{}, fmt.Errorf("no app document given, set --app or APP_FILE")
	}
	return loader.LoadFile(path)
}

func selectPage(app models.AppDefinition, pageID string) (models.PageDefinition, error) {
	if pageID == "" {
		if len(app.Pages) == 0 {
			return models.PageDefinition{}, fmt.Errorf("app %q has no pages", app.AppID)
		}
		return app.Pages[0], nil
	}

	page, ok := app.GetPage(pageID)
	if !ok {
		return models.PageDefinition{}, fmt.Errorf("app %q has no page %q", app.AppID, pageID)
	}
	return page, nil
}

// parseAssignments turns key=value pairs into a map. Values are decoded as YAML and then
// normalized the way app documents are, so numbers come out as float64.
func parseAssignments(pairs []string) (map[string]any, error) {
	values := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, raw, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("expected key=value, got %q", pair)
		}

		var value any
		if err := yaml.Unmarshal([]byte(raw), &value); err != nil {
			value = raw
		}
		normalized, err := normalize(value)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		values[key] = normalized
	}
	return values, nil
}

func normalize(value any) (any, error) {
	encoded, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	var normalized any
	if err := json.Unmarshal(encoded, &normalized); err != nil {
		return nil, err
	}
	return normalized, nil
}

func sortedKeys(values map[string]any) []string {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func printYAML(cmd *cobra.Command, value any) error {
	encoder := yaml.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent(2)
	if err := encoder.Encode(value); err != nil {
		return err
	}
	return encoder.Close()
}
