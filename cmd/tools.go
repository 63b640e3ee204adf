package cmd

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/decocms/mcps/internal/cmd"
	"github.com/decocms/mcps/internal/config"
	"github.com/decocms/mcps/internal/daemon"
	"github.com/decocms/mcps/internal/errors"
	"github.com/decocms/mcps/internal/flags"
	"github.com/decocms/mcps/internal/reqschema"
)

// ToolsCmd should be used to represent the 'tools' command.
type ToolsCmd struct {
	*cmd.BaseCmd
	Platform  string
	Format    string
	cfgLoader config.Loader
}

// toolExport is the per-tool entry in the 'tools' command output.
type toolExport struct {
	Name        string         `json:"name"        yaml:"name"`
	Description string         `json:"description" yaml:"description"`
	Required    []string       `json:"required"    yaml:"required"`
	InputSchema map[string]any `json:"inputSchema" yaml:"inputSchema"`
}

// platformExport groups the exported tools of one platform.
type platformExport struct {
	Platform string       `json:"platform" yaml:"platform"`
	Tools    []toolExport `json:"tools"    yaml:"tools"`
}

// NewToolsCmd creates a newly configured (Cobra) command.
func NewToolsCmd(baseCmd *cmd.BaseCmd) (*cobra.Command, error) {
	c := &ToolsCmd{
		BaseCmd:   baseCmd,
		cfgLoader: &config.DefaultLoader{},
	}

	cobraCommand := &cobra.Command{
		Use:   "tools [--platform name] [--format yaml|json]",
		Short: "Lists the flat tool schemas for the configured platforms",
		Long: "Lists the flat tool schemas the daemon would expose for each configured " +
			"platform, without starting any servers",
		RunE: c.run,
	}

	cobraCommand.Flags().StringVar(
		&c.Platform,
		"platform",
		"",
		"Restrict output to a single platform",
	)

	cobraCommand.Flags().StringVar(
		&c.Format,
		"format",
		"yaml",
		"Output format (yaml or json)",
	)

	return cobraCommand, nil
}

// run is configured (via NewToolsCmd) to be called by the Cobra framework when the command is executed.
func (c *ToolsCmd) run(cobraCmd *cobra.Command, _ []string) error {
	format := strings.ToLower(strings.TrimSpace(c.Format))
	if format != "yaml" && format != "json" {
		return fmt.Errorf("unsupported format '%s', expected 'yaml' or 'json'", c.Format)
	}

	cfg, err := c.cfgLoader.Load(flags.ConfigFile)
	if err != nil {
		return fmt.Errorf("failed to load config from '%s': %w", flags.ConfigFile, err)
	}

	exports, err := exportCatalogs(c.Logger(), cfg, c.Platform)
	if err != nil {
		return err
	}

	var out []byte
	switch format {
	case "json":
		out, err = json.MarshalIndent(exports, "", "  ")
	default:
		out, err = yaml.Marshal(exports)
	}
	if err != nil {
		return fmt.Errorf("failed to render tools: %w", err)
	}

	cobraCmd.Println(string(out))
	return nil
}

// exportCatalogs builds the selected platform catalogs and flattens each
// operation's shape into its advertised schema.
func exportCatalogs(logger hclog.Logger, cfg *config.Config, only string) ([]platformExport, error) {
	builders := daemon.Catalogs()

	names := cfg.PlatformNames()
	if only != "" {
		if _, ok := cfg.Platforms[only]; !ok {
			return nil, fmt.Errorf("%w: %s", errors.ErrPlatformNotFound, only)
		}
		names = []string{only}
	}

	exports := make([]platformExport, 0, len(names))
	for _, name := range names {
		build, ok := builders[name]
		if !ok {
			return nil, fmt.Errorf("unknown platform '%s' in config", name)
		}

		ops, err := build(logger, cfg.Platforms[name])
		if err != nil {
			return nil, fmt.Errorf("failed to build catalog for platform '%s': %w", name, err)
		}

		tools := make([]toolExport, 0, len(ops))
		for _, op := range ops {
			flat := reqschema.Flatten(op.Shape)
			tools = append(tools, toolExport{
				Name:        op.ID,
				Description: op.Description,
				Required:    flat.Required(),
				InputSchema: flat.JSONSchema(),
			})
		}

		sort.Slice(tools, func(i, j int) bool { return tools[i].Name < tools[j].Name })
		exports = append(exports, platformExport{Platform: name, Tools: tools})
	}

	return exports, nil
}
