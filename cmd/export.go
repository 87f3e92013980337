package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"portfolio-site/pkg/models"
	"portfolio-site/pkg/services"
)

// newExportCmd creates a new command for exporting the site index
func newExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export [format]",
		Short: "Export the site index",
		Long:  `Export the category-ordered site index in the specified format. Supported formats: json, yaml.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig()
			if err != nil {
				return err
			}

			format := "json"
			if len(args) > 0 {
				format = args[0]
			}
			data, err := exportData(services.NewService(cfg).SiteIndex(), format)
			if err != nil {
				return err
			}
			_, err = os.Stdout.Write(data)
			return err
		},
	}
}

// exportData encodes the site index in the specified format
func exportData(index *models.SiteIndex, format string) ([]byte, error) {
	switch format {
	case "json":
		data, err := json.MarshalIndent(index, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("error marshaling data: %w", err)
		}
		return append(data, '\n'), nil
	case "yaml":
		data, err := yaml.Marshal(index)
		if err != nil {
			return nil, fmt.Errorf("error marshaling data: %w", err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("unsupported export format: %s (supported: json, yaml)", format)
	}
}
