package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
	"github.com/spf13/cobra"

	"github.com/hollowoak/cback/pkg/config"
)

func NewSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema for the configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r := &jsonschema.Reflector{
				AllowAdditionalProperties: true,
				ExpandedStruct:            true,
				FieldNameTag:              "yaml",
			}
			schema := r.Reflect(&config.Config{})
			schema.Title = "cback Configuration"
			schema.Description = "Schema for the cback.yml configuration file."
			schema.Required = nil

			data, err := json.MarshalIndent(schema, "", "  ")
			if err != nil {
				return fmt.Errorf("marshal schema: %w", err)
			}
			fmt.Println(string(data))
			return nil
		},
	}
}
