// Package synonyms implements the synonyms command
package synonyms

import (
	"fmt"
	"io"
	"strings"

	"fjacquet/revenue-dash/cmd/root"
	"fjacquet/revenue-dash/internal/container"
	"fjacquet/revenue-dash/internal/logging"
	"fjacquet/revenue-dash/internal/models"

	"github.com/spf13/cobra"
)

// Cmd represents the synonyms command
var Cmd = &cobra.Command{
	Use:   "synonyms",
	Short: "List or extend the accepted column names",
	Long: `Each canonical field (period, revenue, prior_year_revenue, yoy_percent) is matched
against a list of accepted column names. The built-in names can be extended through
the synonyms file (synonyms.file in the configuration).`,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the accepted column names per field",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return List(root.GetContainer(), cmd.OutOrStdout())
	},
}

var addCmd = &cobra.Command{
	Use:   "add <field> <name>",
	Short: "Accept an extra column name for a field",
	Example: `  revenue-dash synonyms add revenue sales
  revenue-dash synonyms add period 기간`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return Add(root.GetContainer(), args[0], args[1], cmd.OutOrStdout())
	},
}

func init() {
	Cmd.AddCommand(listCmd)
	Cmd.AddCommand(addCmd)
}

// List prints the merged synonym table in matching order.
func List(c *container.Container, stdout io.Writer) error {
	if c == nil {
		return fmt.Errorf("container not initialized")
	}
	for _, entry := range c.GetSynonyms() {
		if _, err := fmt.Fprintf(stdout, "%-20s %s\n", entry.Field, strings.Join(entry.Names, ", ")); err != nil {
			return err
		}
	}
	return nil
}

// Add stores name as an extra synonym of the given field.
func Add(c *container.Container, fieldName, name string, stdout io.Writer) error {
	if c == nil {
		return fmt.Errorf("container not initialized")
	}
	field, err := models.ParseField(fieldName)
	if err != nil {
		return err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("synonym name cannot be empty")
	}
	if owner, ok := c.GetSynonyms().FieldOf(name); ok {
		if owner != field {
			return fmt.Errorf("%q is already accepted for %s; a column name can only resolve one field", name, owner)
		}
		_, err := fmt.Fprintf(stdout, "%q is already accepted for %s\n", name, field)
		return err
	}

	added, err := c.GetStore().Add(field, name)
	if err != nil {
		return fmt.Errorf("failed to save synonym: %w", err)
	}
	if !added {
		_, err := fmt.Fprintf(stdout, "%q is already stored for %s\n", name, field)
		return err
	}

	c.GetLogger().Info("Synonym added",
		logging.F(logging.FieldField, string(field)),
		logging.F(logging.FieldValue, name))
	_, err = fmt.Fprintf(stdout, "added %q to %s\n", name, field)
	return err
}
