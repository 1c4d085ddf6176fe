package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/nmanet/pkg/errors"
	"github.com/matzehuels/nmanet/pkg/models"
)

// modelsCommand creates the models command group.
func (c *CLI) modelsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "models",
		Short: "Dose-response model configurations and fit comparison",
	}
	cmd.AddCommand(c.modelsListCommand())
	cmd.AddCommand(c.modelsCompareCommand())
	return cmd
}

func (c *CLI) modelsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the dose-response model configurations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println(modelTable(models.Registry()))
			return nil
		},
	}
}

func (c *CLI) modelsCompareCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "compare [fits.csv]",
		Short: "Rank fitted models by DIC",
		Long: `Rank fitted models by DIC.

The input is a CSV with columns model, dic, pd and resdev, one row per model
fitted by the external engine. Models are ranked by DIC; those within 5 of the
best are marked as equally supported.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runModelsCompare(args[0])
		},
	}
}

func (c *CLI) runModelsCompare(path string) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.Wrap(errors.ErrCodeFileNotFound, err, "fits file %s", path)
		}
		return err
	}
	defer f.Close()

	fits, err := models.ReadFits(f)
	if err != nil {
		return err
	}
	cs := models.Compare(fits)
	c.Logger.Debug("compared fits", "models", len(cs))

	fmt.Println(comparisonTable(cs))
	best := cs[0]
	printSuccess("Lowest DIC: %s (%.2f)", best.Model, best.DIC)
	if missing := models.Missing(fits); len(missing) > 0 {
		printWarning("No fit for: %s", strings.Join(missing, ", "))
	}
	return nil
}
