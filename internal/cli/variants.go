package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// variantsCommand lists the configured schema variants.
func (c *CLI) variantsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "variants",
		Short: "List the configured schema variants",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			fmt.Println(variantTable(cfg.Variants))
			printNextStep("Override or add variants with", "nmanet --config nmanet.toml")
			return nil
		},
	}
}
