package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mkarls/wireweave/pkg/codec"
)

var lengthCmd = &cobra.Command{
	Use:   "length <schema>",
	Short: "Print a schema's fixed wire length",
	Long: `Prints the total wire length of a schema whose fields are all
fixed-width. Schemas with string, array, or reference fields are variable.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		registry, c, err := newCodec(cfg)
		if err != nil {
			return err
		}

		s := registry.Resolve(args[0])
		if s == nil {
			return fmt.Errorf("unknown schema %q", args[0])
		}

		length, err := c.FixedLength(s)
		if errors.Is(err, codec.ErrNotFixedWidth) {
			fmt.Println("variable")
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Println(length)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(lengthCmd)
}
