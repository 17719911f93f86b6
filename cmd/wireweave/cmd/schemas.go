package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mkarls/wireweave/pkg/codec"
)

var schemasCmd = &cobra.Command{
	Use:   "schemas [name]",
	Short: "List loaded schemas or inspect one",
	Long: `Without arguments, lists the schemas loaded from the schema
directory. With a name, prints the schema's fields and its fixed wire
length when every field is fixed-width.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		registry, c, err := newCodec(cfg)
		if err != nil {
			return err
		}

		if len(args) == 0 {
			for _, name := range registry.Names() {
				fmt.Println(name)
			}
			return nil
		}

		s := registry.Resolve(args[0])
		if s == nil {
			return fmt.Errorf("unknown schema %q", args[0])
		}

		fmt.Printf("%s (%d fields)\n", s.Name, len(s.Fields))
		for _, f := range s.Fields {
			fmt.Printf("  %-24s %s\n", f.Name, f.Type)
		}
		length, err := c.FixedLength(s)
		switch {
		case err == nil:
			fmt.Printf("fixed length: %d bytes\n", length)
		case errors.Is(err, codec.ErrNotFixedWidth):
			fmt.Println("fixed length: variable")
		default:
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(schemasCmd)
}
