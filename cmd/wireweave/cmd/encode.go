package cmd

import (
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mkarls/wireweave/pkg/api"
	"github.com/mkarls/wireweave/pkg/codec"
	"github.com/mkarls/wireweave/pkg/config"
	"github.com/mkarls/wireweave/pkg/schema"
)

var encodeCmd = &cobra.Command{
	Use:   "encode <schema>",
	Short: "Encode a JSON record to the binary wire format",
	Long: `Encodes a record, given as a JSON object of field values, into the
schema's binary wire layout. The record is read from --json or stdin.`,
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

		raw, _ := cmd.Flags().GetString("json")
		if raw == "" {
			data, err := io.ReadAll(os.Stdin)
			if err != nil {
				return err
			}
			raw = string(data)
		}
		var fields map[string]interface{}
		if err := json.Unmarshal([]byte(raw), &fields); err != nil {
			return fmt.Errorf("invalid record json: %w", err)
		}

		bag, err := api.BagFromJSON(registry, s, fields)
		if err != nil {
			return err
		}
		data, err := c.Serialize(bag)
		if err != nil {
			return err
		}

		if useHex, _ := cmd.Flags().GetBool("hex"); useHex {
			fmt.Println(hex.EncodeToString(data))
		} else {
			fmt.Println(base64.StdEncoding.EncodeToString(data))
		}
		return nil
	},
}

func init() {
	encodeCmd.Flags().String("json", "", "Record as a JSON object (defaults to stdin)")
	encodeCmd.Flags().Bool("hex", false, "Emit hex instead of base64")
	rootCmd.AddCommand(encodeCmd)
}

// newCodec builds a registry and codec from configuration, without opening
// the record store. Used by the offline encode/decode/schemas commands.
func newCodec(cfg *config.Config) (*schema.Registry, *codec.Codec, error) {
	aliases := make(map[string]string, len(schema.DefaultAliases)+len(cfg.Codec.Aliases))
	for k, v := range schema.DefaultAliases {
		aliases[k] = v
	}
	for k, v := range cfg.Codec.Aliases {
		aliases[k] = v
	}
	registry := schema.NewRegistryWithNaming(schema.FileNaming(aliases))
	if cfg.SchemaDir != "" {
		if err := schema.LoadDir(cfg.SchemaDir, registry); err != nil {
			return nil, nil, err
		}
	}
	return registry, codec.NewWithOptions(registry, codec.Options{Lenient: cfg.Codec.Lenient}), nil
}
