package cmd

import (
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mkarls/wireweave/pkg/api"
)

var decodeCmd = &cobra.Command{
	Use:   "decode <schema>",
	Short: "Decode binary wire data into a JSON record",
	Long: `Decodes base64 (or hex, with --hex) wire data against the schema's
layout and prints the record as a JSON object. Data is read from --data or
stdin.`,
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

		input, _ := cmd.Flags().GetString("data")
		if input == "" {
			raw, err := io.ReadAll(os.Stdin)
			if err != nil {
				return err
			}
			input = string(raw)
		}
		input = strings.TrimSpace(input)

		var data []byte
		if useHex, _ := cmd.Flags().GetBool("hex"); useHex {
			data, err = hex.DecodeString(input)
		} else {
			data, err = base64.StdEncoding.DecodeString(input)
		}
		if err != nil {
			return fmt.Errorf("invalid wire data: %w", err)
		}

		bag, err := c.Deserialize(data, s)
		if err != nil {
			return err
		}
		fields, err := api.BagToJSON(bag)
		if err != nil {
			return err
		}
		out, err := json.MarshalIndent(fields, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	},
}

func init() {
	decodeCmd.Flags().String("data", "", "Wire data as base64 or hex (defaults to stdin)")
	decodeCmd.Flags().Bool("hex", false, "Treat input as hex instead of base64")
	rootCmd.AddCommand(decodeCmd)
}
