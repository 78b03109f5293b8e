package main

import (
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"
)

func newEncodeCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "encode <text>",
		Short: "Encode a value and print the stored bytes as hex",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := flagType(cmd)
			if err != nil {
				return err
			}
			v, err := parseInput(t, args[0])
			if err != nil {
				return err
			}
			c, err := a.valueCodec()
			if err != nil {
				return err
			}
			data, err := c.Encode(v)
			if err != nil {
				return err
			}
			a.logger.Debug().Str("type", t.String()).Int("bytes", len(data)).Msg("encoded")
			fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(data))
			return nil
		},
	}
	typeFlag(cmd)
	return cmd
}

func newDecodeCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decode <hex>",
		Short: "Decode hex bytes as a value of the given type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := flagType(cmd)
			if err != nil {
				return err
			}
			data, err := hex.DecodeString(args[0])
			if err != nil {
				return fmt.Errorf("input must be hex: %w", err)
			}
			c, err := a.valueCodec()
			if err != nil {
				return err
			}
			v, err := c.Decode(data, t)
			if err != nil {
				return err
			}
			s, err := formatValue(v)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), s)
			return nil
		},
	}
	typeFlag(cmd)
	return cmd
}
