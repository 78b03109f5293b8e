package main

import (
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ripkitten-co/kibble/codecs"
	"github.com/ripkitten-co/kibble/value"
)

// jsonText parses and prints structured values on the command line
// regardless of the configured serializer.
var jsonText = value.NewCodec(value.WithSerializer(codecs.NewJSONIter()))

func typeFlag(cmd *cobra.Command) {
	cmd.Flags().StringP("type", "t", "string", "value type (string, bytes, bool, int8..int64, uint8..uint64, char, float32, float64, decimal, timestamp, uuid, json)")
}

func flagType(cmd *cobra.Command) (value.Type, error) {
	name, err := cmd.Flags().GetString("type")
	if err != nil {
		return value.Type{}, err
	}
	return value.ParseType(name)
}

// parseInput reads a command-line argument as a value of type t. Scalars use
// their wire text, bytes are hex and structured values are JSON.
func parseInput(t value.Type, text string) (value.Value, error) {
	switch t.Kind() {
	case value.KindBytes:
		b, err := hex.DecodeString(text)
		if err != nil {
			return nil, fmt.Errorf("bytes must be hex: %w", err)
		}
		return value.Bytes(b), nil
	default:
		return jsonText.Decode([]byte(text), t)
	}
}

func formatValue(v value.Value) (string, error) {
	switch v := v.(type) {
	case nil, value.Null:
		return "null", nil
	case value.Bytes:
		return hex.EncodeToString(v), nil
	default:
		b, err := jsonText.Encode(v)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
}
