package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ripkitten-co/kibble"
	"github.com/ripkitten-co/kibble/value"
)

func encodeArgs(s *kibble.Store, t value.Type, args []string) ([][]byte, error) {
	members := make([][]byte, len(args))
	for i, arg := range args {
		v, err := parseInput(t, arg)
		if err != nil {
			return nil, fmt.Errorf("member %d: %w", i, err)
		}
		data, err := s.Codec().Encode(v)
		if err != nil {
			return nil, fmt.Errorf("member %d: %w", i, err)
		}
		members[i] = data
	}
	return members, nil
}

func newSAddCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sadd <key> <member>...",
		Short: "Add members to a set and print how many were new",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := flagType(cmd)
			if err != nil {
				return err
			}
			s, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			members, err := encodeArgs(s, t, args[1:])
			if err != nil {
				return err
			}
			added, err := s.Backend().SAdd(cmd.Context(), args[0], members...)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), added)
			return nil
		},
	}
	typeFlag(cmd)
	return cmd
}

func newSIsMemberCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sismember <key> <member>",
		Short: "Report whether a value is a member of a set",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := flagType(cmd)
			if err != nil {
				return err
			}
			s, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			members, err := encodeArgs(s, t, args[1:])
			if err != nil {
				return err
			}
			ok, err := s.Backend().SIsMember(cmd.Context(), args[0], members[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ok)
			return nil
		},
	}
	typeFlag(cmd)
	return cmd
}

func newSMembersCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "smembers <key>",
		Short: "Decode and print every member of a set",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := flagType(cmd)
			if err != nil {
				return err
			}
			s, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			raw, err := s.Backend().SMembers(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			for _, data := range raw {
				v, err := s.Codec().Decode(data, t)
				if err != nil {
					return err
				}
				line, err := formatValue(v)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			return nil
		},
	}
	typeFlag(cmd)
	return cmd
}
