// SPDX-License-Identifier: MIT

package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/agora/votes"
)

// parseStatements converts positional statement ids.
func parseStatements(args []string) ([]votes.StatementID, error) {
	ids := make([]votes.StatementID, len(args))
	for i, a := range args {
		id, err := strconv.ParseInt(a, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("statement %q: %w", a, err)
		}
		ids[i] = votes.StatementID(id)
	}

	return ids, nil
}

// MetaCmd flags or unflags meta statements; the worker picks the new set
// up on its next round.
func MetaCmd(e *env) *cobra.Command {
	var unmark bool
	cmd := &cobra.Command{
		Use:   "meta <conversation> <statement>...",
		Short: "Mark statements as meta, or clear the flag with --unmark",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseStatements(args[1:])
			if err != nil {
				return err
			}
			st, err := e.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			if unmark {
				err = st.UnmarkMeta(cmd.Context(), args[0], ids...)
			} else {
				err = st.MarkMeta(cmd.Context(), args[0], ids...)
			}
			if err != nil {
				return err
			}
			e.log.Info("meta updated", "conversation", args[0], "statements", len(ids), "unmark", unmark)

			return nil
		},
	}
	cmd.Flags().BoolVar(&unmark, "unmark", false, "Clear the meta flag instead of setting it")

	return cmd
}

// ExtremityCmd stores externally supplied extremity values as
// <statement>=<value> pairs. They override the computed extremity in
// later priorities.
func ExtremityCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "extremity <conversation> <statement>=<value>...",
		Short: "Store external extremity values in [0,1] for statements",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			values := make(map[votes.StatementID]float64, len(args)-1)
			for _, a := range args[1:] {
				k, v, ok := strings.Cut(a, "=")
				if !ok {
					return fmt.Errorf("extremity %q: want <statement>=<value>", a)
				}
				id, err := strconv.ParseInt(k, 10, 64)
				if err != nil {
					return fmt.Errorf("extremity %q: %w", a, err)
				}
				x, err := strconv.ParseFloat(v, 64)
				if err != nil {
					return fmt.Errorf("extremity %q: %w", a, err)
				}
				values[votes.StatementID(id)] = x
			}
			st, err := e.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			if err = st.SaveExtremity(cmd.Context(), args[0], values); err != nil {
				return err
			}
			e.log.Info("extremity saved", "conversation", args[0], "statements", len(values))

			return nil
		},
	}
}
