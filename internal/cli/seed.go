// SPDX-License-Identifier: MIT

package cli

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/agora/votes"
)

// demoVotes generates two camps of participants voting opposite ways on
// the two halves of the statements. Each vote turns into a pass with
// probability noise and is skipped with probability skip.
func demoVotes(participants, statements int, noise, skip float64, seed int64, start time.Time) []votes.Vote {
	rng := rand.New(rand.NewSource(seed))
	out := make([]votes.Vote, 0, participants*statements)
	for p := 0; p < participants; p++ {
		camp := p < participants/2
		for s := 0; s < statements; s++ {
			if rng.Float64() < skip {
				continue
			}
			v := votes.Agree
			if camp != (s < statements/2) {
				v = votes.Disagree
			}
			if rng.Float64() < noise {
				v = votes.Pass
			}
			out = append(out, votes.Vote{
				Participant: votes.ParticipantID(p),
				Statement:   votes.StatementID(s),
				Value:       v,
				CreatedAt:   start.Add(time.Duration(p*statements+s) * time.Millisecond),
			})
		}
	}

	return out
}

// SeedDemoCmd writes a synthetic two-camp conversation into the store.
func SeedDemoCmd(e *env) *cobra.Command {
	var (
		participants, statements int
		noise, skip              float64
		seed                     int64
		meta                     []int64
	)
	cmd := &cobra.Command{
		Use:   "seed-demo <conversation>",
		Short: "Write a synthetic two-camp conversation into the store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if participants < 1 || statements < 1 {
				return fmt.Errorf("participants and statements must be >= 1")
			}
			st, err := e.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			start := time.Now().UTC().Truncate(time.Millisecond)
			batch := demoVotes(participants, statements, noise, skip, seed, start)
			n, err := st.SaveVotes(cmd.Context(), args[0], batch)
			if err != nil {
				return err
			}
			if len(meta) > 0 {
				ids := make([]votes.StatementID, len(meta))
				for i, id := range meta {
					ids[i] = votes.StatementID(id)
				}
				if err = st.MarkMeta(cmd.Context(), args[0], ids...); err != nil {
					return err
				}
			}
			e.log.Info("seeded", "conversation", args[0], "votes", n)
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d votes into %s\n", n, args[0])

			return nil
		},
	}
	cmd.Flags().IntVar(&participants, "participants", 100, "Number of participants")
	cmd.Flags().IntVar(&statements, "statements", 20, "Number of statements")
	cmd.Flags().Float64Var(&noise, "noise", 0.1, "Probability that a vote becomes a pass")
	cmd.Flags().Float64Var(&skip, "skip", 0.1, "Probability that a vote is missing")
	cmd.Flags().Int64Var(&seed, "seed", 1, "Random seed")
	cmd.Flags().Int64SliceVar(&meta, "meta", nil, "Statement ids to mark as meta")

	return cmd
}
