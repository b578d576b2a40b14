// SPDX-License-Identifier: MIT

package cli

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/agora/conversation"
	"github.com/katalvlaran/agora/store"
	"github.com/katalvlaran/agora/votes"
	"github.com/katalvlaran/agora/worker"
)

// single narrows a store to one conversation.
type single struct {
	*store.Store
	id string
}

func (s single) Conversations(context.Context) ([]string, error) { return []string{s.id}, nil }

// report is the printable result of one analysis.
type report struct {
	Conversation string                    `yaml:"conversation"`
	Version      uint64                    `yaml:"version"`
	Participants int                       `yaml:"participants"`
	Statements   int                       `yaml:"statements"`
	Variance     []float64                 `yaml:"variance_explained"`
	Groups       []groupReport             `yaml:"groups"`
	Unassigned   []votes.ParticipantID     `yaml:"unassigned,omitempty"`
	Consensus    []votes.StatementID       `yaml:"consensus,omitempty"`
	Priorities   map[votes.StatementID]int `yaml:"priorities"`
}

type groupReport struct {
	ID             int         `yaml:"id"`
	Size           int         `yaml:"size"`
	Representative []repReport `yaml:"representative,omitempty"`
}

type repReport struct {
	Statement  votes.StatementID `yaml:"statement"`
	Direction  string            `yaml:"direction"`
	EffectSize float64           `yaml:"effect_size"`
	PValue     float64           `yaml:"p_value"`
}

func newReport(c *conversation.Conversation) report {
	snap := c.Snapshot()
	r := report{
		Conversation: c.ID(),
		Version:      snap.Version,
		Participants: snap.Matrix.Rows(),
		Statements:   snap.Matrix.Cols(),
		Variance:     snap.Projection.VarianceExplained,
		Unassigned:   snap.Clusters.Unassigned,
		Priorities:   snap.Priorities,
	}
	for _, g := range snap.Clusters.Groups {
		gr := groupReport{ID: g.ID, Size: g.Size()}
		for _, rep := range snap.Repness.ForGroup(g.ID) {
			gr.Representative = append(gr.Representative, repReport{
				Statement:  rep.Statement,
				Direction:  rep.Direction.String(),
				EffectSize: rep.EffectSize,
				PValue:     rep.PValue,
			})
		}
		r.Groups = append(r.Groups, gr)
	}
	for _, cs := range snap.Repness.Consensus {
		r.Consensus = append(r.Consensus, cs.Statement)
	}

	return r
}

func (r report) writeText(w io.Writer) {
	fmt.Fprintf(w, "conversation %s (version %d)\n", r.Conversation, r.Version)
	fmt.Fprintf(w, "participants: %d  statements: %d\n", r.Participants, r.Statements)
	fmt.Fprintf(w, "variance explained: %.4f\n", r.Variance)
	fmt.Fprintf(w, "groups: %d\n", len(r.Groups))
	for _, g := range r.Groups {
		fmt.Fprintf(w, "  group %d (%d members)\n", g.ID, g.Size)
		for _, rep := range g.Representative {
			fmt.Fprintf(w, "    statement %d %s effect=%.3f p=%.4f\n",
				rep.Statement, rep.Direction, rep.EffectSize, rep.PValue)
		}
	}
	if len(r.Unassigned) > 0 {
		fmt.Fprintf(w, "unassigned: %v\n", r.Unassigned)
	}
	if len(r.Consensus) > 0 {
		fmt.Fprintf(w, "consensus: %v\n", r.Consensus)
	}

	ids := make([]votes.StatementID, 0, len(r.Priorities))
	for id := range r.Priorities {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	fmt.Fprintln(w, "priorities:")
	for _, id := range ids {
		fmt.Fprintf(w, "  statement %d: %d\n", id, r.Priorities[id])
	}
}

// AnalyzeCmd analyzes one conversation from the store and prints the result.
func AnalyzeCmd(e *env) *cobra.Command {
	var (
		format string
		save   bool
	)
	cmd := &cobra.Command{
		Use:   "analyze <conversation>",
		Short: "Analyze one conversation and print groups, repness and priorities",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "text" && format != "yaml" {
				return fmt.Errorf("unknown format %q (want text or yaml)", format)
			}
			st, err := e.openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			var sink worker.Sink
			if save {
				sink = st
			}
			w, err := e.newWorker(single{Store: st, id: args[0]}, sink, st)
			if err != nil {
				return err
			}
			round, err := w.RunOnce(cmd.Context())
			if err != nil {
				return err
			}
			if round.Failed > 0 || round.Discarded > 0 {
				return fmt.Errorf("analyze %s: recompute did not complete", args[0])
			}
			c, _ := w.Conversation(args[0])

			r := newReport(c)
			if format == "yaml" {
				enc := yaml.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent(2)
				if err = enc.Encode(r); err != nil {
					return err
				}
				return enc.Close()
			}
			r.writeText(cmd.OutOrStdout())

			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "text", "Output format: text or yaml")
	cmd.Flags().BoolVar(&save, "save", false, "Persist the computed priorities")

	return cmd
}
