package cli

import (
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"taskdeck/internal/storage"
)

func newTopicsCmd(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "topics",
		Short: "List topics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer s.Close()

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tKIND\tCREATED")
			for _, t := range s.app.Topics() {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", t.ID, t.Name, t.Kind, t.CreatedAt.Format(storage.TimestampLayout))
			}
			return w.Flush()
		},
	}
	cmd.AddCommand(newTopicsAddCmd(opts))
	return cmd
}

func newTopicsAddCmd(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "add NAME",
		Short: "Create a topic",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer s.Close()

			name := strings.TrimSpace(args[0])
			if name == "" {
				return errors.New("topic name is empty")
			}
			if err := s.app.AddTopic(cmd.Context(), name); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added topic: %s\n", name)
			return nil
		},
	}
}
