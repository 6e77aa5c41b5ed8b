package cli

import (
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"taskdeck/internal/storage"
)

func newTasksCmd(opts *Options) *cobra.Command {
	var topic string

	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "List the tasks shown under a topic",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer s.Close()

			if err := selectTopic(cmd, s, topic); err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tDONE\tFAV\tNAME\tDESCRIPTION")
			for _, t := range s.app.Tasks() {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", t.ID, mark(t.Completed), mark(t.Favourite), t.Name, oneLine(t.Description))
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&topic, "topic", storage.DefaultName, "Topic to list")
	return cmd
}

func newAddCmd(opts *Options) *cobra.Command {
	var topic string

	cmd := &cobra.Command{
		Use:   "add TASK-NAME [DESCRIPTION]",
		Short: "Add a task to a topic",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer s.Close()

			if err := selectTopic(cmd, s, topic); err != nil {
				return err
			}
			if s.app.CurrentTopicIsFavourites() {
				return errors.New("tasks cannot be added to Favourites; mark them with the favourite toggle instead")
			}
			name := strings.TrimSpace(args[0])
			if name == "" {
				return errors.New("task name is empty")
			}
			var description string
			if len(args) == 2 {
				description = args[1]
			}
			if err := s.app.AddTaskWithDetails(cmd.Context(), name, description); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added task: %s\n", name)
			return nil
		},
	}
	cmd.Flags().StringVar(&topic, "topic", storage.DefaultName, "Topic to add the task to")
	return cmd
}

func selectTopic(cmd *cobra.Command, s *session, name string) error {
	found, err := s.app.SelectTopicByName(cmd.Context(), name)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("topic %q not found", name)
	}
	return nil
}

func mark(b bool) string {
	if b {
		return "x"
	}
	return "-"
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
