package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/existflow/hackersunity/internal/catalog"
	"github.com/existflow/hackersunity/internal/logger"
	"github.com/existflow/hackersunity/internal/model"
	"github.com/spf13/cobra"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Browse and manage the event catalog",
}

var eventsListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List events",
	Long: `List the event catalog, optionally filtered by status and a search term.
When the backend is unreachable or has no events the built-in sample
events are listed instead.

Examples:
  hackersunity events list
  hackersunity events list --status live
  hackersunity events list --search AI`,
	RunE: runEventsList,
}

var eventsSeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert the sample events into a self-hosted database",
	RunE:  runEventsSeed,
}

var (
	listStatus string
	listSearch string
)

func init() {
	eventsCmd.AddCommand(eventsListCmd)
	eventsCmd.AddCommand(eventsSeedCmd)

	eventsListCmd.Flags().StringVarP(&listStatus, "status", "s", "", "Filter by status (live, upcoming, completed)")
	eventsListCmd.Flags().StringVarP(&listSearch, "search", "q", "", "Match title, description or tags")
}

func runEventsList(cmd *cobra.Command, args []string) error {
	status, err := catalog.ParseStatus(listStatus)
	if err != nil {
		return err
	}

	backend, err := openBackend()
	if err != nil {
		return err
	}
	defer func() {
		_ = backend.Close()
	}()

	cat := catalog.NewLoader(backend).Load(cmd.Context())
	events := catalog.Filter(cat.Events, status, listSearch)

	out := cmd.OutOrStdout()
	if cat.Degraded() {
		fmt.Fprintf(out, "Showing sample events: %s\n\n", cat.Reason)
	}
	if len(events) == 0 {
		fmt.Fprintln(out, "No events found matching your criteria.")
		return nil
	}

	for _, ev := range events {
		printEvent(out, ev)
	}
	fmt.Fprintf(out, "\n%d of %d events\n", len(events), len(cat.Events))
	return nil
}

func printEvent(w io.Writer, ev model.Event) {
	dates := ev.StartDate.Format("Jan 2, 2006")
	if !ev.EndDate.IsZero() && !ev.EndDate.SameDay(ev.StartDate.Time) {
		dates += " - " + ev.EndDate.Format("Jan 2, 2006")
	}

	fmt.Fprintf(w, "[%s] %-4s %s\n", strings.ToUpper(string(ev.Status)), ev.ID, ev.Title)
	fmt.Fprintf(w, "       %s | %s | %s\n", dates, ev.Location, ev.PrizePool)
	if len(ev.Tags) > 0 {
		fmt.Fprintf(w, "       #%s\n", strings.Join(ev.Tags, " #"))
	}
}

func runEventsSeed(cmd *cobra.Command, args []string) error {
	database, err := openDatabase()
	if err != nil {
		return err
	}
	defer func() {
		_ = database.Close()
	}()

	events := catalog.SampleEvents()
	n, err := database.SeedEvents(cmd.Context(), events)
	if err != nil {
		return fmt.Errorf("failed to seed events: %w", err)
	}

	logger.Info("Seeded events", logger.F("inserted", n), logger.F("total", len(events)))
	fmt.Fprintf(cmd.OutOrStdout(), "Inserted %d of %d sample events\n", n, len(events))
	return nil
}
