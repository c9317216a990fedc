package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/existflow/hackersunity/internal/calendar"
	"github.com/existflow/hackersunity/internal/logger"
	"github.com/existflow/hackersunity/internal/remote"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var calendarCmd = &cobra.Command{
	Use:   "calendar",
	Short: "Work with a user's event calendar",
}

var calendarExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a user's calendar as an iCalendar file",
	Long: `Sign in as a user and write the events on their calendar as an
iCalendar (.ics) file. The password is read from the terminal.

Examples:
  hackersunity calendar export --email ada@example.com
  hackersunity calendar export --email ada@example.com --out hackathons.ics`,
	RunE: runCalendarExport,
}

var (
	exportEmail string
	exportOut   string
)

func init() {
	calendarCmd.AddCommand(calendarExportCmd)

	calendarExportCmd.Flags().StringVarP(&exportEmail, "email", "e", "", "Account email (prompted when empty)")
	calendarExportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Output file (default stdout)")
}

func runCalendarExport(cmd *cobra.Command, args []string) error {
	email := strings.TrimSpace(exportEmail)
	if email == "" {
		fmt.Fprint(os.Stderr, "Email: ")
		line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
		email = strings.TrimSpace(line)
	}
	if email == "" {
		return fmt.Errorf("email is required")
	}

	fmt.Fprint(os.Stderr, "Password: ")
	passwordBytes, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}

	backend, err := openBackend()
	if err != nil {
		return err
	}
	defer func() {
		_ = backend.Close()
	}()

	ctx := cmd.Context()
	sess, err := backend.SignIn(ctx, email, string(passwordBytes))
	if err != nil {
		return err
	}
	defer func() {
		if err := backend.SignOut(ctx, sess.AccessToken); err != nil {
			logger.Warn("Failed to end export session", logger.F("error", err))
		}
	}()

	entries, err := backend.CalendarEntries(remote.WithAccessToken(ctx, sess.AccessToken), sess.UserID())
	if err != nil {
		return fmt.Errorf("failed to load calendar: %w", err)
	}

	ics := calendar.ExportICS(entries, time.Now())
	if exportOut == "" {
		_, err := fmt.Fprint(cmd.OutOrStdout(), ics)
		return err
	}

	if err := os.WriteFile(exportOut, []byte(ics), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", exportOut, err)
	}
	fmt.Fprintf(os.Stderr, "Wrote %d events to %s\n", len(entries), exportOut)
	return nil
}
