package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/rentora/rentora/internal/email"
	"github.com/rentora/rentora/internal/logging"
	"github.com/rentora/rentora/internal/payment"
)

func newRemindCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "remind",
		Short: "Email rent reminders for pending payments",
		Long:  "Send a rent-reminder email to every tenant with a pending payment. Requires SMTP settings in the environment.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRemind(dryRun)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print reminders instead of sending them")

	return cmd
}

func runRemind(dryRun bool) error {
	cfg := loadConfig()
	logging.Setup(cfg.DevMode)

	d, err := openDB(cfg)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		if closeErr := d.Close(); closeErr != nil {
			slog.Error("closing database", "error", closeErr)
		}
	}()

	smtp := email.SMTPConfig{
		Host: cfg.SMTPHost,
		Port: cfg.SMTPPort,
		User: cfg.SMTPUser,
		Pass: cfg.SMTPPass,
		From: cfg.SMTPFrom,
	}
	if !dryRun && !smtp.IsConfigured() {
		return fmt.Errorf("SMTP is not configured; set RENTORA_SMTP_HOST and RENTORA_SMTP_FROM or use --dry-run")
	}

	pending, err := payment.NewRepository(d).ListPending()
	if err != nil {
		return fmt.Errorf("listing pending payments: %w", err)
	}

	sent := 0
	for _, p := range pending {
		reminder := email.Reminder{
			TenantName:       p.Tenant.Name,
			TenantEmail:      p.Tenant.Email,
			PropertyTitle:    p.Property.Title,
			PropertyLocation: p.Property.Location,
			Rent:             p.Amount,
			DueDate:          p.DueDate,
		}
		body := email.FormatReminder(reminder)

		if dryRun {
			fmt.Printf("--- reminder for %s ---\n%s\n", reminder.TenantEmail, body)
			continue
		}

		if err := email.Send(smtp, []string{reminder.TenantEmail}, "Rent Payment Reminder", body); err != nil {
			// One bad address should not block the rest of the run.
			slog.Error("sending reminder", "to", reminder.TenantEmail, "error", err)
			continue
		}
		sent++
	}

	if !dryRun {
		fmt.Printf("Sent %d of %d reminders.\n", sent, len(pending))
	}
	return nil
}
