package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"go-medical-scheduling/cmd/bootstrap"
	"go-medical-scheduling/config"
	"go-medical-scheduling/internal/delivery/dto"
	"go-medical-scheduling/internal/infrastructure/database"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "medical-scheduling",
		Short: "Doctor schedules, availability overrides and appointment booking",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(slotsCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := bootstrap.New()
			if err != nil {
				return fmt.Errorf("initialize application: %w", err)
			}
			app.Run()
			return nil
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back database migrations",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			return database.MigrateUp(cfg.DB, bootstrap.NewLogger(cfg.App))
		},
	}

	downCmd := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			steps, _ := cmd.Flags().GetInt("steps")
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			return database.MigrateDown(cfg.DB, bootstrap.NewLogger(cfg.App), steps)
		},
	}
	downCmd.Flags().Int("steps", 1, "Number of migrations to roll back")

	cmd.AddCommand(upCmd, downCmd)
	return cmd
}

func slotsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "slots <schedule-id>",
		Short: "Print the free slots of a schedule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var scheduleID int
			if _, err := fmt.Sscanf(args[0], "%d", &scheduleID); err != nil || scheduleID <= 0 {
				return fmt.Errorf("invalid schedule id %q", args[0])
			}
			date, _ := cmd.Flags().GetString("date")
			from, _ := cmd.Flags().GetString("from")
			to, _ := cmd.Flags().GetString("to")

			app, err := bootstrap.New()
			if err != nil {
				return fmt.Errorf("initialize application: %w", err)
			}
			defer app.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			result, err := app.Usecases.Slot.GetSlots(ctx, scheduleID, &dto.SlotQuery{Date: date, From: from, To: to})
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(w, "schedule %d, %s to %s, %d minute slots\n", result.ScheduleID, result.From, result.To, result.SlotDurationMinutes)
			fmt.Fprintln(w, "START\tEND")
			for _, s := range result.Slots {
				fmt.Fprintf(w, "%s\t%s\n", s.Start.Format(time.RFC3339), s.End.Format(time.RFC3339))
			}
			fmt.Fprintf(w, "%d slots\n", result.Total)
			return w.Flush()
		},
	}
	cmd.Flags().String("date", "", "Single date, YYYY-MM-DD")
	cmd.Flags().String("from", "", "Range start, YYYY-MM-DD")
	cmd.Flags().String("to", "", "Range end, YYYY-MM-DD")
	return cmd
}
