package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Bmat321/gohris/hris"
)

var (
	flagShift string
	flagNote  string
)

var attendanceCmd = &cobra.Command{
	Use:   "attendance",
	Short: "Work with attendance records",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var attendanceClockInCmd = &cobra.Command{
	Use:   "clock-in",
	Short: "Open today's attendance record",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, manager, logger, err := buildClient(cmd)
		if err != nil {
			return err
		}
		defer manager.Close()

		rec, err := client.Attendance().ClockIn(cmd.Context(), hris.ClockInInput{
			Shift: flagShift,
			Note:  flagNote,
		})
		if err != nil {
			logger.WithError(err).Error("clock-in failed")
			return err
		}
		fmt.Printf("Clocked in at %s (%s).\n", rec.ClockIn, rec.Status)
		return nil
	},
}

var attendanceClockOutCmd = &cobra.Command{
	Use:   "clock-out",
	Short: "Close today's attendance record",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, manager, logger, err := buildClient(cmd)
		if err != nil {
			return err
		}
		defer manager.Close()

		rec, err := client.Attendance().ClockOut(cmd.Context())
		if err != nil {
			logger.WithError(err).Error("clock-out failed")
			return err
		}
		fmt.Printf("Clocked out at %s.\n", rec.ClockOut)
		return nil
	},
}

var attendanceHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "List the attendance records visible to this session",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, manager, logger, err := buildClient(cmd)
		if err != nil {
			return err
		}
		defer manager.Close()

		records, err := client.Attendance().History(cmd.Context())
		if err != nil {
			logger.WithError(err).Error("history failed")
			return err
		}

		if len(records) == 0 {
			fmt.Println("No attendance records.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "DATE\tEMPLOYEE\tIN\tOUT\tSTATUS")
		for _, rec := range records {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				rec.Date, rec.EmployeeName, rec.ClockIn, rec.ClockOut, rec.Status)
		}
		return w.Flush()
	},
}

func init() {
	attendanceClockInCmd.Flags().StringVar(&flagShift, "shift", "", "shift name, e.g. morning")
	attendanceClockInCmd.Flags().StringVar(&flagNote, "note", "", "free-form note on the record")

	attendanceCmd.AddCommand(attendanceClockInCmd)
	attendanceCmd.AddCommand(attendanceClockOutCmd)
	attendanceCmd.AddCommand(attendanceHistoryCmd)
}
