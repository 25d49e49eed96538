package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var flagRejectNote string

var leavesCmd = &cobra.Command{
	Use:   "leaves",
	Short: "Work with leave requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var leavesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the leave requests visible to this session",
	Long: `List leave requests. Reviewers (teamlead, hr, md) see the approval
queue; everyone else sees their own requests.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, manager, logger, err := buildClient(cmd)
		if err != nil {
			return err
		}
		defer manager.Close()

		records, err := client.Leaves().List(cmd.Context())
		if err != nil {
			logger.WithError(err).Error("listing leaves failed")
			return err
		}

		if len(records) == 0 {
			fmt.Println("No leave requests.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tEMPLOYEE\tTYPE\tFROM\tTO\tSTATUS")
		for _, rec := range records {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				rec.ID, rec.EmployeeName, rec.Type, rec.StartDate, rec.EndDate, rec.Status)
		}
		return w.Flush()
	},
}

var leavesApproveCmd = &cobra.Command{
	Use:   "approve <id>",
	Short: "Approve a pending leave request",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, manager, logger, err := buildClient(cmd)
		if err != nil {
			return err
		}
		defer manager.Close()

		rec, err := client.Leaves().Approve(cmd.Context(), args[0])
		if err != nil {
			logger.WithError(err).Error("approval failed", "leave_id", args[0])
			return err
		}
		fmt.Printf("Leave %s is now %s.\n", rec.ID, rec.Status)
		return nil
	},
}

var leavesRejectCmd = &cobra.Command{
	Use:   "reject <id>",
	Short: "Reject a pending leave request",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, manager, logger, err := buildClient(cmd)
		if err != nil {
			return err
		}
		defer manager.Close()

		rec, err := client.Leaves().Reject(cmd.Context(), args[0], flagRejectNote)
		if err != nil {
			logger.WithError(err).Error("rejection failed", "leave_id", args[0])
			return err
		}
		fmt.Printf("Leave %s is now %s.\n", rec.ID, rec.Status)
		return nil
	},
}

func init() {
	leavesRejectCmd.Flags().StringVar(&flagRejectNote, "note", "", "reason shown to the requester")

	leavesCmd.AddCommand(leavesListCmd)
	leavesCmd.AddCommand(leavesApproveCmd)
	leavesCmd.AddCommand(leavesRejectCmd)
}
