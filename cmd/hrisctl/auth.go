package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	flagEmail    string
	flagPassword string
	flagCode     string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Login and persist the session",
	Long: `Login to the HRIS backend with email and password.

The admin identifier routes to the SOAP service; everyone else goes to
the configured non-admin backend. When a second factor is required, run
login again with --code once the code arrives.

Examples:
  hrisctl login --email employee@hris.com --password emp123
  hrisctl login --email employee@hris.com --password emp123 --code 123456`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if flagEmail == "" {
			return fmt.Errorf("--email is required")
		}
		if flagPassword == "" {
			return fmt.Errorf("--password is required")
		}

		manager, logger, err := buildManager()
		if err != nil {
			return err
		}
		defer manager.Close()

		result, err := manager.Login(cmd.Context(), flagEmail, flagPassword)
		if err != nil {
			logger.WithError(err).Error("login failed", "email", flagEmail)
			return fmt.Errorf("login failed: %w", err)
		}

		if result.TwoFactorRequired {
			if flagCode == "" {
				fmt.Println("A verification code is required to finish logging in.")
				if result.Message != "" {
					fmt.Println(result.Message)
				}
				fmt.Println("Re-run login with --code once the code arrives.")
				return nil
			}

			sess, err := manager.VerifyTwoFactor(cmd.Context(), flagEmail, flagCode)
			if err != nil {
				logger.WithError(err).Error("verification failed", "email", flagEmail)
				return fmt.Errorf("verification failed: %w", err)
			}
			fmt.Printf("Logged in as %s (%s)\n", sess.DisplayName(), sess.Role)
			return nil
		}

		fmt.Printf("Logged in as %s (%s)\n", result.Session.DisplayName(), result.Session.Role)
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the active session",
	RunE: func(cmd *cobra.Command, args []string) error {
		manager, _, err := buildManager()
		if err != nil {
			return err
		}
		defer manager.Close()

		sess, err := manager.Restore(cmd.Context())
		if err != nil {
			fmt.Println("Not logged in.")
			return nil
		}

		fmt.Printf("User:       %s\n", sess.DisplayName())
		fmt.Printf("Email:      %s\n", sess.Email)
		fmt.Printf("Role:       %s\n", sess.Role)
		if sess.Department != "" {
			fmt.Printf("Department: %s\n", sess.Department)
		}
		fmt.Printf("Source:     %s\n", sess.Source)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Logout and clear the stored session",
	RunE: func(cmd *cobra.Command, args []string) error {
		manager, _, err := buildManager()
		if err != nil {
			return err
		}
		defer manager.Close()

		// Restore first so the audit trail names who logged out. A
		// missing session is not an error for logout.
		_, _ = manager.Restore(cmd.Context())

		if err := manager.Logout(cmd.Context()); err != nil {
			return fmt.Errorf("logout: %w", err)
		}
		fmt.Println("Logged out.")
		return nil
	},
}

func init() {
	loginCmd.Flags().StringVar(&flagEmail, "email", "", "account email")
	loginCmd.Flags().StringVar(&flagPassword, "password", "", "account password")
	loginCmd.Flags().StringVar(&flagCode, "code", "", "second-factor verification code")
}
