package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/ElouanDeriaux/suprss/internal/session"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check the server and the stored session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		printer := newPrinter(cmd)
		store := sessionStore()

		if err := newAPIClient().Health(cmd.Context()); err != nil {
			return err
		}
		printer.Success("API reachable at %s", cfg.API.BaseURL)

		sess, err := store.Load()
		if err != nil {
			return err
		}
		switch {
		case sess.Pending != nil:
			printer.Warning("Login for %s is waiting for its 2FA code (suprss verify)", sess.Pending.Email)
		case sess.Token == "":
			printer.Info("Not logged in")
		default:
			if exp, ok := session.Expiry(sess.Token); ok {
				printer.Info("Logged in as %s until %s", sess.Email, exp.Local().Format(time.RFC1123))
			} else {
				printer.Info("Logged in as %s", sess.Email)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
