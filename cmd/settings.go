package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ElouanDeriaux/suprss/internal/api"
	"github.com/ElouanDeriaux/suprss/internal/credentials"
	"github.com/ElouanDeriaux/suprss/internal/output"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Change account settings",
}

var settingsPasswordCmd = &cobra.Command{
	Use:   "password",
	Short: "Change your password",
	Long: `Change your password. The new password is prompted for twice and must
have at least 8 characters with an uppercase letter, a lowercase letter, a
digit and a special character, and no spaces.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		printer := newPrinter(cmd)
		prompt := newPrompter(cmd)

		password, err := prompt.secret("New password")
		if err != nil {
			return err
		}
		if failed := credentials.CheckPassword(password); len(failed) > 0 {
			for _, r := range credentials.PasswordRules {
				mark := "✓"
				if !r.Passes(password) {
					mark = "✗"
				}
				printer.Print("  %s %s", mark, r.Label)
			}
			return credentials.ValidatePassword(password)
		}
		again, err := prompt.secret("Repeat new password")
		if err != nil {
			return err
		}
		if again != password {
			return &output.CLIError{Summary: "the passwords do not match", ExitCode: output.ExitUsageError}
		}

		msg, err := newAPIClient().ChangePassword(cmd.Context(), password)
		if err != nil {
			return err
		}
		printer.Success("%s", orDefault(msg, "Password changed"))
		return nil
	},
}

var settingsUsernameCmd = &cobra.Command{
	Use:   "username <name>",
	Short: "Change your display name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := credentials.ValidateUsername(args[0]); err != nil {
			return &output.CLIError{Summary: err.Error(), ExitCode: output.ExitUsageError}
		}
		printer := newPrinter(cmd)
		msg, err := newAPIClient().UpdateUsername(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		printer.Success("%s", orDefault(msg, "Username updated"))
		return nil
	},
}

var settingsThemeCmd = &cobra.Command{
	Use:       "theme <auto|light|dark>",
	Short:     "Set the theme used by the web interface",
	Args:      cobra.ExactArgs(1),
	ValidArgs: credentials.Themes,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := credentials.ValidateTheme(args[0]); err != nil {
			return &output.CLIError{Summary: err.Error(), ExitCode: output.ExitUsageError}
		}
		printer := newPrinter(cmd)
		msg, err := newAPIClient().UpdateTheme(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		printer.Success("%s", orDefault(msg, "Theme updated"))
		return nil
	},
}

var settings2FACmd = &cobra.Command{
	Use:   "2fa",
	Short: "Turn email two-factor authentication on or off",
}

var settings2FAEnableCmd = &cobra.Command{
	Use:   "enable",
	Short: "Turn on two-factor authentication",
	Long: `Turn on two-factor authentication. A code is emailed to you; pass it with
--code or enter it at the prompt to confirm.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runToggle2FA(cmd, "enabled", (*api.Client).Enable2FA, (*api.Client).ConfirmEnable2FA)
	},
}

var settings2FADisableCmd = &cobra.Command{
	Use:   "disable",
	Short: "Turn off two-factor authentication",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runToggle2FA(cmd, "disabled", (*api.Client).Disable2FA, (*api.Client).ConfirmDisable2FA)
	},
}

var settingsDeleteAccountCmd = &cobra.Command{
	Use:   "delete-account",
	Short: "Delete your account and everything you own",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		printer := newPrinter(cmd)
		if yes, _ := cmd.Flags().GetBool("yes"); !yes {
			if !newPrompter(cmd).confirm("Delete your account, collections, feeds and archives for good?") {
				printer.Info("Cancelled")
				return nil
			}
		}
		msg, err := newAPIClient().DeleteAccount(cmd.Context())
		if err != nil {
			return err
		}
		if err := sessionStore().Clear(); err != nil {
			return err
		}
		printer.Success("%s", orDefault(msg, "Account deleted"))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(settingsCmd)
	settingsCmd.AddCommand(settingsPasswordCmd, settingsUsernameCmd, settingsThemeCmd, settings2FACmd, settingsDeleteAccountCmd)
	settings2FACmd.AddCommand(settings2FAEnableCmd, settings2FADisableCmd)

	settings2FAEnableCmd.Flags().String("code", "", "6-digit code, if already received")
	settings2FADisableCmd.Flags().String("code", "", "6-digit code, if already received")
	settingsDeleteAccountCmd.Flags().BoolP("yes", "y", false, "do not ask for confirmation")
}

// runToggle2FA requests a code with start, then confirms it with finish.
// Without --code the code is prompted for.
func runToggle2FA(
	cmd *cobra.Command,
	done string,
	start func(*api.Client, context.Context) (string, error),
	finish func(*api.Client, context.Context, string, string) (string, error),
) error {
	printer := newPrinter(cmd)
	client := newAPIClient()
	ctx := cmd.Context()

	user, err := client.Me(ctx)
	if err != nil {
		return err
	}

	code, _ := cmd.Flags().GetString("code")
	if code == "" {
		msg, err := start(client, ctx)
		if err != nil {
			return err
		}
		printer.Info("%s", orDefault(msg, fmt.Sprintf("A verification code was sent to %s", user.Email)))
		if code, err = newPrompter(cmd).ask("Code", true); err != nil {
			return err
		}
	}

	code = credentials.NormalizeCode(code)
	if !credentials.ValidCode(code) {
		return &output.CLIError{
			Summary:  fmt.Sprintf("the code must have %d digits", credentials.CodeLength),
			ExitCode: output.ExitUsageError,
		}
	}
	msg, err := finish(client, ctx, user.Email, code)
	if err != nil {
		return err
	}
	printer.Success("%s", orDefault(msg, "Two-factor authentication "+done))
	return nil
}
