package cmd

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ElouanDeriaux/suprss/internal/api"
	"github.com/ElouanDeriaux/suprss/internal/credentials"
	"github.com/ElouanDeriaux/suprss/internal/output"
	"github.com/ElouanDeriaux/suprss/internal/session"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and store the session",
	Long: `Sign in with email and password. Missing values are prompted for.

When two-factor authentication is enabled the server emails a 6-digit code.
Pass it with --code, enter it at the prompt, or finish later with
'suprss verify'.

Use --provider google|github to sign in through OAuth: the command prints
the URL to open, then reads the token from the page you were redirected to.

Examples:
  suprss login --email jane@example.com
  suprss login --email jane@example.com --code 123456
  suprss login --provider github`,
	Args: cobra.NoArgs,
	RunE: runLogin,
}

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Complete a login waiting for its 2FA code",
	Long: `Confirm the emailed 6-digit code. Without --email and --temp-token the
pending login saved by 'suprss login' is used.

Examples:
  suprss verify --code 123456`,
	Args: cobra.NoArgs,
	RunE: runVerify,
}

var resendCodeCmd = &cobra.Command{
	Use:   "resend-code",
	Short: "Email a fresh 2FA code",
	Args:  cobra.NoArgs,
	RunE:  runResendCode,
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account",
	Long: `Create an account. The password must have at least 8 characters with an
uppercase letter, a lowercase letter, a digit and a special character, and
no spaces. It is checked before anything is sent.`,
	Args: cobra.NoArgs,
	RunE: runRegister,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		printer := newPrinter(cmd)
		if err := sessionStore().Clear(); err != nil {
			return err
		}
		printer.Success("Logged out")
		printer.PrintHints("logout")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in account",
	Args:  cobra.NoArgs,
	RunE:  runWhoami,
}

func init() {
	rootCmd.AddCommand(loginCmd, verifyCmd, resendCodeCmd, registerCmd, logoutCmd, whoamiCmd)

	loginCmd.Flags().String("email", "", "account email")
	loginCmd.Flags().String("password", "", "account password (prompted when omitted)")
	loginCmd.Flags().String("code", "", "2FA code, if already received")
	loginCmd.Flags().String("provider", "", "sign in through OAuth (google or github)")

	verifyCmd.Flags().String("email", "", "account email (default: pending login)")
	verifyCmd.Flags().String("temp-token", "", "temporary token from login (default: pending login)")
	verifyCmd.Flags().String("code", "", "6-digit code")

	resendCodeCmd.Flags().String("email", "", "account email (default: pending login)")

	registerCmd.Flags().String("username", "", "display name")
	registerCmd.Flags().String("email", "", "account email")
	registerCmd.Flags().String("password", "", "password (prompted when omitted)")

	whoamiCmd.Flags().Bool("json", false, "output as JSON")
}

func runLogin(cmd *cobra.Command, args []string) error {
	printer := newPrinter(cmd)
	prompt := newPrompter(cmd)
	client := newAPIClient()
	store := sessionStore()

	if provider, _ := cmd.Flags().GetString("provider"); provider != "" {
		return runOAuthLogin(cmd, printer, prompt, client, store, provider)
	}

	email, _ := cmd.Flags().GetString("email")
	email, err := valueOrAsk(prompt, email, "Email")
	if err != nil {
		return err
	}
	email = credentials.NormalizeEmail(email)

	password, _ := cmd.Flags().GetString("password")
	if password == "" {
		if password, err = prompt.secret("Password"); err != nil {
			return err
		}
	}

	res, err := client.Login(cmd.Context(), email, password)
	if err != nil {
		return loginError(err)
	}

	if !res.Requires2FA {
		if err := store.SaveToken(res.AccessToken, email); err != nil {
			return err
		}
		printer.Success("Logged in as %s", email)
		printer.PrintHints("login")
		return nil
	}

	pending := session.Pending{Email: email, TempToken: res.TempToken, ExpiresAt: res.CodeExpiry(time.Now())}
	if err := store.SavePending(pending); err != nil {
		return err
	}
	if res.Message != "" {
		printer.Info("%s", res.Message)
	} else {
		printer.Info("A verification code was sent to %s", email)
	}

	code, _ := cmd.Flags().GetString("code")
	if code == "" {
		code, err = prompt.ask("Code", false)
		if err != nil {
			return err
		}
	}
	if code == "" {
		printer.Info("Finish with: suprss verify --code <code>")
		return nil
	}
	return completeVerify(cmd, printer, client, pending, code)
}

func runOAuthLogin(cmd *cobra.Command, printer *output.Printer, prompt *prompter, client *api.Client, store *session.Store, provider string) error {
	loginURL, err := client.OAuthLoginURL(provider)
	if err != nil {
		return &output.CLIError{Summary: err.Error(), ExitCode: output.ExitUsageError}
	}
	printer.Info("Open this URL in a browser and sign in:")
	printer.Raw(loginURL)
	redirect, err := prompt.ask("Paste the address you were redirected to", true)
	if err != nil {
		return err
	}
	token := api.TokenFromRedirect(redirect)
	if token == "" || strings.Contains(token, "://") {
		return &output.CLIError{
			Summary:  "no token found in the redirect address",
			ExitCode: output.ExitAuthError,
		}
	}
	email := session.Subject(token)
	if err := store.SaveToken(token, email); err != nil {
		return err
	}
	user, err := client.Me(cmd.Context())
	if err != nil {
		return err
	}
	printer.Success("Logged in as %s", user.Email)
	return nil
}

func runVerify(cmd *cobra.Command, args []string) error {
	printer := newPrinter(cmd)
	prompt := newPrompter(cmd)
	store := sessionStore()

	sess, err := store.Load()
	if err != nil {
		return err
	}
	var pending session.Pending
	if sess.Pending != nil {
		pending = *sess.Pending
	}
	if email, _ := cmd.Flags().GetString("email"); email != "" {
		pending.Email = credentials.NormalizeEmail(email)
	}
	if tmp, _ := cmd.Flags().GetString("temp-token"); tmp != "" {
		pending.TempToken = tmp
	}
	if pending.Email == "" {
		return &output.CLIError{
			Summary:    "no login is waiting for a code",
			Suggestion: "Run 'suprss login' or pass --email",
			ExitCode:   output.ExitUsageError,
		}
	}
	if pending.Expired(time.Now()) {
		printer.Warning("The code for %s has probably expired; run 'suprss resend-code' if it is rejected", pending.Email)
	}

	code, _ := cmd.Flags().GetString("code")
	if code, err = valueOrAsk(prompt, code, "Code"); err != nil {
		return err
	}
	return completeVerify(cmd, printer, newAPIClient(), pending, code)
}

func completeVerify(cmd *cobra.Command, printer *output.Printer, client *api.Client, pending session.Pending, code string) error {
	code = credentials.NormalizeCode(code)
	if !credentials.ValidCode(code) {
		return &output.CLIError{
			Summary:  fmt.Sprintf("the code must have %d digits", credentials.CodeLength),
			ExitCode: output.ExitUsageError,
		}
	}
	res, err := client.VerifyCode(cmd.Context(), api.VerifyRequest{
		Email:     pending.Email,
		Code:      code,
		TempToken: pending.TempToken,
	})
	if err != nil {
		return loginError(err)
	}
	if err := sessionStore().SaveToken(res.AccessToken, pending.Email); err != nil {
		return err
	}
	printer.Success("Logged in as %s", pending.Email)
	printer.PrintHints("verify")
	return nil
}

func runResendCode(cmd *cobra.Command, args []string) error {
	printer := newPrinter(cmd)
	store := sessionStore()

	sess, err := store.Load()
	if err != nil {
		return err
	}
	email, _ := cmd.Flags().GetString("email")
	if email == "" && sess.Pending != nil {
		email = sess.Pending.Email
	}
	if email, err = valueOrAsk(newPrompter(cmd), email, "Email"); err != nil {
		return err
	}
	email = credentials.NormalizeEmail(email)

	res, err := newAPIClient().SendCode(cmd.Context(), email)
	if err != nil {
		return err
	}
	pending := session.Pending{Email: email, TempToken: res.TempToken}
	if res.ExpiresIn > 0 {
		pending.ExpiresAt = time.Now().Add(time.Duration(res.ExpiresIn) * time.Second)
	}
	if err := store.SavePending(pending); err != nil {
		return err
	}
	printer.Success("A new code was sent to %s", email)
	return nil
}

func runRegister(cmd *cobra.Command, args []string) error {
	printer := newPrinter(cmd)
	prompt := newPrompter(cmd)

	username, _ := cmd.Flags().GetString("username")
	username, err := valueOrAsk(prompt, username, "Username")
	if err != nil {
		return err
	}
	if err := credentials.ValidateUsername(username); err != nil {
		return &output.CLIError{Summary: err.Error(), ExitCode: output.ExitUsageError}
	}

	email, _ := cmd.Flags().GetString("email")
	if email, err = valueOrAsk(prompt, email, "Email"); err != nil {
		return err
	}

	password, _ := cmd.Flags().GetString("password")
	if password == "" {
		if password, err = prompt.secret("Password"); err != nil {
			return err
		}
	}
	if err := credentials.ValidatePassword(password); err != nil {
		return err
	}

	user, err := newAPIClient().Register(cmd.Context(), api.Registration{
		Username: username,
		Email:    credentials.NormalizeEmail(email),
		Password: password,
	})
	if err != nil {
		if api.HasCode(err, api.CodeEmailTaken) {
			return &output.CLIError{
				Summary:    "this email is already registered",
				Suggestion: "Run 'suprss login' instead",
				ExitCode:   output.ExitAPIError,
			}
		}
		return err
	}
	printer.Success("Account %s created for %s", user.Username, user.Email)
	printer.PrintHints("register")
	return nil
}

func runWhoami(cmd *cobra.Command, args []string) error {
	printer := newPrinter(cmd)
	store := sessionStore()

	user, err := newAPIClient().Me(cmd.Context())
	if err != nil {
		return err
	}

	token, _ := store.Token()
	expiry, hasExpiry := session.Expiry(token)

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		out := struct {
			*api.User
			TokenExpiresAt *time.Time `json:"token_expires_at,omitempty"`
		}{User: user}
		if hasExpiry {
			out.TokenExpiresAt = &expiry
		}
		return printer.JSON(out)
	}

	table := printer.NewTable([]string{"FIELD", "VALUE"})
	table.AddRow([]string{"username", user.Username})
	table.AddRow([]string{"email", user.Email})
	table.AddRow([]string{"email verified", yesNo(user.IsEmailVerified)})
	table.AddRow([]string{"2fa", yesNo(user.Is2FAEnabled)})
	table.AddRow([]string{"theme", user.ThemePreference})
	if hasExpiry {
		table.AddRow([]string{"session expires", expiry.Local().Format(time.RFC1123)})
	}
	table.Render()
	return nil
}

// loginError reports rejected credentials or codes with the server's
// message. Nothing is stored in that case.
func loginError(err error) error {
	var apiErr *api.APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode >= 500 {
		return err
	}
	summary := api.ErrorMessage(err)
	if summary == "" {
		summary = "login rejected"
	}
	return &output.CLIError{
		Summary:  summary,
		Detail:   apiErr.Error(),
		ExitCode: output.ExitAuthError,
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
