package cmd

import (
	"context"
	"errors"
	"net"
	"strings"

	"github.com/ElouanDeriaux/suprss/internal/api"
	"github.com/ElouanDeriaux/suprss/internal/credentials"
	"github.com/ElouanDeriaux/suprss/internal/output"
)

var usagePrefixes = []string{
	"unknown command",
	"unknown flag",
	"unknown shorthand flag",
	"accepts ",
	"requires at least",
	"requires at most",
	"invalid argument",
	"required flag",
	"if any flags in the group",
}

// toCLIError maps any command error onto a CLIError with an exit code.
func toCLIError(err error) *output.CLIError {
	var cliErr *output.CLIError
	if errors.As(err, &cliErr) {
		return cliErr
	}
	e := classifyError(err)
	e.Err = err
	return e
}

func classifyError(err error) *output.CLIError {
	var apiErr *api.APIError
	var netErr net.Error
	msg := err.Error()

	switch {
	case errors.Is(err, context.Canceled):
		return &output.CLIError{Summary: "interrupted", ExitCode: output.ExitGeneral}

	case isTimeout(err):
		return &output.CLIError{
			Summary:    "request timed out",
			Detail:     msg,
			Suggestion: "Increase api.timeout or check that the server is responsive",
			ExitCode:   output.ExitTimeout,
		}

	case errors.Is(err, api.ErrNotLoggedIn):
		return &output.CLIError{
			Summary:    "not logged in",
			Suggestion: "Run 'suprss login' first",
			ExitCode:   output.ExitAuthError,
		}

	case errors.Is(err, api.ErrUnauthorized) && !api.HasCode(err, api.CodeInvalidCredentials):
		return &output.CLIError{
			Summary:    "session expired or revoked",
			Detail:     api.ErrorMessage(err),
			Suggestion: "The local session was cleared. Run 'suprss login' to sign in again",
			ExitCode:   output.ExitAuthError,
		}

	case errors.As(err, &apiErr):
		e := &output.CLIError{
			Summary:  apiSummary(apiErr),
			Detail:   strings.Join(apiErr.Requirements, "; "),
			ExitCode: output.ExitAPIError,
		}
		switch {
		case apiErr.Code == api.CodeInvalidCredentials:
			e.ExitCode = output.ExitAuthError
		case errors.Is(err, api.ErrForbidden):
			e.Suggestion = "Your role on this collection does not allow this action"
		case errors.Is(err, api.ErrNotFound):
			e.Suggestion = "Check the id, or list the parent resource to find it"
		}
		return e

	case errors.Is(err, credentials.ErrWeakPassword):
		return &output.CLIError{
			Summary:  "password does not meet the requirements",
			Detail:   strings.TrimPrefix(msg, credentials.ErrWeakPassword.Error()+": "),
			ExitCode: output.ExitUsageError,
		}

	case errors.As(err, &netErr):
		return &output.CLIError{
			Summary:    "cannot reach the SUPRSS API",
			Detail:     msg,
			Suggestion: "Check api.base_url (or --api-url) and that the server is running",
			ExitCode:   output.ExitAPIError,
		}
	}

	for _, prefix := range usagePrefixes {
		if strings.HasPrefix(msg, prefix) {
			return &output.CLIError{
				Summary:    msg,
				Suggestion: "Run 'suprss --help' for usage",
				ExitCode:   output.ExitUsageError,
			}
		}
	}

	return &output.CLIError{Summary: msg, ExitCode: output.ExitGeneral}
}

func apiSummary(e *api.APIError) string {
	if e.Message != "" {
		return e.Message
	}
	return e.Error()
}
