package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ElouanDeriaux/suprss/internal/output"
)

// parseID parses a positive numeric id argument.
func parseID(what, s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, &output.CLIError{
			Summary:  fmt.Sprintf("invalid %s id: %q", what, s),
			ExitCode: output.ExitUsageError,
		}
	}
	return id, nil
}

// requiredIntFlag reads an int flag that must be set to a positive value.
func requiredIntFlag(cmd *cobra.Command, name string) (int, error) {
	v, _ := cmd.Flags().GetInt(name)
	if v <= 0 {
		return 0, &output.CLIError{
			Summary:    fmt.Sprintf("--%s is required", name),
			Suggestion: fmt.Sprintf("Run '%s --help' for usage", cmd.CommandPath()),
			ExitCode:   output.ExitUsageError,
		}
	}
	return v, nil
}

func wantJSON(cmd *cobra.Command) bool {
	v, _ := cmd.Flags().GetBool("json")
	return v
}

// emptyIfNil keeps JSON output as [] rather than null.
func emptyIfNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
