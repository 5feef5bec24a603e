package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ElouanDeriaux/suprss/internal/api"
	"github.com/ElouanDeriaux/suprss/internal/credentials"
	"github.com/ElouanDeriaux/suprss/internal/output"
)

var collectionsCmd = &cobra.Command{
	Use:     "collections",
	Aliases: []string{"collection", "col"},
	Short:   "Manage collections and who they are shared with",
}

var collectionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List owned and shared collections",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return listCollections(cmd, "collections list", newAPIClient().ListCollections)
	},
}

var collectionsOwnedCmd = &cobra.Command{
	Use:   "owned",
	Short: "List collections you own",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return listCollections(cmd, "collections list", newAPIClient().OwnedCollections)
	},
}

var collectionsSharedCmd = &cobra.Command{
	Use:   "shared",
	Short: "List collections shared with you",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return listCollections(cmd, "collections list", newAPIClient().SharedCollections)
	},
}

var collectionsCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a collection",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		printer := newPrinter(cmd)
		c, err := newAPIClient().CreateCollection(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if wantJSON(cmd) {
			return printer.JSON(c)
		}
		printer.Success("Created collection %q (id %d)", c.Name, c.ID)
		printer.PrintHints("collections create")
		return nil
	},
}

var collectionsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a collection with its feeds, articles and messages",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID("collection", args[0])
		if err != nil {
			return err
		}
		printer := newPrinter(cmd)
		if yes, _ := cmd.Flags().GetBool("yes"); !yes {
			if !newPrompter(cmd).confirm(fmt.Sprintf("Delete collection %d and everything in it?", id)) {
				printer.Info("Cancelled")
				return nil
			}
		}
		msg, err := newAPIClient().DeleteCollection(cmd.Context(), id)
		if err != nil {
			return err
		}
		printer.Success("%s", orDefault(msg, "Collection deleted"))
		return nil
	},
}

var collectionsShareCmd = &cobra.Command{
	Use:   "share <id> <email>",
	Short: "Share a collection with another user",
	Long: `Share a collection. Roles, from least to most privileged: viewer, editor,
admin. Editors can add feeds, admins can also manage members.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID("collection", args[0])
		if err != nil {
			return err
		}
		roleFlag, _ := cmd.Flags().GetString("role")
		role, err := credentials.ParseRole(roleFlag, false)
		if err != nil {
			return &output.CLIError{Summary: err.Error(), ExitCode: output.ExitUsageError}
		}
		printer := newPrinter(cmd)
		email := credentials.NormalizeEmail(args[1])
		msg, err := newAPIClient().ShareCollection(cmd.Context(), id, email, string(role))
		if err != nil {
			return err
		}
		printer.Success("%s", orDefault(msg, fmt.Sprintf("Shared with %s as %s", email, role)))
		printer.PrintHints("collections share")
		return nil
	},
}

var collectionsMembersCmd = &cobra.Command{
	Use:   "members <id>",
	Short: "List the members of a collection",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID("collection", args[0])
		if err != nil {
			return err
		}
		printer := newPrinter(cmd)
		m, err := newAPIClient().Members(cmd.Context(), id)
		if err != nil {
			return err
		}
		if wantJSON(cmd) {
			m.Members = emptyIfNil(m.Members)
			return printer.JSON(m)
		}
		printer.Header(fmt.Sprintf("Members of %s", m.Collection.Name))
		table := printer.NewTable([]string{"ID", "USERNAME", "EMAIL", "ROLE"})
		for _, member := range m.Members {
			role := member.Role
			if member.IsOwner {
				role = string(credentials.RoleOwner)
			}
			table.AddRow([]string{strconv.Itoa(member.ID), member.Username, member.Email, role})
		}
		table.Render()
		return nil
	},
}

var collectionsSetRoleCmd = &cobra.Command{
	Use:   "set-role <collection-id> <user-id> <role>",
	Short: "Change a member's role",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		collectionID, err := parseID("collection", args[0])
		if err != nil {
			return err
		}
		userID, err := parseID("user", args[1])
		if err != nil {
			return err
		}
		role, err := credentials.ParseRole(args[2], false)
		if err != nil {
			return &output.CLIError{Summary: err.Error(), ExitCode: output.ExitUsageError}
		}
		printer := newPrinter(cmd)
		msg, err := newAPIClient().UpdateMemberRole(cmd.Context(), collectionID, userID, string(role))
		if err != nil {
			return err
		}
		printer.Success("%s", orDefault(msg, "Role updated"))
		return nil
	},
}

var collectionsRemoveMemberCmd = &cobra.Command{
	Use:   "remove-member <collection-id> <user-id>",
	Short: "Revoke a member's access",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		collectionID, err := parseID("collection", args[0])
		if err != nil {
			return err
		}
		userID, err := parseID("user", args[1])
		if err != nil {
			return err
		}
		printer := newPrinter(cmd)
		msg, err := newAPIClient().RemoveMember(cmd.Context(), collectionID, userID)
		if err != nil {
			return err
		}
		printer.Success("%s", orDefault(msg, "Member removed"))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(collectionsCmd)
	collectionsCmd.AddCommand(
		collectionsListCmd,
		collectionsOwnedCmd,
		collectionsSharedCmd,
		collectionsCreateCmd,
		collectionsDeleteCmd,
		collectionsShareCmd,
		collectionsMembersCmd,
		collectionsSetRoleCmd,
		collectionsRemoveMemberCmd,
	)

	for _, c := range []*cobra.Command{collectionsListCmd, collectionsOwnedCmd, collectionsSharedCmd, collectionsCreateCmd, collectionsMembersCmd} {
		c.Flags().Bool("json", false, "output as JSON")
	}
	collectionsDeleteCmd.Flags().BoolP("yes", "y", false, "do not ask for confirmation")
	collectionsShareCmd.Flags().String("role", string(credentials.RoleViewer), "role to grant (viewer, editor, admin)")
}

func listCollections(cmd *cobra.Command, hint string, list func(context.Context) ([]api.Collection, error)) error {
	printer := newPrinter(cmd)
	collections, err := list(cmd.Context())
	if err != nil {
		return err
	}
	if wantJSON(cmd) {
		return printer.JSON(emptyIfNil(collections))
	}
	if len(collections) == 0 {
		printer.Info("No collections yet. Create one with: suprss collections create <name>")
		return nil
	}

	var me int
	if user, err := newAPIClient().Me(cmd.Context()); err == nil {
		me = user.ID
	}

	table := printer.NewTable([]string{"ID", "NAME", "ACCESS"})
	for _, c := range collections {
		access := "shared"
		if c.UserID == me {
			access = "owner"
		}
		table.AddRow([]string{strconv.Itoa(c.ID), c.Name, access})
	}
	table.Render()
	printer.PrintHints(hint)
	return nil
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
