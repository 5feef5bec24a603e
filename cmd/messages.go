package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ElouanDeriaux/suprss/internal/api"
	"github.com/ElouanDeriaux/suprss/internal/output"
)

const messageTimeLayout = "01-02 15:04"

var messagesCmd = &cobra.Command{
	Use:     "messages",
	Aliases: []string{"chat", "msg"},
	Short:   "Chat with the members of a collection",
}

var messagesListCmd = &cobra.Command{
	Use:   "list <collection-id>",
	Short: "Show a collection's messages and comments",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		collectionID, err := parseID("collection", args[0])
		if err != nil {
			return err
		}
		p, all, err := pageFlags(cmd)
		if err != nil {
			return err
		}
		printer := newPrinter(cmd)
		client := newAPIClient()
		messages, err := collectPages(p, all, func(limit, offset int) ([]api.Message, error) {
			return client.ListMessages(cmd.Context(), collectionID, limit, offset)
		})
		if err != nil {
			return err
		}
		if wantJSON(cmd) {
			return printer.JSON(emptyIfNil(messages))
		}
		if len(messages) == 0 {
			printer.Info("No messages yet. Start with: suprss messages send %d <text>", collectionID)
			return nil
		}
		printMessages(printer, messages)
		printPageFooter(printer, p, all, fmt.Sprintf("suprss messages list %d", collectionID))
		printer.PrintHints("messages list")
		return nil
	},
}

var messagesSendCmd = &cobra.Command{
	Use:   "send <collection-id> <text>...",
	Short: "Post a message, or a comment with --article",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		collectionID, err := parseID("collection", args[0])
		if err != nil {
			return err
		}
		text := strings.TrimSpace(strings.Join(args[1:], " "))
		if text == "" {
			return &output.CLIError{Summary: "the message is empty", ExitCode: output.ExitUsageError}
		}
		m := api.NewMessage{Message: text, MessageType: api.MessageTypeMessage}
		if articleID, _ := cmd.Flags().GetInt("article"); articleID > 0 {
			m.MessageType = api.MessageTypeComment
			m.ArticleID = &articleID
		}
		printer := newPrinter(cmd)
		id, err := newAPIClient().SendMessage(cmd.Context(), collectionID, m)
		if err != nil {
			return err
		}
		printer.Success("Sent (id %d)", id)
		return nil
	},
}

// messageAction builds the delete/read/unread commands.
func messageAction(use, short, done string, call func(c *api.Client, cmd *cobra.Command, id int) error) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <message-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("message", args[0])
			if err != nil {
				return err
			}
			printer := newPrinter(cmd)
			if err := call(newAPIClient(), cmd, id); err != nil {
				return err
			}
			printer.Success("Message %d %s", id, done)
			return nil
		},
	}
}

var (
	messagesDeleteCmd = messageAction("delete", "Delete one of your messages", "deleted", func(c *api.Client, cmd *cobra.Command, id int) error {
		return c.DeleteMessage(cmd.Context(), id)
	})
	messagesReadCmd = messageAction("read", "Mark a message read", "marked read", func(c *api.Client, cmd *cobra.Command, id int) error {
		return c.MarkMessageRead(cmd.Context(), id)
	})
	messagesUnreadCmd = messageAction("unread", "Mark a message unread", "marked unread", func(c *api.Client, cmd *cobra.Command, id int) error {
		return c.MarkMessageUnread(cmd.Context(), id)
	})
)

var messagesCountCmd = &cobra.Command{
	Use:   "count <collection-id>",
	Short: "Count unread messages in a collection",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		collectionID, err := parseID("collection", args[0])
		if err != nil {
			return err
		}
		printer := newPrinter(cmd)
		n, err := newAPIClient().CollectionUnreadCount(cmd.Context(), collectionID)
		if err != nil {
			return err
		}
		if wantJSON(cmd) {
			return printer.JSON(map[string]int{"collection_id": collectionID, "unread_count": n})
		}
		printer.Print("%d unread", n)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(messagesCmd)
	messagesCmd.AddCommand(messagesListCmd, messagesSendCmd, messagesDeleteCmd, messagesReadCmd, messagesUnreadCmd, messagesCountCmd)

	addPageFlags(messagesListCmd)
	messagesListCmd.Flags().Bool("json", false, "output as JSON")
	messagesSendCmd.Flags().Int("article", 0, "comment on this article")
	messagesCountCmd.Flags().Bool("json", false, "output as JSON")
}

// printMessages renders chat messages and comments in posting order.
func printMessages(printer *output.Printer, messages []api.Message) {
	table := printer.NewTable([]string{"ID", "WHEN", "FROM", "", "MESSAGE"}).Limit(4, previewWidth)
	for _, m := range messages {
		when := ""
		if !m.CreatedAt.IsZero() {
			when = m.CreatedAt.Local().Format(messageTimeLayout)
		}
		text := m.Message
		if m.MessageType == api.MessageTypeComment && m.ArticleTitle != nil {
			text = fmt.Sprintf("on %q: %s", *m.ArticleTitle, text)
		}
		table.AddRow([]string{strconv.Itoa(m.ID), when, m.Username, printer.Flag(!m.Read, "•"), text})
	}
	table.Render()
}
