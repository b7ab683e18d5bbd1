package cmd

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mhr3/skipscan/internal/chat"
	"github.com/mhr3/skipscan/internal/presence"
	"github.com/mhr3/skipscan/internal/store"
	"github.com/spf13/cobra"
)

const timeLayout = "2006-01-02 15:04"

func (a *app) userCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "user",
		Short: "Manage chat users",
	}
	c.AddCommand(&cobra.Command{
		Use:   "add <name>",
		Short: "Register a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, _, err := a.openStore(cmd)
			if err != nil {
				return err
			}
			defer s.Close()
			u, err := s.CreateUser(args[0], a.env.now())
			if err != nil {
				return err
			}
			if _, err := s.EnsureProfile(u.Username); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added %s (#%d)\n", u.Username, u.ID)
			return nil
		},
	})
	c.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List users and whether they are online",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, cfg, err := a.openStore(cmd)
			if err != nil {
				return err
			}
			defer s.Close()
			users, err := s.ListUsers("")
			if err != nil {
				return err
			}
			tr := a.tracker(s, cfg)
			for _, u := range users {
				online, err := tr.Online(u.Username)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", u.Username, statusWord(online))
			}
			return nil
		},
	})
	return c
}

func (a *app) sendCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "send <from> <to> <text ...>",
		Short: "Send a message",
		Args:  cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, cfg, err := a.openStore(cmd)
			if err != nil {
				return err
			}
			defer s.Close()
			m, err := s.AddMessage(store.Message{
				Sender:    args[0],
				Receiver:  args[1],
				Content:   strings.Join(args[2:], " "),
				Timestamp: a.env.now(),
			})
			if err != nil {
				return err
			}
			if err := a.tracker(s, cfg).Touch(m.Sender); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "sent #%d\n", m.ID)
			return nil
		},
	}
}

func (a *app) roomCmd() *cobra.Command {
	var query string
	c := &cobra.Command{
		Use:   "room <me> <peer>",
		Short: "Show the conversation between two users",
		Long:  "Shows the conversation and contact list. With --search only messages containing the query (ignoring case) are shown, and the exit status is 1 when none do.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, cfg, err := a.openStore(cmd)
			if err != nil {
				return err
			}
			defer s.Close()
			tr := a.tracker(s, cfg)
			if err := tr.Touch(args[0]); err != nil {
				return err
			}
			view, err := chat.Room(s, args[0], args[1], query)
			if err != nil {
				return err
			}
			online, err := tr.Online(view.Peer.Username)
			if err != nil {
				return err
			}
			printRoom(cmd.OutOrStdout(), view, online)
			if query != "" && len(view.Messages) == 0 {
				return exitError{1}
			}
			return nil
		},
	}
	c.Flags().StringVarP(&query, "search", "s", "", "Only show messages containing this text")
	return c
}

func printRoom(w io.Writer, view chat.RoomView, online bool) {
	fmt.Fprintf(w, "== %s (%s) ==\n", view.Peer.Username, statusWord(online))
	f := chat.NewFilter(view.Query)
	for _, m := range view.Messages {
		content := m.Content
		if view.Query != "" {
			content = highlight(content, f.Highlights(content), len(chat.Fold(view.Query)))
		}
		fmt.Fprintf(w, "[%s] %s: %s\n", m.Timestamp.Format(timeLayout), m.Sender, content)
	}
	fmt.Fprintln(w, "-- contacts --")
	for _, c := range view.Contacts {
		if c.HasLast {
			fmt.Fprintf(w, "%s\t%s\t%s\n", c.User.Username, c.Last.Timestamp.Format(timeLayout), c.Last.Content)
		} else {
			fmt.Fprintf(w, "%s\t-\n", c.User.Username)
		}
	}
}

// highlight brackets every matched span of content. Overlapping spans are
// merged; adjacent ones are not. offs index the folded content, so content
// where folding moves any rune is returned as is.
func highlight(content string, offs []int, n int) string {
	if len(offs) == 0 || n == 0 || !chat.FoldKeepsOffsets(content) {
		return content
	}
	var b strings.Builder
	pos := 0
	for i := 0; i < len(offs); {
		start, end := offs[i], offs[i]+n
		for i++; i < len(offs) && offs[i] < end; i++ {
			end = offs[i] + n
		}
		b.WriteString(content[pos:start])
		b.WriteByte('[')
		b.WriteString(content[start:end])
		b.WriteByte(']')
		pos = end
	}
	b.WriteString(content[pos:])
	return b.String()
}

func (a *app) seenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seen <user>",
		Short: "Record activity for a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, cfg, err := a.openStore(cmd)
			if err != nil {
				return err
			}
			defer s.Close()
			return a.tracker(s, cfg).Touch(args[0])
		},
	}
}

func (a *app) statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status <user>",
		Short: "Show whether a user is online",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, cfg, err := a.openStore(cmd)
			if err != nil {
				return err
			}
			defer s.Close()
			if _, err := s.GetUser(args[0]); err != nil {
				return err
			}
			tr := a.tracker(s, cfg)
			seen, err := tr.LastSeen(args[0])
			if err != nil {
				return err
			}
			online := presence.IsOnline(seen, a.env.now(), cfg.OnlineWindow)
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", args[0], statusWord(online), formatSeen(seen))
			return nil
		},
	}
}

func statusWord(online bool) string {
	if online {
		return "online"
	}
	return "offline"
}

func formatSeen(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return t.Format(timeLayout)
}
