package notes

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/crucial707/secure-notes/cmd/cli/client"
	"github.com/crucial707/secure-notes/cmd/cli/output"
	"github.com/crucial707/secure-notes/internal/handlers"
)

// ==========================
// CLI Command Init
// ==========================

// Init registers the notes command group on the root command.
func Init(rootCmd *cobra.Command) {
	rootCmd.AddCommand(notesCmd())
}

func notesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notes",
		Short: "Manage your notes",
	}
	cmd.AddCommand(listCmd(), createCmd(), getCmd(), updateCmd(), deleteCmd())
	return cmd
}

// ==========================
// List
// ==========================
func listCmd() *cobra.Command {
	var skip, limit int
	var jsonOut bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List your notes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := client.NewAuthenticated()
			if err != nil {
				return err
			}
			q := url.Values{}
			q.Set("skip", strconv.Itoa(skip))
			q.Set("limit", strconv.Itoa(limit))

			var notes []handlers.NoteResponse
			if err := c.Do(ctxOf(cmd), http.MethodGet, "/notes?"+q.Encode(), nil, &notes); err != nil {
				return err
			}
			if jsonOut {
				return output.PrintJSON(cmd.OutOrStdout(), notes)
			}
			renderNotes(cmd, notes)
			return nil
		},
	}
	cmd.Flags().IntVar(&skip, "skip", 0, "number of notes to skip")
	cmd.Flags().IntVar(&limit, "limit", 100, "maximum number of notes to return (at most 100)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "print JSON instead of a table")
	return cmd
}

// ==========================
// Create
// ==========================
func createCmd() *cobra.Command {
	var title, content string
	var jsonOut bool
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a note",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := client.NewAuthenticated()
			if err != nil {
				return err
			}
			payload := map[string]interface{}{"title": title}
			if cmd.Flags().Changed("content") {
				payload["content"] = content
			}
			var note handlers.NoteResponse
			if err := c.Do(ctxOf(cmd), http.MethodPost, "/notes", payload, &note); err != nil {
				return err
			}
			return printNote(cmd, note, jsonOut)
		},
	}
	cmd.Flags().StringVarP(&title, "title", "t", "", "note title")
	cmd.Flags().StringVarP(&content, "content", "c", "", "note content")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "print JSON instead of a table")
	cmd.MarkFlagRequired("title")
	return cmd
}

// ==========================
// Get
// ==========================
func getCmd() *cobra.Command {
	var jsonOut bool
	cmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Show one note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := noteID(args[0])
			if err != nil {
				return err
			}
			c, err := client.NewAuthenticated()
			if err != nil {
				return err
			}
			var note handlers.NoteResponse
			if err := c.Do(ctxOf(cmd), http.MethodGet, "/notes/"+id, nil, &note); err != nil {
				return err
			}
			return printNote(cmd, note, jsonOut)
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "print JSON instead of a table")
	return cmd
}

// ==========================
// Update (only the flags given are sent)
// ==========================
func updateCmd() *cobra.Command {
	var title, content string
	var clearContent, jsonOut bool
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change a note's title and/or content",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := noteID(args[0])
			if err != nil {
				return err
			}
			payload := map[string]interface{}{}
			if cmd.Flags().Changed("title") {
				payload["title"] = title
			}
			switch {
			case clearContent && cmd.Flags().Changed("content"):
				return fmt.Errorf("--content and --clear-content are mutually exclusive")
			case clearContent:
				payload["content"] = nil
			case cmd.Flags().Changed("content"):
				payload["content"] = content
			}
			if len(payload) == 0 {
				return fmt.Errorf("nothing to update; pass --title, --content or --clear-content")
			}

			c, err := client.NewAuthenticated()
			if err != nil {
				return err
			}
			var note handlers.NoteResponse
			if err := c.Do(ctxOf(cmd), http.MethodPut, "/notes/"+id, payload, &note); err != nil {
				return err
			}
			return printNote(cmd, note, jsonOut)
		},
	}
	cmd.Flags().StringVarP(&title, "title", "t", "", "new title")
	cmd.Flags().StringVarP(&content, "content", "c", "", "new content")
	cmd.Flags().BoolVar(&clearContent, "clear-content", false, "remove the note's content")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "print JSON instead of a table")
	return cmd
}

// ==========================
// Delete
// ==========================
func deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := noteID(args[0])
			if err != nil {
				return err
			}
			c, err := client.NewAuthenticated()
			if err != nil {
				return err
			}
			if err := c.Do(ctxOf(cmd), http.MethodDelete, "/notes/"+id, nil, nil); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Note %s deleted.\n", id)
			return nil
		},
	}
}

func noteID(arg string) (string, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		return "", fmt.Errorf("invalid note id %q", arg)
	}
	return strconv.Itoa(id), nil
}

func printNote(cmd *cobra.Command, note handlers.NoteResponse, jsonOut bool) error {
	if jsonOut {
		return output.PrintJSON(cmd.OutOrStdout(), note)
	}
	renderNotes(cmd, []handlers.NoteResponse{note})
	return nil
}

func renderNotes(cmd *cobra.Command, notes []handlers.NoteResponse) {
	rows := make([][]interface{}, 0, len(notes))
	for _, n := range notes {
		content := ""
		if n.Content != nil {
			content = output.Truncate(*n.Content, 48)
		}
		rows = append(rows, []interface{}{n.ID, n.Title, content})
	}
	output.RenderTable(cmd.OutOrStdout(), []string{"ID", "Title", "Content"}, rows)
}

func ctxOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
