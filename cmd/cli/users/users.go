package users

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/crucial707/secure-notes/cmd/cli/client"
	"github.com/crucial707/secure-notes/cmd/cli/config"
	"github.com/crucial707/secure-notes/cmd/cli/output"
	"github.com/crucial707/secure-notes/cmd/cli/prompt"
	"github.com/crucial707/secure-notes/internal/handlers"
)

// ==========================
// CLI Command Init
// ==========================

// Init registers account commands on the root command.
func Init(rootCmd *cobra.Command) {
	rootCmd.AddCommand(signupCmd(), loginCmd(), logoutCmd(), meCmd(), activityCmd())
}

type credentialFlags struct {
	username string
	password string
}

func (f *credentialFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.username, "username", "u", "", "username (prompted when omitted)")
	cmd.Flags().StringVarP(&f.password, "password", "p", "", "password (prompted when omitted)")
}

// resolve prompts for whatever was not given as a flag.
func (f *credentialFlags) resolve(cmd *cobra.Command) (string, string, error) {
	p := prompt.New(cmd.InOrStdin(), cmd.ErrOrStderr())
	username, password := f.username, f.password
	var err error
	if username == "" {
		if username, err = p.Line("Username"); err != nil {
			return "", "", err
		}
	}
	if password == "" {
		if password, err = p.Password(); err != nil {
			return "", "", err
		}
	}
	if username == "" || password == "" {
		return "", "", fmt.Errorf("username and password are required")
	}
	return username, password, nil
}

// ==========================
// Signup
// ==========================
func signupCmd() *cobra.Command {
	var creds credentialFlags
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create a new account",
		RunE: func(cmd *cobra.Command, args []string) error {
			username, password, err := creds.resolve(cmd)
			if err != nil {
				return err
			}
			var user handlers.UserResponse
			err = client.New().Do(ctxOf(cmd), http.MethodPost, "/users",
				map[string]string{"username": username, "password": password}, &user)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Account %q created (id %d). You can now log in.\n", user.Username, user.ID)
			return nil
		},
	}
	creds.bind(cmd)
	return cmd
}

// ==========================
// Login
// ==========================
func loginCmd() *cobra.Command {
	var creds credentialFlags
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and save the access token locally",
		RunE: func(cmd *cobra.Command, args []string) error {
			username, password, err := creds.resolve(cmd)
			if err != nil {
				return err
			}
			var tok handlers.TokenResponse
			form := url.Values{"username": {username}, "password": {password}}
			if err := client.New().PostForm(ctxOf(cmd), "/users/token", form, &tok); err != nil {
				return err
			}
			if tok.AccessToken == "" {
				return fmt.Errorf("login succeeded but no token returned")
			}
			if err := config.SaveToken(tok.AccessToken); err != nil {
				return fmt.Errorf("save token: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Login successful. Token stored locally.")
			return nil
		},
	}
	creds.bind(cmd)
	return cmd
}

// ==========================
// Logout
// ==========================
func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the locally saved token",
		Long:  "Remove the locally saved token. The token itself stays valid until it expires.",
		RunE: func(cmd *cobra.Command, args []string) error {
			removed, err := config.DeleteToken()
			if err != nil {
				return err
			}
			if !removed {
				fmt.Fprintln(cmd.OutOrStdout(), "No user logged in.")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out successfully.")
			return nil
		},
	}
}

// ==========================
// Current User
// ==========================
func meCmd() *cobra.Command {
	var jsonOut bool
	cmd := &cobra.Command{
		Use:   "me",
		Short: "Show the logged in user and their notes",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := client.NewAuthenticated()
			if err != nil {
				return err
			}
			var user handlers.UserResponse
			if err := c.Do(ctxOf(cmd), http.MethodGet, "/users/me", nil, &user); err != nil {
				return err
			}
			if jsonOut {
				return output.PrintJSON(cmd.OutOrStdout(), user)
			}
			output.RenderTable(cmd.OutOrStdout(),
				[]string{"ID", "Username", "Notes"},
				[][]interface{}{{user.ID, user.Username, len(user.Notes)}})
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "print JSON instead of a table")
	return cmd
}

// ==========================
// Activity (the caller's audit trail)
// ==========================
func activityCmd() *cobra.Command {
	var limit int
	var jsonOut bool
	cmd := &cobra.Command{
		Use:   "activity",
		Short: "Show recent note activity on your account, including refused access",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := client.NewAuthenticated()
			if err != nil {
				return err
			}
			var entries []handlers.AuditEntryResponse
			path := "/users/me/audit?limit=" + strconv.Itoa(limit)
			if err := c.Do(ctxOf(cmd), http.MethodGet, path, nil, &entries); err != nil {
				return err
			}
			if jsonOut {
				return output.PrintJSON(cmd.OutOrStdout(), entries)
			}
			rows := make([][]interface{}, 0, len(entries))
			for _, e := range entries {
				rows = append(rows, []interface{}{e.CreatedAt.Local().Format(time.DateTime), e.Action, e.NoteID})
			}
			output.RenderTable(cmd.OutOrStdout(), []string{"When", "Action", "Note"}, rows)
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of entries (at most 100)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "print JSON instead of a table")
	return cmd
}

func ctxOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
