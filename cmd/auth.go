package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/smhrd/smartsearch/internal/authclient"
	"github.com/smhrd/smartsearch/internal/config"
	"github.com/smhrd/smartsearch/internal/output"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// stdin is read for prompts; tests replace it
var stdin io.Reader = os.Stdin

var registerCmd = &cobra.Command{
	Use:     "register",
	Aliases: []string{"signup"},
	Short:   "Create an account on the server",
	GroupID: "account",
	RunE: func(cmd *cobra.Command, args []string) error {
		baseDir := getBaseDir()
		in := bufio.NewReader(stdin)

		name, _ := cmd.Flags().GetString("name")
		email, _ := cmd.Flags().GetString("email")
		var err error
		if name == "" {
			if name, err = prompt(in, "Name: "); err != nil {
				return err
			}
		}
		if email == "" {
			if email, err = prompt(in, "Email: "); err != nil {
				return err
			}
		}
		password, err := promptPassword(in, "Password: ")
		if err != nil {
			return err
		}
		confirm, err := promptPassword(in, "Confirm password: ")
		if err != nil {
			return err
		}

		client, err := newAuthClient(baseDir)
		if err != nil {
			output.Error("%v", err)
			return err
		}
		req := authclient.RegisterRequest{Name: name, Email: email, Password: password}
		sess, err := register(cmd.Context(), client, baseDir, req, confirm)
		if err != nil {
			output.Error("%s", authclient.Message(err))
			return err
		}
		output.Success("Registered and signed in as %s", sess.User.Name)
		return nil
	},
}

var loginCmd = &cobra.Command{
	Use:     "login",
	Short:   "Sign in and remember the session",
	GroupID: "account",
	RunE: func(cmd *cobra.Command, args []string) error {
		baseDir := getBaseDir()
		in := bufio.NewReader(stdin)

		email, _ := cmd.Flags().GetString("email")
		if email == "" {
			cfg, err := config.Load(baseDir)
			if err != nil {
				output.Error("%v", err)
				return err
			}
			p := "Email: "
			if cfg.LastEmail != "" {
				p = fmt.Sprintf("Email [%s]: ", cfg.LastEmail)
			}
			if email, err = prompt(in, p); err != nil {
				return err
			}
			if email == "" {
				email = cfg.LastEmail
			}
		}
		password, err := promptPassword(in, "Password: ")
		if err != nil {
			return err
		}

		client, err := newAuthClient(baseDir)
		if err != nil {
			output.Error("%v", err)
			return err
		}
		sess, err := login(cmd.Context(), client, baseDir, email, password)
		if err != nil {
			output.Error("%s", authclient.Message(err))
			return err
		}
		output.Success("Signed in as %s", sess.User.Name)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:     "logout",
	Short:   "Forget the saved session",
	GroupID: "account",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.SetSession(getBaseDir(), "", ""); err != nil {
			output.Error("%v", err)
			return err
		}
		fmt.Println("Logged out.")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:     "whoami",
	Short:   "Show the signed-in account",
	GroupID: "account",
	RunE: func(cmd *cobra.Command, args []string) error {
		baseDir := getBaseDir()
		cfg, err := config.Load(baseDir)
		if err != nil {
			output.Error("%v", err)
			return err
		}
		if cfg.AuthToken == "" {
			fmt.Println("Not logged in.")
			return nil
		}
		client, err := newAuthClient(baseDir)
		if err != nil {
			output.Error("%v", err)
			return err
		}
		u, err := client.Me(cmd.Context(), cfg.AuthToken)
		if err != nil {
			output.Error("%s", authclient.Message(err))
			return err
		}
		if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
			return output.JSON(u)
		}
		fmt.Printf("Name:   %s\n", u.Name)
		fmt.Printf("Email:  %s\n", u.Email)
		fmt.Printf("Server: %s\n", client.BaseURL)
		return nil
	},
}

func newAuthClient(baseDir string) (*authclient.Client, error) {
	url, err := config.ServerURL(baseDir)
	if err != nil {
		return nil, err
	}
	return authclient.New(url), nil
}

// register creates the account and signs in with it
func register(ctx context.Context, c *authclient.Client, baseDir string, req authclient.RegisterRequest, confirm string) (*authclient.Session, error) {
	if err := c.RegisterConfirmed(ctx, req, confirm); err != nil {
		return nil, err
	}
	return login(ctx, c, baseDir, req.Email, req.Password)
}

// login signs in and saves the session to the config
func login(ctx context.Context, c *authclient.Client, baseDir, email, password string) (*authclient.Session, error) {
	sess, err := c.Login(ctx, strings.TrimSpace(email), password)
	if err != nil {
		return nil, err
	}
	if err := config.SetSession(baseDir, sess.User.Email, sess.Token); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return sess, nil
}

func prompt(in *bufio.Reader, label string) (string, error) {
	fmt.Print(label)
	line, err := in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// promptPassword reads without echo on a terminal and falls back to a plain
// line otherwise
func promptPassword(in *bufio.Reader, label string) (string, error) {
	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Print(label)
		pw, err := term.ReadPassword(int(f.Fd()))
		fmt.Println()
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(pw), nil
	}
	line, err := prompt(in, label)
	if err != nil {
		return "", err
	}
	return line, nil
}

func init() {
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)

	registerCmd.Flags().String("name", "", "Display name")
	registerCmd.Flags().String("email", "", "Email address")
	loginCmd.Flags().String("email", "", "Email address")
	whoamiCmd.Flags().Bool("json", false, "JSON output")
}
