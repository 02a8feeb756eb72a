package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/smhrd/smartsearch/internal/authclient"
	"github.com/smhrd/smartsearch/internal/config"
	"github.com/smhrd/smartsearch/internal/conversation"
	"github.com/smhrd/smartsearch/internal/models"
	"github.com/smhrd/smartsearch/internal/output"
	"github.com/smhrd/smartsearch/pkg/chat"
	"github.com/smhrd/smartsearch/pkg/chat/keymap"
	"github.com/spf13/cobra"
)

// logFile receives slog output while the TUI owns the terminal
const logFile = ".smartsearch/smartsearch.log"

// restoreTimeout bounds the saved-session check at startup
const restoreTimeout = 5 * time.Second

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Open the interactive search assistant",
	Long: `Launch the full-screen assistant: sign in, pick folders in the explorer
and ask for files in plain words.

Press F1 inside the app for the guide and the key bindings.`,
	GroupID: "search",
	RunE: func(cmd *cobra.Command, args []string) error {
		baseDir := getBaseDir()

		closeLog, err := redirectLog(baseDir)
		if err != nil {
			output.Warning("logging disabled: %v", err)
		} else {
			defer closeLog()
		}

		cfg, err := config.Load(baseDir)
		if err != nil {
			output.Error("%v", err)
			return err
		}
		w, err := openWorkspace(baseDir)
		if err != nil {
			output.Error("%v", err)
			return err
		}
		defer w.Close()

		km, err := keymap.Load(baseDir)
		if err != nil {
			slog.Warn("keymap overrides ignored", "err", err)
		}
		catalogPath, _ := config.CatalogPath(baseDir)

		opts := chat.Options{
			Catalog:     w.catalog,
			Store:       w.db,
			History:     w.db,
			Keymap:      km,
			LastEmail:   cfg.LastEmail,
			Onboarded:   cfg.OnboardingComplete,
			CatalogPath: catalogPath,
			Watch:       cfg.WatchCatalog,
			Version:     versionStr,
			OnSession: func(s *authclient.Session) {
				email, token := "", ""
				if s != nil {
					email, token = s.User.Email, s.Token
				}
				if err := config.SetSession(baseDir, email, token); err != nil {
					slog.Warn("save session", "err", err)
				}
			},
			OnOnboarded: func() {
				if err := config.SetOnboardingComplete(baseDir, true); err != nil {
					slog.Warn("save onboarding", "err", err)
				}
			},
		}
		opts.Remember, _ = cmd.Flags().GetBool("remember")

		if offline, _ := cmd.Flags().GetBool("offline"); !offline {
			client, err := newAuthClient(baseDir)
			if err != nil {
				output.Error("%v", err)
				return err
			}
			opts.Auth = client
			opts.Session = restoreSession(cmd.Context(), client, cfg)
		}

		model := chat.NewModel(opts)
		p := tea.NewProgram(model, tea.WithAltScreen())
		final, err := p.Run()
		if m, ok := final.(chat.Model); ok {
			m.Close()
		}
		if err != nil {
			return fmt.Errorf("error running chat: %w", err)
		}
		return nil
	},
}

// restoreSession turns the saved token back into a session. Any failure
// means signing in again.
func restoreSession(ctx context.Context, c *authclient.Client, cfg *models.Config) *authclient.Session {
	if cfg.AuthToken == "" {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, restoreTimeout)
	defer cancel()
	u, err := c.Me(ctx, cfg.AuthToken)
	if err != nil {
		slog.Info("saved session not restored", "err", err)
		return nil
	}
	return &authclient.Session{User: *u, Token: cfg.AuthToken}
}

// redirectLog sends slog to the workspace log file
func redirectLog(baseDir string) (func(), error) {
	path := filepath.Join(baseDir, logFile)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, err
	}
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelInfo})))
	return func() {
		slog.SetDefault(prev)
		f.Close()
	}, nil
}

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask the assistant once and print the answer",
	Long: `Send one message to the assistant without opening the app. The answer
is scoped to the folders selected with "smartsearch select".`,
	GroupID: "search",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := openWorkspace(getBaseDir())
		if err != nil {
			output.Error("%v", err)
			return err
		}
		defer w.Close()

		sess := conversation.NewSession(w.files, w.drive, conversation.WithHistory(w.db))
		reply, ok := sess.Send(strings.Join(args, " "))
		if !ok {
			err := fmt.Errorf("empty question")
			output.Error("%v", err)
			return err
		}

		if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
			return output.JSON(reply)
		}
		fmt.Println(output.FormatMessage(reply))
		for _, f := range reply.Files {
			fmt.Println(output.IndentString(output.FormatFileShort(f, 0), 2))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(askCmd)

	chatCmd.Flags().Bool("offline", false, "Sign in locally without the account server")
	chatCmd.Flags().Bool("remember", true, "Skip onboarding after logging out and back in")
	askCmd.Flags().Bool("json", false, "JSON output")
}
