package main

import (
	"flag"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/smhrd/smartsearch/internal/api"
	"github.com/smhrd/smartsearch/internal/dateparse"
	"github.com/smhrd/smartsearch/internal/serverdb"
)

const adminUsage = `Usage: smartsearch-server admin <command> [flags]

Commands:
  users        List registered users
  create-user  Register a user without the HTTP API
  events       Show recent auth events`

// runAdmin dispatches an admin subcommand and returns the exit code
func runAdmin(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(stderr, adminUsage)
		return 1
	}

	var err error
	switch args[0] {
	case "users":
		err = runAdminUsers(args[1:], stdout)
	case "create-user":
		err = runAdminCreateUser(args[1:], stdout)
	case "events":
		err = runAdminEvents(args[1:], stdout)
	default:
		fmt.Fprintf(stderr, "unknown admin command: %s\n", args[0])
		fmt.Fprintln(stderr, adminUsage)
		return 1
	}
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

func openDB(dbPath string) (*serverdb.ServerDB, error) {
	cfg := api.LoadConfig()
	if dbPath == "" {
		dbPath = cfg.DBPath
	}
	return serverdb.OpenWithDriver(cfg.DBDriver, dbPath)
}

func runAdminUsers(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("admin users", flag.ContinueOnError)
	dbPath := fs.String("db", "", "path to the server database (default: SS_DB_PATH)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	store, err := openDB(*dbPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer store.Close()

	users, err := store.ListUsers()
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "EMAIL\tNAME\tDEPART\tJOINED")
	for _, u := range users {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", u.Email, u.Name, u.Depart, u.JoinedAt.Format(time.DateOnly))
	}
	return tw.Flush()
}

func runAdminCreateUser(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("admin create-user", flag.ContinueOnError)
	dbPath := fs.String("db", "", "path to the server database (default: SS_DB_PATH)")
	name := fs.String("name", "", "display name")
	email := fs.String("email", "", "user email address")
	password := fs.String("password", "", "initial password")
	depart := fs.String("depart", "", "department")
	if err := fs.Parse(args); err != nil {
		return err
	}

	store, err := openDB(*dbPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer store.Close()

	u, err := store.CreateUser(serverdb.NewUser{
		Name:     *name,
		Email:    *email,
		Password: *password,
		Depart:   *depart,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "created %s (%s)\n", u.Email, u.ID)
	return nil
}

func runAdminEvents(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("admin events", flag.ContinueOnError)
	dbPath := fs.String("db", "", "path to the server database (default: SS_DB_PATH)")
	eventType := fs.String("type", "", "event type filter (registered, login_ok, login_failed, register_failed)")
	email := fs.String("email", "", "email filter")
	since := fs.String("since", "", "only newer events: 24h, 7d, yesterday or 2024-05-01")
	limit := fs.Int("limit", 50, "maximum rows")
	if err := fs.Parse(args); err != nil {
		return err
	}

	store, err := openDB(*dbPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer store.Close()

	f := serverdb.EventFilter{Limit: *limit}
	if *since != "" {
		from, err := dateparse.ParseSince(*since)
		if err != nil {
			return err
		}
		f.From = from
	}
	events, err := store.QueryAuthEvents(*eventType, strings.ToLower(strings.TrimSpace(*email)), f)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tTYPE\tEMAIL\tIP")
	for _, e := range events {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.CreatedAt, e.EventType, e.Email, e.IP)
	}
	return tw.Flush()
}
