// Command keygatectl administers a gate service database directly: issuing
// and deactivating invitation keys and promoting accounts to admin. It opens
// the SQLite file itself, so run it on the host that owns the database.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/aussiebroadwan/keygate/internal/gate/service"
	"github.com/aussiebroadwan/keygate/internal/gate/store"
	"github.com/aussiebroadwan/keygate/internal/gate/store/drivers/sqlite"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "create":
		err = runCreate(os.Args[2:])
	case "list":
		err = runList(os.Args[2:])
	case "deactivate":
		err = runDeactivate(os.Args[2:])
	case "promote":
		err = runPromote(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "keygatectl: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: keygatectl <command> [flags]

Commands:
  create      issue a new invitation key
  list        list all invitation keys
  deactivate  deactivate an invitation key by ID
  promote     grant admin to an account by email

Run keygatectl <command> -h for command flags.
`)
}

// openStore opens the database named by -db (or KEYGATE_DATABASE_FILE) and
// applies any pending migrations so the CLI works against a fresh file.
func openStore(dbFile string) (store.Store, error) {
	if dbFile == "" {
		dbFile = os.Getenv("KEYGATE_DATABASE_FILE")
	}
	if dbFile == "" {
		dbFile = "keygate.db"
	}

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", dbFile)
	st, err := sqlite.NewStore(dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := st.ApplyMigrations(); err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("apply migrations: %w", err)
	}
	return st, nil
}

func runCreate(args []string) error {
	fs := flag.NewFlagSet("create", flag.ExitOnError)
	dbFile := fs.String("db", "", "path to the SQLite database file")
	key := fs.String("key", "", "key token (generated when empty)")
	label := fs.String("label", "", "free-form label for the key")
	maxUses := fs.Int("max-uses", 1, "redemption capacity")
	days := fs.Int("days", 0, "expire the key this many days from now (0 = never)")
	expires := fs.String("expires", "", "explicit RFC3339 expiry timestamp (overrides -days)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var expiresAt *time.Time
	switch {
	case *expires != "":
		t, err := time.Parse(time.RFC3339, *expires)
		if err != nil {
			return fmt.Errorf("invalid -expires value: %w", err)
		}
		expiresAt = &t
	case *days > 0:
		t := time.Now().UTC().AddDate(0, 0, *days)
		expiresAt = &t
	}

	st, err := openStore(*dbFile)
	if err != nil {
		return err
	}
	defer st.Close()

	ledger := &service.LedgerService{Store: st}
	issued, err := ledger.Issue(context.Background(), service.IssueParams{
		Key:       *key,
		Label:     *label,
		MaxUses:   *maxUses,
		ExpiresAt: expiresAt,
	})
	if err != nil {
		return err
	}

	fmt.Printf("issued key %s\n", issued.ID)
	fmt.Printf("  key:      %s\n", issued.Key)
	fmt.Printf("  max uses: %d\n", issued.MaxUses)
	if issued.ExpiresAt != nil {
		fmt.Printf("  expires:  %s\n", issued.ExpiresAt.UTC().Format(time.RFC3339))
	}
	return nil
}

func runList(args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	dbFile := fs.String("db", "", "path to the SQLite database file")
	showKeys := fs.Bool("show-keys", false, "include raw key tokens in the output")
	if err := fs.Parse(args); err != nil {
		return err
	}

	st, err := openStore(*dbFile)
	if err != nil {
		return err
	}
	defer st.Close()

	ledger := &service.LedgerService{Store: st}
	keys, err := ledger.List(context.Background())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	if *showKeys {
		fmt.Fprintln(w, "ID\tKEY\tLABEL\tUSED\tACTIVE\tEXPIRES")
	} else {
		fmt.Fprintln(w, "ID\tLABEL\tUSED\tACTIVE\tEXPIRES")
	}
	for _, k := range keys {
		expires := "-"
		if k.ExpiresAt != nil {
			expires = k.ExpiresAt.UTC().Format(time.RFC3339)
		} else if k.BadExpiry {
			expires = "(unparseable)"
		}
		used := fmt.Sprintf("%d/%d", k.UsedCount, k.MaxUses)
		if *showKeys {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%t\t%s\n", k.ID, k.Key, k.Label, used, k.Active, expires)
		} else {
			fmt.Fprintf(w, "%s\t%s\t%s\t%t\t%s\n", k.ID, k.Label, used, k.Active, expires)
		}
	}
	return w.Flush()
}

func runDeactivate(args []string) error {
	fs := flag.NewFlagSet("deactivate", flag.ExitOnError)
	dbFile := fs.String("db", "", "path to the SQLite database file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: keygatectl deactivate [flags] <key-id>")
	}

	st, err := openStore(*dbFile)
	if err != nil {
		return err
	}
	defer st.Close()

	ledger := &service.LedgerService{Store: st}
	if err := ledger.Deactivate(context.Background(), fs.Arg(0)); err != nil {
		return err
	}

	fmt.Printf("deactivated key %s\n", fs.Arg(0))
	return nil
}

func runPromote(args []string) error {
	fs := flag.NewFlagSet("promote", flag.ExitOnError)
	dbFile := fs.String("db", "", "path to the SQLite database file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: keygatectl promote [flags] <email>")
	}

	st, err := openStore(*dbFile)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := context.Background()
	email := service.NormalizeEmail(fs.Arg(0))

	user, err := st.Users().GetUserByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("lookup %s: %w", email, err)
	}
	if user.IsAdmin {
		fmt.Printf("%s is already an admin\n", email)
		return nil
	}
	if err := st.Users().SetAdmin(ctx, user.ID, true); err != nil {
		return err
	}

	fmt.Printf("promoted %s to admin\n", email)
	return nil
}
