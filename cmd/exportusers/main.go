package main

import (
	"context"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/usersadmin/console/internal/datatable"
	"github.com/usersadmin/console/internal/userstore"
	"github.com/usersadmin/console/internal/usertable"
)

type exportOptions struct {
	role      string
	status    string
	search    string
	includeID bool
}

func main() {
	_ = godotenv.Load()

	var (
		dbPath     string
		outputPath string
		opts       exportOptions
	)
	flag.StringVar(&dbPath, "db", os.Getenv("USERS_CONSOLE_DB"), "SQLite database holding the user records (required)")
	flag.StringVar(&outputPath, "out", "", "output CSV path (optional, defaults to stdout)")
	flag.StringVar(&opts.role, "role", "", "only users holding this role")
	flag.StringVar(&opts.status, "status", "", "only users with this status (Actif or Archivé)")
	flag.StringVar(&opts.search, "search", "", "case-insensitive match on name or email")
	flag.BoolVar(&opts.includeID, "id", false, "prepend the user id column")
	flag.Parse()

	if err := run(dbPath, outputPath, opts); err != nil {
		fmt.Fprintf(os.Stderr, "exportusers: %v\n", err)
		os.Exit(1)
	}
}

func run(dbPath, outputPath string, opts exportOptions) (err error) {
	if dbPath == "" {
		return errors.New("missing --db path (or USERS_CONSOLE_DB)")
	}
	// Open would create an empty database; exporting one is never intended.
	if _, err := os.Stat(dbPath); err != nil {
		return fmt.Errorf("open database: %w", err)
	}

	store, err := userstore.Open(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	users, err := store.List(context.Background())
	if err != nil {
		return fmt.Errorf("list users: %w", err)
	}

	var out io.Writer = os.Stdout
	if outputPath != "" {
		if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
			return err
		}
		f, createErr := os.Create(outputPath)
		if createErr != nil {
			return createErr
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("close output: %w", cerr)
			}
		}()
		out = f
	}
	if err := writeCSV(out, users, opts); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

// writeCSV filters users through the table columns and writes every column
// with a header as plain text.
func writeCSV(w io.Writer, users []usertable.User, opts exportOptions) error {
	table := datatable.New(usertable.Columns(usertable.Handlers{}))
	table.SetRows(users)
	table.SetFilter(usertable.ColumnRoles, opts.role)
	table.SetFilter(usertable.ColumnStatus, opts.status)
	table.SetGlobalFilter(opts.search)

	var columns []datatable.Column[usertable.User]
	for _, col := range table.Columns() {
		if col.Header != "" {
			columns = append(columns, col)
		}
	}

	cw := csv.NewWriter(w)
	header := make([]string, 0, len(columns)+1)
	if opts.includeID {
		header = append(header, "ID")
	}
	for _, col := range columns {
		header = append(header, col.Header)
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, u := range table.Visible() {
		record := make([]string, 0, len(header))
		if opts.includeID {
			record = append(record, u.ID)
		}
		for _, col := range columns {
			record = append(record, col.Render(u).Plain())
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
