package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/codenotary/immudb/pkg/api/protomodel"
	"github.com/codenotary/immudb/pkg/api/schema"

	"github.com/dmitrijs2005/immuclient/client"
	"github.com/dmitrijs2005/immuclient/document"
	"github.com/dmitrijs2005/immuclient/executor"
	"github.com/dmitrijs2005/immuclient/internal/config"
	"github.com/dmitrijs2005/immuclient/value"
)

const demoCollection = "UserDocuments"

type App struct {
	config *config.Config
	db     *client.DB
	print  *Printer
}

type demoUser struct {
	ID     int64   `sql:"id" json:"id"`
	Name   string  `sql:"name" json:"name"`
	Email  *string `sql:"email" json:"email"`
	Active bool    `sql:"active" json:"active"`
}

// NewApp connects to the server described by c. When c.PromptPassword is
// set the password is read from the terminal first.
func NewApp(ctx context.Context, c *config.Config, out io.Writer) (*App, error) {
	if c.PromptPassword {
		pw, err := GetPassword(out, c.Username)
		if err != nil {
			return nil, fmt.Errorf("read password: %w", err)
		}
		c.Password = pw
	}

	level := slog.LevelInfo
	if c.LogCalls {
		level = slog.LevelDebug
	}
	opts := c.Options()
	opts.Logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	db, err := client.Connect(ctx, opts)
	if err != nil {
		return nil, err
	}
	return &App{config: c, db: db, print: NewPrinter(out)}, nil
}

func (a *App) Close() error {
	return a.db.Close()
}

// Run executes the SQL walkthrough followed by the document walkthrough.
func (a *App) Run(ctx context.Context) error {
	if err := a.runSQL(ctx); err != nil {
		return fmt.Errorf("sql demo: %w", err)
	}
	if err := a.runDocuments(ctx); err != nil {
		return fmt.Errorf("document demo: %w", err)
	}
	return nil
}

func (a *App) runSQL(ctx context.Context) error {
	sql := a.db.SQL()

	a.print.Step("Creating table users")
	if _, err := sql.Exec(ctx, `CREATE TABLE IF NOT EXISTS users (
		id INTEGER,
		name VARCHAR[64],
		email VARCHAR[128],
		active BOOLEAN,
		PRIMARY KEY id
	)`, nil); err != nil {
		return err
	}

	a.print.Step("Inserting users in one transaction")
	alice := "alice@example.com"
	users := []demoUser{
		{ID: 1, Name: "alice", Email: &alice, Active: true},
		{ID: 2, Name: "bob", Active: false},
		{ID: 3, Name: "carol", Active: true},
	}
	err := sql.WithTransaction(ctx, schema.TxMode_ReadWrite, func(ctx context.Context, tx *executor.Executor) error {
		for _, u := range users {
			params, err := value.ParamsFrom(u)
			if err != nil {
				return err
			}
			if _, err := tx.Exec(ctx, "UPSERT INTO users(id, name, email, active) VALUES (@id, @name, @email, @active)", params); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	a.print.OK("committed %d rows", len(users))

	a.print.Step("Reading them back")
	res, err := sql.Query(ctx, "SELECT id, name, email, active FROM users ORDER BY id", nil)
	if err != nil {
		return err
	}
	if err := a.print.Result(res); err != nil {
		return err
	}

	active, err := executor.QueryAs[demoUser](ctx, sql, "SELECT id, name, email, active FROM users WHERE active = @active",
		value.NewParams(value.Named("active", true)))
	if err != nil {
		return err
	}
	a.print.OK("%d active users", len(active))

	n, err := executor.QueryScalar[int64](ctx, sql, "SELECT COUNT(*) FROM users", nil)
	if err != nil {
		return err
	}
	a.print.OK("count(*) = %d", n)
	return nil
}

func (a *App) runDocuments(ctx context.Context) error {
	docs := a.db.Documents()

	a.print.Step("Recreating collection %s", demoCollection)
	if err := docs.DeleteCollection(ctx, demoCollection); err != nil {
		a.print.Warn("nothing to delete: %v", err)
	}
	err := docs.CreateCollection(ctx, document.CollectionSpec{
		Name:            demoCollection,
		DocumentIDField: "my_id",
		Fields: []document.Field{
			{Name: "group_id", Type: protomodel.FieldType_STRING, Indexed: true},
			{Name: "value", Type: protomodel.FieldType_STRING},
			{Name: "is_active", Type: protomodel.FieldType_BOOLEAN, Indexed: true},
		},
	})
	if err != nil {
		return err
	}

	a.print.Step("Inserting a document")
	ins, err := docs.InsertDocuments(ctx, demoCollection, []value.Document{{
		"group_id":  "mpc_group_a",
		"value":     "Zm9vYmFyCg==",
		"is_active": true,
	}})
	if err != nil {
		return err
	}
	a.print.OK("tx %d, ids %v", ins.TransactionID, ins.DocumentIDs)

	a.print.Step("Searching")
	query := []byte(`{
		"collection_name": "` + demoCollection + `",
		"limit": 50,
		"order_by": [{"field": "group_id", "desc": true}],
		"where": {"AND": [
			{"field": "group_id", "op": "EQ", "value": "mpc_group_a"},
			{"field": "is_active", "op": "EQ", "value": true}
		]}
	}`)
	found, err := docs.SearchJSON(ctx, query, document.SearchOptions{Page: 1, PageSize: 10})
	if err != nil {
		return err
	}
	a.print.OK("found %d documents", len(found.Revisions))
	for _, r := range found.Revisions {
		a.print.Document(r.Document)
	}
	return nil
}
