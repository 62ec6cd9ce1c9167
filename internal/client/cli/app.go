package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/dmitrijs2005/anonsession/internal/client/config"
	"github.com/dmitrijs2005/anonsession/internal/client/fetch"
	"github.com/dmitrijs2005/anonsession/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/anonsession/internal/client/session"
	"github.com/dmitrijs2005/anonsession/internal/client/storage"
	"github.com/dmitrijs2005/anonsession/internal/logging"
)

// getSimpleText and getPassword are swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

type App struct {
	config  *config.Config
	session *session.Session
	logger  logging.Logger
	reader  *bufio.Reader
	out     io.Writer
	email   string
	closeDB func() error
}

// NewApp opens the local database at c.DatabasePath and builds the session
// on top of it.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	db, err := storage.Open(ctx, c.DatabasePath)
	if err != nil {
		logger.Error(ctx, "error initializing database", "error", err)
		return nil, err
	}

	ua := c.EffectiveUserAgent()
	client := fetch.NewClient(http.DefaultClient, c.APIBaseURL, fetch.WithUserAgent(ua))
	store := session.NewMetadataStore(metadata.NewSQLiteRepository(db))
	sess := session.New(client, store, logger,
		session.WithUserAgent(ua),
		session.WithBootstrapTimeout(c.BootstrapTimeout),
	)

	a := newApp(c, sess, logger, os.Stdin, os.Stdout)
	a.closeDB = db.Close
	return a, nil
}

func newApp(c *config.Config, sess *session.Session, logger logging.Logger, in io.Reader, out io.Writer) *App {
	return &App{
		config:  c,
		session: sess,
		logger:  logger,
		reader:  bufio.NewReader(in),
		out:     out,
	}
}

func (a *App) getStatus() string {
	switch {
	case a.email != "":
		return "(" + a.email + ")"
	case a.session.UID() != "":
		return "(anonymous)"
	default:
		return "(no identity)"
	}
}

// Run obtains the identifier and serves the REPL until the user exits or
// input ends. The session and database are closed on return.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	fmt.Fprintln(a.out, "anonsession client (type 'help' for commands)")
	if _, err := a.session.Bootstrap(ctx); err != nil {
		a.logger.Error(ctx, "bootstrap failed", "error", err)
	}

	runREPL(ctx, a, a.getStatus, bufio.NewScanner(a.reader))
}

func (a *App) Close() error {
	err := a.session.Close()
	if a.closeDB != nil {
		if cerr := a.closeDB(); err == nil {
			err = cerr
		}
	}
	return err
}

func (a *App) Whoami(ctx context.Context) error {
	uid := a.session.UID()
	if uid == "" {
		fmt.Fprintln(a.out, "No identifier yet (is the API reachable?)")
		return nil
	}
	fmt.Fprintln(a.out, uid)
	return nil
}

func (a *App) Ping(ctx context.Context) error {
	info, err := a.session.Ping(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "API %s (%s), success=%t\n", info.Version, info.Environment, info.Success)
	return nil
}

func (a *App) readCredentials() (string, []byte, error) {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return "", nil, err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return "", nil, err
	}
	return email, password, nil
}

func (a *App) Register(ctx context.Context) error {
	email, password, err := a.readCredentials()
	if err != nil {
		return err
	}
	defer wipe(password)

	if err := a.session.Register(ctx, email, string(password)); err != nil {
		return err
	}
	a.email = email
	fmt.Fprintln(a.out, "Success!")
	return nil
}

func (a *App) Login(ctx context.Context) error {
	email, password, err := a.readCredentials()
	if err != nil {
		return err
	}
	defer wipe(password)

	if err := a.session.Login(ctx, email, string(password)); err != nil {
		a.logger.Info(ctx, "login unsuccessful", "email", email)
		return err
	}
	a.email = email
	fmt.Fprintln(a.out, "Login successful")
	return nil
}

// Logout revokes the identifier and immediately bootstraps a fresh
// anonymous one.
func (a *App) Logout(ctx context.Context) error {
	if err := a.session.Logout(ctx); err != nil {
		return err
	}
	a.email = ""
	if _, err := a.session.Bootstrap(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

func (a *App) Get(ctx context.Context, path string) error {
	var out any
	if err := a.session.Get(ctx, normalizePath(path), &out); err != nil {
		return err
	}
	return a.printJSON(out)
}

func (a *App) Post(ctx context.Context, path string) error {
	body, err := a.readBody()
	if err != nil {
		return err
	}
	var out any
	if err := a.session.Post(ctx, normalizePath(path), body, &out); err != nil {
		return err
	}
	return a.printJSON(out)
}

// Put is Post with the PUT method, e.g. "put unsubscribe" or
// "put addresses/3".
func (a *App) Put(ctx context.Context, path string) error {
	body, err := a.readBody()
	if err != nil {
		return err
	}
	var out any
	if err := a.session.Put(ctx, normalizePath(path), body, &out); err != nil {
		return err
	}
	return a.printJSON(out)
}

func (a *App) readBody() (any, error) {
	text, err := GetMultiline(a.reader, "Enter JSON body", a.out)
	if err != nil {
		return nil, err
	}
	var body any
	if text != "" {
		if err := json.Unmarshal([]byte(text), &body); err != nil {
			return nil, fmt.Errorf("invalid JSON body: %w", err)
		}
	}
	return body, nil
}

func (a *App) printJSON(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func normalizePath(p string) string {
	if !strings.HasPrefix(p, "/") {
		return "/" + p
	}
	return p
}
