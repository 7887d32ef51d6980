package cli

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/cinecollection/internal/client/client"
	"github.com/dmitrijs2005/cinecollection/internal/client/config"
	"github.com/dmitrijs2005/cinecollection/internal/client/listing"
	"github.com/dmitrijs2005/cinecollection/internal/client/session"
	"github.com/dmitrijs2005/cinecollection/internal/logging"
)

type sessionStore interface {
	Load(ctx context.Context) (*session.Session, error)
	Save(ctx context.Context, s *session.Session) error
	Clear(ctx context.Context) error
}

type App struct {
	config   *config.Config
	api      client.API
	sessions sessionStore
	session  *session.Session
	list     *listing.Controller
	log      logging.Logger
	reader   *bufio.Reader
	out      io.Writer
	db       *sql.DB
}

// NewApp opens the session database and connects the API client.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	log := logging.New(os.Stderr, "text", cfg.LogLevel).With("app", "cli")

	db, err := client.InitDatabase(ctx, cfg.SessionDBPath)
	if err != nil {
		return nil, fmt.Errorf("session database: %w", err)
	}

	repos := client.NewRepositories(db)
	api := client.NewHTTPClient(cfg.ServerURL, cfg.RequestTimeout)

	a := newApp(cfg, api, session.NewStore(repos.Metadata), log, bufio.NewReader(os.Stdin), os.Stdout)
	a.db = db
	return a, nil
}

func newApp(cfg *config.Config, api client.API, store sessionStore, log logging.Logger, r *bufio.Reader, w io.Writer) *App {
	a := &App{
		config:   cfg,
		api:      api,
		sessions: store,
		log:      log,
		reader:   r,
		out:      w,
	}
	a.list = a.newListing()
	return a
}

func (a *App) newListing() *listing.Controller {
	return listing.NewController(a.api, listing.Options{
		PageSize:       a.config.PageSize,
		ScrollThrottle: a.config.ScrollThrottle,
		SearchDebounce: a.config.SearchDebounce,
		Logger:         a.log,
	})
}

// Run restores the saved session and serves the REPL until exit or EOF.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	fmt.Fprintln(a.out, "Welcome to CineCollection (type 'help' for commands)")
	a.restoreSession(ctx)
	runREPL(ctx, a, a.prompt, bufio.NewScanner(a.reader))
}

func (a *App) Close() {
	a.list.Close()
	if a.db != nil {
		_ = a.db.Close()
	}
}

// restoreSession loads the stored token and confirms it with the server.
// An unreachable server keeps the session; a rejected token drops it.
func (a *App) restoreSession(ctx context.Context) {
	sess, err := a.sessions.Load(ctx)
	if err != nil {
		a.log.Warn(ctx, "load session", "error", err)
		return
	}
	if !sess.LoggedIn() {
		return
	}
	a.session = sess
	a.api.SetToken(sess.Token)

	u, err := a.api.Me(ctx)
	switch {
	case err == nil:
		sess.User = *u
		if err := a.sessions.Save(ctx, sess); err != nil {
			a.log.Warn(ctx, "save session", "error", err)
		}
		fmt.Fprintf(a.out, "Signed in as %s\n", u.Email)
	case errors.Is(err, client.ErrUnauthorized):
		a.endSession(ctx)
		fmt.Fprintln(a.out, "Your session has expired, please log in again")
	default:
		a.log.Warn(ctx, "verify session", "error", err)
		fmt.Fprintf(a.out, "Signed in as %s (server unreachable)\n", sess.User.Email)
	}
}

func (a *App) startSession(ctx context.Context, res *client.AuthResult) error {
	sess := &session.Session{Token: res.Token, User: res.User}
	if err := a.sessions.Save(ctx, sess); err != nil {
		return err
	}
	a.session = sess
	a.api.SetToken(sess.Token)
	a.list.Close()
	a.list = a.newListing()
	return nil
}

func (a *App) endSession(ctx context.Context) {
	if err := a.sessions.Clear(ctx); err != nil {
		a.log.Warn(ctx, "clear session", "error", err)
	}
	a.session = nil
	a.api.SetToken("")
	a.list.Close()
	a.list = a.newListing()
}

func (a *App) isLoggedIn() bool {
	return a.session.LoggedIn()
}

func (a *App) prompt() string {
	if !a.isLoggedIn() {
		return "cine> "
	}
	return fmt.Sprintf("cine (%s)> ", a.session.User.Email)
}

// fail reports a command error. A 401 ends the session.
func (a *App) fail(ctx context.Context, err error) {
	var apiErr *client.APIError
	switch {
	case errors.Is(err, client.ErrUnauthorized) && a.isLoggedIn():
		a.endSession(ctx)
		fmt.Fprintln(a.out, "Your session has expired, please log in again")
	case errors.Is(err, client.ErrUnavailable):
		fmt.Fprintln(a.out, "Server unavailable, try again later")
	case errors.As(err, &apiErr):
		fmt.Fprintln(a.out, "Error:", apiErr.Error())
	default:
		fmt.Fprintln(a.out, "Error:", err)
	}
}
