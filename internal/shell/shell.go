// Package shell is the interactive clinic dashboard console. It owns
// nothing about sessions itself: every route goes through the guard and
// every protected call through the API client's transport.
package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"clinic-admin/internal/apiclient"
	"clinic-admin/internal/auth"
	"clinic-admin/internal/guard"
	"clinic-admin/internal/model"
	"clinic-admin/internal/navigation"
	"clinic-admin/internal/session"
	"clinic-admin/internal/startup"
	"clinic-admin/pkg/apierror"
)

const prompt = "clinic> "

type Deps struct {
	Store   *session.Store
	Manager *auth.Manager
	API     *apiclient.Client
	History *navigation.History
	Probe   *startup.Probe
}

type Shell struct {
	in  *bufio.Scanner
	out io.Writer

	store   *session.Store
	manager *auth.Manager
	api     *apiclient.Client
	history *navigation.History
	probe   *startup.Probe
	guard   *guard.Guard

	rendered navigation.Location
}

func New(in io.Reader, out io.Writer, deps Deps) *Shell {
	return &Shell{
		in:      bufio.NewScanner(in),
		out:     out,
		store:   deps.Store,
		manager: deps.Manager,
		api:     deps.API,
		history: deps.History,
		probe:   deps.Probe,
		guard:   guard.New(deps.Store),
	}
}

// Run probes for an existing session, renders the current location and
// then reads commands until quit, end of input or ctx is done.
func (s *Shell) Run(ctx context.Context) error {
	fmt.Fprintln(s.out, "Loading…")
	s.probe.Run(ctx)

	s.visit(ctx, s.history.Current())

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		// The transport may have moved us to the login route.
		if cur := s.history.Current(); cur != s.rendered {
			s.visit(ctx, cur)
		}

		fmt.Fprint(s.out, prompt)
		line, ok := s.readLine()
		if !ok {
			fmt.Fprintln(s.out)
			return s.in.Err()
		}

		if quit := s.dispatch(ctx, line); quit {
			return nil
		}
	}
}

func (s *Shell) dispatch(ctx context.Context, line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}

	switch cmd, args := strings.ToLower(fields[0]), fields[1:]; cmd {
	case "quit", "exit":
		return true
	case "help", "?":
		s.help()
	case "open", "go", "cd":
		if len(args) == 0 {
			fmt.Fprintln(s.out, "usage: open <path> [search]")
			return false
		}
		loc := navigation.Parse(args[0])
		if len(args) > 1 {
			loc.Search = strings.Join(args[1:], " ")
		}
		s.visit(ctx, loc)
	case "login":
		if s.rendered.Path == navigation.LoginPath {
			s.visit(ctx, s.rendered)
		} else {
			s.visit(ctx, navigation.Login(s.rendered))
		}
	case "logout":
		s.manager.Logout(ctx)
		fmt.Fprintln(s.out, "Signed out.")
		s.visit(ctx, navigation.Location{Path: navigation.LoginPath})
	case "whoami":
		s.whoami()
	case "reload":
		s.visit(ctx, s.rendered)
	default:
		fmt.Fprintf(s.out, "unknown command %q (try help)\n", cmd)
	}
	return false
}

// visit resolves to through the guard, records it and renders it. A view
// can hand over to another location (a successful login) and a protected
// call can end the session; both continue the loop here.
func (s *Shell) visit(ctx context.Context, to navigation.Location) {
	for range maxHops {
		loc := s.guard.Resolve(to)
		if loc != s.history.Current() {
			s.history.Navigate(loc)
		}
		s.rendered = loc

		next, ok := s.render(ctx, loc)
		if ok {
			to = next
			continue
		}

		if cur := s.history.Current(); cur != loc {
			to = cur
			continue
		}
		return
	}
}

const maxHops = 8

func (s *Shell) render(ctx context.Context, loc navigation.Location) (navigation.Location, bool) {
	if loc.Path == navigation.LoginPath {
		return s.loginView(ctx, loc)
	}

	view, ok := views[loc.Path]
	if !ok {
		fmt.Fprintf(s.out, "404: no page at %s\n", loc.Path)
		return navigation.Location{}, false
	}

	if err := view(ctx, s, loc); err != nil {
		s.showError(err)
	}
	return navigation.Location{}, false
}

func (s *Shell) loginView(ctx context.Context, loc navigation.Location) (navigation.Location, bool) {
	fmt.Fprintln(s.out, "── Sign in ─────────────────────────────")
	fmt.Fprint(s.out, "Email: ")
	email, ok := s.readLine()
	if !ok || strings.TrimSpace(email) == "" {
		fmt.Fprintln(s.out, "Sign-in cancelled. Type login to try again.")
		return navigation.Location{}, false
	}
	fmt.Fprint(s.out, "Password: ")
	password, ok := s.readLine()
	if !ok {
		return navigation.Location{}, false
	}

	user, err := s.manager.Login(ctx, strings.TrimSpace(email), password)
	if err != nil {
		s.showLoginError(err)
		return navigation.Location{}, false
	}

	fmt.Fprintf(s.out, "Welcome, %s.\n", user.Name)
	return loc.ReturnTo(), true
}

func (s *Shell) showLoginError(err error) {
	var apiErr *apierror.APIError
	switch {
	case errors.Is(err, model.ErrInvalidInput) && errors.As(err, &apiErr):
		for _, fe := range apiErr.Errors {
			fmt.Fprintf(s.out, "  %s: %s\n", fe.Field, fe.Message)
		}
	case errors.Is(err, model.ErrInvalidCredentials):
		fmt.Fprintln(s.out, "  Invalid email or password.")
	case errors.Is(err, model.ErrNetworkFailure):
		fmt.Fprintln(s.out, "  Cannot reach the server. Check API_BASE_URL and try again.")
	default:
		fmt.Fprintf(s.out, "  Sign-in failed: %v\n", err)
	}
	fmt.Fprintln(s.out, "Type login to try again.")
}

// showError prints a view failure. An expired session that could not be
// refreshed prints nothing: the login route follows.
func (s *Shell) showError(err error) {
	if errors.Is(err, model.ErrSessionExpired) && !s.store.IsAuthenticated() {
		return
	}
	if errors.Is(err, context.Canceled) {
		return
	}
	fmt.Fprintf(s.out, "error: %v\n", err)
}

func (s *Shell) whoami() {
	user := s.store.User()
	if user == nil {
		fmt.Fprintln(s.out, "Not signed in.")
		return
	}
	fmt.Fprintf(s.out, "%s <%s> (%s)\n", user.Name, user.Email, user.Role)
}

func (s *Shell) help() {
	fmt.Fprintln(s.out, `Commands:
  open <path> [search]  show a page, e.g. "open /patients ann"
  reload                show the current page again
  login                 sign in
  logout                sign out
  whoami                show the signed-in user
  help                  this text
  quit                  leave
Pages:`)
	for _, route := range guard.Routes {
		fmt.Fprintf(s.out, "  %s\n", route)
	}
}

func (s *Shell) readLine() (string, bool) {
	if !s.in.Scan() {
		return "", false
	}
	return strings.TrimRight(s.in.Text(), "\r"), true
}

// Location is the route currently on screen.
func (s *Shell) Location() navigation.Location {
	return s.rendered
}
