package navigation

import (
	"net/url"
	"strings"
	"sync"
)

const (
	LoginPath = "/login"
	HomePath  = "/"
)

// Location is a shell route plus, for the login route, where to go back to.
type Location struct {
	Path   string
	Search string
	From   string
}

// Login is the login boundary remembering the location the user asked for.
func Login(from Location) Location {
	if from.Path == "" || from.Path == LoginPath {
		return Location{Path: LoginPath}
	}
	return Location{Path: LoginPath, From: from.String()}
}

func (l Location) String() string {
	path := l.Path
	if path == "" {
		path = HomePath
	}

	query := url.Values{}
	if l.Search != "" {
		query.Set("search", l.Search)
	}
	if l.From != "" {
		query.Set("from", l.From)
	}
	if len(query) == 0 {
		return path
	}
	return path + "?" + query.Encode()
}

// Parse accepts "/patients", "patients?search=ann" and "/login?from=%2Fdoctors".
func Parse(raw string) Location {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Location{Path: HomePath}
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return Location{Path: "/" + strings.TrimLeft(raw, "/")}
	}

	path := "/" + strings.Trim(parsed.Path, "/")
	query := parsed.Query()
	return Location{
		Path:   path,
		Search: query.Get("search"),
		From:   query.Get("from"),
	}
}

// ReturnTo is where a successful login continues.
func (l Location) ReturnTo() Location {
	if l.From == "" {
		return Location{Path: HomePath}
	}
	back := Parse(l.From)
	if back.Path == LoginPath {
		return Location{Path: HomePath}
	}
	return back
}

type Navigator interface {
	Navigate(to Location)
	Current() Location
}

// History is an in-memory Navigator. Navigate replaces the current
// location; every visited location is kept for inspection.
type History struct {
	mu      sync.Mutex
	entries []Location
}

func NewHistory(start Location) *History {
	return &History{entries: []Location{start}}
}

func (h *History) Navigate(to Location) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = append(h.entries, to)
}

func (h *History) Current() Location {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.entries[len(h.entries)-1]
}

func (h *History) Entries() []Location {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]Location(nil), h.entries...)
}
