// Package router dispatches navigation routes to the catalog and the
// stream resolver and tracks the login state of the session.
package router

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/gofiber/fiber/v2/log"

	"cmore/internal/catalog"
	"cmore/internal/media"
	"cmore/internal/playback"
	"cmore/internal/provider"
)

var (
	// ErrNoCredentials is returned by Login when no username or password is set.
	ErrNoCredentials = errors.New("no credentials configured")
	ErrUnknownAction = errors.New("unknown action")
)

// State is the login state of the session.
type State int

const (
	NoCredentials State = iota
	AwaitingLogin
	Authenticated
	AuthFailed
)

func (s State) String() string {
	switch s {
	case AwaitingLogin:
		return "awaiting-login"
	case Authenticated:
		return "authenticated"
	case AuthFailed:
		return "auth-failed"
	default:
		return "no-credentials"
	}
}

// Settings holds the user's credentials.
type Settings interface {
	Credentials() (username, password string)
	ResetCredentials() error
}

// Prompter asks the user for free text.
type Prompter interface {
	Input(ctx context.Context, heading string) (string, error)
}

// Backend is the remote API the router drives.
type Backend interface {
	catalog.Source
	playback.Fetcher
	Login(ctx context.Context, username, password string) (json.RawMessage, error)
}

// Messages are the user-facing texts of notices and prompts.
type Messages struct {
	MissingCredentialsHeading string
	MissingCredentials        string
	ErrorHeading              string
	LoginFailed               string
	SearchHeading             string
}

// DefaultMessages are the English texts.
var DefaultMessages = Messages{
	MissingCredentialsHeading: "Login required",
	MissingCredentials:        "Set your username and password first (cmore login).",
	ErrorHeading:              "Error",
	LoginFailed:               "Login failed. Check your username and password.",
	SearchHeading:             "Search",
}

// Result is the outcome of one dispatched route.
type Result struct {
	Items            []media.Item            `json:"items,omitempty"`
	Content          media.ContentKind       `json:"content,omitempty"`
	Stream           *media.StreamDescriptor `json:"stream,omitempty"`
	Play             *media.PlayResolution   `json:"play,omitempty"`
	Notices          []media.Notice          `json:"notices,omitempty"`
	NeedsCredentials bool                    `json:"needs_credentials,omitempty"`
}

func listing(items []media.Item) *Result {
	return &Result{Items: items, Content: catalog.ContentOf(items)}
}

// Router sequences catalog, resolver and login for incoming routes.
type Router struct {
	backend  Backend
	catalog  *catalog.Catalog
	settings Settings
	prompter Prompter
	msgs     Messages

	mu    sync.Mutex
	state State
}

// Option configures a Router.
type Option func(*Router)

// WithPrompter sets how search queries are asked for.
func WithPrompter(p Prompter) Option {
	return func(r *Router) { r.prompter = p }
}

// WithMessages replaces the notice texts.
func WithMessages(m Messages) Option {
	return func(r *Router) { r.msgs = m }
}

// New creates a router.
func New(backend Backend, cat *catalog.Catalog, settings Settings, opts ...Option) *Router {
	r := &Router{
		backend:  backend,
		catalog:  cat,
		settings: settings,
		msgs:     DefaultMessages,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// State returns the current login state.
func (r *Router) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

func (r *Router) setState(s State) {
	r.mu.Lock()
	r.state = s
	r.mu.Unlock()
}

// hasCredentials moves a session with credentials out of NoCredentials.
func (r *Router) hasCredentials() bool {
	user, pass := r.settings.Credentials()
	r.mu.Lock()
	defer r.mu.Unlock()

	if user == "" || pass == "" {
		r.state = NoCredentials
		return false
	}
	if r.state == NoCredentials {
		r.state = AwaitingLogin
	}
	return true
}

// Login authenticates with the configured credentials.
func (r *Router) Login(ctx context.Context) error {
	if !r.hasCredentials() {
		return ErrNoCredentials
	}
	user, pass := r.settings.Credentials()

	if _, err := r.backend.Login(ctx, user, pass); err != nil {
		if errors.Is(err, provider.ErrAuthenticationFailed) {
			r.setState(AuthFailed)
		}
		return err
	}
	r.setState(Authenticated)
	return nil
}

func (r *Router) missingCredentials() *Result {
	return &Result{
		NeedsCredentials: true,
		Notices:          []media.Notice{{Heading: r.msgs.MissingCredentialsHeading, Message: r.msgs.MissingCredentials}},
	}
}

// Dispatch handles one route. An empty route logs in afresh and lists the
// main pages. Missing credentials and the service errors the user can act
// on come back as notices, not errors.
func (r *Router) Dispatch(ctx context.Context, route media.Route) (*Result, error) {
	if route["setting"] == "reset_credentials" {
		if err := r.settings.ResetCredentials(); err != nil {
			return nil, fmt.Errorf("resetting credentials: %w", err)
		}
		r.setState(NoCredentials)
		log.Infof("credentials reset")
		return &Result{}, nil
	}

	if !r.hasCredentials() {
		return r.missingCredentials(), nil
	}

	action := route.Action()
	if action == "" {
		return r.root(ctx)
	}

	switch action {
	case media.RouteListCategoriesOrVideos:
		return r.list(r.catalog.CategoriesOrVideos(ctx, route["main_path"], route["subs"]))
	case media.RouteListCategoryContent:
		return r.list(r.catalog.CategoryContent(ctx, route["path"]))
	case media.RouteListPage:
		return r.list(r.catalog.Page(ctx, route["dataurl"]))
	case media.RouteListPageTarget:
		return r.list(r.catalog.Target(ctx, route["target"]))
	case media.RouteListPageWithPageData:
		return r.list(r.catalog.PageData(ctx, route["page_data"]))
	case media.RouteListCategoryLinks:
		return r.list(r.catalog.CategoryLinks(ctx, route["targets"]))
	case media.RoutePlay:
		return r.play(ctx, route["video_id"])
	case media.RouteSearch:
		return r.search(ctx, route["query"])
	case media.RouteNoop:
		return &Result{}, nil
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownAction, action)
}

func (r *Router) list(items []media.Item, err error) (*Result, error) {
	if err != nil {
		return nil, err
	}
	return listing(items), nil
}

// root refreshes the session cookie before listing the main pages.
func (r *Router) root(ctx context.Context) (*Result, error) {
	if err := r.Login(ctx); err != nil {
		if errors.Is(err, provider.ErrAuthenticationFailed) {
			log.Warnf("login failed: %v", err)
			return &Result{Notices: []media.Notice{{Heading: r.msgs.ErrorHeading, Message: r.msgs.LoginFailed}}}, nil
		}
		return nil, err
	}
	return r.list(r.catalog.MainPages(ctx))
}

func (r *Router) play(ctx context.Context, assetID string) (*Result, error) {
	desc, err := playback.Resolve(ctx, r.backend, assetID)
	if err != nil {
		if errors.Is(err, provider.ErrAssetNotPublished) {
			return &Result{Notices: []media.Notice{{Heading: r.msgs.ErrorHeading, Message: provider.CodeAssetNotPublished}}}, nil
		}
		return nil, err
	}
	return &Result{Stream: desc, Play: playback.NewResolution(desc)}, nil
}

func (r *Router) search(ctx context.Context, query string) (*Result, error) {
	if query == "" && r.prompter != nil {
		q, err := r.prompter.Input(ctx, r.msgs.SearchHeading)
		if err != nil {
			return nil, err
		}
		query = q
	}
	if query == "" {
		log.Debugf("no search query provided")
		return &Result{}, nil
	}
	return r.list(r.catalog.Search(ctx, query))
}
