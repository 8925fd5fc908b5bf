package views

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"battleship-lobby/internal/api"
	"battleship-lobby/internal/fetch"
	"battleship-lobby/internal/web"

	"github.com/a-h/templ"
	"github.com/go-playground/validator/v10"
)

var ErrMissingCredentials = errors.New("playername and password are required")

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func credentialsValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// LoginResult is where the browser goes after a successful login and the
// backend cookies to hand it.
type LoginResult struct {
	Location string
	Cookies  []*http.Cookie
}

// LoginForm holds the credential inputs and submits them to the backend.
type LoginForm struct {
	api    LoginAPI
	opts   options
	action string
	state  *fetch.Machine[LoginResult]

	mu    sync.Mutex
	creds api.Credentials
}

// NewLoginForm renders a form that posts back to action.
func NewLoginForm(client LoginAPI, action string, opts ...Option) *LoginForm {
	o := buildOptions(opts)
	return &LoginForm{
		api:    client,
		opts:   o,
		action: action,
		state:  fetch.New[LoginResult]("login", fetch.StartIdle(), fetch.WithLogger(o.logger)),
	}
}

func (f *LoginForm) SetPlayername(value string) {
	f.mu.Lock()
	f.creds.Playername = value
	f.mu.Unlock()
}

func (f *LoginForm) SetPassword(value string) {
	f.mu.Lock()
	f.creds.Password = value
	f.mu.Unlock()
}

func (f *LoginForm) Credentials() api.Credentials {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.creds
}

// Submit validates the inputs and posts them. Missing input fails without a
// request. On success the result names the dashboard to navigate to.
func (f *LoginForm) Submit(ctx context.Context) (LoginResult, error) {
	creds := f.Credentials()
	if err := credentialsValidator().Struct(creds); err != nil {
		wrapped := fmt.Errorf("%w: %v", ErrMissingCredentials, err)
		f.state.Reject(wrapped)
		return LoginResult{}, wrapped
	}
	var result LoginResult
	err := f.state.Run(ctx, func(ctx context.Context) (LoginResult, error) {
		cookies, err := f.api.Login(ctx, creds)
		if err != nil {
			return LoginResult{}, err
		}
		result = LoginResult{Location: f.opts.dashboardPath, Cookies: cookies}
		return result, nil
	})
	if err != nil {
		return LoginResult{}, err
	}
	return result, nil
}

func (f *LoginForm) Snapshot() fetch.Snapshot[LoginResult] {
	return f.state.Snapshot()
}

func (f *LoginForm) Render() templ.Component {
	snap := f.state.Snapshot()
	return web.LoginForm(web.LoginData{
		Action:     f.action,
		Playername: f.Credentials().Playername,
		Loading:    snap.Loading,
		Error:      snap.Err,
	})
}
