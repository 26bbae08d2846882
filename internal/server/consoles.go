package server

import (
	"context"
	"net/http"
	"sync"

	"github.com/google/uuid"

	"github.com/sankshitpandoh/CapLedger/internal/console"
	"github.com/sankshitpandoh/CapLedger/pkg/constants"
	"github.com/sankshitpandoh/CapLedger/pkg/logging"
)

// ConsoleCookie identifies a browser's console controller.
const ConsoleCookie = constants.ConsoleCookie

// browserConsole is the controller of one browser plus the toast waiting
// for the next page render.
type browserConsole struct {
	id         string
	mu         sync.Mutex
	credential string
	boot       sync.Once
	ctrl       *console.Controller
	flash      *console.Toast
}

// setFlash records the toast of res for the next render.
func (b *browserConsole) setFlash(res console.Result) {
	b.mu.Lock()
	defer b.mu.Unlock()
	switch {
	case res.Err != nil:
		b.flash = &console.Toast{Message: res.Err.Error(), Kind: console.ToastError}
	case res.Toast != nil:
		t := *res.Toast
		b.flash = &t
	}
}

// bootstrap loads the session of a new controller. Concurrent first
// requests wait for the one bootstrap.
func (b *browserConsole) bootstrap(ctx context.Context) {
	b.boot.Do(func() {
		if b.credential == "" {
			return
		}
		if res := b.ctrl.Update(ctx, console.Bootstrap{}); res.Err != nil {
			b.setFlash(res)
		}
	})
}

func (b *browserConsole) popFlash() *console.Toast {
	b.mu.Lock()
	defer b.mu.Unlock()
	t := b.flash
	b.flash = nil
	return t
}

// consoleFor returns the controller bound to the browser of r, creating and
// bootstrapping one when the browser is new or its backend session changed.
func (s *Server) consoleFor(w http.ResponseWriter, r *http.Request) *browserConsole {
	id := ""
	if c, err := r.Cookie(ConsoleCookie); err == nil {
		if _, perr := uuid.Parse(c.Value); perr == nil {
			id = c.Value
		}
	}
	if id == "" {
		id = uuid.NewString()
		http.SetCookie(w, &http.Cookie{
			Name:     ConsoleCookie,
			Value:    id,
			Path:     "/",
			HttpOnly: true,
			Secure:   s.config.SecureCookies,
			SameSite: http.SameSiteLaxMode,
		})
	}

	credential := ""
	if c, err := r.Cookie(s.config.SessionCookie); err == nil {
		credential = c.Value
	}

	create := func() *browserConsole { return s.newConsole(id, credential) }
	bc := s.consoles.GetOrSet(id, create)
	if bc.credential != credential {
		s.consoles.Delete(id)
		bc = s.consoles.GetOrSet(id, create)
	}
	bc.bootstrap(r.Context())
	return bc
}

func (s *Server) newConsole(id, credential string) *browserConsole {
	return &browserConsole{
		id:         id,
		credential: credential,
		ctrl: console.New(s.api.WithCredential(credential),
			console.WithClock(s.today),
			console.WithLogger(s.logger),
		),
	}
}

// update runs msg on the browser console. The request's values are kept but
// not its cancellation, so a closed tab cannot abandon a half-applied
// submission.
func (s *Server) update(r *http.Request, bc *browserConsole, msg console.Msg) console.Result {
	st := bc.ctrl.State()
	ctx := logging.WithConsole(context.WithoutCancel(r.Context()), string(st.Screen), string(st.Auth.Role))
	return bc.ctrl.Update(ctx, msg)
}
