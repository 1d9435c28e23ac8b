package httpapi

import (
	"context"
	"net"
	"net/http"

	authgate "github.com/MrEthical07/authgate"
	"github.com/MrEthical07/authgate/middleware"
)

// Joke is a single entry in the protected demo payload.
type Joke struct {
	ID   string `json:"id"`
	Joke string `json:"joke"`
}

// defaultJokes is the canonical payload served behind the token guard.
var defaultJokes = []Joke{
	{ID: "0189hNRf2g", Joke: "I'm tired of following my dreams. I'm just going to ask them where they are going and meet up with them later."},
	{ID: "08EQZ8EQukb", Joke: "Did you hear about the guy whose whole left side was cut off? He's all right now."},
	{ID: "08xHQCdx5Ed", Joke: "Why didn’t the skeleton cross the road? Because he had no guts."},
}

// Server wires the authentication engine and user store into the HTTP
// surface: registration, login, a guarded resource, and an open user
// listing.
type Server struct {
	engine *authgate.Engine
	users  authgate.UserStore
	jokes  []Joke
}

// New creates a [Server]. The store is the same one the engine was built
// with; the server reads it directly only for the open /api/users listing.
func New(engine *authgate.Engine, users authgate.UserStore) *Server {
	return &Server{
		engine: engine,
		users:  users,
		jokes:  defaultJokes,
	}
}

// Routes returns the fully wired handler.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/auth/register", s.handleRegister)
	mux.HandleFunc("POST /api/auth/login", s.handleLogin)
	mux.HandleFunc("GET /api/users", s.handleUsers)

	guarded := middleware.Guard(s.engine)(http.HandlerFunc(s.handleJokes))
	mux.Handle("GET /api/jokes", guarded)

	return mux
}

// requestContext attaches the client IP so the engine can throttle and
// audit per caller.
func requestContext(r *http.Request) context.Context {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return authgate.WithClientIP(r.Context(), host)
}
