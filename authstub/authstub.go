package authstub

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/xy-planning-network/portal/http/req"
	"github.com/xy-planning-network/portal/http/router"
	"github.com/xy-planning-network/portal/logger"
	"golang.org/x/crypto/bcrypt"
)

// DefaultTTL is how long issued tokens last.
const DefaultTTL = 24 * time.Hour

type account struct {
	ID    string
	Name  string
	Email string
	Hash  []byte
}

type credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type registration struct {
	Name     string `json:"name"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// A Service holds accounts in memory and issues HS256 JWTs.
type Service struct {
	mu       sync.RWMutex
	accounts map[string]account

	cost   int
	logger logger.Logger
	now    func() time.Time
	parser *req.Parser
	secret []byte
	ttl    time.Duration
}

// An Option configures a *Service.
type Option func(*Service)

// WithClock sets the function telling the current time.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithCost sets the bcrypt cost passwords are hashed with.
func WithCost(cost int) Option {
	return func(s *Service) { s.cost = cost }
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// New constructs a *Service signing tokens with secret.
func New(secret []byte, opts ...Option) *Service {
	s := &Service{
		accounts: make(map[string]account),
		cost:     bcrypt.DefaultCost,
		now:      time.Now,
		parser:   req.NewParser(),
		secret:   secret,
		ttl:      DefaultTTL,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = logger.New()
	}

	return s
}

// Routes lists the stub's routes.
func (s *Service) Routes() []router.Route {
	return []router.Route{
		{Path: "/auth/login", Method: http.MethodPost, Handler: s.Login},
		{Path: "/auth/register", Method: http.MethodPost, Handler: s.Register},
	}
}

// Register creates an account.
// It answers 201 on success, 400 on missing fields and 409 for a taken email.
func (s *Service) Register(w http.ResponseWriter, r *http.Request) {
	var in registration
	if err := s.parser.ParseBody(r.Body, &in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"message": "Missing required fields"})
		return
	}

	acct, err := s.create(in)
	switch {
	case errors.Is(err, ErrExists):
		writeJSON(w, http.StatusConflict, map[string]any{"message": "Email already registered"})
		return
	case err != nil:
		s.logger.Error(err.Error(), &logger.LogContext{Error: err, Request: r})
		writeJSON(w, http.StatusInternalServerError, map[string]any{"message": "Could not register"})
		return
	}

	s.logger.Info("registered account", &logger.LogContext{Data: map[string]any{"id": acct.ID}})
	writeJSON(w, http.StatusCreated, map[string]any{"id": acct.ID, "email": acct.Email, "name": acct.Name})
}

// Login checks credentials and issues a token.
// It answers 200 with {token, expire}, 400 on missing fields and 401 on bad credentials.
func (s *Service) Login(w http.ResponseWriter, r *http.Request) {
	var in credentials
	if err := s.parser.ParseBody(r.Body, &in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"message": "Missing required fields"})
		return
	}

	acct, err := s.authenticate(in)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "Invalid credentials"})
		return
	}

	token, expire, err := s.issue(acct)
	if err != nil {
		s.logger.Error(err.Error(), &logger.LogContext{Error: err, Request: r})
		writeJSON(w, http.StatusInternalServerError, map[string]any{"message": "Could not sign in"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"token": token, "expire": expire.Format(time.RFC3339)})
}

// Verify parses token, returning its claims if the signature checks out and it has not expired.
func (s *Service) Verify(token string) (*jwt.RegisteredClaims, error) {
	claims := new(jwt.RegisteredClaims)
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}

		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}

	return claims, nil
}

func (s *Service) create(in registration) (account, error) {
	email := normalize(in.Email)
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return account{}, fmt.Errorf("hashing password: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accounts[email]; ok {
		return account{}, ErrExists
	}

	acct := account{ID: uuid.NewString(), Name: strings.TrimSpace(in.Name), Email: email, Hash: hash}
	s.accounts[email] = acct
	return acct, nil
}

func (s *Service) authenticate(in credentials) (account, error) {
	s.mu.RLock()
	acct, ok := s.accounts[normalize(in.Email)]
	s.mu.RUnlock()

	if !ok {
		return account{}, ErrBadCredentials
	}

	if err := bcrypt.CompareHashAndPassword(acct.Hash, []byte(in.Password)); err != nil {
		return account{}, fmt.Errorf("%w: %s", ErrBadCredentials, err)
	}

	return acct, nil
}

func (s *Service) issue(acct account) (string, time.Time, error) {
	now := s.now().UTC().Truncate(time.Second)
	expire := now.Add(s.ttl)

	claims := jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Subject:   acct.ID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expire),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("signing token: %w", err)
	}

	return token, expire, nil
}

func normalize(email string) string { return strings.ToLower(strings.TrimSpace(email)) }

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
