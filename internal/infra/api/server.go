// File: internal/infra/api/server.go
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"activation-service/internal/domain"
	"activation-service/internal/infra/logging"
	"activation-service/internal/infra/metrics"
	"activation-service/internal/infra/redis"
	"activation-service/internal/usecase"
)

const maxBodyBytes = 16 << 10

// Authenticator resolves the caller identity of a request.
type Authenticator interface {
	SubjectFromRequest(r *http.Request) (string, error)
}

// RateLimiter counts attempts per key inside a fixed window.
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

type Options struct {
	RedeemLimit    int
	RedeemWindow   time.Duration
	RequestTimeout time.Duration
	AllowedOrigins []string
	Messages       MessageCatalog // nil serves the built-in English text
	Dev            bool           // log identifiers unredacted
}

// Server exposes redemption, pre-check, subscription status and invite
// registration over JSON.
type Server struct {
	redemption    usecase.RedemptionUseCase
	subscriptions usecase.SubscriptionUseCase
	invites       usecase.InviteUseCase
	auth          Authenticator
	limiter       RateLimiter // nil disables rate limiting
	opts          Options
	log           *zerolog.Logger
}

func NewServer(
	redemption usecase.RedemptionUseCase,
	subscriptions usecase.SubscriptionUseCase,
	invites usecase.InviteUseCase,
	auth Authenticator,
	limiter RateLimiter,
	opts Options,
	logger *zerolog.Logger,
) *Server {
	if opts.RedeemLimit <= 0 {
		opts.RedeemLimit = 10
	}
	if opts.RedeemWindow <= 0 {
		opts.RedeemWindow = time.Minute
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 10 * time.Second
	}
	l := logger.With().Str("component", "api").Logger()
	return &Server{
		redemption:    redemption,
		subscriptions: subscriptions,
		invites:       invites,
		auth:          auth,
		limiter:       limiter,
		opts:          opts,
		log:           &l,
	}
}

// Router builds the full HTTP handler including middleware.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(
		TraceID(),
		Recover(s.log),
		RequestLog(s.log),
		CORS(s.opts.AllowedOrigins),
		Timeout(s.opts.RequestTimeout),
	)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Post("/activation/redeem", s.handleRedeem)
		r.Post("/activation/verify", s.handleVerify)
		r.Get("/subscription", s.handleSubscription)
		r.Post("/invites", s.handleRegisterInvite)
	})
	return r
}

type codeRequest struct {
	ActivationCode string `json:"activation_code"`
}

func (s *Server) handleRedeem(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	result := "ok"
	defer func() { metrics.ObserveRedemption(result, time.Since(start)) }()

	fail := func(err error) {
		kind := domain.KindOf(err)
		result = string(kind)
		s.writeError(w, r, kind)
	}

	subject, err := s.auth.SubjectFromRequest(r)
	if err != nil {
		fail(err)
		return
	}
	ctx := logging.WithSubjectID(r.Context(), subject)
	log := logging.With(ctx, s.log)

	if s.limiter != nil {
		allowed, err := s.limiter.Allow(ctx, redis.RedeemKey(subject), s.opts.RedeemLimit, s.opts.RedeemWindow)
		switch {
		case err != nil:
			// fail open: a broken limiter must not block redemptions
			log.Warn().Err(err).Msg("rate limiter unavailable")
		case !allowed:
			fail(domain.ErrRateLimited)
			return
		}
	}

	var req codeRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		log.Debug().Err(err).Msg("redeem: unreadable body")
		fail(domain.ErrMissingCode)
		return
	}

	if _, err := s.redemption.Redeem(ctx, subject, req.ActivationCode); err != nil {
		fail(err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	var req codeRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		req.ActivationCode = ""
	}

	res, err := s.redemption.PreCheck(req.ActivationCode)
	if err != nil {
		kind := domain.KindOf(err)
		metrics.IncVerifyRequest(string(kind))
		s.writeError(w, r, kind)
		return
	}
	metrics.IncVerifyRequest("ok")
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "valid": res.Valid, "days": res.Days})
}

type subscriptionResponse struct {
	SubjectID     string     `json:"subject_id"`
	BenefitExpiry *time.Time `json:"benefit_expiry"`
	Active        bool       `json:"active"`
}

func (s *Server) handleSubscription(w http.ResponseWriter, r *http.Request) {
	subject, err := s.auth.SubjectFromRequest(r)
	if err != nil {
		s.writeError(w, r, domain.KindOf(err))
		return
	}
	ctx := logging.WithSubjectID(r.Context(), subject)

	st, err := s.subscriptions.Status(ctx, subject)
	if err != nil {
		logging.With(ctx, s.log).Error().Err(err).Msg("subscription status failed")
		s.writeError(w, r, domain.KindOf(err))
		return
	}
	writeJSON(w, http.StatusOK, subscriptionResponse{
		SubjectID:     st.SubjectID,
		BenefitExpiry: st.BenefitExpiry,
		Active:        st.Active,
	})
}

type inviteRequest struct {
	InviterID string `json:"inviter_id"`
}

// handleRegisterInvite registers the authenticated caller as invitee of inviter_id.
func (s *Server) handleRegisterInvite(w http.ResponseWriter, r *http.Request) {
	subject, err := s.auth.SubjectFromRequest(r)
	if err != nil {
		s.writeError(w, r, domain.KindOf(err))
		return
	}
	ctx := logging.WithSubjectID(r.Context(), subject)

	var req inviteRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		s.writeError(w, r, domain.KindInvalidArgument)
		return
	}

	inv, err := s.invites.Register(ctx, req.InviterID, subject)
	if err != nil {
		kind := domain.KindOf(err)
		logging.With(ctx, s.log).Info().
			Str("inviter_id", logging.Redact(req.InviterID, s.opts.Dev)).
			Str("kind", string(kind)).
			Msg("invite registration rejected")
		s.writeError(w, r, kind)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"ok": true, "id": inv.ID})
}
