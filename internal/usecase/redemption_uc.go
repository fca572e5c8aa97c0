// File: internal/usecase/redemption_uc.go
package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"activation-service/internal/domain"
	"activation-service/internal/domain/model"
	"activation-service/internal/domain/ports/repository"
	"activation-service/internal/infra/logging"
	"activation-service/internal/license"
)

// Compile-time check
var _ RedemptionUseCase = (*redemptionUC)(nil)

type RedemptionUseCase interface {
	// Redeem verifies code and credits its days to identity. Every code can be
	// redeemed once across all subjects.
	Redeem(ctx context.Context, identity, code string) (*RedeemResult, error)
	// PreCheck verifies code without touching storage. The result is advisory only.
	PreCheck(code string) (*PreCheckResult, error)
}

// RewardNotifier is told about every committed redemption. It must not
// block the caller on failure; errors stay on its side.
type RewardNotifier interface {
	Notify(ctx context.Context, inviteeID string, redeemedDays int)
}

type RedeemResult struct {
	SubjectID     string
	Days          int
	BenefitExpiry time.Time
}

type PreCheckResult struct {
	Valid bool
	Days  int
}

type redemptionUC struct {
	verifier *license.Verifier
	subs     repository.SubscriptionRepository
	codes    repository.UsedCodeRepository
	rewards  RewardNotifier
	tm       repository.TransactionManager

	log *zerolog.Logger
	dev bool
}

// NewRedemptionUseCase wires the ledger. A nil verifier is allowed so the
// service can start without a key; every redemption then fails with
// domain.ErrServerConfig. rewards may be nil.
func NewRedemptionUseCase(
	verifier *license.Verifier,
	subs repository.SubscriptionRepository,
	codes repository.UsedCodeRepository,
	rewards RewardNotifier,
	tm repository.TransactionManager,
	logger *zerolog.Logger,
	dev bool,
) *redemptionUC {
	return &redemptionUC{
		verifier: verifier,
		subs:     subs,
		codes:    codes,
		rewards:  rewards,
		tm:       tm,
		log:      logger,
		dev:      dev,
	}
}

func (u *redemptionUC) Redeem(ctx context.Context, identity, code string) (*RedeemResult, error) {
	log := logging.With(ctx, u.log)
	defer logging.TraceDuration(log, "RedemptionUC.Redeem")()

	identity = strings.TrimSpace(identity)
	if identity == "" {
		return nil, domain.ErrUnauthorized
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, domain.ErrMissingCode
	}
	if u.verifier == nil {
		log.Error().Msg("redeem: no public key configured")
		return nil, domain.ErrServerConfig
	}

	verified, err := u.verifier.Verify(code)
	if err != nil {
		log.Info().Str("code", logging.Redact(code, u.dev)).Str("kind", string(domain.KindOf(err))).Msg("redeem: code rejected")
		return nil, err
	}

	codeHash := license.CodeHash(verified.Code)
	now := time.Now()

	var expiry time.Time
	err = u.tm.WithTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted}, func(ctx context.Context, tx repository.Tx) error {
		used, err := u.codes.Exists(ctx, tx, codeHash)
		if err != nil {
			return err
		}
		if used {
			return domain.ErrCodeAlreadyUsed
		}

		expiry, err = u.subs.ExtendExpiry(ctx, tx, identity, now, verified.Days)
		if err != nil {
			return err
		}

		// A concurrent redemption of the same code may have inserted between
		// Exists and here; Insert then reports ErrCodeAlreadyUsed and the
		// extension above is rolled back with the transaction.
		return u.codes.Insert(ctx, tx, &model.UsedCodeRecord{
			CodeHash:  codeHash,
			SubjectID: identity,
			UsedAt:    now,
		})
	})
	if err != nil {
		if errors.Is(err, domain.ErrCodeAlreadyUsed) {
			log.Info().Str("code_hash", codeHash).Msg("redeem: code already used")
			return nil, domain.ErrCodeAlreadyUsed
		}
		log.Error().Err(err).Str("code_hash", codeHash).Int("days", verified.Days).Msg("redeem: ledger transaction failed")
		return nil, fmt.Errorf("redeem: %w", err)
	}

	log.Info().Str("code_hash", codeHash).Int("days", verified.Days).Time("benefit_expiry", expiry).Msg("code redeemed")

	if u.rewards != nil {
		u.rewards.Notify(ctx, identity, verified.Days)
	}

	return &RedeemResult{SubjectID: identity, Days: verified.Days, BenefitExpiry: expiry}, nil
}

func (u *redemptionUC) PreCheck(code string) (*PreCheckResult, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, domain.ErrMissingCode
	}
	if u.verifier == nil {
		return nil, domain.ErrServerConfig
	}
	res, err := u.verifier.Verify(code)
	if err != nil {
		return nil, err
	}
	return &PreCheckResult{Valid: res.Valid, Days: res.Days}, nil
}
