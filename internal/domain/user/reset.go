package user

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/google/uuid"
)

const resetCodeAttempts = 5

// ForgotPassword issues a six digit reset code for the account behind email
// and mails it. Earlier codes for the same account stop working.
func (s *Service) ForgotPassword(ctx context.Context, email string) (ResetIssue, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return ResetIssue{}, ErrEmailRequired
	}

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return ResetIssue{}, ErrEmailNotFound
		}
		return ResetIssue{}, err
	}

	code, reset, err := s.storeResetCode(ctx, user.Username)
	if err != nil {
		return ResetIssue{}, err
	}
	issue := ResetIssue{ExpiresAt: reset.ExpiresAt}

	if s.mailer != nil {
		err = s.mailer.SendResetCode(ctx, email, user.Fullname, code, reset.ExpiresAt)
		if err == nil {
			issue.Sent = true
			return issue, nil
		}
		s.log.InternalError("user.forgot_password: mail failed", err, "user_id", user.ID)
	}

	if !s.codeFallback {
		if delErr := s.repo.DeleteReset(ctx, reset.ID); delErr != nil {
			s.log.InternalError("user.forgot_password: discard code failed", delErr, "user_id", user.ID)
		}
		return ResetIssue{}, ErrMailUnavailable
	}

	s.log.Warn("user.forgot_password: returning code without mail", "user_id", user.ID)
	issue.Code = code
	return issue, nil
}

func (s *Service) storeResetCode(ctx context.Context, username string) (string, *PasswordReset, error) {
	for attempt := 0; attempt < resetCodeAttempts; attempt++ {
		code, err := s.newCode()
		if err != nil {
			return "", nil, err
		}

		reset := &PasswordReset{
			ID:        uuid.NewString(),
			CodeHash:  hashResetCode(code),
			Username:  username,
			ExpiresAt: s.now().UTC().Add(s.resetTTL),
		}

		err = s.repo.Transaction(ctx, func(tx Repository) error {
			if err := tx.DeleteResetsByUsername(ctx, username); err != nil {
				return err
			}
			return tx.CreateReset(ctx, reset)
		})
		if errors.Is(err, ErrResetCodeConflict) {
			continue
		}
		if err != nil {
			return "", nil, err
		}
		return code, reset, nil
	}
	return "", nil, fmt.Errorf("issue reset code: %w", ErrResetCodeConflict)
}

// ResetPassword consumes code and sets the new password. A code works once.
func (s *Service) ResetPassword(ctx context.Context, code, newPassword string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return ErrResetCodeInvalid
	}
	if newPassword == "" {
		return ErrPasswordRequired
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}

	var expired bool
	err = s.repo.Transaction(ctx, func(tx Repository) error {
		reset, err := tx.GetResetByHash(ctx, hashResetCode(code))
		if err != nil {
			return err
		}
		if err := tx.DeleteReset(ctx, reset.ID); err != nil {
			return err
		}
		if !s.now().UTC().Before(reset.ExpiresAt) {
			expired = true
			return nil
		}

		user, err := tx.GetByUsername(ctx, reset.Username)
		if err != nil {
			if errors.Is(err, ErrUserNotFound) {
				return ErrResetCodeInvalid
			}
			return err
		}
		return tx.UpdatePassword(ctx, user.ID, hash)
	})
	if err != nil {
		return err
	}
	if expired {
		return ErrResetCodeExpired
	}
	return nil
}

// SweepExpired drops reset codes whose expiry has passed.
func (s *Service) SweepExpired(ctx context.Context) (int64, error) {
	return s.repo.DeleteExpiredResets(ctx, s.now().UTC())
}

func generateResetCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

func hashResetCode(code string) string {
	sum := sha256.Sum256([]byte(code))
	return hex.EncodeToString(sum[:])
}
