package user

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"

	"dna-clinic-go/internal/domain/cascade"
	"dna-clinic-go/internal/domain/ids"
	"dna-clinic-go/pkg/logger"
)

type Service struct {
	repo    Repository
	remover Remover
	hasher  Hasher
	tokens  TokenIssuer
	google  GoogleVerifier
	mailer  Mailer
	log     logger.Logger

	resetTTL     time.Duration
	codeFallback bool
	newCode      func() (string, error)
	now          func() time.Time
}

type Option func(*Service)

func WithGoogle(verifier GoogleVerifier) Option {
	return func(s *Service) {
		s.google = verifier
	}
}

func WithMailer(mailer Mailer) Option {
	return func(s *Service) {
		s.mailer = mailer
	}
}

// WithResetPolicy sets how long reset codes live and whether a code may be
// handed back directly when mail delivery fails.
func WithResetPolicy(ttl time.Duration, codeFallback bool) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.resetTTL = ttl
		}
		s.codeFallback = codeFallback
	}
}

func WithLogger(log logger.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

func NewService(repo Repository, remover Remover, hasher Hasher, tokens TokenIssuer, opts ...Option) *Service {
	s := &Service{
		repo:     repo,
		remover:  remover,
		hasher:   hasher,
		tokens:   tokens,
		log:      logger.NewNop(),
		resetTTL: 30 * time.Minute,
		newCode:  generateResetCode,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Register(ctx context.Context, input RegisterInput) (*User, error) {
	return s.create(ctx, input, RoleCustomer)
}

// Create is the admin path and may assign any role.
func (s *Service) Create(ctx context.Context, input CreateInput) (*User, error) {
	if !input.Role.Valid() {
		return nil, ErrUnknownRole
	}
	return s.create(ctx, input.RegisterInput, input.Role)
}

func (s *Service) create(ctx context.Context, input RegisterInput, role Role) (*User, error) {
	username := normalizeUsername(input.Username)
	if username == "" {
		return nil, ErrUsernameRequired
	}
	if input.Password == "" {
		return nil, ErrPasswordRequired
	}
	profile := normalizeProfile(input.ProfileInput)

	if err := s.ensureAvailable(ctx, username, profile.Email, ""); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	user := User{
		Username:     username,
		PasswordHash: hash,
		RoleID:       role,
	}
	applyProfile(&user, profile)

	if err := s.insert(ctx, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Service) insert(ctx context.Context, user *User) error {
	_, err := ids.Reserve(ctx, ids.User, s.repo.ListIDs, func(ctx context.Context, id string) error {
		user.ID = id
		return s.repo.Create(ctx, user)
	}, s.now)
	return err
}

func (s *Service) Login(ctx context.Context, username, password string) (*Session, error) {
	user, err := s.repo.GetByUsername(ctx, normalizeUsername(username))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if user.PasswordHash == "" || !s.hasher.Compare(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return s.session(user)
}

// LoginWithGoogle signs in the account owning the token's email, creating a
// customer account on first use.
func (s *Service) LoginWithGoogle(ctx context.Context, idToken string) (*Session, error) {
	if s.google == nil {
		return nil, ErrGoogleDisabled
	}

	identity, err := s.google.Verify(ctx, idToken)
	if err != nil {
		s.log.BusinessError("user.google: token rejected", err)
		return nil, ErrGoogleToken
	}
	email := strings.ToLower(strings.TrimSpace(identity.Email))
	if email == "" {
		return nil, ErrGoogleToken
	}

	user, err := s.repo.GetByEmail(ctx, email)
	if err == nil {
		return s.session(user)
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	user = &User{
		Username: email,
		Fullname: strings.TrimSpace(identity.Name),
		Email:    &email,
		Image:    identity.Picture,
		RoleID:   RoleCustomer,
	}
	if err := s.insert(ctx, user); err != nil {
		return nil, err
	}
	s.log.Info("user.google: account created", "user_id", user.ID)
	return s.session(user)
}

func (s *Service) session(user *User) (*Session, error) {
	token, expiresAt, err := s.tokens.Issue(user.ID, user.Username, user.RoleID.String())
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, ExpiresAt: expiresAt, User: *user}, nil
}

func (s *Service) Get(ctx context.Context, id string) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns all users, or only those with role when role is non-zero.
func (s *Service) List(ctx context.Context, role Role) ([]User, error) {
	if role != 0 && !role.Valid() {
		return nil, ErrUnknownRole
	}
	return s.repo.List(ctx, role)
}

func (s *Service) Update(ctx context.Context, id string, input UpdateInput) (*User, error) {
	if input.Role != 0 && !input.Role.Valid() {
		return nil, ErrUnknownRole
	}
	return s.update(ctx, id, input.ProfileInput, input.Role)
}

// UpdateProfile is the self-service edit; the role is never touched.
func (s *Service) UpdateProfile(ctx context.Context, id string, input ProfileInput) (*User, error) {
	return s.update(ctx, id, input, 0)
}

func (s *Service) update(ctx context.Context, id string, input ProfileInput, role Role) (*User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	profile := normalizeProfile(input)
	if err := s.ensureAvailable(ctx, "", profile.Email, user.ID); err != nil {
		return nil, err
	}

	mergeProfile(user, profile)
	if role != 0 {
		user.RoleID = role
	}
	user.UpdatedAt = s.now().UTC()

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *Service) SetImage(ctx context.Context, id, image string) (*User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdateImage(ctx, id, image); err != nil {
		return nil, err
	}
	user.Image = image
	return user, nil
}

func (s *Service) ChangePassword(ctx context.Context, id, oldPassword, newPassword string) error {
	if newPassword == "" {
		return ErrPasswordRequired
	}
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if user.PasswordHash != "" && !s.hasher.Compare(user.PasswordHash, oldPassword) {
		return ErrWrongPassword
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}
	return s.repo.UpdatePassword(ctx, id, hash)
}

// Delete removes a user and everything they own. Callers cannot delete
// their own account.
func (s *Service) Delete(ctx context.Context, actorID, id string) (cascade.Report, error) {
	if actorID != "" && actorID == id {
		return cascade.Report{}, ErrSelfDelete
	}

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return cascade.Report{}, err
	}
	// Reset codes are keyed by username, which a new account may reuse.
	if err := s.repo.DeleteResetsByUsername(ctx, user.Username); err != nil {
		return cascade.Report{}, err
	}

	report, err := s.remover.Delete(ctx, cascade.Users, id)
	if errors.Is(err, cascade.ErrNothingDeleted) {
		return report, ErrUserNotFound
	}
	if err != nil {
		return report, err
	}
	if len(report.Skipped) > 0 {
		s.log.Warn("user.delete: best-effort cleanup skipped", "user_id", id, "skipped", report.Skipped)
	}
	return report, nil
}

func (s *Service) ensureAvailable(ctx context.Context, username string, email *string, selfID string) error {
	if username != "" {
		existing, err := s.repo.GetByUsername(ctx, username)
		if err == nil && existing.ID != selfID {
			return ErrUsernameTaken
		}
		if err != nil && !errors.Is(err, ErrUserNotFound) {
			return err
		}
	}
	if email != nil {
		existing, err := s.repo.GetByEmail(ctx, *email)
		if err == nil && existing.ID != selfID {
			return ErrEmailTaken
		}
		if err != nil && !errors.Is(err, ErrUserNotFound) {
			return err
		}
	}
	return nil
}

type normalizedProfile struct {
	ProfileInput
	Email *string
}

func normalizeProfile(input ProfileInput) normalizedProfile {
	profile := normalizedProfile{ProfileInput: input}
	profile.Fullname = norm.NFC.String(strings.TrimSpace(input.Fullname))
	profile.Phone = strings.TrimSpace(input.Phone)
	profile.Gender = strings.TrimSpace(input.Gender)
	profile.Address = strings.TrimSpace(input.Address)
	if email := strings.ToLower(strings.TrimSpace(input.Email)); email != "" {
		profile.Email = &email
	}
	return profile
}

func applyProfile(user *User, profile normalizedProfile) {
	user.Fullname = profile.Fullname
	user.Email = profile.Email
	user.Phone = profile.Phone
	user.Gender = profile.Gender
	user.Address = profile.Address
	user.Birthdate = profile.Birthdate
}

// mergeProfile overwrites only the fields the caller supplied; empty strings
// and nil pointers keep the stored value.
func mergeProfile(user *User, profile normalizedProfile) {
	if profile.Fullname != "" {
		user.Fullname = profile.Fullname
	}
	if profile.Email != nil {
		user.Email = profile.Email
	}
	if profile.Phone != "" {
		user.Phone = profile.Phone
	}
	if profile.Gender != "" {
		user.Gender = profile.Gender
	}
	if profile.Address != "" {
		user.Address = profile.Address
	}
	if profile.Birthdate != nil {
		user.Birthdate = profile.Birthdate
	}
}

func normalizeUsername(username string) string {
	return norm.NFC.String(strings.TrimSpace(username))
}
