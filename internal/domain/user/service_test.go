package user

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"
	"time"

	"dna-clinic-go/internal/domain/cascade"
)

type fakeUserRepo struct {
	users  map[string]*User
	resets map[string]*PasswordReset
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:  make(map[string]*User),
		resets: make(map[string]*PasswordReset),
	}
}

func (r *fakeUserRepo) Transaction(ctx context.Context, fn func(Repository) error) error {
	return fn(r)
}

func (r *fakeUserRepo) ListIDs(ctx context.Context, prefix string) ([]string, error) {
	result := make([]string, 0, len(r.users))
	for id := range r.users {
		if strings.HasPrefix(id, prefix) {
			result = append(result, id)
		}
	}
	return result, nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*User, error) {
	for _, user := range r.users {
		if user.Username == username {
			copied := *user
			return &copied, nil
		}
	}
	return nil, ErrUserNotFound
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*User, error) {
	for _, user := range r.users {
		if user.Email != nil && *user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, ErrUserNotFound
}

func (r *fakeUserRepo) List(ctx context.Context, role Role) ([]User, error) {
	result := make([]User, 0)
	for _, user := range r.users {
		if role == 0 || user.RoleID == role {
			result = append(result, *user)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *fakeUserRepo) Create(ctx context.Context, user *User) error {
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) Update(ctx context.Context, user *User) error {
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	user, ok := r.users[id]
	if !ok {
		return ErrUserNotFound
	}
	user.PasswordHash = passwordHash
	return nil
}

func (r *fakeUserRepo) UpdateImage(ctx context.Context, id, image string) error {
	user, ok := r.users[id]
	if !ok {
		return ErrUserNotFound
	}
	user.Image = image
	return nil
}

func (r *fakeUserRepo) CreateReset(ctx context.Context, reset *PasswordReset) error {
	for _, existing := range r.resets {
		if existing.CodeHash == reset.CodeHash {
			return ErrResetCodeConflict
		}
	}
	copied := *reset
	r.resets[reset.ID] = &copied
	return nil
}

func (r *fakeUserRepo) GetResetByHash(ctx context.Context, codeHash string) (*PasswordReset, error) {
	for _, reset := range r.resets {
		if reset.CodeHash == codeHash {
			copied := *reset
			return &copied, nil
		}
	}
	return nil, ErrResetCodeInvalid
}

func (r *fakeUserRepo) DeleteReset(ctx context.Context, id string) error {
	delete(r.resets, id)
	return nil
}

func (r *fakeUserRepo) DeleteResetsByUsername(ctx context.Context, username string) error {
	for id, reset := range r.resets {
		if reset.Username == username {
			delete(r.resets, id)
		}
	}
	return nil
}

func (r *fakeUserRepo) DeleteExpiredResets(ctx context.Context, now time.Time) (int64, error) {
	var n int64
	for id, reset := range r.resets {
		if !reset.ExpiresAt.After(now) {
			delete(r.resets, id)
			n++
		}
	}
	return n, nil
}

type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) {
	return "hashed:" + password, nil
}

func (plainHasher) Compare(hash, password string) bool {
	return hash == "hashed:"+password
}

type fakeTokens struct{}

func (fakeTokens) Issue(userID, username, role string) (string, time.Time, error) {
	return "token-" + userID + "-" + role, time.Time{}, nil
}

type fakeRemover struct {
	calls []string
	repo  *fakeUserRepo
}

func (r *fakeRemover) Delete(ctx context.Context, root cascade.Table, ids ...string) (cascade.Report, error) {
	r.calls = append(r.calls, ids...)
	for _, id := range ids {
		if _, ok := r.repo.users[id]; !ok {
			return cascade.Report{}, cascade.ErrNothingDeleted
		}
		delete(r.repo.users, id)
	}
	return cascade.Report{Deleted: map[cascade.Table]int64{root: int64(len(ids))}}, nil
}

type fakeMailer struct {
	fail  bool
	codes []string
}

func (m *fakeMailer) SendResetCode(ctx context.Context, to, fullname, code string, expiresAt time.Time) error {
	if m.fail {
		return errors.New("smtp down")
	}
	m.codes = append(m.codes, code)
	return nil
}

type fakeGoogle struct {
	identity GoogleIdentity
	err      error
}

func (g fakeGoogle) Verify(ctx context.Context, idToken string) (GoogleIdentity, error) {
	return g.identity, g.err
}

type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time {
	return c.now
}

func newTestService(repo *fakeUserRepo, opts ...Option) (*Service, *fakeRemover, *testClock) {
	remover := &fakeRemover{repo: repo}
	clock := &testClock{now: time.Date(2026, 3, 4, 9, 0, 0, 0, time.UTC)}
	svc := NewService(repo, remover, plainHasher{}, fakeTokens{}, opts...)
	svc.now = clock.Now
	return svc, remover, clock
}

func TestRegisterHashesAndAssignsCustomerRole(t *testing.T) {
	repo := newFakeUserRepo()
	svc, _, _ := newTestService(repo)

	user, err := svc.Register(context.Background(), RegisterInput{
		Username:     " lan ",
		Password:     "secret",
		ProfileInput: ProfileInput{Fullname: "Nguyễn Lan", Email: "Lan@Example.com"},
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.ID != "U0001" {
		t.Fatalf("expected U0001, got %s", user.ID)
	}
	if user.Username != "lan" || user.RoleID != RoleCustomer {
		t.Fatalf("unexpected user %+v", user)
	}
	if user.PasswordHash == "secret" {
		t.Fatalf("expected password to be hashed")
	}
	if user.Email == nil || *user.Email != "lan@example.com" {
		t.Fatalf("expected lowercased email, got %v", user.Email)
	}
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	repo := newFakeUserRepo()
	svc, _, _ := newTestService(repo)
	ctx := context.Background()

	if _, err := svc.Register(ctx, RegisterInput{Username: "lan", Password: "x", ProfileInput: ProfileInput{Email: "lan@example.com"}}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := svc.Register(ctx, RegisterInput{Username: "lan", Password: "x"}); !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}
	if _, err := svc.Register(ctx, RegisterInput{Username: "mai", Password: "x", ProfileInput: ProfileInput{Email: "LAN@example.com"}}); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
	if _, err := svc.Register(ctx, RegisterInput{Username: "", Password: "x"}); !errors.Is(err, ErrUsernameRequired) {
		t.Fatalf("expected ErrUsernameRequired, got %v", err)
	}
}

func TestLogin(t *testing.T) {
	repo := newFakeUserRepo()
	svc, _, _ := newTestService(repo)
	ctx := context.Background()

	if _, err := svc.Create(ctx, CreateInput{RegisterInput: RegisterInput{Username: "staff1", Password: "pw"}, Role: RoleStaff}); err != nil {
		t.Fatalf("create: %v", err)
	}

	session, err := svc.Login(ctx, "staff1", "pw")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if session.Token != "token-U0001-Staff" {
		t.Fatalf("unexpected token %q", session.Token)
	}

	if _, err := svc.Login(ctx, "staff1", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Login(ctx, "nobody", "pw"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown user, got %v", err)
	}
}

func TestLoginWithGoogleCreatesCustomerOnce(t *testing.T) {
	repo := newFakeUserRepo()
	svc, _, _ := newTestService(repo, WithGoogle(fakeGoogle{identity: GoogleIdentity{Email: "an@gmail.com", Name: "An"}}))
	ctx := context.Background()

	first, err := svc.LoginWithGoogle(ctx, "id-token")
	if err != nil {
		t.Fatalf("google login: %v", err)
	}
	second, err := svc.LoginWithGoogle(ctx, "id-token")
	if err != nil {
		t.Fatalf("google login: %v", err)
	}
	if first.User.ID != second.User.ID || len(repo.users) != 1 {
		t.Fatalf("expected a single account, got %d", len(repo.users))
	}
	if first.User.RoleID != RoleCustomer {
		t.Fatalf("expected customer role, got %v", first.User.RoleID)
	}

	// Google accounts have no password to log in with.
	if _, err := svc.Login(ctx, "an@gmail.com", ""); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected password login to fail, got %v", err)
	}
}

func TestLoginWithGoogleErrors(t *testing.T) {
	repo := newFakeUserRepo()
	svc, _, _ := newTestService(repo)
	if _, err := svc.LoginWithGoogle(context.Background(), "x"); !errors.Is(err, ErrGoogleDisabled) {
		t.Fatalf("expected ErrGoogleDisabled, got %v", err)
	}

	svc, _, _ = newTestService(repo, WithGoogle(fakeGoogle{err: errors.New("bad audience")}))
	if _, err := svc.LoginWithGoogle(context.Background(), "x"); !errors.Is(err, ErrGoogleToken) {
		t.Fatalf("expected ErrGoogleToken, got %v", err)
	}
}

func TestUpdateProfileKeepsRole(t *testing.T) {
	repo := newFakeUserRepo()
	repo.users["U0001"] = &User{ID: "U0001", Username: "lan", RoleID: RoleStaff}
	svc, _, _ := newTestService(repo)

	user, err := svc.UpdateProfile(context.Background(), "U0001", ProfileInput{Fullname: " Trần Lan ", Phone: "0901"})
	if err != nil {
		t.Fatalf("update profile: %v", err)
	}
	if user.RoleID != RoleStaff || user.Fullname != "Trần Lan" {
		t.Fatalf("unexpected user %+v", user)
	}

	user, err = svc.Update(context.Background(), "U0001", UpdateInput{Role: RoleManager})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if user.RoleID != RoleManager {
		t.Fatalf("expected manager, got %v", user.RoleID)
	}

	if _, err := svc.Update(context.Background(), "U0001", UpdateInput{Role: Role(9)}); !errors.Is(err, ErrUnknownRole) {
		t.Fatalf("expected ErrUnknownRole, got %v", err)
	}
}

func TestUpdateKeepsOmittedFields(t *testing.T) {
	repo := newFakeUserRepo()
	email := "lan@example.com"
	birthdate := time.Date(1990, 2, 3, 0, 0, 0, 0, time.UTC)
	repo.users["U0001"] = &User{
		ID:        "U0001",
		Username:  "lan",
		Fullname:  "Trần Lan",
		Email:     &email,
		Phone:     "0901",
		Gender:    "Nữ",
		Address:   "Hà Nội",
		Birthdate: &birthdate,
		RoleID:    RoleStaff,
	}
	svc, _, _ := newTestService(repo)
	ctx := context.Background()

	user, err := svc.Update(ctx, "U0001", UpdateInput{Role: RoleManager})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if user.RoleID != RoleManager {
		t.Fatalf("expected manager, got %v", user.RoleID)
	}
	if user.Fullname != "Trần Lan" || user.Email == nil || *user.Email != email || user.Phone != "0901" ||
		user.Gender != "Nữ" || user.Address != "Hà Nội" || user.Birthdate == nil || !user.Birthdate.Equal(birthdate) {
		t.Fatalf("expected profile untouched, got %+v", user)
	}

	user, err = svc.UpdateProfile(ctx, "U0001", ProfileInput{Phone: "0902"})
	if err != nil {
		t.Fatalf("update profile: %v", err)
	}
	stored := repo.users["U0001"]
	if user.Phone != "0902" || stored.Phone != "0902" {
		t.Fatalf("expected phone 0902, got %q", stored.Phone)
	}
	if stored.Email == nil || *stored.Email != email || stored.Fullname != "Trần Lan" {
		t.Fatalf("expected email and name kept, got %+v", stored)
	}
}

func TestChangePassword(t *testing.T) {
	repo := newFakeUserRepo()
	repo.users["U0001"] = &User{ID: "U0001", Username: "lan", PasswordHash: "hashed:old"}
	svc, _, _ := newTestService(repo)
	ctx := context.Background()

	if err := svc.ChangePassword(ctx, "U0001", "bad", "new"); !errors.Is(err, ErrWrongPassword) {
		t.Fatalf("expected ErrWrongPassword, got %v", err)
	}
	if err := svc.ChangePassword(ctx, "U0001", "old", "new"); err != nil {
		t.Fatalf("change password: %v", err)
	}
	if repo.users["U0001"].PasswordHash != "hashed:new" {
		t.Fatalf("expected password updated")
	}
}

func TestDeleteRejectsSelfBeforeCascade(t *testing.T) {
	repo := newFakeUserRepo()
	repo.users["U0001"] = &User{ID: "U0001", Username: "admin", RoleID: RoleAdmin}
	repo.users["U0002"] = &User{ID: "U0002", Username: "lan"}
	svc, remover, _ := newTestService(repo)
	ctx := context.Background()

	if _, err := svc.Delete(ctx, "U0001", "U0001"); !errors.Is(err, ErrSelfDelete) {
		t.Fatalf("expected ErrSelfDelete, got %v", err)
	}
	if len(remover.calls) != 0 {
		t.Fatalf("expected no cascade for self delete")
	}

	if _, err := svc.Delete(ctx, "U0001", "U0002"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.Delete(ctx, "U0001", "U0404"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestDeleteDropsPendingResetCodes(t *testing.T) {
	repo := newFakeUserRepo()
	seedResetUser(repo)
	repo.users["U0002"] = &User{ID: "U0002", Username: "admin", RoleID: RoleAdmin}
	mailer := &fakeMailer{}
	svc, _, _ := newTestService(repo, WithMailer(mailer))
	ctx := context.Background()

	if _, err := svc.ForgotPassword(ctx, "lan@example.com"); err != nil {
		t.Fatalf("forgot: %v", err)
	}
	if _, err := svc.Delete(ctx, "U0002", "U0001"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(repo.resets) != 0 {
		t.Fatalf("expected reset codes removed, got %d", len(repo.resets))
	}

	if _, err := svc.Register(ctx, RegisterInput{Username: "lan", Password: "pw"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := svc.ResetPassword(ctx, mailer.codes[0], "taken"); !errors.Is(err, ErrResetCodeInvalid) {
		t.Fatalf("expected ErrResetCodeInvalid, got %v", err)
	}
}

func seedResetUser(repo *fakeUserRepo) {
	email := "lan@example.com"
	repo.users["U0001"] = &User{ID: "U0001", Username: "lan", Email: &email, PasswordHash: "hashed:old"}
}

func TestResetCodeWorksExactlyOnce(t *testing.T) {
	repo := newFakeUserRepo()
	seedResetUser(repo)
	mailer := &fakeMailer{}
	svc, _, clock := newTestService(repo, WithMailer(mailer))
	ctx := context.Background()

	issue, err := svc.ForgotPassword(ctx, "LAN@example.com")
	if err != nil {
		t.Fatalf("forgot: %v", err)
	}
	if !issue.Sent || issue.Code != "" {
		t.Fatalf("expected mailed code only, got %+v", issue)
	}
	if len(mailer.codes) != 1 || len(mailer.codes[0]) != 6 {
		t.Fatalf("expected one six digit code, got %v", mailer.codes)
	}
	for _, reset := range repo.resets {
		if reset.CodeHash == mailer.codes[0] {
			t.Fatalf("expected code to be stored hashed")
		}
	}

	clock.now = clock.now.Add(29 * time.Minute)
	if err := svc.ResetPassword(ctx, mailer.codes[0], "new"); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if repo.users["U0001"].PasswordHash != "hashed:new" {
		t.Fatalf("expected password updated")
	}
	if err := svc.ResetPassword(ctx, mailer.codes[0], "again"); !errors.Is(err, ErrResetCodeInvalid) {
		t.Fatalf("expected ErrResetCodeInvalid on reuse, got %v", err)
	}
}

func TestResetCodeExpiresAfterThirtyMinutes(t *testing.T) {
	repo := newFakeUserRepo()
	seedResetUser(repo)
	mailer := &fakeMailer{}
	svc, _, clock := newTestService(repo, WithMailer(mailer))
	ctx := context.Background()

	if _, err := svc.ForgotPassword(ctx, "lan@example.com"); err != nil {
		t.Fatalf("forgot: %v", err)
	}

	clock.now = clock.now.Add(30 * time.Minute)
	if err := svc.ResetPassword(ctx, mailer.codes[0], "new"); !errors.Is(err, ErrResetCodeExpired) {
		t.Fatalf("expected ErrResetCodeExpired, got %v", err)
	}
	if len(repo.resets) != 0 {
		t.Fatalf("expected expired code removed")
	}
	if err := svc.ResetPassword(ctx, mailer.codes[0], "new"); !errors.Is(err, ErrResetCodeInvalid) {
		t.Fatalf("expected ErrResetCodeInvalid after expiry cleanup, got %v", err)
	}
	if repo.users["U0001"].PasswordHash != "hashed:old" {
		t.Fatalf("expected password unchanged")
	}
}

func TestForgotPasswordReplacesEarlierCode(t *testing.T) {
	repo := newFakeUserRepo()
	seedResetUser(repo)
	mailer := &fakeMailer{}
	svc, _, _ := newTestService(repo, WithMailer(mailer))
	codes := []string{"111111", "222222"}
	svc.newCode = func() (string, error) {
		code := codes[0]
		codes = codes[1:]
		return code, nil
	}
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := svc.ForgotPassword(ctx, "lan@example.com"); err != nil {
			t.Fatalf("forgot: %v", err)
		}
	}
	if err := svc.ResetPassword(ctx, "111111", "new"); !errors.Is(err, ErrResetCodeInvalid) {
		t.Fatalf("expected first code revoked, got %v", err)
	}
	if err := svc.ResetPassword(ctx, "222222", "new"); err != nil {
		t.Fatalf("reset with latest code: %v", err)
	}
}

func TestForgotPasswordMailFailure(t *testing.T) {
	repo := newFakeUserRepo()
	seedResetUser(repo)
	ctx := context.Background()

	svc, _, _ := newTestService(repo, WithMailer(&fakeMailer{fail: true}), WithResetPolicy(0, false))
	if _, err := svc.ForgotPassword(ctx, "lan@example.com"); !errors.Is(err, ErrMailUnavailable) {
		t.Fatalf("expected ErrMailUnavailable, got %v", err)
	}
	if len(repo.resets) != 0 {
		t.Fatalf("expected undelivered code discarded")
	}

	svc, _, _ = newTestService(repo, WithMailer(&fakeMailer{fail: true}), WithResetPolicy(0, true))
	issue, err := svc.ForgotPassword(ctx, "lan@example.com")
	if err != nil {
		t.Fatalf("forgot with fallback: %v", err)
	}
	if issue.Sent || len(issue.Code) != 6 {
		t.Fatalf("expected fallback code, got %+v", issue)
	}
	if err := svc.ResetPassword(ctx, issue.Code, "new"); err != nil {
		t.Fatalf("reset with fallback code: %v", err)
	}
}

func TestForgotPasswordUnknownEmail(t *testing.T) {
	repo := newFakeUserRepo()
	svc, _, _ := newTestService(repo)
	if _, err := svc.ForgotPassword(context.Background(), "ghost@example.com"); !errors.Is(err, ErrEmailNotFound) {
		t.Fatalf("expected ErrEmailNotFound, got %v", err)
	}
}

func TestSweepExpired(t *testing.T) {
	repo := newFakeUserRepo()
	now := time.Date(2026, 3, 4, 9, 0, 0, 0, time.UTC)
	repo.resets["a"] = &PasswordReset{ID: "a", CodeHash: "a", ExpiresAt: now.Add(-time.Minute)}
	repo.resets["b"] = &PasswordReset{ID: "b", CodeHash: "b", ExpiresAt: now.Add(time.Minute)}
	svc, _, _ := newTestService(repo)

	n, err := svc.SweepExpired(context.Background())
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if n != 1 || len(repo.resets) != 1 {
		t.Fatalf("expected one expired code removed, got %d", n)
	}
}

func TestParseRole(t *testing.T) {
	role, err := ParseRole(" staff ")
	if err != nil || role != RoleStaff {
		t.Fatalf("expected staff, got %v %v", role, err)
	}
	if _, err := ParseRole("Owner"); !errors.Is(err, ErrUnknownRole) {
		t.Fatalf("expected ErrUnknownRole, got %v", err)
	}
}
