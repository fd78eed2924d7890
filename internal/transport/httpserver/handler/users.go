package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"dna-clinic-go/internal/domain/cascade"
	userdomain "dna-clinic-go/internal/domain/user"
	"dna-clinic-go/internal/storage"
)

type userResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Fullname  string    `json:"fullname"`
	Email     *string   `json:"email"`
	Phone     string    `json:"phone"`
	Gender    string    `json:"gender"`
	Address   string    `json:"address"`
	Birthdate *string   `json:"birthdate"`
	RoleID    int       `json:"role_id"`
	Role      string    `json:"role"`
	Image     string    `json:"image"`
	CreatedAt time.Time `json:"created_at"`
}

type sessionResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      userResponse `json:"user"`
}

type profileRequest struct {
	Fullname  string `json:"fullname"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Gender    string `json:"gender"`
	Address   string `json:"address"`
	Birthdate *Date  `json:"birthdate"`
}

func (p profileRequest) input() userdomain.ProfileInput {
	return userdomain.ProfileInput{
		Fullname:  p.Fullname,
		Email:     p.Email,
		Phone:     p.Phone,
		Gender:    p.Gender,
		Address:   p.Address,
		Birthdate: p.Birthdate.Ptr(),
	}
}

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	profileRequest
}

type createUserRequest struct {
	registerRequest
	Role string `json:"role"`
}

type updateUserRequest struct {
	profileRequest
	Role string `json:"role"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type googleLoginRequest struct {
	IDToken string `json:"id_token"`
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type forgotPasswordResponse struct {
	ExpiresAt time.Time `json:"expires_at"`
	Code      string    `json:"code,omitempty"`
}

type resetPasswordRequest struct {
	Code        string `json:"code"`
	NewPassword string `json:"new_password"`
}

type cascadeResponse struct {
	Deleted   map[string]int64 `json:"deleted"`
	Nullified map[string]int64 `json:"nullified,omitempty"`
	Skipped   []string         `json:"skipped,omitempty"`
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !h.decode(w, r, &req) {
		return
	}
	session, err := h.Users.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		h.fail(w, "auth.login", err, "username", req.Username)
		return
	}
	writeMessage(w, http.StatusOK, "Đăng nhập thành công", toSessionResponse(session))
}

func (h *Handlers) LoginWithGoogle(w http.ResponseWriter, r *http.Request) {
	var req googleLoginRequest
	if !h.decode(w, r, &req) {
		return
	}
	session, err := h.Users.LoginWithGoogle(r.Context(), req.IDToken)
	if err != nil {
		h.fail(w, "auth.google", err)
		return
	}
	writeMessage(w, http.StatusOK, "Đăng nhập thành công", toSessionResponse(session))
}

func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !h.decode(w, r, &req) {
		return
	}
	user, err := h.Users.Register(r.Context(), userdomain.RegisterInput{
		Username:     req.Username,
		Password:     req.Password,
		ProfileInput: req.input(),
	})
	if err != nil {
		h.fail(w, "auth.register", err, "username", req.Username)
		return
	}
	writeMessage(w, http.StatusCreated, "Đăng ký thành công", toUserResponse(*user))
}

// Logout is acknowledged only; tokens are stateless and the client drops its copy.
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	writeMessage(w, http.StatusOK, "Đăng xuất thành công", nil)
}

func (h *Handlers) Me(w http.ResponseWriter, r *http.Request) {
	principal, ok := h.principal(w, r)
	if !ok {
		return
	}
	user, err := h.Users.Get(r.Context(), principal.UserID)
	if err != nil {
		h.fail(w, "users.me", err, "user_id", principal.UserID)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(*user))
}

func (h *Handlers) ListUsers(w http.ResponseWriter, r *http.Request) {
	var role userdomain.Role
	if value := strings.TrimSpace(r.URL.Query().Get("role")); value != "" {
		parsed, err := userdomain.ParseRole(value)
		if err != nil {
			h.fail(w, "users.list", err, "role", value)
			return
		}
		role = parsed
	}
	users, err := h.Users.List(r.Context(), role)
	if err != nil {
		h.fail(w, "users.list", err)
		return
	}
	response := make([]userResponse, 0, len(users))
	for _, user := range users {
		response = append(response, toUserResponse(user))
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *Handlers) GetUser(w http.ResponseWriter, r *http.Request) {
	id := idParam(r)
	if !h.ownerOrStaff(w, r, id) {
		return
	}
	user, err := h.Users.Get(r.Context(), id)
	if err != nil {
		h.fail(w, "users.get", err, "user_id", id)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(*user))
}

func (h *Handlers) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if !h.decode(w, r, &req) {
		return
	}
	role := userdomain.RoleCustomer
	if strings.TrimSpace(req.Role) != "" {
		parsed, err := userdomain.ParseRole(req.Role)
		if err != nil {
			h.fail(w, "users.create", err, "role", req.Role)
			return
		}
		role = parsed
	}
	user, err := h.Users.Create(r.Context(), userdomain.CreateInput{
		RegisterInput: userdomain.RegisterInput{
			Username:     req.Username,
			Password:     req.Password,
			ProfileInput: req.input(),
		},
		Role: role,
	})
	if err != nil {
		h.fail(w, "users.create", err, "username", req.Username)
		return
	}
	writeMessage(w, http.StatusCreated, "Tạo người dùng thành công", toUserResponse(*user))
}

func (h *Handlers) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id := idParam(r)
	var req updateUserRequest
	if !h.decode(w, r, &req) {
		return
	}
	var role userdomain.Role
	if strings.TrimSpace(req.Role) != "" {
		parsed, err := userdomain.ParseRole(req.Role)
		if err != nil {
			h.fail(w, "users.update", err, "role", req.Role)
			return
		}
		role = parsed
	}
	user, err := h.Users.Update(r.Context(), id, userdomain.UpdateInput{ProfileInput: req.input(), Role: role})
	if err != nil {
		h.fail(w, "users.update", err, "user_id", id)
		return
	}
	writeMessage(w, http.StatusOK, "Cập nhật người dùng thành công", toUserResponse(*user))
}

func (h *Handlers) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	principal, ok := h.principal(w, r)
	if !ok {
		return
	}
	var req profileRequest
	if !h.decode(w, r, &req) {
		return
	}
	user, err := h.Users.UpdateProfile(r.Context(), principal.UserID, req.input())
	if err != nil {
		h.fail(w, "users.update_profile", err, "user_id", principal.UserID)
		return
	}
	writeMessage(w, http.StatusOK, "Cập nhật hồ sơ thành công", toUserResponse(*user))
}

func (h *Handlers) DeleteUser(w http.ResponseWriter, r *http.Request) {
	principal, ok := h.principal(w, r)
	if !ok {
		return
	}
	id := idParam(r)
	report, err := h.Users.Delete(r.Context(), principal.UserID, id)
	if err != nil {
		h.fail(w, "users.delete", err, "user_id", id, "actor_id", principal.UserID)
		return
	}
	writeMessage(w, http.StatusOK, "Xóa người dùng thành công", toCascadeResponse(report))
}

func (h *Handlers) ChangePassword(w http.ResponseWriter, r *http.Request) {
	principal, ok := h.principal(w, r)
	if !ok {
		return
	}
	var req changePasswordRequest
	if !h.decode(w, r, &req) {
		return
	}
	if err := h.Users.ChangePassword(r.Context(), principal.UserID, req.OldPassword, req.NewPassword); err != nil {
		h.fail(w, "users.change_password", err, "user_id", principal.UserID)
		return
	}
	writeMessage(w, http.StatusOK, "Đổi mật khẩu thành công", nil)
}

func (h *Handlers) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordRequest
	if !h.decode(w, r, &req) {
		return
	}
	issue, err := h.Users.ForgotPassword(r.Context(), req.Email)
	if err != nil {
		h.fail(w, "users.forgot_password", err)
		return
	}
	if issue.Sent {
		writeMessage(w, http.StatusOK, "Mã xác nhận đã được gửi tới email của bạn", forgotPasswordResponse{ExpiresAt: issue.ExpiresAt})
		return
	}
	h.log.Warn("users.forgot_password: mail unavailable, returning code in response")
	writeMessage(w, http.StatusOK, "Không gửi được email, mã xác nhận được trả về trực tiếp", forgotPasswordResponse{
		ExpiresAt: issue.ExpiresAt,
		Code:      issue.Code,
	})
}

func (h *Handlers) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if !h.decode(w, r, &req) {
		return
	}
	if err := h.Users.ResetPassword(r.Context(), req.Code, req.NewPassword); err != nil {
		h.fail(w, "users.reset_password", err)
		return
	}
	writeMessage(w, http.StatusOK, "Đặt lại mật khẩu thành công", nil)
}

func (h *Handlers) UploadUserImage(w http.ResponseWriter, r *http.Request) {
	id := idParam(r)
	principal, ok := h.principal(w, r)
	if !ok {
		return
	}
	if principal.UserID != id && !principal.HasRole(userdomain.RoleAdmin) {
		writeError(w, http.StatusForbidden, "forbidden", "Bạn không có quyền cập nhật ảnh của người dùng này")
		return
	}
	if h.images == nil {
		writeError(w, http.StatusServiceUnavailable, "unavailable", "Chưa cấu hình lưu trữ ảnh")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.uploadMax+1<<20)
	file, header, err := r.FormFile("image")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.fail(w, "users.upload_image", storage.ErrTooLarge, "user_id", id)
			return
		}
		writeError(w, http.StatusBadRequest, "invalid_request", "Thiếu tệp ảnh (trường image)")
		return
	}
	defer file.Close()

	previous, err := h.Users.Get(r.Context(), id)
	if err != nil {
		h.fail(w, "users.upload_image", err, "user_id", id)
		return
	}
	url, err := h.images.SaveImage(r.Context(), header.Filename, file)
	if err != nil {
		h.fail(w, "users.upload_image", err, "user_id", id)
		return
	}
	user, err := h.Users.SetImage(r.Context(), id, url)
	if err != nil {
		_ = h.images.RemoveImage(url)
		h.fail(w, "users.upload_image", err, "user_id", id)
		return
	}
	if previous.Image != "" && previous.Image != url {
		if err := h.images.RemoveImage(previous.Image); err != nil {
			h.log.Warn("users.upload_image: remove previous image failed", "user_id", id, "err", err)
		}
	}
	writeMessage(w, http.StatusOK, "Cập nhật ảnh thành công", toUserResponse(*user))
}

func toUserResponse(user userdomain.User) userResponse {
	return userResponse{
		ID:        user.ID,
		Username:  user.Username,
		Fullname:  user.Fullname,
		Email:     user.Email,
		Phone:     user.Phone,
		Gender:    user.Gender,
		Address:   user.Address,
		Birthdate: formatDate(user.Birthdate),
		RoleID:    int(user.RoleID),
		Role:      user.RoleID.String(),
		Image:     user.Image,
		CreatedAt: user.CreatedAt,
	}
}

func toSessionResponse(session *userdomain.Session) sessionResponse {
	return sessionResponse{
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
		User:      toUserResponse(session.User),
	}
}

func toCascadeResponse(report cascade.Report) cascadeResponse {
	response := cascadeResponse{
		Deleted:   make(map[string]int64, len(report.Deleted)),
		Nullified: make(map[string]int64, len(report.Nullified)),
	}
	for table, count := range report.Deleted {
		response.Deleted[string(table)] = count
	}
	for table, count := range report.Nullified {
		response.Nullified[string(table)] = count
	}
	for _, table := range report.Skipped {
		response.Skipped = append(response.Skipped, string(table))
	}
	return response
}
