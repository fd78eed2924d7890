package user

import "errors"

var (
	ErrUserNotFound       = errors.New("không tìm thấy người dùng")
	ErrUsernameRequired   = errors.New("tên đăng nhập là bắt buộc")
	ErrPasswordRequired   = errors.New("mật khẩu là bắt buộc")
	ErrUsernameTaken      = errors.New("tên đăng nhập đã tồn tại")
	ErrEmailTaken         = errors.New("email đã được sử dụng")
	ErrUnknownRole        = errors.New("vai trò không hợp lệ")
	ErrInvalidCredentials = errors.New("tên đăng nhập hoặc mật khẩu không đúng")
	ErrWrongPassword      = errors.New("mật khẩu cũ không đúng")
	ErrSelfDelete         = errors.New("không thể tự xóa tài khoản của chính mình")
	ErrGoogleDisabled     = errors.New("đăng nhập Google chưa được cấu hình")
	ErrGoogleToken        = errors.New("mã đăng nhập Google không hợp lệ")
	ErrEmailRequired      = errors.New("email là bắt buộc")
	ErrEmailNotFound      = errors.New("không tìm thấy tài khoản với email này")
	ErrResetCodeInvalid   = errors.New("mã xác nhận không hợp lệ hoặc đã được sử dụng")
	ErrResetCodeExpired   = errors.New("mã xác nhận đã hết hạn")
	ErrResetCodeConflict  = errors.New("reset code collision")
	ErrMailUnavailable    = errors.New("không thể gửi email, vui lòng thử lại sau")
)
