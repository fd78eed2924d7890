package notification

import "errors"

var (
	ErrNotificationNotFound = errors.New("không tìm thấy thông báo")
	ErrUserNotFound         = errors.New("không tìm thấy người dùng")
	ErrTitleRequired        = errors.New("tiêu đề thông báo là bắt buộc")
)
