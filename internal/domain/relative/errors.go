package relative

import "errors"

var (
	ErrRelativeNotFound = errors.New("không tìm thấy người thân")
	ErrUserNotFound     = errors.New("không tìm thấy người dùng")
	ErrBookingNotFound  = errors.New("không tìm thấy lịch hẹn")
	ErrFullnameRequired = errors.New("họ tên người thân là bắt buộc")
)
