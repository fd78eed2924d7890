package kit

import "errors"

var (
	ErrKitNotFound     = errors.New("không tìm thấy kit")
	ErrBookingRequired = errors.New("lịch hẹn là bắt buộc")
	ErrBookingNotFound = errors.New("không tìm thấy lịch hẹn")
	ErrKitExists       = errors.New("lịch hẹn này đã có kit")
	ErrStaffNotFound   = errors.New("không tìm thấy nhân viên")
)
