package booking

import "errors"

var (
	ErrBookingNotFound  = errors.New("không tìm thấy lịch hẹn")
	ErrCustomerRequired = errors.New("khách hàng là bắt buộc")
	ErrCustomerNotFound = errors.New("không tìm thấy khách hàng")
	ErrServiceRequired  = errors.New("dịch vụ là bắt buộc")
	ErrServiceNotFound  = errors.New("không tìm thấy dịch vụ")
	ErrStaffNotFound    = errors.New("không tìm thấy nhân viên")
	ErrDateRequired     = errors.New("ngày hẹn là bắt buộc")
	ErrInvalidRange     = errors.New("khoảng thời gian không hợp lệ")
	ErrNotOwner         = errors.New("không có quyền với lịch hẹn này")
)
