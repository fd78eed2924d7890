package invoice

import "errors"

var (
	ErrInvoiceNotFound = errors.New("không tìm thấy hóa đơn")
	ErrBookingRequired = errors.New("lịch hẹn là bắt buộc")
	ErrBookingNotFound = errors.New("không tìm thấy lịch hẹn")
	ErrServiceNotFound = errors.New("không tìm thấy dịch vụ")
	ErrInvalidQuantity = errors.New("số lượng phải lớn hơn 0")
	ErrNegativePrice   = errors.New("giá hóa đơn không được âm")
)
