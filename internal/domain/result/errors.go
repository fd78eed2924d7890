package result

import "errors"

var (
	ErrResultNotFound  = errors.New("không tìm thấy kết quả xét nghiệm")
	ErrBookingRequired = errors.New("lịch hẹn là bắt buộc")
	ErrStaffNotFound   = errors.New("không tìm thấy nhân viên")
	ErrMissingHeader   = errors.New("mô tả kết quả thiếu dòng tiêu đề")
	ErrNoLoci          = errors.New("mô tả kết quả không có locus nào")
	ErrMalformedRow    = errors.New("dòng locus không đúng định dạng")
	ErrRendererMissing = errors.New("chưa cấu hình xuất báo cáo")
)
