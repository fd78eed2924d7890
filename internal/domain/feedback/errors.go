package feedback

import "errors"

var (
	ErrFeedbackNotFound = errors.New("không tìm thấy phản hồi")
	ErrUserNotFound     = errors.New("không tìm thấy người dùng")
	ErrServiceNotFound  = errors.New("không tìm thấy dịch vụ")
	ErrInvalidRating    = errors.New("điểm đánh giá phải từ 1 đến 5")
	ErrNotAuthor        = errors.New("không có quyền sửa phản hồi này")
)
