package course

import "errors"

var (
	ErrCourseNotFound  = errors.New("không tìm thấy khóa học")
	ErrTitleRequired   = errors.New("tiêu đề khóa học là bắt buộc")
	ErrManagerNotFound = errors.New("không tìm thấy người quản lý")
)
