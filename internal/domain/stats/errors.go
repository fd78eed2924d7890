package stats

import "errors"

var ErrInvalidRange = errors.New("khoảng thời gian thống kê không hợp lệ")
