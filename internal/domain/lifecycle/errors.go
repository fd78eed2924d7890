package lifecycle

import "errors"

var (
	ErrUnknownBookingStatus = errors.New("trạng thái lịch hẹn không hợp lệ")
	ErrUnknownKitStatus     = errors.New("trạng thái kit không hợp lệ")
	ErrUnknownMethod        = errors.New("phương thức lấy mẫu không hợp lệ")

	ErrKitMissing         = errors.New("lịch hẹn chưa có kit")
	ErrTransitionNotFound = errors.New("không hỗ trợ chuyển trạng thái này")
	ErrWrongMethod        = errors.New("phương thức lấy mẫu không cho phép chuyển trạng thái này")
	ErrKitNotReady        = errors.New("trạng thái kit chưa phù hợp")
	ErrSystemOnly         = errors.New("trạng thái này chỉ được cập nhật khi có kết quả xét nghiệm")
	ErrTerminalStatus     = errors.New("lịch hẹn đã kết thúc")
)

// RejectionError is returned for a refused booking transition. Message is
// user facing; Unwrap exposes the reason sentinel for errors.Is.
type RejectionError struct {
	From   BookingStatus
	To     BookingStatus
	Reason error
}

func (e *RejectionError) Error() string {
	return "Không thể chuyển từ " + string(e.From) + " sang " + string(e.To) + ": " + e.Reason.Error()
}

func (e *RejectionError) Unwrap() error {
	return e.Reason
}
