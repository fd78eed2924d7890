package lifecycle

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

type BookingStatus string

const (
	BookingAwaitingSample  BookingStatus = "Đang chờ mẫu"
	BookingAwaitingCheckIn BookingStatus = "Đang chờ check-in"
	BookingCheckedIn       BookingStatus = "Đã check-in"
	BookingInProgress      BookingStatus = "Đang thực hiện"
	BookingCompleted       BookingStatus = "Hoàn thành"
	BookingCancelled       BookingStatus = "Đã hủy"
)

var bookingStatuses = []BookingStatus{
	BookingAwaitingSample,
	BookingAwaitingCheckIn,
	BookingCheckedIn,
	BookingInProgress,
	BookingCompleted,
	BookingCancelled,
}

func (s BookingStatus) Terminal() bool {
	return s == BookingCompleted || s == BookingCancelled
}

type KitStatus string

const (
	KitPendingDispatch  KitStatus = "Chờ gửi"
	KitDispatched       KitStatus = "Đã gửi"
	KitReceived         KitStatus = "Đã nhận"
	KitSampleCollected  KitStatus = "Đã lấy mẫu"
	KitInTransit        KitStatus = "Đang vận chuyển"
	KitArrivedAtStorage KitStatus = "Đã tới kho"
)

var kitStatuses = []KitStatus{
	KitPendingDispatch,
	KitDispatched,
	KitReceived,
	KitSampleCollected,
	KitInTransit,
	KitArrivedAtStorage,
}

type Method string

const (
	MethodSelfCollect Method = "Tự thu mẫu"
	MethodFacility    Method = "Tại cơ sở"
)

// Labels are compared in NFC so decomposed input from browsers still matches.
func normalizeLabel(value string) string {
	return norm.NFC.String(strings.TrimSpace(value))
}

func ParseBookingStatus(value string) (BookingStatus, error) {
	value = normalizeLabel(value)
	for _, status := range bookingStatuses {
		if string(status) == value {
			return status, nil
		}
	}
	return "", ErrUnknownBookingStatus
}

func ParseKitStatus(value string) (KitStatus, error) {
	value = normalizeLabel(value)
	for _, status := range kitStatuses {
		if string(status) == value {
			return status, nil
		}
	}
	return "", ErrUnknownKitStatus
}

func ParseMethod(value string) (Method, error) {
	switch Method(normalizeLabel(value)) {
	case MethodSelfCollect:
		return MethodSelfCollect, nil
	case MethodFacility:
		return MethodFacility, nil
	default:
		return "", ErrUnknownMethod
	}
}

// InitialStatus is the status a freshly created booking starts in.
func InitialStatus(method Method) BookingStatus {
	if method == MethodFacility {
		return BookingAwaitingCheckIn
	}
	return BookingAwaitingSample
}

func BookingStatuses() []BookingStatus {
	return append([]BookingStatus(nil), bookingStatuses...)
}

func KitStatuses() []KitStatus {
	return append([]KitStatus(nil), kitStatuses...)
}
