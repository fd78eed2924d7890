package handler

import (
	"errors"
	"net/http"

	"dna-clinic-go/internal/domain/booking"
	"dna-clinic-go/internal/domain/cascade"
	"dna-clinic-go/internal/domain/catalog"
	"dna-clinic-go/internal/domain/course"
	"dna-clinic-go/internal/domain/feedback"
	"dna-clinic-go/internal/domain/invoice"
	"dna-clinic-go/internal/domain/kit"
	"dna-clinic-go/internal/domain/lifecycle"
	"dna-clinic-go/internal/domain/notification"
	"dna-clinic-go/internal/domain/relative"
	"dna-clinic-go/internal/domain/result"
	"dna-clinic-go/internal/domain/stats"
	"dna-clinic-go/internal/domain/user"
	"dna-clinic-go/internal/storage"
)

type errorClass struct {
	status int
	code   string
	errs   []error
}

var errorClasses = []errorClass{
	{
		status: http.StatusNotFound,
		code:   "not_found",
		errs: []error{
			user.ErrUserNotFound, user.ErrEmailNotFound,
			catalog.ErrOfferingNotFound,
			booking.ErrBookingNotFound, booking.ErrCustomerNotFound, booking.ErrServiceNotFound, booking.ErrStaffNotFound,
			kit.ErrKitNotFound, kit.ErrBookingNotFound, kit.ErrStaffNotFound,
			result.ErrResultNotFound, result.ErrStaffNotFound,
			invoice.ErrInvoiceNotFound, invoice.ErrBookingNotFound, invoice.ErrServiceNotFound,
			relative.ErrRelativeNotFound, relative.ErrUserNotFound, relative.ErrBookingNotFound,
			feedback.ErrFeedbackNotFound, feedback.ErrUserNotFound, feedback.ErrServiceNotFound,
			notification.ErrNotificationNotFound, notification.ErrUserNotFound,
			course.ErrCourseNotFound, course.ErrManagerNotFound,
			cascade.ErrNothingDeleted,
		},
	},
	{
		status: http.StatusBadRequest,
		code:   "invalid_request",
		errs: []error{
			user.ErrUsernameRequired, user.ErrPasswordRequired, user.ErrUnknownRole, user.ErrEmailRequired,
			user.ErrResetCodeInvalid, user.ErrResetCodeExpired, user.ErrWrongPassword, user.ErrSelfDelete,
			catalog.ErrNameRequired, catalog.ErrNegativePrice,
			booking.ErrCustomerRequired, booking.ErrServiceRequired, booking.ErrDateRequired, booking.ErrInvalidRange,
			kit.ErrBookingRequired,
			result.ErrBookingRequired, result.ErrMissingHeader, result.ErrNoLoci, result.ErrMalformedRow,
			invoice.ErrBookingRequired, invoice.ErrInvalidQuantity, invoice.ErrNegativePrice,
			relative.ErrFullnameRequired,
			feedback.ErrInvalidRating,
			notification.ErrTitleRequired,
			course.ErrTitleRequired,
			stats.ErrInvalidRange,
			lifecycle.ErrUnknownBookingStatus, lifecycle.ErrUnknownKitStatus, lifecycle.ErrUnknownMethod,
			storage.ErrUnsupportedType,
		},
	},
	{
		status: http.StatusConflict,
		code:   "conflict",
		errs: []error{
			user.ErrUsernameTaken, user.ErrEmailTaken,
			catalog.ErrHasDependents,
			kit.ErrKitExists,
		},
	},
	{
		status: http.StatusUnauthorized,
		code:   "unauthorized",
		errs:   []error{user.ErrInvalidCredentials, user.ErrGoogleToken},
	},
	{
		status: http.StatusForbidden,
		code:   "forbidden",
		errs:   []error{booking.ErrNotOwner, feedback.ErrNotAuthor},
	},
	{
		status: http.StatusRequestEntityTooLarge,
		code:   "too_large",
		errs:   []error{storage.ErrTooLarge},
	},
	{
		status: http.StatusServiceUnavailable,
		code:   "unavailable",
		errs:   []error{user.ErrMailUnavailable, user.ErrGoogleDisabled, result.ErrRendererMissing},
	},
}

func classify(err error) (int, string, bool) {
	var rejection *lifecycle.RejectionError
	if errors.As(err, &rejection) {
		return http.StatusBadRequest, "invalid_transition", true
	}
	for _, class := range errorClasses {
		for _, target := range class.errs {
			if errors.Is(err, target) {
				return class.status, class.code, true
			}
		}
	}
	return http.StatusInternalServerError, "internal_error", false
}

// fail answers a failed service call. Known domain errors are returned with
// their user facing message; anything else is logged and hidden behind a
// generic 500.
func (h *Handlers) fail(w http.ResponseWriter, op string, err error, args ...any) {
	status, code, known := classify(err)
	if !known {
		h.log.InternalError(op+": failed", err, args...)
		writeError(w, status, code, "Đã có lỗi xảy ra, vui lòng thử lại sau")
		return
	}
	h.log.BusinessError(op+": rejected", err, args...)
	message := err.Error()
	if errors.Is(err, cascade.ErrNothingDeleted) {
		message = "Không tìm thấy dữ liệu cần xóa"
	}
	writeError(w, status, code, message)
}
