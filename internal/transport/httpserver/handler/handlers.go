package handler

import (
	"context"
	"io"
	"net/http"

	bookingdomain "dna-clinic-go/internal/domain/booking"
	catalogdomain "dna-clinic-go/internal/domain/catalog"
	coursedomain "dna-clinic-go/internal/domain/course"
	feedbackdomain "dna-clinic-go/internal/domain/feedback"
	invoicedomain "dna-clinic-go/internal/domain/invoice"
	kitdomain "dna-clinic-go/internal/domain/kit"
	notificationdomain "dna-clinic-go/internal/domain/notification"
	relativedomain "dna-clinic-go/internal/domain/relative"
	resultdomain "dna-clinic-go/internal/domain/result"
	statsdomain "dna-clinic-go/internal/domain/stats"
	userdomain "dna-clinic-go/internal/domain/user"
	"dna-clinic-go/internal/transport/httpserver/middleware"
	"dna-clinic-go/pkg/logger"
)

type ImageStore interface {
	SaveImage(ctx context.Context, filename string, src io.Reader) (string, error)
	RemoveImage(url string) error
}

type Services struct {
	Users         *userdomain.Service
	Catalog       *catalogdomain.Service
	Bookings      *bookingdomain.Service
	Kits          *kitdomain.Service
	Results       *resultdomain.Service
	Invoices      *invoicedomain.Service
	Relatives     *relativedomain.Service
	Feedbacks     *feedbackdomain.Service
	Notifications *notificationdomain.Service
	Courses       *coursedomain.Service
	Stats         *statsdomain.Service
}

type Handlers struct {
	Services
	images    ImageStore
	uploadMax int64
	log       logger.Logger
}

func New(services Services, images ImageStore, uploadMax int64, log logger.Logger) *Handlers {
	return &Handlers{
		Services:  services,
		images:    images,
		uploadMax: uploadMax,
		log:       log,
	}
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handlers) principal(w http.ResponseWriter, r *http.Request) (middleware.Principal, bool) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "Phiên đăng nhập không hợp lệ hoặc đã hết hạn")
		return middleware.Principal{}, false
	}
	return principal, true
}

func isStaff(principal middleware.Principal) bool {
	return principal.HasRole(userdomain.RoleStaff, userdomain.RoleManager, userdomain.RoleAdmin)
}

// ownerOrStaff lets staff through and otherwise requires the caller to be ownerID.
func (h *Handlers) ownerOrStaff(w http.ResponseWriter, r *http.Request, ownerID string) bool {
	principal, ok := h.principal(w, r)
	if !ok {
		return false
	}
	if isStaff(principal) || principal.UserID == ownerID {
		return true
	}
	writeError(w, http.StatusForbidden, "forbidden", "Bạn không có quyền truy cập dữ liệu này")
	return false
}
