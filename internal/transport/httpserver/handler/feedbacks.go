package handler

import (
	"net/http"
	"time"

	feedbackdomain "dna-clinic-go/internal/domain/feedback"
)

type feedbackResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	ServiceID string    `json:"service_id"`
	Rating    int       `json:"rating"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type feedbackRequest struct {
	ServiceID string `json:"service_id"`
	Rating    int    `json:"rating"`
	Content   string `json:"content"`
}

func (h *Handlers) ListFeedbacks(w http.ResponseWriter, r *http.Request) {
	feedbacks, err := h.Feedbacks.List(r.Context())
	if err != nil {
		h.fail(w, "feedbacks.list", err)
		return
	}
	writeJSON(w, http.StatusOK, toFeedbackResponses(feedbacks))
}

func (h *Handlers) ListFeedbacksByService(w http.ResponseWriter, r *http.Request) {
	id := idParam(r)
	feedbacks, err := h.Feedbacks.ListByService(r.Context(), id)
	if err != nil {
		h.fail(w, "feedbacks.by_service", err, "service_id", id)
		return
	}
	writeJSON(w, http.StatusOK, toFeedbackResponses(feedbacks))
}

func (h *Handlers) GetFeedback(w http.ResponseWriter, r *http.Request) {
	id := idParam(r)
	feedback, err := h.Feedbacks.Get(r.Context(), id)
	if err != nil {
		h.fail(w, "feedbacks.get", err, "feedback_id", id)
		return
	}
	writeJSON(w, http.StatusOK, toFeedbackResponse(*feedback))
}

func (h *Handlers) CreateFeedback(w http.ResponseWriter, r *http.Request) {
	principal, ok := h.principal(w, r)
	if !ok {
		return
	}
	var req feedbackRequest
	if !h.decode(w, r, &req) {
		return
	}
	feedback, err := h.Feedbacks.Create(r.Context(), feedbackdomain.Input{
		UserID:    principal.UserID,
		ServiceID: req.ServiceID,
		Rating:    req.Rating,
		Content:   req.Content,
	})
	if err != nil {
		h.fail(w, "feedbacks.create", err, "user_id", principal.UserID, "service_id", req.ServiceID)
		return
	}
	writeMessage(w, http.StatusCreated, "Gửi phản hồi thành công", toFeedbackResponse(*feedback))
}

// UpdateFeedback is limited to the author; staff may edit any feedback.
func (h *Handlers) UpdateFeedback(w http.ResponseWriter, r *http.Request) {
	id := idParam(r)
	principal, ok := h.principal(w, r)
	if !ok {
		return
	}
	var req feedbackRequest
	if !h.decode(w, r, &req) {
		return
	}
	authorID := principal.UserID
	if isStaff(principal) {
		authorID = ""
	}
	feedback, err := h.Feedbacks.Update(r.Context(), id, authorID, feedbackdomain.Input{Rating: req.Rating, Content: req.Content})
	if err != nil {
		h.fail(w, "feedbacks.update", err, "feedback_id", id, "user_id", principal.UserID)
		return
	}
	writeMessage(w, http.StatusOK, "Cập nhật phản hồi thành công", toFeedbackResponse(*feedback))
}

func (h *Handlers) DeleteFeedback(w http.ResponseWriter, r *http.Request) {
	id := idParam(r)
	existing, err := h.Feedbacks.Get(r.Context(), id)
	if err != nil {
		h.fail(w, "feedbacks.delete", err, "feedback_id", id)
		return
	}
	if !h.ownerOrStaff(w, r, existing.UserID) {
		return
	}
	if err := h.Feedbacks.Delete(r.Context(), id); err != nil {
		h.fail(w, "feedbacks.delete", err, "feedback_id", id)
		return
	}
	writeMessage(w, http.StatusOK, "Xóa phản hồi thành công", nil)
}

func toFeedbackResponses(feedbacks []feedbackdomain.Feedback) []feedbackResponse {
	response := make([]feedbackResponse, 0, len(feedbacks))
	for _, feedback := range feedbacks {
		response = append(response, toFeedbackResponse(feedback))
	}
	return response
}

func toFeedbackResponse(feedback feedbackdomain.Feedback) feedbackResponse {
	return feedbackResponse{
		ID:        feedback.ID,
		UserID:    feedback.UserID,
		ServiceID: feedback.ServiceID,
		Rating:    feedback.Rating,
		Content:   feedback.Content,
		CreatedAt: feedback.CreatedAt,
	}
}
