package handler

import (
	"net/http"
	"time"

	coursedomain "dna-clinic-go/internal/domain/course"
)

type courseResponse struct {
	ID          string    `json:"id"`
	ManagerID   *string   `json:"manager_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Image       string    `json:"image"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type courseRequest struct {
	ManagerID   string `json:"manager_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Image       string `json:"image"`
}

func (h *Handlers) ListCourses(w http.ResponseWriter, r *http.Request) {
	courses, err := h.Courses.List(r.Context())
	if err != nil {
		h.fail(w, "courses.list", err)
		return
	}
	response := make([]courseResponse, 0, len(courses))
	for _, course := range courses {
		response = append(response, toCourseResponse(course))
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *Handlers) GetCourse(w http.ResponseWriter, r *http.Request) {
	id := idParam(r)
	course, err := h.Courses.Get(r.Context(), id)
	if err != nil {
		h.fail(w, "courses.get", err, "course_id", id)
		return
	}
	writeJSON(w, http.StatusOK, toCourseResponse(*course))
}

func (h *Handlers) CreateCourse(w http.ResponseWriter, r *http.Request) {
	principal, ok := h.principal(w, r)
	if !ok {
		return
	}
	var req courseRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.ManagerID == "" {
		req.ManagerID = principal.UserID
	}
	course, err := h.Courses.Create(r.Context(), req.input())
	if err != nil {
		h.fail(w, "courses.create", err, "manager_id", req.ManagerID)
		return
	}
	writeMessage(w, http.StatusCreated, "Tạo khóa học thành công", toCourseResponse(*course))
}

func (h *Handlers) UpdateCourse(w http.ResponseWriter, r *http.Request) {
	id := idParam(r)
	var req courseRequest
	if !h.decode(w, r, &req) {
		return
	}
	course, err := h.Courses.Update(r.Context(), id, req.input())
	if err != nil {
		h.fail(w, "courses.update", err, "course_id", id)
		return
	}
	writeMessage(w, http.StatusOK, "Cập nhật khóa học thành công", toCourseResponse(*course))
}

func (h *Handlers) DeleteCourse(w http.ResponseWriter, r *http.Request) {
	id := idParam(r)
	if err := h.Courses.Delete(r.Context(), id); err != nil {
		h.fail(w, "courses.delete", err, "course_id", id)
		return
	}
	writeMessage(w, http.StatusOK, "Xóa khóa học thành công", nil)
}

func (req courseRequest) input() coursedomain.Input {
	return coursedomain.Input{
		ManagerID:   req.ManagerID,
		Title:       req.Title,
		Description: req.Description,
		Image:       req.Image,
	}
}

func toCourseResponse(course coursedomain.Course) courseResponse {
	return courseResponse{
		ID:          course.ID,
		ManagerID:   course.ManagerID,
		Title:       course.Title,
		Description: course.Description,
		Image:       course.Image,
		CreatedAt:   course.CreatedAt,
		UpdatedAt:   course.UpdatedAt,
	}
}
