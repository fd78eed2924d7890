package catalog

import (
	"errors"
	"strconv"
	"strings"

	"dna-clinic-go/internal/domain/cascade"
)

var (
	ErrOfferingNotFound = errors.New("không tìm thấy dịch vụ")
	ErrNameRequired     = errors.New("tên dịch vụ là bắt buộc")
	ErrNegativePrice    = errors.New("giá dịch vụ không được âm")
	ErrHasDependents    = errors.New("dịch vụ còn dữ liệu liên quan")
)

// DependentsError refuses a guarded delete and names every dependent category.
type DependentsError struct {
	Dependents []cascade.Dependent
}

func (e *DependentsError) Error() string {
	parts := make([]string, 0, len(e.Dependents))
	for _, dep := range e.Dependents {
		parts = append(parts, strconv.FormatInt(dep.Count, 10)+" "+dep.Table.Label())
	}
	return "Không thể xóa dịch vụ vì còn dữ liệu liên quan: " + strings.Join(parts, ", ")
}

func (e *DependentsError) Unwrap() error {
	return ErrHasDependents
}
