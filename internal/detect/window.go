// internal/detect/window.go
package detect

import (
	"fmt"

	"kidney_monitor/internal/models"
)

// WindowBuffer накапливает проецированные векторы до заполнения окна.
// Порядок поступления сохраняется; при достижении ёмкости окно отдается
// целиком и буфер сбрасывается.
type WindowBuffer struct {
	capacity int
	buf      []models.ProjectedVector
}

// NewWindowBuffer создает буфер окна ёмкостью w (w >= 1)
func NewWindowBuffer(w int) (*WindowBuffer, error) {
	if w < 1 {
		return nil, fmt.Errorf("размер окна должен быть >= 1, получено %d", w)
	}
	return &WindowBuffer{
		capacity: w,
		buf:      make([]models.ProjectedVector, 0, w),
	}, nil
}

// Push добавляет вектор в буфер. Когда окно заполнено, возвращает его
// и true, а буфер сбрасывается; иначе возвращает nil и false.
func (wb *WindowBuffer) Push(vec models.ProjectedVector) ([]models.ProjectedVector, bool) {
	wb.buf = append(wb.buf, vec)

	if len(wb.buf) < wb.capacity {
		return nil, false
	}

	window := wb.buf
	wb.buf = make([]models.ProjectedVector, 0, wb.capacity)
	return window, true
}

// Len текущее количество векторов в буфере
func (wb *WindowBuffer) Len() int {
	return len(wb.buf)
}

// Capacity ёмкость окна
func (wb *WindowBuffer) Capacity() int {
	return wb.capacity
}
