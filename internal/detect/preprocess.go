// internal/detect/preprocess.go
package detect

import (
	"errors"
	"fmt"

	"kidney_monitor/internal/models"
	"kidney_monitor/internal/refmodel"
)

// ErrShapeMismatch длина вектора не совпадает с размерностью модели
var ErrShapeMismatch = errors.New("размерность вектора не совпадает с моделью")

// Preprocessor детерминированное преобразование: стандартизация → проекция.
// Чистая функция своих входов, состояния не имеет.
type Preprocessor struct {
	model *refmodel.ReferenceModel
}

// NewPreprocessor создает препроцессор поверх референсной модели
func NewPreprocessor(model *refmodel.ReferenceModel) *Preprocessor {
	return &Preprocessor{model: model}
}

// Transform стандартизирует сырой вектор и проецирует его в пространство центроидов
func (p *Preprocessor) Transform(raw models.FeatureVector) (models.ProjectedVector, error) {
	if len(raw) != p.model.InputDim() {
		return nil, fmt.Errorf("%w: получено %d, ожидается %d",
			ErrShapeMismatch, len(raw), p.model.InputDim())
	}

	// Шаг 1: стандартизация z_i = (x_i - mean_i) / scale_i
	scaled := make([]float64, len(raw))
	for i, v := range raw {
		scaled[i] = (v - p.model.Scaler.Mean[i]) / p.model.Scaler.Scale[i]
	}

	// Шаг 2: линейная проекция
	projected := make(models.ProjectedVector, p.model.Rank())
	for i, component := range p.model.PCA.Components {
		sum := 0.0
		for j, w := range component {
			sum += w * scaled[j]
		}
		projected[i] = sum
	}

	return projected, nil
}
