// internal/refmodel/refmodel.go
package refmodel

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// ErrInvalidModel референсная модель внутренне несогласована, запуск невозможен
var ErrInvalidModel = errors.New("невалидная референсная модель")

// ReferenceModel замороженные параметры, обученные оффлайн:
// стандартизация, PCA-проекция и центроиды кластеров нормального поведения.
// Загружается один раз при старте и далее только читается.
type ReferenceModel struct {
	Scaler   Scaler     `json:"scaler"`
	PCA      Projection `json:"pca"`
	Clusters ClusterSet `json:"clusters"`
}

// Scaler параметры стандартизации (StandardScaler)
type Scaler struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

// Projection матрица линейной проекции (PCA): строки — компоненты
type Projection struct {
	Components [][]float64 `json:"components"`
}

// ClusterSet центроиды кластеров в проецированном пространстве
type ClusterSet struct {
	Centroids [][]float64 `json:"centroids"`
}

// Load читает референсную модель из JSON файла и валидирует её
func Load(path string) (*ReferenceModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("не удалось прочитать файл модели %s: %w", path, err)
	}

	var model ReferenceModel
	if err := json.Unmarshal(data, &model); err != nil {
		return nil, fmt.Errorf("не удалось распарсить модель %s: %w", path, err)
	}

	if err := model.Validate(); err != nil {
		return nil, err
	}
	return &model, nil
}

// Validate проверяет размерную согласованность всех подмоделей:
// длина стандартизации == входная размерность проекции,
// выходная размерность проекции == длина центроидов, все scale != 0.
func (m *ReferenceModel) Validate() error {
	inputDim := len(m.Scaler.Mean)
	if inputDim == 0 {
		return fmt.Errorf("%w: пустой вектор средних стандартизации", ErrInvalidModel)
	}
	if len(m.Scaler.Scale) != inputDim {
		return fmt.Errorf("%w: длина scale (%d) != длине mean (%d)",
			ErrInvalidModel, len(m.Scaler.Scale), inputDim)
	}
	for i, s := range m.Scaler.Scale {
		if s == 0 {
			return fmt.Errorf("%w: нулевой масштаб стандартизации в позиции %d", ErrInvalidModel, i)
		}
	}

	rank := len(m.PCA.Components)
	if rank == 0 {
		return fmt.Errorf("%w: пустая матрица проекции", ErrInvalidModel)
	}
	for i, row := range m.PCA.Components {
		if len(row) != inputDim {
			return fmt.Errorf("%w: компонента %d имеет длину %d, ожидается %d",
				ErrInvalidModel, i, len(row), inputDim)
		}
	}

	if len(m.Clusters.Centroids) == 0 {
		return fmt.Errorf("%w: нет центроидов кластеров", ErrInvalidModel)
	}
	for i, c := range m.Clusters.Centroids {
		if len(c) != rank {
			return fmt.Errorf("%w: центроид %d имеет длину %d, ожидается %d",
				ErrInvalidModel, i, len(c), rank)
		}
	}

	return nil
}

// InputDim размерность сырого вектора признаков
func (m *ReferenceModel) InputDim() int {
	return len(m.Scaler.Mean)
}

// Rank размерность проецированного пространства
func (m *ReferenceModel) Rank() int {
	return len(m.PCA.Components)
}
