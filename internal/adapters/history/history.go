// Package history records completed prediction passes for traceability.
// History is write-only from the computation path: a pass never reads prior
// results back, so every pass still recomputes everything from its inputs.
package history

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/matslab/scpredict/internal/domain/sweep"
)

// SampleList stores the predicted curve as a JSON column.
type SampleList []sweep.Sample

// Value implements driver.Valuer for JSON storage.
func (s SampleList) Value() (driver.Value, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshal samples: %w", err)
	}
	return b, nil
}

// Scan implements sql.Scanner.
func (s *SampleList) Scan(src any) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	case nil:
		*s = nil
		return nil
	}
	return fmt.Errorf("%w: cannot scan %T into SampleList", ErrScan, src)
}

// Record is one completed pass summary.
type Record struct {
	PassID           string     `db:"pass_id" json:"pass_id"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
	Zone             string     `db:"zone" json:"zone"`
	Chloride         float64    `db:"chloride" json:"chloride"`
	Temperature      float64    `db:"temperature" json:"temperature"`
	WaterBinderRatio float64    `db:"water_binder_ratio" json:"water_binder_ratio"`
	BatchVolume      float64    `db:"batch_volume" json:"batch_volume"`
	SampleCount      int        `db:"sample_count" json:"sample_count"`
	Truncated        bool       `db:"truncated" json:"truncated"`
	Samples          SampleList `db:"samples" json:"samples"`
}

// Recorder persists pass records and lists recent ones.
type Recorder interface {
	Record(ctx context.Context, rec Record) error
	Recent(ctx context.Context, limit int) ([]Record, error)
	Close() error
}
