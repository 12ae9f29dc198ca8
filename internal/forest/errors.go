package forest

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// ErrUnknownMetric matches every UnknownMetricError.
var ErrUnknownMetric = errors.New("unknown metric")

// UnknownMetricError reports a metric that names no column of the forest,
// or an attribute where a numeric metric is required.
type UnknownMetricError struct {
	Metric string
}

func (e *UnknownMetricError) Error() string {
	return fmt.Sprintf("unknown metric %q", e.Metric)
}

// Is makes errors.Is(err, ErrUnknownMetric) hold.
func (e *UnknownMetricError) Is(target error) bool {
	return target == ErrUnknownMetric
}
