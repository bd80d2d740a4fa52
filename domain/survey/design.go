package survey

import (
	"fmt"

	"github.com/Mattkaye3/sjstats/domain/core"
)

// DefaultICC is the customary intraclass-correlation assumption for
// two-level models when the caller has no better estimate
const DefaultICC = 0.05

// DesignEffect computes the Kish approximation for cluster samples:
// 1 + (average cluster size - 1) * icc. It quantifies how much the
// effective sample size shrinks under cluster sampling.
func DesignEffect(avgClusterSize, icc float64) (float64, error) {
	if avgClusterSize < 1 {
		return 0, core.NewValidationError("cluster size",
			fmt.Sprintf("average cluster size must be at least 1, got %v", avgClusterSize))
	}
	if icc < 0 || icc > 1 {
		return 0, core.NewValidationError("icc",
			fmt.Sprintf("intraclass correlation must lie in [0, 1], got %v", icc))
	}
	return 1 + (avgClusterSize-1)*icc, nil
}
