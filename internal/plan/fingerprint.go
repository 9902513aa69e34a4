package plan

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/zeebo/blake3"
)

// Fingerprint returns a stable hex digest of the plan content. GeneratedAt
// is excluded so recompiling the same committed records always produces the
// same fingerprint.
func Fingerprint(p *ProjectPlan) (string, error) {
	cp := *p
	cp.GeneratedAt = time.Time{}

	data, err := json.Marshal(&cp)
	if err != nil {
		return "", fmt.Errorf("marshal plan for fingerprint: %w", err)
	}

	sum := blake3.Sum256(data)
	return fmt.Sprintf("%x", sum), nil
}
