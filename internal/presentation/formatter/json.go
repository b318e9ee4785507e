package formatter

import (
	"fmt"

	"github.com/bytedance/sonic"
)

// FormatJSON renders the report as indented JSON.
func FormatJSON(r *Report) (string, error) {
	data, err := sonic.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode report: %w", err)
	}
	return string(data), nil
}
