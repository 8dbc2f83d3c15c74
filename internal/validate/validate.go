// Package validate checks a draft before any side effect runs. The pipeline
// is pure and synchronous: every violation is collected, none short-circuits.
package validate

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"docsmith/internal/domain"
)

// Limits holds the configurable bounds the pipeline checks against.
type Limits struct {
	DescriptionMin int
	DescriptionMax int
	LengthMin      int
	LengthMax      int
	UnitMax        int
	LogoMaxBytes   int
	LogoMIMETypes  []string
}

// DefaultLimits mirrors what the service accepts.
func DefaultLimits() Limits {
	return Limits{
		DescriptionMin: 10,
		DescriptionMax: 2000,
		LengthMin:      100,
		LengthMax:      5000,
		UnitMax:        10,
		LogoMaxBytes:   5 << 20,
		LogoMIMETypes:  []string{"image/png", "image/jpeg", "image/svg+xml"},
	}
}

// Check returns every human-readable violation in the draft. An empty result
// means the draft is submit-ready. The statistics count cap is not re-checked
// here; the collector refuses excess entries structurally.
func Check(req domain.GenerationRequest, limits Limits) []string {
	var errs []string

	desc := utf8.RuneCountInString(strings.TrimSpace(req.Description))
	if desc < limits.DescriptionMin || desc > limits.DescriptionMax {
		errs = append(errs, "invalid description")
	}

	if req.Length < limits.LengthMin || req.Length > limits.LengthMax {
		errs = append(errs, "invalid length")
	}

	if req.Logo != nil && !logoAcceptable(req.Logo, limits) {
		errs = append(errs, "invalid file")
	}

	for i, stat := range req.Statistics {
		errs = append(errs, checkStatistic(i+1, stat, limits)...)
	}

	return errs
}

func checkStatistic(position int, stat domain.Statistic, limits Limits) []string {
	var errs []string
	if strings.TrimSpace(stat.Name) == "" {
		errs = append(errs, fmt.Sprintf("statistic %d: name is required", position))
	}
	if math.IsNaN(stat.Value) || math.IsInf(stat.Value, 0) {
		errs = append(errs, fmt.Sprintf("statistic %d: value must be a finite number", position))
	}
	if utf8.RuneCountInString(stat.Unit) > limits.UnitMax {
		errs = append(errs, fmt.Sprintf("statistic %d: unit is too long", position))
	}
	return errs
}

func logoAcceptable(logo *domain.Attachment, limits Limits) bool {
	if len(logo.Data) == 0 || len(logo.Data) > limits.LogoMaxBytes {
		return false
	}
	mime := strings.ToLower(strings.TrimSpace(logo.MIME))
	for _, allowed := range limits.LogoMIMETypes {
		if mime == allowed {
			return true
		}
	}
	return false
}
