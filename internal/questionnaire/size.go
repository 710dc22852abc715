package questionnaire

import (
	"regexp"
	"strconv"
	"strings"
)

// SizeBucket is the coarse organization size used for benchmark adjustment.
type SizeBucket string

const (
	SizeSmall  SizeBucket = "small"
	SizeMedium SizeBucket = "medium"
	SizeLarge  SizeBucket = "large"
)

const (
	smallMaxEmployees  = 49
	mediumMaxEmployees = 299
)

var sizeLabels = map[string]SizeBucket{
	"small":      SizeSmall,
	"micro":      SizeSmall,
	"startup":    SizeSmall,
	"sme":        SizeSmall,
	"medium":     SizeMedium,
	"mid":        SizeMedium,
	"midsize":    SizeMedium,
	"mid-size":   SizeMedium,
	"large":      SizeLarge,
	"enterprise": SizeLarge,
}

// Korean labels match as substrings, longest first so "중소기업" wins over "소기업".
var koreanSizeLabels = []struct {
	label  string
	bucket SizeBucket
}{
	{"스타트업", SizeSmall},
	{"중소기업", SizeMedium},
	{"중견기업", SizeMedium},
	{"소기업", SizeSmall},
	{"소규모", SizeSmall},
	{"중기업", SizeMedium},
	{"대기업", SizeLarge},
}

var employeeCount = regexp.MustCompile(`\d[\d,]*`)

// ParseSize maps a free-form size label or employee range to a bucket.
// The second return is false when the input was not recognized and medium was assumed.
func ParseSize(raw string) (SizeBucket, bool) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return SizeMedium, false
	}

	if bucket, ok := sizeLabels[s]; ok {
		return bucket, true
	}
	for _, k := range koreanSizeLabels {
		if strings.Contains(s, k.label) {
			return k.bucket, true
		}
	}

	// Employee ranges like "1-10", "50-199", "1000+" bucket by their upper bound.
	nums := employeeCount.FindAllString(s, -1)
	if len(nums) == 0 {
		return SizeMedium, false
	}
	n, err := strconv.Atoi(strings.ReplaceAll(nums[len(nums)-1], ",", ""))
	if err != nil {
		return SizeMedium, false
	}
	switch {
	case n <= smallMaxEmployees:
		return SizeSmall, true
	case n <= mediumMaxEmployees:
		return SizeMedium, true
	default:
		return SizeLarge, true
	}
}
