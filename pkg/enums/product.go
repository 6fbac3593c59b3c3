package enums

import "fmt"

// ProductStatus represents the catalog lifecycle of a listing.
type ProductStatus string

const (
	ProductStatusDraft     ProductStatus = "DRAFT"
	ProductStatusPublished ProductStatus = "PUBLISHED"
)

var validProductStatuses = []ProductStatus{
	ProductStatusDraft,
	ProductStatusPublished,
}

// String implements fmt.Stringer.
func (s ProductStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ProductStatus.
func (s ProductStatus) IsValid() bool {
	for _, candidate := range validProductStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseProductStatus converts raw input into a ProductStatus.
func ParseProductStatus(value string) (ProductStatus, error) {
	for _, candidate := range validProductStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product status %q", value)
}

// ProductGrade represents the quality grade assigned to a lot.
type ProductGrade string

const (
	ProductGradeA      ProductGrade = "A"
	ProductGradeB      ProductGrade = "B"
	ProductGradeC      ProductGrade = "C"
	ProductGradeD      ProductGrade = "D"
	ProductGradeSplits ProductGrade = "SPLITS"
	ProductGradeCuts   ProductGrade = "CUTS"
)

var validProductGrades = []ProductGrade{
	ProductGradeA,
	ProductGradeB,
	ProductGradeC,
	ProductGradeD,
	ProductGradeSplits,
	ProductGradeCuts,
}

// String implements fmt.Stringer.
func (g ProductGrade) String() string {
	return string(g)
}

// IsValid reports whether the value is a known ProductGrade.
func (g ProductGrade) IsValid() bool {
	for _, candidate := range validProductGrades {
		if candidate == g {
			return true
		}
	}
	return false
}

// ParseProductGrade converts raw input into a ProductGrade.
func ParseProductGrade(value string) (ProductGrade, error) {
	for _, candidate := range validProductGrades {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product grade %q", value)
}
