package enums

import "fmt"

// CropSeason is the Indian cropping season a listing belongs to.
type CropSeason string

const (
	CropSeasonKharif CropSeason = "kharif"
	CropSeasonRabi   CropSeason = "rabi"
	CropSeasonZaid   CropSeason = "zaid"
)

var validCropSeasons = []CropSeason{
	CropSeasonKharif,
	CropSeasonRabi,
	CropSeasonZaid,
}

// IsValid reports whether the value is a known CropSeason.
func (c CropSeason) IsValid() bool {
	for _, candidate := range validCropSeasons {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCropSeason converts raw input into a CropSeason.
func ParseCropSeason(value string) (CropSeason, error) {
	for _, candidate := range validCropSeasons {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid crop season %q", value)
}
