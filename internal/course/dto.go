package course

import "github.com/omp-platform/learning-backend/internal"

type CreateCourseDTO struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	PriceMinor  int64   `json:"price_minor"`
	Currency    string  `json:"currency"`
	ImageURL    *string `json:"image_url"`
	MentorID    *string `json:"mentor_id"`
}

func (d *CreateCourseDTO) Validate() error {
	if d.Title == "" {
		return internal.NewValidationError("title is required", internal.ErrCodeValidationFailed)
	}
	if d.PriceMinor < 0 {
		return internal.NewValidationError("price must not be negative", internal.ErrCodeInvalidAmount)
	}
	return nil
}

type UpdateCourseDTO struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	PriceMinor  *int64  `json:"price_minor"`
	Currency    *string `json:"currency"`
	ImageURL    *string `json:"image_url"`
	MentorID    *string `json:"mentor_id"`
}

type ModuleDTO struct {
	Title       string  `json:"title"`
	VideoURL    string  `json:"video_url"`
	Summary     string  `json:"summary"`
	ResourceURL *string `json:"resource_url"`
}

func (d *ModuleDTO) Validate() error {
	if d.Title == "" {
		return internal.NewValidationError("module title is required", internal.ErrCodeValidationFailed)
	}
	return nil
}
