package mentor

import "github.com/omp-platform/learning-backend/internal"

type MentorDTO struct {
	Name      string  `json:"name"`
	Bio       string  `json:"bio"`
	Expertise string  `json:"expertise"`
	ImageURL  *string `json:"image_url"`
}

func (d *MentorDTO) Validate() error {
	if d.Name == "" {
		return internal.NewValidationError("name is required", internal.ErrCodeValidationFailed)
	}
	return nil
}
