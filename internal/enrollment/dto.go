package enrollment

import (
	coursedm "github.com/omp-platform/learning-backend/internal/core/datamodel/course"
	enrollmentdm "github.com/omp-platform/learning-backend/internal/core/datamodel/enrollment"
)

type EnrollmentDTO struct {
	ID               string   `json:"id"`
	UserID           string   `json:"user_id"`
	CourseID         string   `json:"course_id"`
	CompletedModules []string `json:"completed_modules"`
	CertificateURL   *string  `json:"certificate_url,omitempty"`
}

func ToDTO(e *enrollmentdm.Enrollment, completedModules []string) *EnrollmentDTO {
	if completedModules == nil {
		completedModules = []string{}
	}
	return &EnrollmentDTO{
		ID:               e.ID,
		UserID:           e.UserID,
		CourseID:         e.CourseID,
		CompletedModules: completedModules,
		CertificateURL:   e.CertificateURL,
	}
}

type ModuleDTO struct {
	ID          string  `json:"id"`
	CourseID    string  `json:"course_id"`
	Title       string  `json:"title"`
	VideoURL    string  `json:"video_url"`
	Summary     string  `json:"summary"`
	ResourceURL *string `json:"resource_url,omitempty"`
}

func ToModuleDTO(m *coursedm.Module) *ModuleDTO {
	return &ModuleDTO{
		ID:          m.ID,
		CourseID:    m.CourseID,
		Title:       m.Title,
		VideoURL:    m.VideoURL,
		Summary:     m.Summary,
		ResourceURL: m.ResourceURL,
	}
}

func ToModuleDTOs(modules []*coursedm.Module) []*ModuleDTO {
	dtos := make([]*ModuleDTO, 0, len(modules))
	for _, m := range modules {
		dtos = append(dtos, ToModuleDTO(m))
	}
	return dtos
}

type CourseDTO struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	PriceMinor  int64   `json:"price_minor"`
	Currency    string  `json:"currency"`
	ImageURL    *string `json:"image_url,omitempty"`
	MentorID    *string `json:"mentor_id,omitempty"`
}

func ToCourseDTOs(courses []*coursedm.Course) []*CourseDTO {
	dtos := make([]*CourseDTO, 0, len(courses))
	for _, c := range courses {
		dtos = append(dtos, &CourseDTO{
			ID:          c.ID,
			Title:       c.Title,
			Description: c.Description,
			PriceMinor:  c.PriceMinor,
			Currency:    c.Currency,
			ImageURL:    c.ImageURL,
			MentorID:    c.MentorID,
		})
	}
	return dtos
}

// ModulesWithStatusDTO bundles a course's modules with the student's
// completion state and cached certificate url.
type ModulesWithStatusDTO struct {
	Modules          []*ModuleDTO `json:"modules"`
	CompletedModules []string     `json:"completed_modules"`
	CertificateURL   *string      `json:"certificate_url"`
}
