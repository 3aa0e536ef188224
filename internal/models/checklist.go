package models

// QuestionID identifies a checklist question. It is unique across the whole catalog.
type QuestionID string

// CategoryID identifies a checklist category.
type CategoryID string

// Question is a single checklist item.
type Question struct {
	ID         QuestionID `json:"id" yaml:"id"`
	Text       Text       `json:"text" yaml:"text"`
	CategoryID CategoryID `json:"categoryId" yaml:"category"`
	// RequiresPhotoIfNonCompliant asks for photographic evidence also when the answer is only partially compliant.
	RequiresPhotoIfNonCompliant bool `json:"requiresPhotoIfNonCompliant" yaml:"requiresPhotoIfNonCompliant"`
}

// Category groups questions. The order of Questions drives the navigation order.
type Category struct {
	ID        CategoryID `json:"id" yaml:"id"`
	Title     Text       `json:"title" yaml:"title"`
	Questions []Question `json:"questions" yaml:"questions"`
}
