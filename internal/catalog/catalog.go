// Package catalog holds the immutable inspection checklist.
package catalog

import (
	"bytes"
	_ "embed"
	"github.com/gizahealth/inspector/internal/errors"
	"github.com/gizahealth/inspector/internal/models"
	"gopkg.in/yaml.v3"
	"io"
	"log/slog"
)

var (
	ErrInvalidCatalog   = errors.NewSentinel("invalid catalog")
	ErrQuestionNotFound = errors.NewSentinel("question not found")
	ErrCategoryNotFound = errors.NewSentinel("category not found")
)

//go:embed checklist.yaml
var defaultChecklist []byte

// UnknownQuestion is the placeholder text for answers referring to questions missing from the catalog.
var UnknownQuestion = models.Text{EN: "Unknown Question", AR: "سؤال غير معروف"}

type questionRef struct {
	categoryIdx int
	questionIdx int
}

// Catalog is the ordered, read-only set of checklist categories. It is safe for concurrent use.
type Catalog struct {
	categories []models.Category
	questions  map[models.QuestionID]questionRef
	byCategory map[models.CategoryID]int
}

// New validates the categories and indexes the questions.
//
// The catalog must not be empty, and both category and question ids must be non-empty and unique. Question ids are
// unique across the whole catalog because answers are keyed by them. A question without a category id inherits the
// id of the category it is listed in.
func New(categories []models.Category) (*Catalog, error) {
	if len(categories) == 0 {
		return nil, errors.Wrap(ErrInvalidCatalog, "no categories")
	}

	c := Catalog{
		categories: make([]models.Category, len(categories)),
		questions:  map[models.QuestionID]questionRef{},
		byCategory: map[models.CategoryID]int{},
	}
	for i, category := range categories {
		if category.ID == "" {
			return nil, errors.Wrap(ErrInvalidCatalog, "empty category id", slog.Int("index", i))
		}
		if _, ok := c.byCategory[category.ID]; ok {
			return nil, errors.Wrap(ErrInvalidCatalog, "duplicate category id",
				slog.String("category_id", string(category.ID)))
		}
		c.byCategory[category.ID] = i

		questions := make([]models.Question, len(category.Questions))
		for j, question := range category.Questions {
			attrs := []slog.Attr{
				slog.String("category_id", string(category.ID)),
				slog.String("question_id", string(question.ID)),
			}
			if question.ID == "" {
				return nil, errors.Wrap(ErrInvalidCatalog, "empty question id", attrs...)
			}
			if _, ok := c.questions[question.ID]; ok {
				return nil, errors.Wrap(ErrInvalidCatalog, "duplicate question id", attrs...)
			}
			if question.CategoryID == "" {
				question.CategoryID = category.ID
			}
			if question.CategoryID != category.ID {
				return nil, errors.Wrap(ErrInvalidCatalog, "question listed under another category", attrs...)
			}
			questions[j] = question
			c.questions[question.ID] = questionRef{categoryIdx: i, questionIdx: j}
		}
		category.Questions = questions
		c.categories[i] = category
	}
	return &c, nil
}

// Parse reads a YAML checklist and builds a catalog from it.
func Parse(r io.Reader) (*Catalog, error) {
	var categories []models.Category
	if err := yaml.NewDecoder(r).Decode(&categories); err != nil {
		return nil, errors.Wrap(err, "decode checklist")
	}
	c, err := New(categories)
	if err != nil {
		return nil, errors.Wrap(err, "new catalog")
	}
	return c, nil
}

// Default returns the embedded checklist of the directorate.
func Default() (*Catalog, error) {
	return Parse(bytes.NewReader(defaultChecklist))
}

// Categories returns the categories in navigation order. The returned slice is a copy.
func (c *Catalog) Categories() []models.Category {
	categories := make([]models.Category, len(c.categories))
	for i, category := range c.categories {
		category.Questions = append([]models.Question(nil), category.Questions...)
		categories[i] = category
	}
	return categories
}

// Len returns the number of categories.
func (c *Catalog) Len() int {
	return len(c.categories)
}

// QuestionCount returns the number of questions across all categories.
func (c *Catalog) QuestionCount() int {
	return len(c.questions)
}

// FindQuestion returns the question with the given id or ErrQuestionNotFound.
func (c *Catalog) FindQuestion(id models.QuestionID) (models.Question, error) {
	ref, ok := c.questions[id]
	if !ok {
		return models.Question{}, errors.Wrap(ErrQuestionNotFound, "find question", slog.String("question_id", string(id)))
	}
	return c.categories[ref.categoryIdx].Questions[ref.questionIdx], nil
}

// FindCategory returns the category with the given id or ErrCategoryNotFound.
func (c *Catalog) FindCategory(id models.CategoryID) (models.Category, error) {
	i, ok := c.byCategory[id]
	if !ok {
		return models.Category{}, errors.Wrap(ErrCategoryNotFound, "find category", slog.String("category_id", string(id)))
	}
	category := c.categories[i]
	category.Questions = append([]models.Question(nil), category.Questions...)
	return category, nil
}

// Describe returns the category title and question text for rendering an answer. Unknown ids render as the
// UnknownQuestion placeholder with an empty category title.
func (c *Catalog) Describe(id models.QuestionID, lang models.Language) (string, string) {
	ref, ok := c.questions[id]
	if !ok {
		return "", UnknownQuestion.In(lang)
	}
	category := c.categories[ref.categoryIdx]
	return category.Title.In(lang), category.Questions[ref.questionIdx].Text.In(lang)
}
