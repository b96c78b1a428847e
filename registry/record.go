package registry

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/rpupo63/portfolio-site/errs"
	"github.com/rpupo63/portfolio-site/models"
)

// Record holds exactly one of Project, Technology or Experience, selected by Kind.
type Record struct {
	Kind       Kind
	Project    *models.Project
	Technology *models.Technology
	Experience *models.Experience
}

func FromProject(p models.Project) Record {
	return Record{Kind: KindProject, Project: &p}
}

func FromTechnology(t models.Technology) Record {
	return Record{Kind: KindTechnology, Technology: &t}
}

func FromExperience(e models.Experience) Record {
	return Record{Kind: KindExperience, Experience: &e}
}

// Default is the template for a new record of kind, placed at order.
func Default(kind Kind, order int) (Record, error) {
	switch kind {
	case KindProject:
		return FromProject(models.Project{
			Tags:       []string{},
			Span:       models.SpanSingleColumn,
			OrderIndex: order,
		}), nil
	case KindTechnology:
		return FromTechnology(models.Technology{OrderIndex: order}), nil
	case KindExperience:
		return FromExperience(models.Experience{
			IconType:   models.IconBriefcase,
			OrderIndex: order,
		}), nil
	}
	return Record{}, errs.NewInvalidFieldError("kind", fmt.Sprintf("unknown resource kind %q", kind))
}

// ParseTags splits a comma separated input and trims each part. Empty parts are kept.
func ParseTags(input string) []string {
	parts := strings.Split(input, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func FormatTags(tags []string) string {
	return strings.Join(tags, ", ")
}

func (r Record) IsZero() bool {
	return r.Project == nil && r.Technology == nil && r.Experience == nil
}

func (r Record) ID() uuid.UUID {
	switch r.Kind {
	case KindProject:
		if r.Project != nil {
			return r.Project.ID
		}
	case KindTechnology:
		if r.Technology != nil {
			return r.Technology.ID
		}
	case KindExperience:
		if r.Experience != nil {
			return r.Experience.ID
		}
	}
	return uuid.Nil
}

func (r Record) OrderIndex() int {
	switch {
	case r.Project != nil:
		return r.Project.OrderIndex
	case r.Technology != nil:
		return r.Technology.OrderIndex
	case r.Experience != nil:
		return r.Experience.OrderIndex
	}
	return 0
}

// Title is the heading shown for the record in admin lists.
func (r Record) Title() string {
	switch {
	case r.Project != nil:
		return r.Project.Title
	case r.Technology != nil:
		return r.Technology.Name
	case r.Experience != nil:
		return r.Experience.Title
	}
	return ""
}

// Row is the model value to hand to the backend.
func (r Record) Row() any {
	switch r.Kind {
	case KindProject:
		return r.Project
	case KindTechnology:
		return r.Technology
	case KindExperience:
		return r.Experience
	}
	return nil
}

// Clone returns a deep copy; the copy shares no memory with r.
func (r Record) Clone() Record {
	out := Record{Kind: r.Kind}
	if r.Project != nil {
		p := *r.Project
		if r.Project.Tags != nil {
			p.Tags = append(make([]string, 0, len(r.Project.Tags)), r.Project.Tags...)
		}
		out.Project = &p
	}
	if r.Technology != nil {
		t := *r.Technology
		if r.Technology.IconURL != nil {
			icon := *r.Technology.IconURL
			t.IconURL = &icon
		}
		out.Technology = &t
	}
	if r.Experience != nil {
		e := *r.Experience
		out.Experience = &e
	}
	return out
}

// Value renders a field as the string shown in its form control.
func (r Record) Value(field string) string {
	switch r.Kind {
	case KindProject:
		p := r.Project
		if p == nil {
			return ""
		}
		switch field {
		case "title":
			return p.Title
		case "description":
			return p.Description
		case "tags":
			return FormatTags(p.Tags)
		case "github_url":
			return p.GithubURL
		case "live_url":
			return p.LiveURL
		case "image_url":
			return p.ImageURL
		case "span":
			return p.Span
		case "order_index":
			return strconv.Itoa(p.OrderIndex)
		}
	case KindTechnology:
		t := r.Technology
		if t == nil {
			return ""
		}
		switch field {
		case "name":
			return t.Name
		case "category":
			return t.Category
		case "icon_url":
			if t.IconURL != nil {
				return *t.IconURL
			}
			return ""
		case "order_index":
			return strconv.Itoa(t.OrderIndex)
		}
	case KindExperience:
		e := r.Experience
		if e == nil {
			return ""
		}
		switch field {
		case "year":
			return e.Year
		case "title":
			return e.Title
		case "company":
			return e.Company
		case "description":
			return e.Description
		case "icon_type":
			return e.IconType
		case "order_index":
			return strconv.Itoa(e.OrderIndex)
		}
	}
	return ""
}

// Set writes a form value into the record. Fields that do not belong to the kind are rejected.
func (r Record) Set(field, value string) error {
	if r.IsZero() {
		return errs.NewBadRequestError("no draft to edit")
	}

	switch r.Kind {
	case KindProject:
		p := r.Project
		switch field {
		case "title":
			p.Title = value
		case "description":
			p.Description = value
		case "tags":
			p.Tags = ParseTags(value)
		case "github_url":
			p.GithubURL = value
		case "live_url":
			p.LiveURL = value
		case "image_url":
			p.ImageURL = value
		case "span":
			p.Span = value
		case "order_index":
			return setOrder(&p.OrderIndex, value)
		default:
			return unknownField(r.Kind, field)
		}
	case KindTechnology:
		t := r.Technology
		switch field {
		case "name":
			t.Name = value
		case "category":
			t.Category = value
		case "icon_url":
			if value == "" {
				t.IconURL = nil
			} else {
				t.IconURL = &value
			}
		case "order_index":
			return setOrder(&t.OrderIndex, value)
		default:
			return unknownField(r.Kind, field)
		}
	case KindExperience:
		e := r.Experience
		switch field {
		case "year":
			e.Year = value
		case "title":
			e.Title = value
		case "company":
			e.Company = value
		case "description":
			e.Description = value
		case "icon_type":
			e.IconType = value
		case "order_index":
			return setOrder(&e.OrderIndex, value)
		default:
			return unknownField(r.Kind, field)
		}
	default:
		return unknownField(r.Kind, field)
	}
	return nil
}

// HasImage reports whether the kind carries an uploadable image.
func (r Record) HasImage() bool {
	return r.Kind == KindProject && r.Project != nil
}

// SetImageURL stores an uploaded image's public URL.
func (r Record) SetImageURL(url string) error {
	if !r.HasImage() {
		return errs.NewInvalidFieldError("image_url", fmt.Sprintf("%s has no image", r.Kind))
	}
	r.Project.ImageURL = url
	return nil
}

func (r Record) ImageURL() string {
	if r.Project == nil {
		return ""
	}
	return r.Project.ImageURL
}

func setOrder(dst *int, value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		*dst = 0
		return nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return errs.NewInvalidFieldError("order_index", "must be an integer")
	}
	*dst = n
	return nil
}

func unknownField(kind Kind, field string) error {
	return errs.NewInvalidFieldError(field, fmt.Sprintf("not a field of %s", kind))
}
