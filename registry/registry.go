// Package registry describes the resource kinds the admin can edit: their form fields,
// the template used for a new record and the collection that stores them.
package registry

import (
	"github.com/rpupo63/portfolio-site/models"
)

type Kind string

const (
	KindProject    Kind = "projects"
	KindTechnology Kind = "technologies"
	KindExperience Kind = "experiences"
)

// Input selects the form control rendered for a field.
type Input string

const (
	InputText     Input = "text"
	InputTextarea Input = "textarea"
	InputURL      Input = "url"
	InputNumber   Input = "number"
	InputSelect   Input = "select"
	InputTags     Input = "tags"
	InputImage    Input = "image"
)

type Option struct {
	Value string
	Label string
}

type Field struct {
	Name        string
	Label       string
	Input       Input
	Options     []Option
	Placeholder string
	Required    bool
}

// Resource is the declarative description of one editable kind.
type Resource struct {
	Kind       Kind
	Label      string // section title
	Noun       string // used in "Ajouter un projet"
	Collection string
	Tab        string
	Fields     []Field
	EmptyState string
}

var orderField = Field{Name: "order_index", Label: "Ordre", Input: InputNumber}

var resources = []Resource{
	{
		Kind:       KindProject,
		Label:      "Projets",
		Noun:       "un projet",
		Collection: models.CollectionProjects,
		Tab:        "projects",
		EmptyState: "Aucun projet disponible pour le moment.",
		Fields: []Field{
			{Name: "title", Label: "Titre", Input: InputText, Required: true},
			{Name: "description", Label: "Description", Input: InputTextarea},
			{Name: "tags", Label: "Tags (séparés par des virgules)", Input: InputTags},
			{Name: "github_url", Label: "URL GitHub", Input: InputURL},
			{Name: "live_url", Label: "URL Live", Input: InputURL},
			{Name: "image_url", Label: "Image de couverture", Input: InputImage, Placeholder: "https://..."},
			{Name: "span", Label: "Taille (span)", Input: InputSelect, Options: []Option{
				{Value: models.SpanSingleColumn, Label: "1 colonne"},
				{Value: models.SpanDoubleColumn, Label: "2 colonnes"},
			}},
			orderField,
		},
	},
	{
		Kind:       KindTechnology,
		Label:      "Technologies",
		Noun:       "une technologie",
		Collection: models.CollectionTechnologies,
		Tab:        "tech",
		EmptyState: "Aucune technologie disponible pour le moment.",
		Fields: []Field{
			{Name: "name", Label: "Nom", Input: InputText, Required: true},
			{Name: "category", Label: "Catégorie", Input: InputText},
			{Name: "icon_url", Label: "URL de l'icône", Input: InputURL, Placeholder: "https://..."},
			orderField,
		},
	},
	{
		Kind:       KindExperience,
		Label:      "Expériences",
		Noun:       "une expérience",
		Collection: models.CollectionExperiences,
		Tab:        "cv",
		EmptyState: "Aucune expérience pour le moment.",
		Fields: []Field{
			{Name: "year", Label: "Période", Input: InputText, Placeholder: "2023 - Présent"},
			{Name: "title", Label: "Titre", Input: InputText, Required: true},
			{Name: "company", Label: "Entreprise", Input: InputText},
			{Name: "description", Label: "Description", Input: InputTextarea},
			{Name: "icon_type", Label: "Icône", Input: InputSelect, Options: []Option{
				{Value: models.IconBriefcase, Label: "Briefcase (Travail)"},
				{Value: models.IconGraduationCap, Label: "GraduationCap (Formation)"},
			}},
			orderField,
		},
	},
}

// All returns the editable resources in tab order.
func All() []Resource {
	return resources
}

func Lookup(kind Kind) (Resource, bool) {
	for _, r := range resources {
		if r.Kind == kind {
			return r, true
		}
	}
	return Resource{}, false
}

// FromTab maps an admin tab id to its resource. Analytics and messages have none.
func FromTab(tab string) (Resource, bool) {
	for _, r := range resources {
		if r.Tab == tab {
			return r, true
		}
	}
	return Resource{}, false
}

// FromCollection maps a backend collection to its resource.
func FromCollection(collection string) (Resource, bool) {
	for _, r := range resources {
		if r.Collection == collection {
			return r, true
		}
	}
	return Resource{}, false
}

func (r Resource) Field(name string) (Field, bool) {
	for _, f := range r.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}
