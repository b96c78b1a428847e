package models

// Collection names as stored by the backend.
const (
	CollectionProjects     = "projects"
	CollectionTechnologies = "technologies"
	CollectionExperiences  = "experiences"
	CollectionMessages     = "messages"
	CollectionPageViews    = "page_views"
)

// All returns one zero value per persisted model, keyed by collection.
func All() map[string]any {
	return map[string]any{
		CollectionProjects:     &Project{},
		CollectionTechnologies: &Technology{},
		CollectionExperiences:  &Experience{},
		CollectionMessages:     &Message{},
		CollectionPageViews:    &PageView{},
	}
}

// New returns a fresh zero value for collection, or nil when the collection is unknown.
func New(collection string) any {
	switch collection {
	case CollectionProjects:
		return &Project{}
	case CollectionTechnologies:
		return &Technology{}
	case CollectionExperiences:
		return &Experience{}
	case CollectionMessages:
		return &Message{}
	case CollectionPageViews:
		return &PageView{}
	}
	return nil
}
