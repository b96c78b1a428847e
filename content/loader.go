// Package content loads the ordered record sets shown by the admin panel and the public site.
// Loads never fail from the caller's point of view: a backend error is logged and yields an
// empty result, so an unreachable backend renders like an empty collection.
package content

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-site/backend"
	"github.com/rpupo63/portfolio-site/models"
	"github.com/rpupo63/portfolio-site/registry"
)

const recentViewsLimit = 10

type RecentView struct {
	PagePath  string    `json:"page_path"`
	CreatedAt time.Time `json:"created_at"`
}

type Analytics struct {
	TotalViews     int64        `json:"total_views"`
	UniqueVisitors int64        `json:"unique_visitors"` // not computed, always 0
	RecentViews    []RecentView `json:"recent_views"`
}

type Loader struct {
	rows   backend.Rows
	logger zerolog.Logger
}

func NewLoader(rows backend.Rows) *Loader {
	return &Loader{
		rows:   rows,
		logger: log.With().Str("service", "contentLoader").Logger(),
	}
}

// Load returns the records of kind ordered by order_index ascending.
func (l *Loader) Load(ctx context.Context, kind registry.Kind) []registry.Record {
	res, ok := registry.Lookup(kind)
	if !ok {
		l.logger.Error().Str("kind", string(kind)).Msg("load of unknown resource kind")
		return []registry.Record{}
	}
	q := backend.Query{OrderBy: "order_index"}

	switch kind {
	case registry.KindProject:
		var rows []models.Project
		if !l.selectInto(ctx, res.Collection, q, &rows) {
			return []registry.Record{}
		}
		out := make([]registry.Record, 0, len(rows))
		for _, row := range rows {
			out = append(out, registry.FromProject(row))
		}
		return out
	case registry.KindTechnology:
		var rows []models.Technology
		if !l.selectInto(ctx, res.Collection, q, &rows) {
			return []registry.Record{}
		}
		out := make([]registry.Record, 0, len(rows))
		for _, row := range rows {
			out = append(out, registry.FromTechnology(row))
		}
		return out
	default:
		var rows []models.Experience
		if !l.selectInto(ctx, res.Collection, q, &rows) {
			return []registry.Record{}
		}
		out := make([]registry.Record, 0, len(rows))
		for _, row := range rows {
			out = append(out, registry.FromExperience(row))
		}
		return out
	}
}

func (l *Loader) Projects(ctx context.Context) []models.Project {
	var rows []models.Project
	if !l.selectInto(ctx, models.CollectionProjects, backend.Query{OrderBy: "order_index"}, &rows) {
		return []models.Project{}
	}
	return rows
}

func (l *Loader) Technologies(ctx context.Context) []models.Technology {
	var rows []models.Technology
	if !l.selectInto(ctx, models.CollectionTechnologies, backend.Query{OrderBy: "order_index"}, &rows) {
		return []models.Technology{}
	}
	return rows
}

func (l *Loader) Experiences(ctx context.Context) []models.Experience {
	var rows []models.Experience
	if !l.selectInto(ctx, models.CollectionExperiences, backend.Query{OrderBy: "order_index"}, &rows) {
		return []models.Experience{}
	}
	return rows
}

// Messages returns the inbox, newest first.
func (l *Loader) Messages(ctx context.Context) []models.Message {
	var rows []models.Message
	if !l.selectInto(ctx, models.CollectionMessages, backend.Query{OrderBy: "created_at", Desc: true}, &rows) {
		return []models.Message{}
	}
	return rows
}

// Analytics counts page views and returns the 10 most recent ones.
func (l *Loader) Analytics(ctx context.Context) Analytics {
	out := Analytics{RecentViews: []RecentView{}}

	total, err := l.rows.Count(ctx, models.CollectionPageViews)
	if err != nil {
		l.logger.Error().Err(err).Str("collection", models.CollectionPageViews).Msg("count failed")
		return out
	}
	out.TotalViews = total

	var views []models.PageView
	q := backend.Query{OrderBy: "created_at", Desc: true, Limit: recentViewsLimit}
	if !l.selectInto(ctx, models.CollectionPageViews, q, &views) {
		return out
	}
	for _, v := range views {
		out.RecentViews = append(out.RecentViews, RecentView{PagePath: v.PagePath, CreatedAt: v.CreatedAt})
	}
	return out
}

func (l *Loader) selectInto(ctx context.Context, collection string, q backend.Query, dest any) bool {
	if err := l.rows.Select(ctx, collection, q, dest); err != nil {
		l.logger.Error().Err(err).Str("collection", collection).Msg("load failed")
		return false
	}
	return true
}
