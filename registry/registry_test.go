package registry

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpupo63/portfolio-site/errs"
	"github.com/rpupo63/portfolio-site/models"
)

func TestParseTags(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, ParseTags("a, b ,c"))
	assert.Equal(t, []string{"a", "", "b"}, ParseTags("a,,b"))
	assert.Equal(t, []string{""}, ParseTags(""))
}

func TestDefaults(t *testing.T) {
	p, err := Default(KindProject, 4)
	require.NoError(t, err)
	assert.Equal(t, models.SpanSingleColumn, p.Project.Span)
	assert.Equal(t, 4, p.Project.OrderIndex)
	assert.Equal(t, []string{}, []string(p.Project.Tags))
	assert.Equal(t, uuid.Nil, p.ID())

	e, err := Default(KindExperience, 1)
	require.NoError(t, err)
	assert.Equal(t, models.IconBriefcase, e.Experience.IconType)

	_, err = Default(Kind("blog"), 1)
	assert.Error(t, err)
}

func TestCloneSharesNothing(t *testing.T) {
	icon := "https://cdn/go.svg"
	original := FromProject(models.Project{ID: uuid.New(), Title: "Site", Tags: []string{"go", "chi"}})
	tech := FromTechnology(models.Technology{ID: uuid.New(), Name: "Go", IconURL: &icon})

	clone := original.Clone()
	assert.Equal(t, original, clone)

	require.NoError(t, clone.Set("tags", "rust"))
	require.NoError(t, clone.Set("title", "Other"))
	assert.Equal(t, []string{"go", "chi"}, []string(original.Project.Tags))
	assert.Equal(t, "Site", original.Project.Title)

	techClone := tech.Clone()
	*techClone.Technology.IconURL = "changed"
	assert.Equal(t, "https://cdn/go.svg", *tech.Technology.IconURL)
}

func TestSetRejectsForeignFields(t *testing.T) {
	tech, err := Default(KindTechnology, 1)
	require.NoError(t, err)

	err = tech.Set("span", models.SpanDoubleColumn)
	assert.True(t, errs.IsInvalidFieldError(err))

	err = tech.Set("order_index", "two")
	assert.True(t, errs.IsInvalidFieldError(err))

	require.NoError(t, tech.Set("icon_url", ""))
	assert.Nil(t, tech.Technology.IconURL)
	require.NoError(t, tech.Set("order_index", " 7 "))
	assert.Equal(t, 7, tech.OrderIndex())
	assert.Equal(t, "7", tech.Value("order_index"))
}

func TestEveryFieldRoundTripsThroughValue(t *testing.T) {
	for _, res := range All() {
		rec, err := Default(res.Kind, 1)
		require.NoError(t, err)
		for _, f := range res.Fields {
			value := "x"
			switch f.Input {
			case InputNumber:
				value = "3"
			case InputSelect:
				value = f.Options[len(f.Options)-1].Value
			}
			require.NoError(t, rec.Set(f.Name, value), "%s.%s", res.Kind, f.Name)
			assert.Equal(t, value, rec.Value(f.Name), "%s.%s", res.Kind, f.Name)
		}
	}
}

func TestLookups(t *testing.T) {
	r, ok := FromTab("cv")
	require.True(t, ok)
	assert.Equal(t, KindExperience, r.Kind)

	_, ok = FromTab("analytics")
	assert.False(t, ok)

	r, ok = FromCollection("technologies")
	require.True(t, ok)
	assert.Equal(t, "tech", r.Tab)

	_, ok = r.Field("name")
	assert.True(t, ok)
}

func TestSetImageURLOnlyForProjects(t *testing.T) {
	p, _ := Default(KindProject, 1)
	require.NoError(t, p.SetImageURL("https://x/y.png"))
	assert.Equal(t, "https://x/y.png", p.ImageURL())

	e, _ := Default(KindExperience, 1)
	assert.Error(t, e.SetImageURL("https://x/y.png"))
}
