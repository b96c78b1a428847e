package config

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpupo63/portfolio-site/errs"
)

func TestGetters(t *testing.T) {
	c := map[string]string{
		"PORT":             "9090",
		"BAD_INT":          "nine",
		"APP_DEBUG":        "true",
		"ACCEPTED_ORIGINS": " https://a.dev, ,https://b.dev ",
		"EMPTY":            "",
	}

	assert.Equal(t, 9090, GetInt(c, "PORT", 8080))
	assert.Equal(t, 8080, GetInt(c, "BAD_INT", 8080))
	assert.True(t, GetBool(c, "APP_DEBUG", false))
	assert.False(t, GetBool(c, "MISSING", false))
	assert.Equal(t, "fallback", GetString(c, "EMPTY", "fallback"))
	assert.Equal(t, []string{"https://a.dev", "https://b.dev"}, GetList(c, "ACCEPTED_ORIGINS"))
	assert.Equal(t, "x", GetString(nil, "PORT", "x"))
}

func TestRequireNamesMissingKey(t *testing.T) {
	c := map[string]string{"SUPABASE_URL": "https://abc.supabase.co"}

	err := Require(c, "SUPABASE_URL", "SUPABASE_ANON_KEY")
	require.Error(t, err)
	assert.True(t, errs.IsConfigError(err))
	assert.Contains(t, err.Error(), "SUPABASE_ANON_KEY")

	assert.NoError(t, Require(c, "SUPABASE_URL"))
}

type pagedParameters struct {
	pages [][]types.Parameter
	calls int
}

func (p *pagedParameters) GetParametersByPath(_ context.Context, in *ssm.GetParametersByPathInput, _ ...func(*ssm.Options)) (*ssm.GetParametersByPathOutput, error) {
	page := p.pages[p.calls]
	p.calls++
	out := &ssm.GetParametersByPathOutput{Parameters: page}
	if p.calls < len(p.pages) {
		out.NextToken = aws.String("next")
	}
	return out, nil
}

func TestMergeParametersKeepsEnvironmentValues(t *testing.T) {
	source := &pagedParameters{pages: [][]types.Parameter{
		{{Name: aws.String("/portfolio/prod/SESSION_SECRET"), Value: aws.String("from-ssm")}},
		{{Name: aws.String("/portfolio/prod/PORT"), Value: aws.String("1234")}},
	}}
	c := map[string]string{"PORT": "8080"}

	require.NoError(t, MergeParameters(context.Background(), source, "/portfolio/prod", c))

	assert.Equal(t, 2, source.calls)
	assert.Equal(t, "from-ssm", c["SESSION_SECRET"])
	assert.Equal(t, "8080", c["PORT"])
}
