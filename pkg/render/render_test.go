package render_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"legal-document-manager/pkg/domain"
	"legal-document-manager/pkg/render"
)

func vars(pairs ...string) []domain.Variable {
	out := make([]domain.Variable, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, domain.Variable{NameEn: pairs[i], Value: domain.StringPtr(pairs[i+1])})
	}
	return out
}

func TestRender(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		variables []domain.Variable
		want      string
	}{
		{
			name:      "completeness",
			content:   "Hello {{name}}, balance {{amt}}",
			variables: vars("name", "Ana", "amt", "100"),
			want:      "Hello Ana, balance 100",
		},
		{
			name:      "optional whitespace",
			content:   "{{ name }}|{{name  }}|{{\tname}}",
			variables: vars("name", "Ana"),
			want:      "Ana|Ana|Ana",
		},
		{
			name:      "non-breaking space around name",
			content:   "{{\u00a0name\u00a0}} y {{ \u00a0name}}",
			variables: vars("name", "Ana"),
			want:      "Ana y Ana",
		},
		{
			name:      "every occurrence",
			content:   "{{x}}-{{x}}-{{ x }}",
			variables: vars("x", "1"),
			want:      "1-1-1",
		},
		{
			name:      "case sensitive",
			content:   "{{Name}} {{name}}",
			variables: vars("name", "ana"),
			want:      "{{Name}} ana",
		},
		{
			name:      "unknown placeholder kept",
			content:   "Dear {{client}}",
			variables: vars("name", "Ana"),
			want:      "Dear {{client}}",
		},
		{
			name:      "unterminated kept",
			content:   "Dear {{name",
			variables: vars("name", "Ana"),
			want:      "Dear {{name",
		},
		{
			name:      "metacharacters match literally",
			content:   "{{a.b}} {{x+y}} {{(n)}} {{axb}}",
			variables: vars("a.b", "dot", "x+y", "plus", "(n)", "paren"),
			want:      "dot plus paren {{axb}}",
		},
		{
			name:      "later duplicate wins",
			content:   "{{name}}",
			variables: vars("name", "first", "name", "second"),
			want:      "second",
		},
		{
			name:      "values are not rescanned",
			content:   "{{a}} {{b}}",
			variables: vars("a", "{{b}}", "b", "B"),
			want:      "{{b}} B",
		},
		{
			name:      "extra brace before placeholder",
			content:   "{{{name}}",
			variables: vars("name", "Ana"),
			want:      "{Ana",
		},
		{
			name:      "markup inserted raw",
			content:   "<p>{{clause}}</p>",
			variables: vars("clause", "<b>bold</b>"),
			want:      "<p><b>bold</b></p>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, render.Render(tt.content, tt.variables))
		})
	}
}

func TestRender_NilValueIsEmpty(t *testing.T) {
	got := render.Render("[{{x}}]", []domain.Variable{{NameEn: "x"}})
	assert.Equal(t, "[]", got)
	assert.NotContains(t, got, "null")
	assert.NotContains(t, got, "nil")
}

func TestRenderDocument(t *testing.T) {
	doc := domain.Document{
		Content:   "Hello {{name}}",
		Variables: vars("name", "Ana"),
	}

	assert.Equal(t, "Hello {{name}}", render.RenderDocument(doc), "unassigned documents are not filled in")

	doc.AssignedTo = domain.Int64Ptr(42)
	assert.Equal(t, "Hello Ana", render.RenderDocument(doc))
}

func TestPlaceholders(t *testing.T) {
	got := render.Placeholders("{{ a }} {{b}} {{a}} {{ two words }} {{}} {{c")
	assert.Equal(t, []string{"a", "b"}, got)

	missing := render.MissingVariables("{{a}} {{b}} {{c}}", vars("b", "1"))
	assert.Equal(t, []string{"a", "c"}, missing)
}

func TestPlainText(t *testing.T) {
	got, err := render.PlainText(`<h1>Contrato</h1><p>Entre <strong>Ana</strong> y&nbsp;Bob</p><script>alert(1)</script><p>Fin<br>línea</p>`)
	require.NoError(t, err)
	assert.Equal(t, "Contrato\nEntre Ana y Bob\nFin\nlínea", got)
}

func TestPlainText_PlainInput(t *testing.T) {
	got, err := render.PlainText("sin formato")
	require.NoError(t, err)
	assert.Equal(t, "sin formato", got)
}

func TestMarkdown(t *testing.T) {
	got, err := render.Markdown(`<h1>Contrato</h1><p>Entre <strong>Ana</strong></p>`)
	require.NoError(t, err)
	assert.Contains(t, got, "# Contrato")
	assert.Contains(t, got, "**Ana**")
}
