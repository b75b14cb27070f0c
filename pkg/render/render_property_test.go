package render_test

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"legal-document-manager/pkg/domain"
	"legal-document-manager/pkg/render"
)

// Un documento sin asignar se muestra tal cual, cualquiera que sea su lista de variables.
func TestRenderDocument_UnassignedIsIdentity(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("unassigned content is returned unchanged", prop.ForAll(
		func(names []string, values []string, body string) bool {
			var variables []domain.Variable
			var content strings.Builder
			content.WriteString(body)
			for i := 0; i < len(names) && i < len(values); i++ {
				variables = append(variables, domain.Variable{NameEn: names[i], Value: domain.StringPtr(values[i])})
				content.WriteString("{{" + names[i] + "}}")
			}
			doc := domain.Document{Content: content.String(), Variables: variables}
			return render.RenderDocument(doc) == doc.Content
		},
		gen.SliceOf(gen.AlphaString()),
		gen.SliceOf(gen.AnyString()),
		gen.AnyString(),
	))

	properties.TestingRun(t)
}

// Con todos los valores ausentes, cada placeholder conocido desaparece.
func TestRender_AbsentValuesVanish(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("absent values render as empty", prop.ForAll(
		func(names []string) bool {
			var variables []domain.Variable
			var content strings.Builder
			for _, name := range names {
				if name == "" {
					continue
				}
				variables = append(variables, domain.Variable{NameEn: name})
				content.WriteString("{{ " + name + " }}")
			}
			return render.Render(content.String(), variables) == ""
		},
		gen.SliceOf(gen.Identifier()),
	))

	properties.TestingRun(t)
}
