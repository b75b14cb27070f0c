// Package render sustituye las variables de una plantilla de documento dinámico.
//
// Los placeholders tienen la forma {{ nombre }}: el nombre se compara de forma
// exacta y sensible a mayúsculas, y se admiten espacios opcionales a cada lado.
// El texto se recorre una sola vez buscando los delimitadores literales, de modo
// que los valores insertados nunca se vuelven a interpretar y los nombres con
// caracteres especiales (a.b, x+y, (n)) se tratan como texto.
package render

import (
	"strings"
	"unicode"

	"legal-document-manager/pkg/domain"
)

const (
	openDelim  = "{{"
	closeDelim = "}}"
)

// Render reemplaza cada placeholder conocido por el valor de su variable.
// Un valor ausente se reemplaza por "". Con nombres repetidos gana la última definición.
// Los placeholders sin variable y los "{{" sin cierre se dejan igual.
func Render(content string, variables []domain.Variable) string {
	if len(variables) == 0 || !strings.Contains(content, openDelim) {
		return content
	}

	values := make(map[string]string, len(variables))
	for _, v := range variables {
		values[v.NameEn] = v.ValueOrEmpty()
	}

	var b strings.Builder
	b.Grow(len(content))

	rest := content
	for {
		start := strings.Index(rest, openDelim)
		if start < 0 {
			b.WriteString(rest)
			break
		}
		end := strings.Index(rest[start+len(openDelim):], closeDelim)
		if end < 0 {
			b.WriteString(rest)
			break
		}
		end += start + len(openDelim)

		name := trimPlaceholderSpace(rest[start+len(openDelim) : end])
		value, ok := values[name]
		if !ok {
			// Se copia solo "{" para volver a intentar desde el siguiente carácter: "{{{x}}" contiene {{x}}.
			b.WriteString(rest[:start+1])
			rest = rest[start+1:]
			continue
		}

		b.WriteString(rest[:start])
		b.WriteString(value)
		rest = rest[end+len(closeDelim):]
	}

	return b.String()
}

// RenderDocument aplica Render solo a documentos asignados; si no, devuelve el contenido tal cual.
func RenderDocument(doc domain.Document) string {
	if !doc.IsAssigned() {
		return doc.Content
	}
	return Render(doc.Content, doc.Variables)
}

// Placeholders lista los nombres distintos en el orden en que aparecen.
func Placeholders(content string) []string {
	var names []string
	seen := make(map[string]bool)

	rest := content
	for {
		start := strings.Index(rest, openDelim)
		if start < 0 {
			return names
		}
		end := strings.Index(rest[start+len(openDelim):], closeDelim)
		if end < 0 {
			return names
		}
		end += start + len(openDelim)

		name := trimPlaceholderSpace(rest[start+len(openDelim) : end])
		if name == "" || strings.ContainsAny(name, " \t\r\n{") {
			rest = rest[start+1:]
			continue
		}
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
		rest = rest[end+len(closeDelim):]
	}
}

// MissingVariables devuelve los placeholders de content sin variable definida.
func MissingVariables(content string, variables []domain.Variable) []string {
	defined := make(map[string]bool, len(variables))
	for _, v := range variables {
		defined[v.NameEn] = true
	}
	var missing []string
	for _, name := range Placeholders(content) {
		if !defined[name] {
			missing = append(missing, name)
		}
	}
	return missing
}

// Los editores de texto enriquecido insertan espacios no separables junto a las llaves.
func trimPlaceholderSpace(s string) string {
	return strings.TrimFunc(s, unicode.IsSpace)
}
