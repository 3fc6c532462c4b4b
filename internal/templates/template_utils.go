package templates

import (
	"strconv"
	"strings"
	"text/template"

	"github.com/toyz/measuregen/internal/annotations"
	"github.com/toyz/measuregen/internal/models"
)

// templateFuncs are available to every wrapper template
var templateFuncs = template.FuncMap{
	"params":    formatParameters,
	"results":   formatResults,
	"construct": formatConstruction,
	"forward":   formatForwardCall,
	"measured":  isMeasured,
	"join":      joinNames,
	"quote":     strconv.Quote,
}

// formatParameters renders a parameter list with its inline annotations,
// e.g. "a /*check::positive*/ int, opts ...Option"
func formatParameters(params []models.Parameter) string {
	parts := make([]string, 0, len(params))
	for _, p := range params {
		var b strings.Builder
		writeBlockComments(&b, p.Annotations)
		b.WriteString(p.Name)
		b.WriteByte(' ')
		writeBlockComments(&b, p.TypeAnnotations)
		if p.Variadic {
			b.WriteString("...")
		}
		b.WriteString(p.Type)
		parts = append(parts, b.String())
	}
	return strings.Join(parts, ", ")
}

// formatResults renders a result list including the leading space, or
// nothing when the method returns nothing
func formatResults(ret *models.ReturnType) string {
	if ret == nil || len(ret.Results) == 0 {
		return ""
	}

	if len(ret.Results) == 1 && ret.Results[0].Name == "" {
		var b strings.Builder
		b.WriteByte(' ')
		writeBlockComments(&b, ret.Results[0].Annotations)
		b.WriteString(ret.Results[0].Type)
		return b.String()
	}

	parts := make([]string, 0, len(ret.Results))
	for _, r := range ret.Results {
		var b strings.Builder
		if r.Name != "" {
			b.WriteString(r.Name)
			b.WriteByte(' ')
		}
		writeBlockComments(&b, r.Annotations)
		b.WriteString(r.Type)
		parts = append(parts, b.String())
	}
	return " (" + strings.Join(parts, ", ") + ")"
}

func writeBlockComments(b *strings.Builder, list annotations.List) {
	for _, a := range list {
		b.WriteString(a.BlockComment())
		b.WriteByte(' ')
	}
}

// formatConstruction renders the expression building the held instance
func formatConstruction(c *models.Construction) string {
	if c == nil {
		return ""
	}
	if c.Func == "" {
		return "new(" + c.TypeName + ")"
	}
	return c.Func + "(" + joinNames(c.Args) + ")"
}

// formatForwardCall renders the call on the held instance,
// e.g. "measured.wrapper.Add(a, b)"
func formatForwardCall(body models.MethodBody) string {
	return body.Receiver + "." + body.Field + "." + body.Method + "(" + joinNames(body.Args) + ")"
}

func isMeasured(body models.MethodBody) bool {
	return body.Kind == models.BodyMeasuredForward
}

func joinNames(names []string) string {
	return strings.Join(names, ", ")
}
