package templates

// TemplateRegistry provides a centralized way to access all templates
type TemplateRegistry struct {
	templates map[string]string
	order     []string
}

// NewTemplateRegistry creates a new template registry with all templates
func NewTemplateRegistry() *TemplateRegistry {
	registry := &TemplateRegistry{
		templates: make(map[string]string),
	}

	registry.registerFileTemplates()
	registry.registerConstructorTemplates()
	registry.registerMethodTemplates()

	return registry
}

// MustGet retrieves a template by name, panics if not found
func (tr *TemplateRegistry) MustGet(name string) string {
	template, exists := tr.templates[name]
	if !exists {
		panic("template not found: " + name)
	}
	return template
}

// Names returns the registered template names in registration order
func (tr *TemplateRegistry) Names() []string {
	return append([]string(nil), tr.order...)
}

func (tr *TemplateRegistry) register(name, text string) {
	if _, exists := tr.templates[name]; !exists {
		tr.order = append(tr.order, name)
	}
	tr.templates[name] = text
}

// registerFileTemplates registers the file layout and the wrapper type
func (tr *TemplateRegistry) registerFileTemplates() {
	tr.register("wrapper-file", `{{.Header}}

package {{.PackageName}}

{{.Imports}}
{{template "wrapper-struct" .}}
{{template "delegating-constructor" .}}
{{template "constructing-constructor" .}}
{{- range .Methods}}
{{template "method" .}}
{{- end}}
`)

	tr.register("wrapper-struct", `// {{.Name}} reports how long the marked methods of {{.Source}} take.
type {{.Name}} struct {
{{- range .Field.Annotations}}
	{{.LineComment}}
{{- end}}
	{{.Field.Name}} {{.Field.Type}}
}
`)
}

// registerConstructorTemplates registers both generated constructors
func (tr *TemplateRegistry) registerConstructorTemplates() {
	tr.register("delegating-constructor", `// {{.Delegating.Name}} measures an existing {{.Source}}.
func {{.Delegating.Name}}({{params .Delegating.Parameters}}) {{.Delegating.Result}} {
	return &{{.Name}}{ {{.Field.Name}}: {{.Delegating.Assign}} }
}
`)

	tr.register("constructing-constructor", `// {{.Constructing.Name}} builds a {{.Source}} and measures it.
{{- with .Constructing}}
func {{.Name}}({{params .Parameters}}) {{if .Construct.ReturnsError}}({{.Result}}, error){{else}}{{.Result}}{{end}} {
{{- if .Construct.ReturnsError}}
	{{.Construct.Value}}, {{.Construct.Err}} := {{construct .Construct}}
	if {{.Construct.Err}} != nil {
		return nil, {{.Construct.Err}}
	}
	return &{{$.Name}}{ {{$.Field.Name}}: {{.Construct.Value}} }, nil
{{- else}}
	return &{{$.Name}}{ {{$.Field.Name}}: {{construct .Construct}} }
{{- end}}
}
{{- end}}
`)
}

// registerMethodTemplates registers forwarding methods and their bodies
func (tr *TemplateRegistry) registerMethodTemplates() {
	tr.register("method", `{{range .Method.Annotations}}{{.LineComment}}
{{end -}}
func ({{.Receiver}} *{{.Wrapper}}) {{.Method.Name}}({{params .Method.Parameters}}){{results .Method.Returns}} {
{{- if measured .Method.Body}}
{{template "measured-body" .Method.Body}}
{{- else}}
{{template "plain-body" .Method.Body}}
{{- end}}
}
`)

	tr.register("plain-body", `	{{if .Returns}}return {{end}}{{forward .}}`)

	tr.register("measured-body", `	{{.Before}} := `+TimeAlias+`.Now()
	{{if .Returns}}{{join .ResultVars}} := {{end}}{{forward .}}
	{{.After}} := `+TimeAlias+`.Now()
	`+MeasureAlias+`.Report({{quote .Method}}, {{quote .TypeName}}, {{.After}}.Sub({{.Before}}))
{{- if .Returns}}
	return {{join .ResultVars}}
{{- end}}`)
}
