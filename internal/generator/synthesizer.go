package generator

import (
	"github.com/toyz/measuregen/internal/annotations"
	"github.com/toyz/measuregen/internal/models"
)

// Synthesize derives the wrapper of a type from its declaration model. It
// never modifies decl; the returned spec shares no memory with it.
func Synthesize(decl *models.TypeDeclaration) (*models.WrapperSpec, error) {
	if decl == nil {
		return nil, models.NewModelInconsistency(models.TypeIdentity{}, "no type declaration")
	}
	if err := validateDeclaration(decl); err != nil {
		return nil, err
	}

	src := decl.Clone()
	name := WrapperName(src.Name)

	// a value-returning constructor means the wrapper holds a value
	holdsPointer := true
	var ctor *models.Constructor
	if len(src.Constructors) == 1 {
		ctor = &src.Constructors[0]
		holdsPointer = ctor.ReturnsPointer
	}

	fieldType := src.Name
	if holdsPointer {
		fieldType = "*" + src.Name
	}

	spec := &models.WrapperSpec{
		Source:   src,
		Name:     name,
		Receiver: ReceiverName,
		Field: models.FieldDeclaration{
			Name:        FieldName,
			Type:        fieldType,
			Annotations: src.Annotations.Clone(),
		},
		Delegating: models.ConstructorDeclaration{
			Name:       DelegatingPrefix + src.Name,
			Parameters: []models.Parameter{{Name: FieldName, Type: fieldType}},
			Result:     "*" + name,
			Assign:     FieldName,
		},
		Constructing: models.ConstructorDeclaration{
			Name:      ConstructingPrefix + src.Name,
			Result:    "*" + name,
			Construct: &models.Construction{TypeName: src.Name},
		},
	}

	if ctor != nil {
		names := newNameSet()
		params, args := forwardParameters(ctor.Parameters, names)
		spec.Constructing.Parameters = params
		spec.Constructing.Construct.Func = ctor.Name
		spec.Constructing.Construct.Args = args
		if ctor.ReturnsError {
			spec.Constructing.Construct.ReturnsError = true
			spec.Constructing.Construct.Value = names.fresh(FieldName)
			spec.Constructing.Construct.Err = names.fresh("err")
		}
	}

	spec.Methods = make([]models.WrappedMethod, 0, len(src.Methods))
	for _, m := range src.Methods {
		spec.Methods = append(spec.Methods, wrapMethod(src.Name, m))
	}

	return spec, nil
}

// wrapMethod mirrors one method and picks its forwarding body
func wrapMethod(typeName string, m models.MethodDeclaration) models.WrappedMethod {
	measured := m.IsMeasured()

	decl := m.Clone()
	decl.Annotations = decl.Annotations.Without(annotations.Marker)

	names := newNameSet(bodyIdentifiers...)
	var args []string
	decl.Parameters, args = forwardParameters(decl.Parameters, names)

	for i, r := range decl.Returns.Results {
		if r.Name != "" && r.Name != "_" {
			decl.Returns.Results[i].Name = names.fresh(r.Name)
		}
	}

	body := models.MethodBody{
		Kind:     models.BodyPlainForward,
		Receiver: ReceiverName,
		Field:    FieldName,
		Method:   m.Name,
		Args:     args,
		Returns:  !decl.Returns.IsVoid(),
	}

	if measured {
		body.Kind = models.BodyMeasuredForward
		body.TypeName = typeName
		body.Before = names.fresh("before")
		body.After = names.fresh("after")
		for i := range decl.Returns.Results {
			body.ResultVars = append(body.ResultVars, names.fresh(resultVar(i)))
		}
	}

	return models.WrappedMethod{MethodDeclaration: decl, Body: body}
}

// forwardParameters names every parameter so it can be passed on, and
// returns the argument list of the forwarding call
func forwardParameters(params []models.Parameter, names nameSet) ([]models.Parameter, []string) {
	if len(params) == 0 {
		return nil, nil
	}

	reserved := make(map[string]bool, len(names))
	for name := range names {
		reserved[name] = true
	}
	for _, p := range params {
		if p.Name != "" && p.Name != "_" {
			names[p.Name] = true
		}
	}

	out := make([]models.Parameter, len(params))
	args := make([]string, len(params))

	for i, p := range params {
		p = p.Clone()
		switch {
		case p.Name == "" || p.Name == "_":
			p.Name = names.fresh(positional(i))
		case reserved[p.Name]:
			p.Name = names.fresh(p.Name)
		}

		out[i] = p
		args[i] = p.Name
		if p.Variadic {
			args[i] += "..."
		}
	}

	return out, args
}
