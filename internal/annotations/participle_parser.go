package annotations

import (
	"regexp"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	// annotationPrefix recognises a comment body that claims to be an annotation
	annotationPrefix = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_./-]*::[A-Za-z_]`)
	simpleName       = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
)

// directive is the participle grammar root for one annotation
type directive struct {
	Namespace string  `parser:"@Ident Sep"`
	Name      string  `parser:"@Ident"`
	Items     []*item `parser:"@@*"`
}

// item is either a -Key[=Value] option or a positional argument
type item struct {
	Option *option `parser:"  @@"`
	Arg    *string `parser:"| @(String | Ident | Value)"`
}

type option struct {
	Key   string  `parser:"Dash @Ident"`
	Value *string `parser:"( Equals @(String | Ident | Value) )?"`
}

// Parser turns comment text into Annotation values
type Parser struct {
	grammar *participle.Parser[directive]
}

// NewParser builds the annotation grammar
func NewParser() *Parser {
	lex := lexer.MustSimple([]lexer.SimpleRule{
		{Name: "String", Pattern: `"(\\"|[^"])*"`},
		{Name: "Sep", Pattern: `::`},
		{Name: "Dash", Pattern: `-`},
		{Name: "Equals", Pattern: `=`},
		{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_./-]*`},
		{Name: "Value", Pattern: `[^\s="]+`},
		{Name: "Whitespace", Pattern: `\s+`},
	})

	return &Parser{
		grammar: participle.MustBuild[directive](
			participle.Lexer(lex),
			participle.Elide("Whitespace"),
			participle.Unquote("String"),
			participle.UseLookahead(2),
		),
	}
}

// IsAnnotation reports whether a raw comment looks like an annotation
func IsAnnotation(comment string) bool {
	body, ok := commentBody(comment)
	return ok && annotationPrefix.MatchString(body)
}

// ParseComment parses a // or /* */ comment. The boolean result is false when
// the comment is ordinary text rather than an annotation; an error is only
// returned for comments that claim to be annotations but are malformed.
func (p *Parser) ParseComment(comment string, location SourceLocation) (Annotation, bool, error) {
	body, ok := commentBody(comment)
	if !ok || !annotationPrefix.MatchString(body) {
		return Annotation{}, false, nil
	}

	ann, err := p.parseBody(body, location)
	if err != nil {
		return Annotation{}, true, err
	}
	ann.Raw = comment
	return ann, true, nil
}

// ParseBody parses an annotation without comment markers, e.g. "measure::measured"
func (p *Parser) ParseBody(body string, location SourceLocation) (Annotation, error) {
	return p.parseBody(strings.TrimSpace(body), location)
}

func (p *Parser) parseBody(body string, location SourceLocation) (Annotation, error) {
	parsed, err := p.grammar.ParseString(location.File, body)
	if err != nil {
		return Annotation{}, newSyntaxError(err, body, location)
	}

	if !simpleName.MatchString(parsed.Name) {
		return Annotation{}, &SyntaxError{
			Msg:  "annotation name '" + parsed.Name + "' is not an identifier",
			Loc:  location,
			Hint: "use namespace::Name where Name contains only letters, digits and underscores",
		}
	}

	ann := Annotation{
		Namespace: parsed.Namespace,
		Name:      parsed.Name,
		Location:  location,
		Raw:       body,
	}

	for _, it := range parsed.Items {
		switch {
		case it.Option != nil && it.Option.Value != nil:
			if ann.Params == nil {
				ann.Params = make(map[string]string)
			}
			if _, dup := ann.Params[it.Option.Key]; dup {
				return Annotation{}, &SyntaxError{
					Msg:  "parameter '-" + it.Option.Key + "' given more than once",
					Loc:  location,
					Hint: "remove the duplicate parameter",
				}
			}
			ann.Params[it.Option.Key] = *it.Option.Value
		case it.Option != nil:
			ann.Flags = append(ann.Flags, it.Option.Key)
		case it.Arg != nil:
			ann.Args = append(ann.Args, *it.Arg)
		}
	}

	return ann, nil
}

// commentBody strips comment markers and surrounding whitespace
func commentBody(comment string) (string, bool) {
	switch {
	case strings.HasPrefix(comment, "//"):
		return strings.TrimSpace(strings.TrimPrefix(comment, "//")), true
	case strings.HasPrefix(comment, "/*") && strings.HasSuffix(comment, "*/"):
		body := strings.TrimSuffix(strings.TrimPrefix(comment, "/*"), "*/")
		if strings.Contains(body, "\n") {
			return "", false
		}
		return strings.TrimSpace(body), true
	default:
		return "", false
	}
}
