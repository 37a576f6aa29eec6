package annotations

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize is the number of distinct tag values a TagParser remembers
const DefaultCacheSize = 512

// TagValue is the root of an inject tag value, e.g. `name=primary,optional`
type TagValue struct {
	Options []*TagOption `parser:"( @@ ( ',' @@ )* )?"`
}

// TagOption is a single `key` or `key=value` option
type TagOption struct {
	Pos   lexer.Position
	Key   string  `parser:"@Ident"`
	Value *string `parser:"( '=' ( @Ident | @Number | @String ) )?"`
}

type parseResult struct {
	options InjectOptions
	err     error
}

// TagParser parses inject tag values and remembers recent results
type TagParser struct {
	parser *participle.Parser[TagValue]
	cache  *lru.Cache[string, parseResult]
}

// NewTagParser creates a tag parser holding at most cacheSize parsed values
func NewTagParser(cacheSize int) (*TagParser, error) {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}

	lex := lexer.MustSimple([]lexer.SimpleRule{
		{Name: "String", Pattern: `'[^']*'|"(\\"|[^"])*"`},
		{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_.\-/]*`},
		{Name: "Number", Pattern: `[0-9]+`},
		{Name: "Punct", Pattern: `[,=]`},
		{Name: "Whitespace", Pattern: `\s+`},
	})

	parser, err := participle.Build[TagValue](
		participle.Lexer(lex),
		participle.Elide("Whitespace"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build inject tag grammar: %w", err)
	}

	cache, err := lru.New[string, parseResult](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create tag cache: %w", err)
	}

	return &TagParser{parser: parser, cache: cache}, nil
}

var (
	defaultParser     *TagParser
	defaultParserOnce sync.Once
)

// DefaultTagParser returns the shared tag parser
func DefaultTagParser() *TagParser {
	defaultParserOnce.Do(func() {
		p, err := NewTagParser(DefaultCacheSize)
		if err != nil {
			panic(err)
		}
		defaultParser = p
	})
	return defaultParser
}

// Parse parses an inject tag value into options. An empty value yields
// the zero options.
func (p *TagParser) Parse(tag string) (InjectOptions, error) {
	if res, ok := p.cache.Get(tag); ok {
		return res.options, res.err
	}

	options, err := p.parse(tag)
	p.cache.Add(tag, parseResult{options: options, err: err})
	return options, err
}

// CachedValues returns the number of tag values currently remembered
func (p *TagParser) CachedValues() int {
	return p.cache.Len()
}

func (p *TagParser) parse(tag string) (InjectOptions, error) {
	var options InjectOptions
	if strings.TrimSpace(tag) == "" {
		return options, nil
	}

	value, err := p.parser.ParseString("", tag)
	if err != nil {
		syntaxErr := &SyntaxError{
			Tag:  tag,
			Msg:  err.Error(),
			Hint: `Use comma separated options, e.g. inject:"name=primary,optional"`,
		}
		var perr participle.Error
		if errors.As(err, &perr) {
			syntaxErr.Column = perr.Position().Column
			syntaxErr.Msg = perr.Message()
		}
		return InjectOptions{}, syntaxErr
	}

	seen := make(map[string]bool, len(value.Options))
	for _, opt := range value.Options {
		spec, known := injectSchema[opt.Key]
		if !known {
			return InjectOptions{}, &SyntaxError{
				Tag:    tag,
				Column: opt.Pos.Column,
				Msg:    fmt.Sprintf("unknown option '%s'", opt.Key),
				Hint:   fmt.Sprintf("Known options: %s", strings.Join(KnownOptions(), ", ")),
			}
		}
		if seen[opt.Key] {
			return InjectOptions{}, &SyntaxError{
				Tag:    tag,
				Column: opt.Pos.Column,
				Msg:    fmt.Sprintf("option '%s' given more than once", opt.Key),
			}
		}
		seen[opt.Key] = true

		var converted interface{}
		if opt.Value == nil {
			if spec.DefaultValue == nil {
				return InjectOptions{}, &SyntaxError{
					Tag:    tag,
					Column: opt.Pos.Column,
					Msg:    fmt.Sprintf("option '%s' requires a value", opt.Key),
					Hint:   fmt.Sprintf("Write %s=<value>", opt.Key),
				}
			}
			converted = spec.DefaultValue
		} else {
			raw, uerr := unquote(*opt.Value)
			if uerr != nil {
				return InjectOptions{}, &SyntaxError{
					Tag:    tag,
					Column: opt.Pos.Column,
					Msg:    fmt.Sprintf("option '%s' has a malformed quoted value: %v", opt.Key, uerr),
					Hint:   `Escape quotes as \" or use single quotes`,
				}
			}
			converted, err = convertValue(spec, raw)
			if err != nil {
				return InjectOptions{}, &SyntaxError{
					Tag:    tag,
					Column: opt.Pos.Column,
					Msg:    fmt.Sprintf("option '%s' expects %s: %v", opt.Key, spec.Type, err),
				}
			}
		}
		spec.apply(&options, converted)
	}

	return options, nil
}
