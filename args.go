package layerconf

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// positionalKey holds the positional tokens of a bracket group.
const positionalKey = "_"

var shortNumberRe = regexp.MustCompile(`^[A-Za-z]-?\d+(\.\d+)?([eE][-+]?\d+)?$`)

// ParseArgs turns command-line tokens into a nested map and a list of
// positional tokens.
//
//	file.json --a.b=1 --a.c 2 --flag --no-color -xv
//
// yields {a: {b: "1", c: "2"}, flag: true, color: false, x: true, v: true}
// and ["file.json"]. Values stay strings; decoding happens after the merge.
// A later flag for the same path replaces an earlier one. "--" ends flag
// parsing.
//
// A bracket group after a flag builds a nested object:
//
//	--plugin [ --name x extra ]
//
// sets plugin to {name: "x", _: ["extra"]}. Groups may nest.
func ParseArgs(args []string) (map[string]any, []string, error) {
	p := &argParser{tokens: splitBrackets(args)}
	values, rest, err := p.parseGroup(false)
	if err != nil {
		return nil, nil, err
	}
	positionals := make([]string, 0, len(rest))
	for _, r := range rest {
		s, ok := r.(string)
		if !ok {
			return nil, nil, fmt.Errorf("%w: bracket group must follow a flag", ErrArgumentParse)
		}
		positionals = append(positionals, s)
	}
	return values, positionals, nil
}

type argParser struct {
	tokens []string
	pos    int
}

func (p *argParser) next() (string, bool) {
	if p.pos >= len(p.tokens) {
		return "", false
	}
	tok := p.tokens[p.pos]
	p.pos++
	return tok, true
}

func (p *argParser) peek() (string, bool) {
	if p.pos >= len(p.tokens) {
		return "", false
	}
	return p.tokens[p.pos], true
}

func (p *argParser) parseGroup(nested bool) (map[string]any, []any, error) {
	values := map[string]any{}
	positionals := []any{}
	flagsDone := false

	for {
		tok, ok := p.next()
		if !ok {
			if nested {
				return nil, nil, fmt.Errorf("%w: unclosed bracket group", ErrArgumentParse)
			}
			return values, positionals, nil
		}

		switch {
		case tok == "]":
			if !nested {
				return nil, nil, fmt.Errorf("%w: unexpected \"]\"", ErrArgumentParse)
			}
			return values, positionals, nil

		case tok == "[":
			group, err := p.group()
			if err != nil {
				return nil, nil, err
			}
			positionals = append(positionals, group)

		case flagsDone:
			positionals = append(positionals, tok)

		case tok == "--":
			flagsDone = true

		case strings.HasPrefix(tok, "--"):
			if err := p.longFlag(values, tok[2:]); err != nil {
				return nil, nil, err
			}

		case strings.HasPrefix(tok, "-") && tok != "-":
			if err := p.shortFlags(values, tok[1:]); err != nil {
				return nil, nil, err
			}

		default:
			positionals = append(positionals, tok)
		}
	}
}

// group parses a bracket group whose "[" was just consumed.
func (p *argParser) group() (map[string]any, error) {
	values, positionals, err := p.parseGroup(true)
	if err != nil {
		return nil, err
	}
	values[positionalKey] = positionals
	return values, nil
}

func (p *argParser) longFlag(values map[string]any, body string) error {
	if key, val, ok := strings.Cut(body, "="); ok {
		return setPath(values, key, val)
	}
	if key, ok := strings.CutPrefix(body, "no-"); ok {
		return setPath(values, key, false)
	}
	val, err := p.flagValue()
	if err != nil {
		return err
	}
	return setPath(values, body, val)
}

func (p *argParser) shortFlags(values map[string]any, letters string) error {
	if names, val, ok := strings.Cut(letters, "="); ok {
		if names == "" {
			return fmt.Errorf("%w: empty flag name in %q", ErrArgumentParse, "-="+val)
		}
		last := setShortBools(values, names)
		return setPath(values, last, val)
	}
	if shortNumberRe.MatchString(letters) {
		return setPath(values, letters[:1], letters[1:])
	}
	last := setShortBools(values, letters)
	val, err := p.flagValue()
	if err != nil {
		return err
	}
	return setPath(values, last, val)
}

// setShortBools sets every flag of a short group except the last to true and
// returns the last one.
func setShortBools(values map[string]any, names string) string {
	_, size := utf8.DecodeLastRuneInString(names)
	head, last := names[:len(names)-size], names[len(names)-size:]
	for _, r := range head {
		values[string(r)] = true
	}
	return last
}

// flagValue consumes the value following a flag: a bracket group, a plain
// token, or nothing (true).
func (p *argParser) flagValue() (any, error) {
	tok, ok := p.peek()
	switch {
	case !ok || tok == "]" || tok == "--":
		return true, nil
	case tok == "[":
		p.pos++
		return p.group()
	case strings.HasPrefix(tok, "-") && tok != "-":
		return true, nil
	default:
		p.pos++
		return tok, nil
	}
}

// setPath assigns val at the dot-path key, creating intermediate maps. A scalar
// found on the way is replaced by a map.
func setPath(values map[string]any, key string, val any) error {
	segments := strings.Split(key, ".")
	for _, s := range segments {
		if s == "" {
			return fmt.Errorf("%w: invalid flag name %q", ErrArgumentParse, key)
		}
	}
	node := values
	for _, s := range segments[:len(segments)-1] {
		child, ok := node[s].(map[string]any)
		if !ok {
			child = map[string]any{}
			node[s] = child
		}
		node = child
	}
	node[segments[len(segments)-1]] = val
	return nil
}

// splitBrackets detaches brackets glued to tokens: "[--a" becomes "[", "--a"
// and "x]]" becomes "x", "]", "]". Only unmatched trailing brackets are split,
// so values like --a=[1] survive.
func splitBrackets(args []string) []string {
	out := make([]string, 0, len(args))
	for _, a := range args {
		for len(a) > 1 && strings.HasPrefix(a, "[") {
			out = append(out, "[")
			a = a[1:]
		}
		closing := 0
		for len(a) > 1 && strings.HasSuffix(a, "]") && strings.Count(a, "]") > strings.Count(a, "[") {
			closing++
			a = a[:len(a)-1]
		}
		out = append(out, a)
		for ; closing > 0; closing-- {
			out = append(out, "]")
		}
	}
	return out
}
