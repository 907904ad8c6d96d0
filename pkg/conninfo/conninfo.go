package conninfo

import (
	"regexp"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/pkg/errors"
)

type (
	// Conninfo is a parsed libpq keyword/value connection string such as
	// "host=10.0.0.5 port=5432 user='repl user'".
	Conninfo struct {
		Pairs []*Pair `parser:"@@*"`
	}

	// Pair is a single keyword=value setting.
	Pair struct {
		Key   string `parser:"@Word '='"`
		Value Value  `parser:"@@"`
	}

	// Value is either a bare word or a single-quoted string. Values assigned
	// with Set are held unescaped in Word.
	Value struct {
		Quoted *string `parser:"  @Quoted"`
		Word   *string `parser:"| @Word"`
	}
)

var (
	conninfoLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Quoted", Pattern: `'([^'\\]|\\.)*'`},
		{Name: "Eq", Pattern: `=`},
		{Name: "Word", Pattern: `[^\s'=]+`},
		{Name: "Whitespace", Pattern: `\s+`},
	})

	parser = participle.MustBuild[Conninfo](
		participle.Lexer(conninfoLexer),
		participle.Elide("Whitespace"),
	)

	keyPattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)
)

// Parse parses a libpq connection string. Whitespace around '=' is allowed,
// as in "dbname = postgres".
//
// Example:
//
//	ci, err := conninfo.Parse("host=10.0.0.5 port=5432 user=repl_user")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	host, _ := ci.Get("host") // 10.0.0.5
func Parse(s string) (*Conninfo, error) {
	ci, err := parser.ParseString("", s)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse conninfo")
	}

	for _, p := range ci.Pairs {
		if !keyPattern.MatchString(p.Key) {
			return nil, errors.Errorf("invalid conninfo keyword: %q", p.Key)
		}
	}

	return ci, nil
}

// New builds a Conninfo from alternating keyword and value arguments.
func New(kv ...string) *Conninfo {
	ci := &Conninfo{}
	for i := 0; i+1 < len(kv); i += 2 {
		ci.Set(kv[i], kv[i+1])
	}

	return ci
}

// Get returns the value for key. When a keyword is repeated the last value
// wins, matching libpq.
func (c *Conninfo) Get(key string) (string, bool) {
	for i := len(c.Pairs) - 1; i >= 0; i-- {
		if c.Pairs[i].Key == key {
			return c.Pairs[i].Value.String(), true
		}
	}

	return "", false
}

// Set replaces the value of key, appending it when absent.
func (c *Conninfo) Set(key, value string) {
	for _, p := range c.Pairs {
		if p.Key == key {
			p.Value = Value{Word: &value}
			return
		}
	}

	c.Pairs = append(c.Pairs, &Pair{Key: key, Value: Value{Word: &value}})
}

// String renders the connection string, quoting values only when required.
func (c *Conninfo) String() string {
	parts := make([]string, 0, len(c.Pairs))
	for _, p := range c.Pairs {
		parts = append(parts, p.Key+"="+Quote(p.Value.String()))
	}

	return strings.Join(parts, " ")
}

// String returns the unescaped value.
func (v Value) String() string {
	switch {
	case v.Word != nil:
		return *v.Word
	case v.Quoted != nil:
		return unquote(*v.Quoted)
	default:
		return ""
	}
}

// Quote returns v in a form libpq reads back unchanged. Values that are empty
// or contain whitespace, quotes, backslashes or '=' are single-quoted with
// backslash escapes.
//
// Examples:
//   - "10.0.0.5" -> "10.0.0.5"
//   - "repl user" -> "'repl user'"
//   - "o'brien" -> "'o\'brien'"
//   - "" -> "''"
func Quote(v string) string {
	if v != "" && !strings.ContainsAny(v, " \t\r\n'\\=") {
		return v
	}

	return "'" + escape(v) + "'"
}

var escape = strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace

// unquote strips the surrounding quotes from a lexed Quoted token and
// resolves backslash escapes.
func unquote(s string) string {
	s = s[1 : len(s)-1]
	if !strings.Contains(s, `\`) {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
		}
		b.WriteByte(s[i])
	}

	return b.String()
}
