package compact

import (
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
)

var multiSpaceBetweenTags = regexp.MustCompile(`>[ \t\r\n]{2,}<`)

func TestCompact_CollapsesWhitespaceBetweenTags(t *testing.T) {
	t.Parallel()
	out, err := New().Compact("<div>   <p>  hi  </p>   </div>")
	if err != nil {
		t.Fatalf("compact: %v", err)
	}
	if multiSpaceBetweenTags.MatchString(out) {
		t.Fatalf("expected no whitespace runs between tags, got %q", out)
	}
	if strings.Contains(out, "  ") {
		t.Fatalf("expected no double spaces, got %q", out)
	}
	if !strings.Contains(out, "hi") {
		t.Fatalf("expected text content preserved, got %q", out)
	}
}

func TestCompact_KeepsComments(t *testing.T) {
	t.Parallel()
	out, err := New().Compact("<!-- keep me --><div></div>")
	if err != nil {
		t.Fatalf("compact: %v", err)
	}
	if !strings.Contains(out, "<!-- keep me -->") {
		t.Fatalf("expected comment kept verbatim, got %q", out)
	}
}

func TestCompact_Deterministic(t *testing.T) {
	t.Parallel()
	in := `<!doctype html>
<html>
  <head>
    <title> Page </title>
    <style> body { color : red ; } </style>
  </head>
  <body>
    <!-- header -->
    <h1>  Title  </h1>
    <script> var   answer = 40 + 2 ;  console.log( answer ) ; </script>
  </body>
</html>`
	c := New()
	first, err := c.Compact(in)
	if err != nil {
		t.Fatalf("compact: %v", err)
	}
	for i := 0; i < 3; i++ {
		again, err := c.Compact(in)
		if err != nil {
			t.Fatalf("compact: %v", err)
		}
		if again != first {
			t.Fatalf("non-deterministic output:\n%q\n%q", first, again)
		}
	}
	if fresh, _ := New().Compact(in); fresh != first {
		t.Fatalf("separate compactors disagree:\n%q\n%q", first, fresh)
	}
	if len(first) >= len(in) {
		t.Fatalf("expected output shorter than input: %d >= %d", len(first), len(in))
	}
}

func TestCompact_EmbeddedContent(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"style", "<style> body { color : red ; } </style>", "body{color:red}"},
		{"json-ld", `<script type="application/ld+json">{ "a" : 1 }</script>`, `{"a":1}`},
		{"pre kept", "<pre>  a\n  b</pre>", "  a\n  b"},
		{"textarea kept", "<textarea>  x  </textarea>", "  x  "},
		{"unknown script type", `<script type="text/template">  <b> x </b>  </script>`, "  <b> x </b>  "},
		{"quotes kept", `<a href="/x" class="y">z</a>`, `href="/x"`},
		{"end tags kept", "<ul><li>a</li><li>b</li></ul>", "</li>"},
		{"svg comment kept", "<svg><!-- c --></svg>", "<!-- c -->"},
		{"nested svg comment kept", "<body><!-- top --><svg><!-- svg note --><metadata>m</metadata><rect/></svg></body>", "<!-- svg note -->"},
		{"svg metadata kept", "<body><svg><metadata>m</metadata><rect/></svg></body>", "<metadata>m</metadata>"},
		{"math comment kept", "<math><!-- m --><mi>x</mi></math>", "<!-- m -->"},
		{"conditional comment start", "<!--[if IE]><p>old</p><![endif]-->", "<!--[if IE]>"},
		{"conditional comment end", "<!--[if IE]><p>old</p><![endif]-->", "<![endif]-->"},
	}
	c := New()
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			out, err := c.Compact(tc.in)
			if err != nil {
				t.Fatalf("compact: %v", err)
			}
			if !strings.Contains(out, tc.want) {
				t.Fatalf("expected %q in %q", tc.want, out)
			}
		})
	}
}

func TestCompact_ScriptIsMinified(t *testing.T) {
	t.Parallel()
	in := "<script>  var   x = 1 ;   </script>"
	out, err := New().Compact(in)
	if err != nil {
		t.Fatalf("compact: %v", err)
	}
	if !strings.Contains(out, "x=1") || len(out) >= len(in) {
		t.Fatalf("expected minified script, got %q", out)
	}
}

func TestCompact_MalformedEmbeddedScriptPassesThrough(t *testing.T) {
	t.Parallel()
	out, err := New().Compact("<div>  <script>function (</script>  </div>")
	if err != nil {
		t.Fatalf("expected tolerant compaction, got %v", err)
	}
	if !strings.Contains(out, "function (") {
		t.Fatalf("expected broken script kept as is, got %q", out)
	}
}

func TestCompact_MalformedMarkupIsTolerated(t *testing.T) {
	t.Parallel()
	out, err := New().Compact("<div><p>unclosed <b>bold")
	if err != nil {
		t.Fatalf("expected tolerant compaction, got %v", err)
	}
	if !strings.Contains(out, "unclosed") || !strings.Contains(out, "bold") {
		t.Fatalf("expected text kept, got %q", out)
	}
}

func TestCompactFile_ReadError(t *testing.T) {
	t.Parallel()
	missing := filepath.Join(t.TempDir(), "missing.html")
	_, err := New().CompactFile(missing)
	var re *ReadError
	if !errors.As(err, &re) {
		t.Fatalf("expected ReadError, got %T %v", err, err)
	}
	if re.Path != missing || !strings.Contains(err.Error(), missing) {
		t.Fatalf("expected error to name %s, got %v", missing, err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected wrapped not-exist error, got %v", err)
	}
}

func TestCompactFile_ReadsAndCompacts(t *testing.T) {
	t.Parallel()
	p := filepath.Join(t.TempDir(), "page.html")
	if err := os.WriteFile(p, []byte("<div>\n   <p>  hi  </p>\n</div>\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	out, err := New().CompactFile(p)
	if err != nil {
		t.Fatalf("compact file: %v", err)
	}
	if strings.Contains(out, "\n   ") || !strings.Contains(out, "hi") {
		t.Fatalf("unexpected output %q", out)
	}
}
