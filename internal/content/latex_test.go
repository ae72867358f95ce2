package content

import (
	"strings"
	"testing"
)

func TestSanitizeLaTeX_SplitsMisPairedInlineSpanAtProse(t *testing.T) {
	in := `O calor é $Q = mc\Delta T e a massa é $m`
	want := `O calor é $Q = mc\Delta T$ e a massa é $m$`
	got := SanitizeLaTeX(in)
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestSanitizeLaTeX_ClosesUnterminatedTrailingFormula(t *testing.T) {
	got := SanitizeLaTeX("O resultado é $x")
	if got != "O resultado é $x$" {
		t.Fatalf("got %q", got)
	}
}

func TestSanitizeLaTeX_DropsLoneTrailingDollar(t *testing.T) {
	got := SanitizeLaTeX("O resultado é 42 $ ")
	if strings.Contains(got, "$") {
		t.Fatalf("expected lone delimiter dropped, got %q", got)
	}
}

func TestSanitizeLaTeX_UnnestsInlineInsideDisplay(t *testing.T) {
	got := SanitizeLaTeX("$$ $E=mc^2$ $$")
	if got != "$$ E=mc^2 $$" {
		t.Fatalf("got %q", got)
	}
}

func TestSanitizeLaTeX_UnnestsDisplayInsideInline(t *testing.T) {
	got := SanitizeLaTeX("$ $$E=mc^2$$ $")
	if got != "$E=mc^2$" {
		t.Fatalf("got %q", got)
	}
}

func TestSanitizeLaTeX_CanonicalizesDisplayEdgeWhitespace(t *testing.T) {
	got := SanitizeLaTeX("$$   \\frac{a}{b}$$")
	if got != "$$ \\frac{a}{b} $$" {
		t.Fatalf("got %q", got)
	}
}

func TestSanitizeLaTeX_FixesCdotTypo(t *testing.T) {
	got := SanitizeLaTeX(`A força é $F = m\cdotpt a$.`)
	if !strings.Contains(got, `\cdot a`) || strings.Contains(got, `\cdotpt`) {
		t.Fatalf("got %q", got)
	}
}

func TestSanitizeLaTeX_WrapsOrphanCommand(t *testing.T) {
	got := SanitizeLaTeX(`A derivada \frac{df}{dx} mede a variação.`)
	if !strings.Contains(got, `$\frac{df}{dx}$`) {
		t.Fatalf("orphan command not wrapped: %q", got)
	}
}

func TestSanitizeLaTeX_SeparatesGluedClosingDelimiter(t *testing.T) {
	got := SanitizeLaTeX(`a massa é $m$Portanto o valor.`)
	if !strings.Contains(got, "$m$ Portanto") {
		t.Fatalf("got %q", got)
	}
}

func TestSanitizeLaTeX_LeavesFencedCodeUntouched(t *testing.T) {
	in := "Veja o código:\n\n```python\npreco = \"R$ 10\"\ntotal = preco\n```\n\nFim."
	got := SanitizeLaTeX(in)
	if got != in {
		t.Fatalf("fenced code was rewritten:\n%q\n%q", in, got)
	}
}

func TestSanitizeLaTeX_DropsUnbalancedDisplayDelimiter(t *testing.T) {
	got := SanitizeLaTeX("Primeiro $$ a+b $$ e depois sobra $$")
	if strings.Count(got, "$$")%2 != 0 {
		t.Fatalf("unbalanced display delimiters remain: %q", got)
	}
}

func TestSanitizeLaTeX_Idempotent(t *testing.T) {
	inputs := []string{
		`O calor é $Q = mc\Delta T e a massa é $m`,
		"$$ $E=mc^2$ $$",
		`A derivada \frac{df}{dx} mede a variação.`,
		"O resultado é $x",
		`a massa é $m$Portanto o valor.`,
		"Texto simples sem matemática nenhuma.",
		"Mistura $a+b$ e $$ c+d $$ na mesma linha com $e",
	}
	for _, in := range inputs {
		once := SanitizeLaTeX(in)
		twice := SanitizeLaTeX(once)
		if once != twice {
			t.Fatalf("not idempotent for %q:\n once=%q\ntwice=%q", in, once, twice)
		}
	}
}

func TestSanitizeLaTeX_PreservesProseOutsideMathSpans(t *testing.T) {
	in := `A fórmula da energia cinética é $E_c = \frac{mv^2}{2} e depende da massa.`
	got := SanitizeLaTeX(in)
	stripped := strings.ReplaceAll(got, "$", "")
	wantStripped := strings.ReplaceAll(in, "$", "")
	if stripped != wantStripped {
		t.Fatalf("prose content changed:\n in=%q\ngot=%q", in, got)
	}
}
