package crawler

import (
	"errors"
	"testing"
)

func TestRelativize(t *testing.T) {
	tests := []struct {
		name  string
		xpath string
		want  string
	}{
		{name: "absolute anywhere", xpath: "//div", want: "descendant-or-self::div"},
		{name: "absolute with predicate", xpath: "//div[@id='x']", want: "descendant-or-self::div[@id='x']"},
		{name: "relative anywhere", xpath: ".//a", want: "descendant-or-self::a"},
		{name: "relative child", xpath: "./span", want: "self::span"},
		{name: "child axis", xpath: "child::li", want: "self::li"},
		{name: "bare node test", xpath: "div", want: "self::div"},
		{name: "descendant axis", xpath: "descendant::p", want: "descendant-or-self::p"},
		{name: "self star slash", xpath: "self::*/div", want: "self::div"},
		{name: "rooted path", xpath: "/html", want: nonMatchingExpression},
		{name: "lone dot", xpath: ".", want: nonMatchingExpression},
		{name: "parent axis", xpath: "parent::div", want: nonMatchingExpression},
		{name: "ancestor axis", xpath: "ancestor::div", want: nonMatchingExpression},
		{name: "ancestor or self axis", xpath: "ancestor-or-self::div", want: nonMatchingExpression},
		{name: "attribute axis", xpath: "attribute::href", want: nonMatchingExpression},
		{name: "following axis", xpath: "following::div", want: nonMatchingExpression},
		{name: "following sibling axis", xpath: "following-sibling::div", want: nonMatchingExpression},
		{name: "preceding axis", xpath: "preceding::div", want: nonMatchingExpression},
		{name: "preceding sibling axis", xpath: "preceding-sibling::div", want: nonMatchingExpression},
		{name: "namespace axis", xpath: "namespace::x", want: nonMatchingExpression},
		{name: "union", xpath: "./span | //a", want: "self::span | descendant-or-self::a"},
		{name: "union with empty branch", xpath: "//a |", want: "descendant-or-self::a | " + nonMatchingExpression},
		{name: "union keeps branch order", xpath: "//a | ./b | c", want: "descendant-or-self::a | self::b | self::c"},
		{name: "pipe inside predicate", xpath: "//a[@rel='x|y']", want: "descendant-or-self::a[@rel='x|y']"},
		{name: "pipe inside brackets", xpath: "//a[contains(@class, 'x') | contains(@class, 'y')]", want: "descendant-or-self::a[contains(@class, 'x') | contains(@class, 'y')]"},
		{name: "brackets inside quotes", xpath: `//a[@title="[broken"] | //b`, want: `descendant-or-self::a[@title="[broken"] | descendant-or-self::b`},
		{name: "parenthesized branch", xpath: "(//a | //b)[last()]", want: "(descendant-or-self::a | descendant-or-self::b)[last()]"},
		{name: "leading whitespace", xpath: "  //div", want: "descendant-or-self::div"},
		{name: "already relative", xpath: "descendant-or-self::div", want: "descendant-or-self::div"},
		{name: "empty input", xpath: "", want: ""},
		{name: "whitespace only", xpath: "   ", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Relativize(tt.xpath)
			if err != nil {
				t.Fatalf("Relativize(%q) returned error: %v", tt.xpath, err)
			}
			if got != tt.want {
				t.Fatalf("Relativize(%q) = %q, want %q", tt.xpath, got, tt.want)
			}
		})
	}
}

func TestRelativizeInvalidLiteral(t *testing.T) {
	inputs := []string{
		`//a[@href='it\'s']`,
		`//a[@title="unterminated]`,
		`'lonely`,
	}
	for _, in := range inputs {
		got, err := Relativize(in)
		if !errors.Is(err, ErrInvalidExpression) {
			t.Fatalf("Relativize(%q) expected ErrInvalidExpression, got %v", in, err)
		}
		if got != in {
			t.Fatalf("Relativize(%q) should return the input verbatim, got %q", in, got)
		}
	}
}

func TestRelativizeIdempotent(t *testing.T) {
	inputs := []string{
		"//div[@id='x']",
		"./span | //a",
		"child::li",
		"descendant::p",
		"div",
		"(//a | //b)[1]",
	}
	for _, in := range inputs {
		once, err := Relativize(in)
		if err != nil {
			t.Fatalf("Relativize(%q) returned error: %v", in, err)
		}
		twice, err := Relativize(once)
		if err != nil {
			t.Fatalf("Relativize(%q) returned error: %v", once, err)
		}
		if twice != once {
			t.Fatalf("expected Relativize to be idempotent for %q: first %q, second %q", in, once, twice)
		}
	}
}
