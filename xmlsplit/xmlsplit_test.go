package xmlsplit

import (
	"bufio"
	"errors"
	"strings"
	"testing"
	"testing/iotest"
)

func TestFindFirstComplete(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		tagName   string
		wantStart int
		wantEnd   int
	}{
		{
			name:      "Single element",
			input:     `<div>content</div>`,
			tagName:   "div",
			wantStart: 0,
			wantEnd:   18,
		},
		{
			name:      "Multiple elements - finds first",
			input:     `<div>first</div><div>second</div><div>third</div>`,
			tagName:   "div",
			wantStart: 0,
			wantEnd:   16,
		},
		{
			name:      "Nested elements - finds outermost",
			input:     `<div>outer<div>inner</div></div>`,
			tagName:   "div",
			wantStart: 0,
			wantEnd:   32,
		},
		{
			name:      "With attributes",
			input:     `<div class="test" id="main">content</div>`,
			tagName:   "div",
			wantStart: 0,
			wantEnd:   41,
		},
		{
			name:      "Self-closing tag",
			input:     `<div/>`,
			tagName:   "div",
			wantStart: 0,
			wantEnd:   6,
		},
		{
			name:      "No matching elements",
			input:     `<span>not div</span>`,
			tagName:   "div",
			wantStart: -1,
			wantEnd:   -1,
		},
		{
			name:      "Invalid tag (no closing)",
			input:     `<div>unclosed`,
			tagName:   "div",
			wantStart: 0,
			wantEnd:   -1,
		},
		{
			name:      "Tag in text content",
			input:     `<p>text with <div> inside</p><div>real</div>`,
			tagName:   "div",
			wantStart: 29,
			wantEnd:   44,
		},
		{
			name:      "Similar tag names",
			input:     `<divx>wrong</divx><div>correct</div>`,
			tagName:   "div",
			wantStart: 18,
			wantEnd:   36,
		},
		{
			name:      "Malformed nested - missing closing",
			input:     `<div><div>inner</div>`,
			tagName:   "div",
			wantStart: 5,
			wantEnd:   21,
		},
		{
			name:      "Prefixed element",
			input:     `<marc:collection><marc:record><marc:leader/></marc:record></marc:collection>`,
			tagName:   "record",
			wantStart: 17,
			wantEnd:   58,
		},
		{
			name:      "Prefixed name is not a prefix match",
			input:     `<recordset><record>x</record></recordset>`,
			tagName:   "record",
			wantStart: 11,
			wantEnd:   29,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotStart, gotEnd := findFirstComplete([]byte(tt.input), tagPattern(tt.tagName))
			if gotStart != tt.wantStart || gotEnd != tt.wantEnd {
				t.Errorf("findFirstComplete() = (%v, %v), want (%v, %v)",
					gotStart, gotEnd, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

const collection = `<?xml version="1.0"?>
<marc:collection xmlns:marc="http://www.loc.gov/MARC21/slim">
<marc:record><marc:controlfield tag="001">1</marc:controlfield></marc:record>
<marc:record><marc:controlfield tag="001">2</marc:controlfield></marc:record>
<marc:record><marc:controlfield tag="001">3</marc:controlfield></marc:record>
</marc:collection>`

func TestScanner(t *testing.T) {
	// one byte reads make sure elements spanning several reads are found
	scanner := NewScanner(iotest.OneByteReader(strings.NewReader(collection)), "record", 0)
	var tokens []string
	for scanner.Scan() {
		tokens = append(tokens, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("scanner error: %v", err)
	}
	if len(tokens) != 3 {
		t.Fatalf("got %d tokens, want 3: %v", len(tokens), tokens)
	}
	for i, token := range tokens {
		if !strings.HasPrefix(token, "<marc:record>") || !strings.HasSuffix(token, "</marc:record>") {
			t.Errorf("token %d: %q", i, token)
		}
		if !strings.Contains(token, `">`+string(rune('1'+i))+`<`) {
			t.Errorf("token %d out of order: %q", i, token)
		}
	}
}

func TestScannerTruncated(t *testing.T) {
	input := `<record>a</record><record>b</record><record>c`
	scanner := NewScanner(strings.NewReader(input), "record", 0)
	var n int
	for scanner.Scan() {
		n++
	}
	if err := scanner.Err(); err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("got %d tokens, want 2", n)
	}
}

func TestScannerMaxTokenSize(t *testing.T) {
	input := `<record>` + strings.Repeat("x", 1024) + `</record>`
	scanner := NewScanner(strings.NewReader(input), "record", 128)
	for scanner.Scan() {
	}
	if !errors.Is(scanner.Err(), bufio.ErrTooLong) {
		t.Errorf("got %v, want bufio.ErrTooLong", scanner.Err())
	}
}

func TestInvalidSplitter(t *testing.T) {
	scanner := bufio.NewScanner(strings.NewReader("<a></a>"))
	scanner.Split(TagSplitter(""))
	for scanner.Scan() {
	}
	if !errors.Is(scanner.Err(), ErrInvalidSplitter) {
		t.Errorf("got %v", scanner.Err())
	}
}
