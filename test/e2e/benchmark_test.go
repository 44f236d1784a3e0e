package e2e_test

import (
	"strings"
	"testing"

	"github.com/mcncl/jsonlint/internal/diagnostic"
	"github.com/mcncl/jsonlint/internal/parser"
)

// buildLargeDocument produces a document with n records, mixing every value
// kind the grammar knows.
func buildLargeDocument(n int) string {
	var b strings.Builder
	b.WriteString(`{"records":[`)
	for i := 0; i < n; i++ {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(`{"id":`)
		b.WriteString(strings.Repeat("9", 1+i%6))
		b.WriteString(`,"name":"record — item","tags":["a","b"],"ok":true,"note":null}`)
	}
	b.WriteString(`]}`)
	return b.String()
}

func BenchmarkParse_LargeDocument(b *testing.B) {
	src := buildLargeDocument(1000)
	b.SetBytes(int64(len(src)))
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if _, errs := parser.Parse(src); errs != nil {
			b.Fatal(errs)
		}
	}
}

func BenchmarkParseAndTranslate_Failure(b *testing.B) {
	// A failing document exercises the error path end to end.
	src := buildLargeDocument(100)
	src = src[:len(src)-1] // drop the closing brace

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_, errs := parser.Parse(src)
		if errs == nil {
			b.Fatal("expected failure")
		}
		if diags := diagnostic.Translate(src, errs); len(diags) == 0 {
			b.Fatal("expected diagnostics")
		}
	}
}
