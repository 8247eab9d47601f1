package changelog

import (
	"bytes"
	"fmt"
	"testing"
)

// generateLargeChangelog builds a Markdown changelog with the specified
// number of entries distributed across multiple released versions.
func generateLargeChangelog(entryCount int) string {
	var buf bytes.Buffer

	buf.WriteString("# Changelog\n\n")
	buf.WriteString("All notable changes to this project will be documented in this file.\n\n")
	buf.WriteString("## [Unreleased]\n")

	// Create versions with ~10 entries each
	entriesPerVersion := 10
	versionCount := (entryCount + entriesPerVersion - 1) / entriesPerVersion

	entriesRemaining := entryCount

	for v := versionCount; v >= 1 && entriesRemaining > 0; v-- {
		buf.WriteString(fmt.Sprintf("\n## [%d.0.0] - 2024-%02d-%02d\n", v, (v%12)+1, (v%28)+1))

		entriesInThisVersion := entriesPerVersion
		if entriesRemaining < entriesPerVersion {
			entriesInThisVersion = entriesRemaining
		}

		writeVersionEntries(&buf, entriesInThisVersion)
		entriesRemaining -= entriesInThisVersion
	}

	return buf.String()
}

// writeVersionEntries distributes entries across the six categories.
func writeVersionEntries(buf *bytes.Buffer, count int) {
	cats := Categories()
	perCategory := count / len(cats)
	remainder := count % len(cats)

	for i, cat := range cats {
		entriesForCat := perCategory
		if i < remainder {
			entriesForCat++
		}
		if entriesForCat > 0 {
			buf.WriteString(fmt.Sprintf("\n### %s\n\n", cat))
			for j := 0; j < entriesForCat; j++ {
				buf.WriteString(fmt.Sprintf("- Entry %d for %s category with some description text\n", j+1, cat))
			}
		}
	}
}

// BenchmarkParse_1000Entries benchmarks parsing a changelog with
// 1000 entries to verify the <10ms performance requirement.
func BenchmarkParse_1000Entries(b *testing.B) {
	content := generateLargeChangelog(1000)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, err := Parse(content)
		if err != nil {
			b.Fatalf("unexpected error: %v", err)
		}
	}
}

// BenchmarkParse_100Entries benchmarks a typical changelog size.
func BenchmarkParse_100Entries(b *testing.B) {
	content := generateLargeChangelog(100)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, err := Parse(content)
		if err != nil {
			b.Fatalf("unexpected error: %v", err)
		}
	}
}

// BenchmarkParse_10Entries benchmarks a small changelog.
func BenchmarkParse_10Entries(b *testing.B) {
	content := generateLargeChangelog(10)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, err := Parse(content)
		if err != nil {
			b.Fatalf("unexpected error: %v", err)
		}
	}
}

// BenchmarkValidate_1000Entries benchmarks validation only for a large changelog.
func BenchmarkValidate_1000Entries(b *testing.B) {
	doc, err := Parse(generateLargeChangelog(1000))
	if err != nil {
		b.Fatalf("failed to parse changelog: %v", err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if issues := Validate(doc); len(issues) > 0 {
			b.Fatalf("unexpected validation issues: %v", issues)
		}
	}
}

// BenchmarkRender_1000Entries benchmarks serializing a large document.
func BenchmarkRender_1000Entries(b *testing.B) {
	doc, err := Parse(generateLargeChangelog(1000))
	if err != nil {
		b.Fatalf("failed to parse changelog: %v", err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = RenderMarkdownString(doc)
	}
}

// TestParsing1000EntriesUnder10ms verifies the <10ms performance requirement.
// This is a test (not a benchmark) so it runs with regular tests and fails
// if the requirement is not met.
func TestParsing1000EntriesUnder10ms(t *testing.T) {
	content := generateLargeChangelog(1000)

	// Parse multiple times to get a stable measurement
	const iterations = 10
	var totalNs int64

	for i := 0; i < iterations; i++ {
		result := testing.Benchmark(func(b *testing.B) {
			for j := 0; j < b.N; j++ {
				_, _ = Parse(content)
			}
		})
		totalNs += result.NsPerOp()
	}

	avgNs := totalNs / iterations
	avgMs := float64(avgNs) / 1e6

	t.Logf("Average parsing time for 1000 entries: %.3f ms", avgMs)

	// Performance requirement: parsing must complete in under 10ms
	const maxMs = 10.0
	if avgMs > maxMs {
		t.Errorf("parsing 1000 entries took %.3f ms, exceeds %.1f ms requirement", avgMs, maxMs)
	}
}
