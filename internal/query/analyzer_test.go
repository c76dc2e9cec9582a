package query

import (
	"reflect"
	"testing"
)

func TestExtractSearchTerms(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    []string
	}{
		{
			name:    "stop words and short terms removed",
			message: "What does page 4 say about refunds?",
			want:    []string{"refunds"},
		},
		{
			name:    "first-occurrence order with dedupe",
			message: "refund policy refund REFUND policy shipping",
			want:    []string{"refund", "policy", "shipping"},
		},
		{
			name:    "punctuation stripped",
			message: "termination; clauses, penalties!",
			want:    []string{"termination", "clauses", "penalties"},
		},
		{
			name:    "empty message",
			message: "",
			want:    nil,
		},
		{
			name:    "whitespace only",
			message: "   \t  ",
			want:    nil,
		},
		{
			name:    "only stop words",
			message: "what is the",
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractSearchTerms(tt.message)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ExtractSearchTerms(%q) = %v, want %v", tt.message, got, tt.want)
			}
		})
	}
}

func TestExtractPageReferences(t *testing.T) {
	a := NewAnalyzer(0)

	tests := []struct {
		name    string
		message string
		want    []int
	}{
		{
			name:    "single page",
			message: "What does page 4 say about refunds?",
			want:    []int{4},
		},
		{
			name:    "abbreviated form",
			message: "see p. 7 for details",
			want:    []int{7},
		},
		{
			name:    "pg form",
			message: "check pg 12",
			want:    []int{12},
		},
		{
			name:    "pp range form",
			message: "covered in pp. 6-8",
			want:    []int{6, 7, 8},
		},
		{
			name:    "range expands inclusively",
			message: "summarize pages 2-5",
			want:    []int{2, 3, 4, 5},
		},
		{
			name:    "range with to",
			message: "pages 3 to 5 please",
			want:    []int{3, 4, 5},
		},
		{
			name:    "case insensitive",
			message: "PAGE 9",
			want:    []int{9},
		},
		{
			name:    "duplicates removed",
			message: "page 3 and also page 3",
			want:    []int{3},
		},
		{
			name:    "zero rejected",
			message: "page 0 has nothing",
			want:    nil,
		},
		{
			name:    "absurdly large rejected",
			message: "page 999999",
			want:    nil,
		},
		{
			name:    "reversed range keeps only the first bound",
			message: "pages 5-2",
			want:    []int{5},
		},
		{
			name:    "no references",
			message: "tell me about the refund policy",
			want:    nil,
		},
		{
			name:    "empty message",
			message: "",
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := a.ExtractPageReferences(tt.message)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ExtractPageReferences(%q) = %v, want %v", tt.message, got, tt.want)
			}
		})
	}
}

func TestExtractPageReferences_ConfigurableBound(t *testing.T) {
	a := NewAnalyzer(50)
	if got := a.ExtractPageReferences("page 51"); got != nil {
		t.Errorf("ExtractPageReferences() = %v, want nil for out-of-bound page", got)
	}
	if got := a.ExtractPageReferences("page 50"); len(got) != 1 || got[0] != 50 {
		t.Errorf("ExtractPageReferences() = %v, want [50]", got)
	}
}

func TestAnalyze(t *testing.T) {
	a := NewAnalyzer(0)
	got := a.Analyze("What does page 4 say about refunds?")

	if !reflect.DeepEqual(got.SearchTerms, []string{"refunds"}) {
		t.Errorf("Analyze().SearchTerms = %v, want [refunds]", got.SearchTerms)
	}
	if !reflect.DeepEqual(got.PageReferences, []int{4}) {
		t.Errorf("Analyze().PageReferences = %v, want [4]", got.PageReferences)
	}
}
