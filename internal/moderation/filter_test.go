package moderation

import (
	"strings"
	"testing"

	"github.com/sparkmatch/engine/internal/logging"
)

func TestKeywordFilter_Scan_Baseline(t *testing.T) {
	f := NewKeywordFilter(logging.NewNop())

	tests := []struct {
		name        string
		text        string
		wantFlagged bool
		wantPhrase  string
	}{
		{
			name:        "baseline phrase mid-sentence",
			text:        "hey please send NUDES now",
			wantFlagged: true,
			wantPhrase:  "nudes",
		},
		{
			name:        "multi-word baseline phrase",
			text:        "just do a Wire Transfer to this account",
			wantFlagged: true,
			wantPhrase:  "wire transfer",
		},
		{
			name:        "substring inside a longer word still matches",
			text:        "venmo me later",
			wantFlagged: true,
			wantPhrase:  "venmo me",
		},
		{
			name:        "clean message",
			text:        "want to grab coffee this weekend?",
			wantFlagged: false,
		},
		{
			name:        "empty message",
			text:        "",
			wantFlagged: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision := f.Scan(tt.text)

			if decision.Flagged != tt.wantFlagged {
				t.Fatalf("Flagged: got %v, want %v", decision.Flagged, tt.wantFlagged)
			}
			if !tt.wantFlagged {
				return
			}
			if !strings.Contains(decision.Reason, tt.wantPhrase) {
				t.Errorf("reason %q does not reference phrase %q", decision.Reason, tt.wantPhrase)
			}
			if len(decision.Categories) != 1 || decision.Categories[0] != "keyword" {
				t.Errorf("categories: got %v, want [keyword]", decision.Categories)
			}
		})
	}
}

func TestKeywordFilter_UpdateDynamic(t *testing.T) {
	f := NewKeywordFilter(logging.NewNop())

	if d := f.Scan("let's meet at the casino"); d.Flagged {
		t.Fatalf("casino flagged before dynamic update: %q", d.Reason)
	}

	f.UpdateDynamic([]string{"  CASINO ", "crypto scheme", ""})

	d := f.Scan("let's meet at the Casino tonight")
	if !d.Flagged {
		t.Fatal("expected dynamic phrase to flag after update")
	}
	if !strings.Contains(d.Reason, "casino") {
		t.Errorf("reason %q does not reference dynamic phrase", d.Reason)
	}

	// Shrinking the dynamic set drops the phrase again.
	f.UpdateDynamic(nil)
	if d := f.Scan("let's meet at the casino"); d.Flagged {
		t.Errorf("casino still flagged after dynamic list cleared: %q", d.Reason)
	}
}

func TestKeywordFilter_BaselineReportedBeforeDynamic(t *testing.T) {
	f := NewKeywordFilter(logging.NewNop())
	f.UpdateDynamic([]string{"account"})

	// Both "wire transfer" (baseline) and "account" (dynamic) match; the
	// baseline phrase wins the report.
	d := f.Scan("wire transfer to my account please")
	if !d.Flagged {
		t.Fatal("expected flag")
	}
	if !strings.Contains(d.Reason, "wire transfer") {
		t.Errorf("reason %q should reference the baseline phrase", d.Reason)
	}
}

func TestKeywordFilter_DynamicDuplicateOfBaseline(t *testing.T) {
	f := NewKeywordFilter(logging.NewNop())
	before := f.PhraseCount()

	f.UpdateDynamic([]string{"nudes"})
	if got := f.PhraseCount(); got != before {
		t.Errorf("duplicate of baseline changed phrase count: got %d, want %d", got, before)
	}
	if d := f.Scan("send nudes"); !d.Flagged {
		t.Error("baseline phrase stopped matching after duplicate dynamic update")
	}
}
