package citation

import (
	"reflect"
	"testing"
)

func TestValid(t *testing.T) {
	tests := []struct {
		key   string
		valid bool
	}{
		// Single sections
		{"S 21 PDPA", true},
		{"S 21(1) PDPA", true},
		{"S 21(1)(a) PDPA", true},
		{"S 26D PDPA", true},
		{"S 26D(1) PDPA", true},
		{"S 21(1) and (2) PDPA", true},

		// Multiple sections
		{"Ss 13 and 14 PDPA", true},
		{"Ss 21(5) and (7) PDPA", true},
		{"Ss 21 and 22 PDPA", true},
		{"Ss 13 and 14 and 20 PDPA", true},

		// Regulations
		{"Reg 4 PDPR", true},
		{"Regs 4 and 5 PDPR", true},
		{"Reg 9A PDPR", true},

		// Schedule paragraphs
		{"para 1(a) of Fifth Schedule PDPA", true},
		{"para 1 of First Schedule PDPA", true},

		// Rejected: wrong instrument suffix
		{"S 21 PDPR", false},
		{"Reg 4 PDPA", false},

		// Rejected: malformed shapes
		{"Section 21 PDPA", false},
		{"S 21", false},
		{"s 21 PDPA", false},
		{"S21 PDPA", false},
		{"S 21 (1) PDPA", false},
		{"para 1(a) of fifth Schedule PDPA", false},
		{"para 1(a) of Fifth schedule PDPA", false},
		{"Overall Assessment", false},
		{"", false},

		// Rejected: definitional keys, even when otherwise well-formed
		{"Definition of personal data", false},
		{"S 21 PDPA Definition", false},
	}

	for _, tt := range tests {
		if got := Valid(tt.key); got != tt.valid {
			t.Errorf("Valid(%q) = %v, want %v", tt.key, got, tt.valid)
		}
	}
}

func TestFilter(t *testing.T) {
	keys := []string{
		"S 21 PDPA",
		"Definition: personal data",
		"Reg 4 PDPR",
		"Conclusion",
		"Ss 21(5) and (7) PDPA",
	}

	kept, dropped := Filter(keys)

	wantKept := []string{"S 21 PDPA", "Reg 4 PDPR", "Ss 21(5) and (7) PDPA"}
	if !reflect.DeepEqual(kept, wantKept) {
		t.Errorf("kept = %v, want %v", kept, wantKept)
	}

	wantDropped := []string{"Definition: personal data", "Conclusion"}
	if !reflect.DeepEqual(dropped, wantDropped) {
		t.Errorf("dropped = %v, want %v", dropped, wantDropped)
	}
}

func TestFilter_Empty(t *testing.T) {
	kept, dropped := Filter(nil)
	if len(kept) != 0 || len(dropped) != 0 {
		t.Errorf("expected empty results, got kept=%v dropped=%v", kept, dropped)
	}
}
