package usecase

import (
	"strings"
	"testing"
)

func TestGenerateRedemptionCode(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 200; i++ {
		code, err := GenerateRedemptionCode()
		if err != nil {
			t.Fatalf("generate: %v", err)
		}
		if len(code) != 14 || code[4] != '-' || code[9] != '-' {
			t.Fatalf("unexpected code format %q", code)
		}
		canonical, ok := ValidateRedemptionCode(code)
		if !ok || canonical != code {
			t.Fatalf("generated code %q does not validate", code)
		}
		if _, dup := seen[code]; dup {
			t.Fatalf("duplicate code %q", code)
		}
		seen[code] = struct{}{}
	}
}

func TestValidateRedemptionCodeNormalizes(t *testing.T) {
	code, err := GenerateRedemptionCode()
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	input := " " + strings.ToLower(strings.ReplaceAll(code, "-", "")) + " "
	canonical, ok := ValidateRedemptionCode(input)
	if !ok || canonical != code {
		t.Fatalf("expected %q, got %q ok=%v", code, canonical, ok)
	}
}

func TestValidateRedemptionCodeDetectsSubstitution(t *testing.T) {
	code, err := GenerateRedemptionCode()
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	raw := []byte(strings.ReplaceAll(code, "-", ""))
	for pos := range raw {
		for i := 0; i < len(codeAlphabet); i++ {
			if codeAlphabet[i] == raw[pos] {
				continue
			}
			mutated := append([]byte(nil), raw...)
			mutated[pos] = codeAlphabet[i]
			if _, ok := ValidateRedemptionCode(string(mutated)); ok {
				t.Fatalf("substitution at %d in %q not detected", pos, code)
			}
		}
	}
}

func TestValidateRedemptionCodeRejects(t *testing.T) {
	invalid := []string{"", "ABCD", "ABCD-EFGH-JKMN-P", "OOOO-OOOO-OOOO", "ABCD-EFGH-JKÑN", "ABCD_EFGH_JKMN"}
	for _, code := range invalid {
		if _, ok := ValidateRedemptionCode(code); ok {
			t.Fatalf("expected code %q to be invalid", code)
		}
	}
}
