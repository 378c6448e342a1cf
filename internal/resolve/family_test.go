package resolve

import "testing"

func TestFamilyForSize(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		// Most specific v5 variants win over the generic patterns.
		{"Standard_D2ads_v5", "standardDADSv5Family"},
		{"Standard_D4as_v5", "standardDASv5Family"},
		{"Standard_D8ds_v5", "standardDDSv5Family"},
		{"Standard_D2s_v5", "standardDSv5Family"},
		{"Standard_D2_v5", "standardDv5Family"},

		{"Standard_D4ds_v4", "standardDDSv4Family"},
		{"Standard_D4s_v4", "standardDSv4Family"},
		{"Standard_D4_v4", "standardDv4Family"},

		{"Standard_D2s_v3", "standardDSv3Family"},
		{"Standard_D16_v3", "standardDv3Family"},

		{"Standard_DS2_v2", "standardDSv2Family"},
		{"Standard_D3_v2", "standardDv2Family"},

		{"Standard_B2s", "standardBSFamily"},
		{"Standard_B2ms", "standardBSFamily"},
		{"Standard_B2ls", "standardBSFamily"},

		// Unrecognized patterns yield no family, never a guess.
		{"Standard_E4s_v3", ""},
		{"Standard_F8s_v2", ""},
		{"Basic_A1", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FamilyForSize(tt.name); got != tt.want {
				t.Errorf("FamilyForSize(%q) = %q, want %q", tt.name, got, tt.want)
			}
		})
	}
}

func TestFamilyRuleOrdering(t *testing.T) {
	// A premium-disk generation-5 name matches several generic-looking
	// patterns; the ordered table must pick the most specific one.
	if got := FamilyForSize("Standard_D2ads_v5"); got == "standardDSv5Family" {
		t.Fatalf("generic s_v5 rule matched before the ads_v5 rule")
	}
}
