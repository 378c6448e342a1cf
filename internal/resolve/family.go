package resolve

import "regexp"

// familyRule maps a size-name pattern to the quota family that pool-shares
// its cores. Rules are evaluated top to bottom, first match wins, so the
// most specific generation/disk-variant patterns must come before the
// generic ones.
type familyRule struct {
	pattern *regexp.Regexp
	family  string
}

var familyRules = []familyRule{
	// v5 general purpose, most specific suffixes first.
	{regexp.MustCompile(`^Standard_D\d+ads_v5$`), "standardDADSv5Family"},
	{regexp.MustCompile(`^Standard_D\d+as_v5$`), "standardDASv5Family"},
	{regexp.MustCompile(`^Standard_D\d+ds_v5$`), "standardDDSv5Family"},
	{regexp.MustCompile(`^Standard_D\d+s_v5$`), "standardDSv5Family"},
	{regexp.MustCompile(`^Standard_D\d+_v5$`), "standardDv5Family"},

	// v4 general purpose.
	{regexp.MustCompile(`^Standard_D\d+ds_v4$`), "standardDDSv4Family"},
	{regexp.MustCompile(`^Standard_D\d+s_v4$`), "standardDSv4Family"},
	{regexp.MustCompile(`^Standard_D\d+_v4$`), "standardDv4Family"},

	// v3 general purpose.
	{regexp.MustCompile(`^Standard_D\d+s_v3$`), "standardDSv3Family"},
	{regexp.MustCompile(`^Standard_D\d+_v3$`), "standardDv3Family"},

	// Legacy premium-storage DS and basic D series.
	{regexp.MustCompile(`^Standard_DS\d+_v2$`), "standardDSv2Family"},
	{regexp.MustCompile(`^Standard_D\d+_v2$`), "standardDv2Family"},

	// Burstable B series, matched last.
	{regexp.MustCompile(`^Standard_B\d+m?l?s$`), "standardBSFamily"},
}

// FamilyForSize derives the quota family for a VM size name. An
// unrecognized naming pattern yields "", meaning the family pool cannot be
// identified; callers must treat that as unknown, never as zero quota.
func FamilyForSize(name string) string {
	for _, r := range familyRules {
		if r.pattern.MatchString(name) {
			return r.family
		}
	}
	return ""
}
