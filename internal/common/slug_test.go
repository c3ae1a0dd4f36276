package common

import "testing"

func TestCompanySlug(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "Tesla", "tesla"},
		{"with space", "General Motors", "general_motors"},
		{"multiple spaces", "The Walt Disney Company", "the_walt_disney_company"},
		{"already lowercase", "apple", "apple"},
		{"surrounding whitespace", "  Apple  ", "apple"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CompanySlug(tt.in); got != tt.want {
				t.Errorf("CompanySlug(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestCompanyFromSlug(t *testing.T) {
	if got := CompanyFromSlug("general_motors"); got != "General Motors" {
		t.Errorf("CompanyFromSlug(general_motors) = %q", got)
	}
}
