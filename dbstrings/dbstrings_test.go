package dbstrings

import "testing"

func TestToPascalCase(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"user", "User"},
		{"user_id", "UserId"},
		{"created_at", "CreatedAt"},
		{"public_id", "PublicId"},
		{"id", "Id"},
		{"email", "Email"},
		{"", ""},
		{"a", "A"},
		{"user_email_address", "UserEmailAddress"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := ToPascalCase(tt.input)
			if result != tt.expected {
				t.Errorf("ToPascalCase(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"add_profile_fields", "add_profile_fields"},
		{"Add Profile Fields", "add_profile_fields"},
		{"add-phone-number", "add_phone_number"},
		{"AddCountryToUsers", "add_country_to_users"},
		{"  create users  ", "create_users"},
		{"add__double__underscores", "add_double_underscores"},
		{"trailing_", "trailing"},
		{"-leading", "leading"},
		{"drop table; --", "drop_table"},
		{"v2 columns", "v2_columns"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := NormalizeName(tt.input)
			if result != tt.expected {
				t.Errorf("NormalizeName(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestToSnakeCase(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"User", "user"},
		{"UserID", "user_i_d"},
		{"CreatedAt", "created_at"},
		{"GetUserByEmail", "get_user_by_email"},
		{"", ""},
		{"a", "a"},
		{"ABC", "a_b_c"},
		{"userEmail", "user_email"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := ToSnakeCase(tt.input)
			if result != tt.expected {
				t.Errorf("ToSnakeCase(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}
