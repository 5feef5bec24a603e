package credentials

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ruleKeys(rules []Rule) []string {
	keys := make([]string, len(rules))
	for i, r := range rules {
		keys[i] = r.Key
	}
	return keys
}

func TestCheckPassword(t *testing.T) {
	tests := []struct {
		name string
		pwd  string
		want []string
	}{
		{"strong", "Str0ng!pass", nil},
		{"empty", "", []string{"length", "upper", "lower", "digit", "special", "nospace"}},
		{"no special", "Passw0rdX", []string{"special"}},
		{"short", "Aa1!", []string{"length"}},
		{"space counts as special but is rejected", "Pass w0rdX", []string{"nospace"}},
		{"accented letter counts as special", "Passw0rdé", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CheckPassword(tt.pwd)
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, ruleKeys(got))
		})
	}
}

func TestValidatePassword(t *testing.T) {
	require.NoError(t, ValidatePassword("Str0ng!pass"))

	err := ValidatePassword("weakpass")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrWeakPassword))
	assert.Contains(t, err.Error(), "1 uppercase letter")
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "jane@example.com", NormalizeEmail("  Jane@Example.COM "))
}

func TestNormalizeCode(t *testing.T) {
	assert.Equal(t, "123456", NormalizeCode("123 456"))
	assert.Equal(t, "123456", NormalizeCode("12-34-56-78"))
	assert.Equal(t, "12", NormalizeCode("ab12"))

	assert.True(t, ValidCode("123456"))
	assert.False(t, ValidCode("12345"))
	assert.False(t, ValidCode("12345a"))
	assert.False(t, ValidCode("1234567"))
}

func TestValidateUsername(t *testing.T) {
	assert.NoError(t, ValidateUsername("jo"))
	assert.Error(t, ValidateUsername("j"))
	assert.Error(t, ValidateUsername(string(make([]byte, 51))))
}

func TestValidateTheme(t *testing.T) {
	for _, theme := range Themes {
		assert.NoError(t, ValidateTheme(theme))
	}
	assert.Error(t, ValidateTheme("sepia"))
}

func TestRoles(t *testing.T) {
	r, err := ParseRole("editor", false)
	require.NoError(t, err)
	assert.Equal(t, RoleEditor, r)

	_, err = ParseRole("owner", false)
	assert.Error(t, err)
	_, err = ParseRole("guest", true)
	assert.Error(t, err)

	assert.True(t, RoleOwner.CanManage())
	assert.True(t, RoleAdmin.CanManage())
	assert.False(t, RoleEditor.CanManage())
	assert.True(t, RoleEditor.CanEdit())
	assert.False(t, RoleViewer.CanEdit())
	assert.False(t, Role("").Allows(RoleViewer))
}
