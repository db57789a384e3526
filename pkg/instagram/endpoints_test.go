package instagram

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetProfileURL(t *testing.T) {
	url := GetProfileURL(BaseURL, "studiopixel")
	assert.Equal(t, "https://www.instagram.com/api/v1/users/web_profile_info/?username=studiopixel", url)
}

func TestGetTagURL(t *testing.T) {
	url := GetTagURL(BaseURL, "webdesign", "")
	assert.True(t, strings.HasPrefix(url, BaseURL+GraphQLEndpoint))
	assert.Contains(t, url, "query_hash="+TagQueryHash)
	assert.Contains(t, url, "webdesign")

	paged := GetTagURL(BaseURL, "webdesign", "QVFEcursor")
	assert.Contains(t, paged, "QVFEcursor")
}

func TestGetPostURL(t *testing.T) {
	assert.Equal(t, "https://www.instagram.com/p/Cxy123Abc/", GetPostURL("Cxy123Abc"))
	assert.Equal(t, "", GetPostURL(""))
}

func TestSanitizeTag(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"webdesign", "webdesign"},
		{"#webdesign", "webdesign"},
		{" #webdesign ", "webdesign"},
		{"webdesign/", "webdesign"},
		{"##webdesign", "webdesign"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, SanitizeTag(tt.input), "input %q", tt.input)
	}
}
