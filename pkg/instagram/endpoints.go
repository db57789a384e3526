package instagram

import (
	"fmt"
	"net/url"
)

const (
	// BaseURL is the base URL for Instagram
	BaseURL = "https://www.instagram.com"

	// ProfileEndpoint is the endpoint pattern for user profiles
	ProfileEndpoint = "/api/v1/users/web_profile_info/"

	// GraphQLEndpoint is the endpoint pattern for GraphQL queries
	GraphQLEndpoint = "/graphql/query/"

	// TagQueryHash is the query hash for fetching hashtag media
	TagQueryHash = "9b498c08113f1e09617a1703c22b2f32"

	// TagPageSize is the number of posts fetched per hashtag page
	TagPageSize = 50
)

// GetProfileURL constructs the URL for fetching a user's profile
func GetProfileURL(base, username string) string {
	params := url.Values{}
	params.Set("username", username)

	return fmt.Sprintf("%s%s?%s", base, ProfileEndpoint, params.Encode())
}

// GetTagURL constructs the URL for fetching a page of hashtag media
func GetTagURL(base, tag, after string) string {
	variables := fmt.Sprintf(`{"tag_name":%q,"first":%d,"after":%q}`, tag, TagPageSize, after)

	params := url.Values{}
	params.Set("query_hash", TagQueryHash)
	params.Set("variables", variables)

	return fmt.Sprintf("%s%s?%s", base, GraphQLEndpoint, params.Encode())
}

// GetPostURL constructs the canonical permalink for a post
func GetPostURL(shortcode string) string {
	if shortcode == "" {
		return ""
	}
	return fmt.Sprintf("%s/p/%s/", BaseURL, shortcode)
}

// SanitizeTag strips a leading # and surrounding whitespace from a tag
func SanitizeTag(tag string) string {
	for len(tag) > 0 && (tag[0] == '#' || tag[0] == ' ') {
		tag = tag[1:]
	}
	for len(tag) > 0 && (tag[len(tag)-1] == '/' || tag[len(tag)-1] == ' ') {
		tag = tag[:len(tag)-1]
	}
	return tag
}
