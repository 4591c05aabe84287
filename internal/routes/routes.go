// Package routes names the API paths used for routing and redirects.
package routes

import (
	"fmt"
	"net/url"
)

const (
	Health   = "/health"
	Metrics  = "/metrics"
	API      = "/api"
	Index    = "/api/posts"
	Login    = "/api/login"
	Register = "/api/register"
	Me       = "/api/me"
	Admin    = "/api/admin"
)

func PostDetail(postID int) string {
	return fmt.Sprintf("/api/posts/%d", postID)
}

func Category(slug string) string {
	return "/api/category/" + url.PathEscape(slug)
}

func Profile(username string) string {
	return "/api/profile/" + url.PathEscape(username)
}

// LoginNext is the login path that sends the user back to next afterwards.
func LoginNext(next string) string {
	if next == "" {
		return Login
	}
	return Login + "?" + url.Values{"next": {next}}.Encode()
}
