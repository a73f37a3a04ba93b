package embed

import (
	"net/http"
	"net/url"
	"strings"
)

// crawlerAgents are user-agent substrings of link-unfurling bots
var crawlerAgents = []string{
	"discordbot",
	"twitterbot",
	"facebookexternalhit",
	"facebot",
	"slackbot",
	"slack-imgproxy",
	"telegrambot",
	"whatsapp",
	"linkedinbot",
	"skypeuripreview",
	"redditbot",
	"embedly",
	"iframely",
	"pinterest",
	"vkshare",
	"mastodon",
	"applebot",
	"googlebot",
	"bingbot",
}

// IsCrawler reports whether the user agent belongs to a known unfurler
func IsCrawler(userAgent string) bool {
	ua := strings.ToLower(userAgent)
	if ua == "" {
		return false
	}
	for _, c := range crawlerAgents {
		if strings.Contains(ua, c) {
			return true
		}
	}
	return false
}

// acceptsHTML is true for no Accept header, a bare wildcard, or text/html
func acceptsHTML(accept string) bool {
	accept = strings.ToLower(strings.TrimSpace(accept))
	if accept == "" {
		return true
	}
	return strings.Contains(accept, "text/html") || strings.Contains(accept, "*/*")
}

// Forced reports whether the query explicitly asks for the preview page
func Forced(query url.Values) bool {
	switch strings.ToLower(query.Get("embed")) {
	case "1", "true", "yes":
		return true
	}
	return false
}

// ShouldServePreview decides between the HTML preview and raw bytes.
// Range requests always get bytes so media players can seek.
func ShouldServePreview(header http.Header, query url.Values) bool {
	if header.Get("Range") != "" {
		return false
	}
	if Forced(query) {
		return true
	}
	return IsCrawler(header.Get("User-Agent")) && acceptsHTML(header.Get("Accept"))
}
