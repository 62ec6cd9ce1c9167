// Package botdetect classifies clients by their User-Agent header.
package botdetect

import "strings"

var scraperMarkers = []string{
	"python-requests",
	"ahc",
	"scrapy",
	"catexplorador",
	"cfnetwork",
	"go-http-client",
	"masscan",
	"nmap",
	"curl",
	"wget",
	"libfetch",
	"aiohttp",
	"urllib",
	"fasthttp",
}

var botMarkers = []string{
	"bot",
	"googlestackdrivermonitoring",
	"twitterbot",
	"facebookexternal",
	"bing",
	"panscient.com",
	"crawler",
	"domtestcontaineragent",
	"facebookexternalhit",
	"semrush",
	"google",
	"webtech",
	"axios",
}

func containsAny(ua string, markers []string) bool {
	ua = strings.ToLower(ua)
	for _, m := range markers {
		if strings.Contains(ua, m) {
			return true
		}
	}
	return false
}

// IsScraper reports whether ua belongs to an HTTP library or scanner.
func IsScraper(ua string) bool {
	return containsAny(ua, scraperMarkers)
}

// IsBot reports whether ua is a scraper, crawler or monitoring agent.
func IsBot(ua string) bool {
	return IsScraper(ua) || containsAny(ua, botMarkers)
}
