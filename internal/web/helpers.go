package web

import (
	"net/url"
	"strconv"
	"strings"
	"time"
)

const untitledGame = "New Game"

// TimeAgo labels how long before now created lies. Units are floored.
func TimeAgo(now, created time.Time) string {
	elapsed := now.Sub(created).Milliseconds()
	const (
		minute = int64(60 * 1000)
		hour   = 60 * minute
		day    = 24 * hour
	)
	switch {
	case elapsed < minute:
		return "a few seconds ago"
	case elapsed < hour:
		return strconv.FormatInt(elapsed/minute, 10) + " minutes ago"
	case elapsed < day:
		return strconv.FormatInt(elapsed/hour, 10) + " hours ago"
	default:
		return strconv.FormatInt(elapsed/day, 10) + " days ago"
	}
}

func DescriptionLabel(description string) string {
	if description == "" {
		return untitledGame
	}
	return description
}

func itoa(value int) string {
	return strconv.Itoa(value)
}

func formatTime(value time.Time) string {
	if value.IsZero() {
		return "-"
	}
	return value.UTC().Format("2006-01-02 15:04:05")
}

// withQuery sets key=value on base, keeping whatever query base already has.
func withQuery(base, key, value string) string {
	path, rawQuery, _ := strings.Cut(base, "?")
	query, err := url.ParseQuery(rawQuery)
	if err != nil {
		query = url.Values{}
	}
	query.Set(key, value)
	return path + "?" + query.Encode()
}
