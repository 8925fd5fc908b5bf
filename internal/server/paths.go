package server

import (
	"net/url"
	"strconv"
	"strings"

	"battleship-lobby/internal/api"
	"battleship-lobby/internal/views"

	"github.com/google/uuid"
)

const defaultListState = api.DefaultListFilter

// parseGameID accepts only the UUIDs the backend issues.
func parseGameID(raw string) (string, bool) {
	id, err := uuid.Parse(strings.Trim(raw, "/"))
	if err != nil {
		return "", false
	}
	return id.String(), true
}

func liveURL(variant views.Variant, filter string, ranking int) string {
	query := url.Values{}
	query.Set("variant", string(variant))
	if filter != "" {
		query.Set("state", filter)
	}
	if ranking > 0 {
		query.Set("ranking", strconv.Itoa(ranking))
	}
	return livePath + "?" + query.Encode()
}
