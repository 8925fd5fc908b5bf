package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

type bindMessages map[string]map[string]string

var queryMessages = bindMessages{
	"Ranking": {"min": "ranking must be a non-negative integer"},
	"State":   {"oneof": "state must be one of open, running, finished"},
	"Variant": {"oneof": "variant must be dashboard or lobby"},
}

// rankingQuery is ?ranking=N; absent means the configured cutoff.
type rankingQuery struct {
	Ranking *int `form:"ranking" binding:"omitempty,min=0"`
}

func (q rankingQuery) value(fallback int) int {
	if q.Ranking == nil {
		return fallback
	}
	return *q.Ranking
}

// listQuery is ?state=; absent means the open tab.
type listQuery struct {
	State string `form:"state" binding:"omitempty,oneof=open running finished"`
}

func (q listQuery) filter() string {
	if q.State == "" {
		return defaultListState
	}
	return q.State
}

type liveQuery struct {
	Variant string `form:"variant" binding:"omitempty,oneof=dashboard lobby"`
}

type loginRequest struct {
	Playername string `form:"playername"`
	Password   string `form:"password"`
}

func bindQuery(w http.ResponseWriter, r *http.Request, req any) bool {
	if err := binding.Query.Bind(r, req); err != nil {
		writeError(w, http.StatusBadRequest, resolveBindError(err, queryMessages, "invalid query"))
		return false
	}
	return true
}

func resolveBindError(err error, messages bindMessages, fallback string) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, verr := range verrs {
			if fieldMsgs, ok := messages[verr.Field()]; ok {
				if msg, ok := fieldMsgs[verr.Tag()]; ok {
					return msg
				}
			}
		}
	}
	if fallback != "" {
		return fallback
	}
	return "invalid request"
}
