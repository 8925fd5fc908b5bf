package server

import (
	"bytes"
	"context"

	"github.com/a-h/templ"
)

type wsHTMLMessage struct {
	Type   string `json:"type"`
	Target string `json:"target"`
	Mode   string `json:"mode"`
	HTML   string `json:"html"`
}

func htmlMessage(target, mode, html string) wsHTMLMessage {
	return wsHTMLMessage{
		Type:   "html",
		Target: target,
		Mode:   mode,
		HTML:   html,
	}
}

func renderHTML(component templ.Component) (string, error) {
	var buf bytes.Buffer
	if err := component.Render(context.Background(), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
