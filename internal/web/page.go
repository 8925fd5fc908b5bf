package web

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

const bootstrapCSS = "https://cdn.jsdelivr.net/npm/bootstrap@5.3.3/dist/css/bootstrap.min.css"

// liveScript swaps in server-rendered fragments pushed over the websocket and
// turns clicks on [data-action] elements into commands.
const liveScript = `<script>
      (function () {
        const main = document.getElementById("main");
        const live = main && main.dataset.live;
        if (!live || !window.WebSocket) {
          return;
        }
        const proto = location.protocol === "https:" ? "wss://" : "ws://";
        const ws = new WebSocket(proto + location.host + live);
        ws.addEventListener("message", (event) => {
          const msg = JSON.parse(event.data);
          if (msg.type !== "html") {
            return;
          }
          const el = document.querySelector(msg.target);
          if (!el) {
            return;
          }
          if (msg.mode === "outer") {
            el.outerHTML = msg.html;
          } else {
            el.innerHTML = msg.html;
          }
        });
        document.addEventListener("click", (event) => {
          const el = event.target.closest("[data-action]");
          if (!el || ws.readyState !== WebSocket.OPEN) {
            return;
          }
          event.preventDefault();
          ws.send(JSON.stringify({
            action: el.dataset.action,
            state: el.dataset.state || "",
            id: el.dataset.id || ""
          }));
        });
      })();
    </script>`

// Page wraps body components in the document shell.
func Page(data PageData, body ...templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		out := &writer{w: w}
		out.str(`<!doctype html>
<html lang="en">
  <head>
    <meta charset="utf-8"/>
    <meta name="viewport" content="width=device-width, initial-scale=1"/>
    <title>`, esc(data.Title), `</title>
    <link rel="stylesheet" href="`, bootstrapCSS, `"/>
  </head>
  <body>
    <main id="main" class="container my-3" data-live="`, esc(data.LiveURL), `">
`)
		for _, component := range body {
			out.component(ctx, component)
		}
		out.str(`
    </main>
    `, liveScript, `
  </body>
</html>
`)
		return out.err
	})
}

// Section puts a heading above a component.
func Section(title string, content templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		out := &writer{w: w}
		out.str(`<section class="my-4"><h2 class="h4">`, esc(title), `</h2>`)
		out.component(ctx, content)
		out.str(`</section>`)
		return out.err
	})
}
