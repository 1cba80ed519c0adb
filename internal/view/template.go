package view

import (
	"html/template"
	"io"
)

// Render writes the dashboard page.
func Render(w io.Writer, p Page) error {
	return dashboardTmpl.Execute(w, p)
}

var dashboardTmpl = template.Must(template.New("dashboard").Parse(dashboardHTML))

const dashboardHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta http-equiv="refresh" content="{{.RefreshSeconds}}">
<title>Meter {{.MeterCode}}</title>
<style>
body { font-family: sans-serif; margin: 2rem; background: #f4f7fa; color: #1c2733; }
h1 { font-size: 1.4rem; }
.cards { display: flex; flex-wrap: wrap; gap: 1rem; margin: 1rem 0; }
.card { background: #fff; border-radius: 8px; padding: 1rem 1.5rem; box-shadow: 0 1px 3px rgba(0,0,0,.12); min-width: 10rem; }
.card .label { font-size: .75rem; text-transform: uppercase; color: #6b7a89; }
.card .value { font-size: 1.3rem; margin-top: .25rem; }
.status-connected { color: #1b7f3b; }
.status-connecting { color: #a67c00; }
.status-closed { color: #b3261e; }
.error { background: #fdecea; color: #b3261e; padding: .75rem 1rem; border-radius: 6px; margin: 1rem 0; }
table { border-collapse: collapse; background: #fff; width: 100%; box-shadow: 0 1px 3px rgba(0,0,0,.12); }
th, td { padding: .5rem .9rem; text-align: right; border-bottom: 1px solid #e4e9ee; }
th:first-child, td:first-child { text-align: left; }
.placeholder { color: #6b7a89; text-align: center; padding: 1.5rem; }
</style>
</head>
<body>
<h1>Meter {{.MeterCode}}{{if .Category}} &middot; {{.Category}}{{end}}</h1>
{{if .Address}}<p>{{.Address}}</p>{{end}}
{{if .LoadError}}<div class="error">{{.LoadError}}</div>{{end}}
<div class="cards">
  <div class="card"><div class="label">Flow</div><div class="value">{{.Flow}} L/s</div></div>
  <div class="card"><div class="label">Total consumed</div><div class="value">{{.LitersTotal}} L</div></div>
  <div class="card"><div class="label">Price per liter</div><div class="value">{{.Price}} {{.Currency}}</div></div>
  <div class="card"><div class="label">Total cost</div><div class="value">{{.CostTotal}} {{.Currency}}</div></div>
  <div class="card"><div class="label">Live channel</div><div class="value status-{{.Status}}">{{.Status}}</div></div>
  <div class="card"><div class="label">Last update</div><div class="value">{{.Timestamp}}</div></div>
</div>
<table>
  <thead>
    <tr><th>Time</th><th>Flow (L/s)</th><th>Delta (L)</th><th>Total (L)</th><th>Cost delta</th><th>Cost total</th></tr>
  </thead>
  <tbody>
    {{if .Rows}}{{range .Rows}}
    <tr>
      <td>{{.Timestamp}}</td>
      <td>{{.Flow}}</td>
      <td>{{.LitersDelta}}</td>
      <td>{{.LitersTotal}}</td>
      <td>{{.CostDelta}} {{.Currency}}</td>
      <td>{{.CostTotal}} {{.Currency}}</td>
    </tr>
    {{end}}{{else}}
    <tr><td colspan="6" class="placeholder">no readings yet</td></tr>
    {{end}}
  </tbody>
</table>
</body>
</html>
`
