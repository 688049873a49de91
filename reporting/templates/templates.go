package templates

// FigureInfo links one rendered chart
type FigureInfo struct {
	File  string
	Title string
}

// SkippedInfo records a chart which could not be drawn
type SkippedInfo struct {
	File   string
	Reason string
}

// ReportingInfo fills IndexTempl
type ReportingInfo struct {
	Generated string
	Version   string
	Figures   []FigureInfo
	Skipped   []SkippedInfo
}

var header = `
<head>
<meta content="text/html;charset=utf-8" http-equiv="Content-Type">
<meta content="utf-8" http-equiv="encoding">
<link rel="stylesheet" type="text/css" href="./style.css">
<title>phantomnet report</title>
</head>
<ul>
  <li><a href="./index.html">phantomnet</a></li>
  {{range .Figures}}<li><a href="#{{.File}}">{{.Title}}</a></li>
  {{end}}
</ul>
`

// IndexTempl is the report landing page
var IndexTempl = header + `
<div class="info">Generated {{.Generated}} by phantomnet {{.Version}}</div>
{{range .Figures}}
<div class="figure" id="{{.File}}">
  <h1>{{.Title}}</h1>
  <img src="{{.File}}" alt="{{.Title}}">
</div>
{{end}}
{{if .Skipped}}
<div class="figure">
  <h1>Skipped figures</h1>
  <table>
    <tr><th>Figure</th><th>Reason</th></tr>
    {{range .Skipped}}<tr><td>{{.File}}</td><td>{{.Reason}}</td></tr>
    {{end}}
  </table>
</div>
{{end}}
`
