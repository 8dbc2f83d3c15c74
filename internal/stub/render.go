package stub

import (
	"fmt"
	"html/template"
	"strings"
)

var documentTemplate = template.Must(template.New("document").Parse(`<!doctype html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { background: {{.Background}}; color: {{.Foreground}}; font-family: sans-serif; }
h1 { color: {{.Accent}}; }
table { border-collapse: collapse; }
td, th { border: 1px solid {{.Foreground}}; padding: 4px 8px; }
.watermark { opacity: 0.3; font-size: 10px; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<p>{{.Description}}</p>
<p>Requested length: {{.Length}} words ({{.DocumentType}})</p>
{{if .Statistics}}<table>
<tr><th>Name</th><th>Value</th><th>Unit</th><th>Chart</th></tr>
{{range .Statistics}}<tr><td>{{.Name}}</td><td>{{.Value}}</td><td>{{.Unit}}</td><td>{{.Visualization}}</td></tr>
{{end}}</table>{{end}}
{{if .Watermark}}<p class="watermark">generated by docsmith stub</p>{{end}}
</body>
</html>
`))

type documentData struct {
	Title        string
	Description  string
	Length       int
	DocumentType string
	Background   template.CSS
	Foreground   template.CSS
	Accent       template.CSS
	Statistics   []statisticRow
	Watermark    bool
}

type statisticRow struct {
	Name          string
	Value         float64
	Unit          string
	Visualization string
}

// renderDocument produces the stub's artifact: a small themed HTML document
// carrying the submitted fields back, enough for the client workflow to have
// real bytes to download and save.
func renderDocument(job StoredJob) []byte {
	data := documentData{
		Title:        titleFrom(job.Description),
		Description:  job.Description,
		Length:       job.Length,
		DocumentType: string(job.DocumentType),
		Background:   template.CSS(job.Design.Background),
		Foreground:   template.CSS(job.Design.Foreground),
		Accent:       template.CSS(job.Design.Accent),
		Watermark:    job.UseWatermark,
	}
	for _, s := range job.Statistics {
		data.Statistics = append(data.Statistics, statisticRow{
			Name:          s.Name,
			Value:         s.Value,
			Unit:          s.Unit,
			Visualization: string(s.Visualization),
		})
	}
	var b strings.Builder
	if err := documentTemplate.Execute(&b, data); err != nil {
		return []byte(fmt.Sprintf("<html><body><p>%s</p></body></html>", template.HTMLEscapeString(job.Description)))
	}
	return []byte(b.String())
}

func titleFrom(description string) string {
	title := strings.TrimSpace(description)
	if len(title) > 60 {
		title = title[:60] + "..."
	}
	if title == "" {
		title = "Generated document"
	}
	return title
}
