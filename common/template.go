package common

import (
	"bytes"
	"strings"
	"text/template"
)

var templateFuncs = template.FuncMap{
	"title": func(s string) string {
		if s == "" {
			return s
		}
		return strings.ToUpper(s[:1]) + s[1:]
	},
}

func ParseTemplate(input string, data map[string]any) (string, error) {
	tmpl, err := template.New("tmpl").Funcs(templateFuncs).Parse(input)
	if err != nil {
		return "", err
	}
	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
