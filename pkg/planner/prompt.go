package planner

import (
	"strconv"
	"strings"
	"text/template"

	"github.com/pkg/errors"

	"github.com/askiada/go-planflow/pkg/catalog"
)

// DefaultSystemPrompt opens every new history created by the CLI.
const DefaultSystemPrompt = "You are a pipeline planner. Answer only with the requested format."

//nolint:lll //this is a template
const promptTemplate = `You are a pipeline planning assistant. Your job is to help build a text processing pipeline.
Ignore tools not mentioned in the user task.
Available tools: {{join .Names ", "}}

Each tool does:
{{- range .Operations}}
- {{.Name}}: {{.Description}}
{{- end}}
{{- if .Dependencies}}

TOOLS DEPENDENCY:
{{- range .Dependencies}}
- {{.Name}} depends on {{join .Prerequisites " and "}}
{{- end}}
{{- end}}

Given this goal: {{quote .Goal}}
Return the tool names (in order) to use.

RESPOND WITH THIS MANDATORY REQUIRED FORMAT: <TOOLS>{{.Example}}</TOOLS>
`

var promptTpl = template.Must(template.New("prompt").Funcs(template.FuncMap{
	"join":  strings.Join,
	"quote": strconv.Quote,
}).Parse(promptTemplate))

type promptDependency struct {
	Name          string
	Prerequisites []string
}

type promptData struct {
	Goal         string
	Names        []string
	Operations   []catalog.Operation
	Dependencies []promptDependency
	Example      string
}

// BuildPrompt renders the planning request for goal against cat.
func BuildPrompt(cat *catalog.Catalog, goal string) (string, error) {
	if cat == nil {
		return "", ErrCatalogMustBeSet
	}

	data := promptData{
		Goal:       goal,
		Names:      cat.Names(),
		Operations: cat.Operations(),
	}
	for _, name := range data.Names {
		if deps := cat.Dependencies(name); len(deps) > 0 {
			data.Dependencies = append(data.Dependencies, promptDependency{Name: name, Prerequisites: deps})
		}
	}
	data.Example = exampleList(data.Names)

	var sb strings.Builder
	err := promptTpl.Execute(&sb, data)
	if err != nil {
		return "", errors.Wrap(err, "unable to render prompt")
	}

	return sb.String(), nil
}

// exampleList quotes up to two catalog names the way the answer should list them.
func exampleList(names []string) string {
	const maxExample = 2
	if len(names) > maxExample {
		names = names[:maxExample]
	}
	quoted := make([]string, len(names))
	for i, name := range names {
		quoted[i] = strconv.Quote(name)
	}

	return strings.Join(quoted, ", ")
}
