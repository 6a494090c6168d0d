package status

import (
	"io"
	"strings"
	"text/template"

	"github.com/pkg/errors"

	gh "github.com/kestra-io/kestra-devtools/internal/github"
)

var headerTemplate = `Checking status for workflow {{.WorkflowID}} on branches: {{join .Branches ","}} for owner: {{.Owner}} and repo: {{.Repo}}
`

var branchStatusTemplate = "\n{{.Branch}} > {{.Icon}} \n\t id: {{.Run.RunID}} \n\t name: {{.Run.Name}} \n\t commit: {{.Run.CommitText}} \n\t startDate: {{.Run.RunStartDate}} \n\t url: {{.Run.URL}}\n"

type printableBranch struct {
	Branch string
	Icon   string
	Run    *gh.WorkflowRun
}

type printer struct {
	tmpl *template.Template
}

func newPrinter() *printer {
	funcs := template.FuncMap{"join": strings.Join}
	tmpl := template.Must(template.New("header").Funcs(funcs).Parse(headerTemplate))
	template.Must(tmpl.New("branch").Parse(branchStatusTemplate))
	return &printer{tmpl: tmpl}
}

func (p *printer) header(w io.Writer, in *CheckInput) error {
	return errors.Wrap(p.tmpl.ExecuteTemplate(w, "header", in), "unable to print status header")
}

func (p *printer) branch(w io.Writer, branch string, run *gh.WorkflowRun) error {
	pb := printableBranch{Branch: branch, Icon: statusToIcon(run.Status), Run: run}
	return errors.Wrapf(p.tmpl.ExecuteTemplate(w, "branch", pb), "unable to print status of %s", branch)
}
