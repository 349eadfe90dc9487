package title

import (
	"bytes"
	"sync"
	"text/template"

	"github.com/GlintPay/gds/settings"
	"github.com/Masterminds/sprig"
	"github.com/rs/zerolog/log"
)

const DefaultTemplate = `{{ .ClusterName | default "Kubernetes" | trim }} Dashboard`

// Updater Renders the dashboard title from the settings whenever they change
type Updater struct {
	tmpl    *template.Template
	onTitle func(string)

	mu      sync.RWMutex
	current string
}

// New An empty text selects DefaultTemplate. onTitle, when set, receives each rendered title.
func New(text string, onTitle func(string)) (*Updater, error) {
	if text == "" {
		text = DefaultTemplate
	}

	tmpl, err := template.New("title").Funcs(sprig.TxtFuncMap()).Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, err
	}

	return &Updater{tmpl: tmpl, onTitle: onTitle}, nil
}

func (u *Updater) Update(s settings.GlobalSettings) {
	rendered, err := u.Render(s)
	if err != nil {
		log.Error().Err(err).Msg("Cannot render title")
		return
	}

	u.mu.Lock()
	u.current = rendered
	u.mu.Unlock()

	if u.onTitle != nil {
		u.onTitle(rendered)
	}
}

func (u *Updater) Render(s settings.GlobalSettings) (string, error) {
	var buf bytes.Buffer
	if e := u.tmpl.Execute(&buf, s); e != nil {
		return "", e
	}
	return buf.String(), nil
}

func (u *Updater) Current() string {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.current
}
