// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package presence

import (
	"fmt"
	"os"
	"strings"
	"text/template"

	"github.com/tanki-rpc/tanki-rich-presence/pkg/common"

	"gopkg.in/yaml.v3"
)

// MaxButtons is the number of link buttons Discord shows on an activity.
const MaxButtons = 2

// Template describes every string of the published activity. Each field is a
// text/template rendered against the fields of View.
type Template struct {
	Details    string           `yaml:"details"`
	State      string           `yaml:"state"`
	LargeImage string           `yaml:"large_image"`
	LargeText  string           `yaml:"large_text"`
	SmallImage string           `yaml:"small_image"`
	SmallText  string           `yaml:"small_text"`
	Buttons    []ButtonTemplate `yaml:"buttons"`

	compiled *compiledTemplate
}

// ButtonTemplate is one link button.
type ButtonTemplate struct {
	Label string `yaml:"label"`
	URL   string `yaml:"url"`
}

type compiledTemplate struct {
	details, state                               *template.Template
	largeImage, largeText, smallImage, smallText *template.Template
	buttonLabels, buttonURLs                     []*template.Template
}

// DefaultTemplate returns the Tanki Online activity layout.
func DefaultTemplate() *Template {
	return &Template{
		Details:    "Username: {{.Name}}",
		State:      "{{.Score}} / {{.ScoreNext}} XP till {{.NextRank}}",
		LargeImage: "pentagon_only",
		LargeText:  "Tanki Online",
		SmallImage: "{{.Icon}}",
		SmallText:  "{{.Rank}}",
		Buttons: []ButtonTemplate{
			{
				Label: "Play Tanki Online",
				URL:   "https://tankionline.com/play/",
			},
			{
				Label: "{{.Name}} Ratings",
				URL:   "https://ratings.tankionline.com/en/user/{{.Name}}",
			},
		},
	}
}

// LoadTemplate reads a YAML template from path on top of DefaultTemplate.
// Supports environment variable expansion in the form ${VAR_NAME} or ${VAR_NAME:default}.
func LoadTemplate(path string) (*Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read presence template %s: %w", path, err)
	}

	expanded := common.ExpandEnvVars(string(data))

	tpl := DefaultTemplate()
	if err := yaml.Unmarshal([]byte(expanded), tpl); err != nil {
		return nil, fmt.Errorf("failed to parse presence template YAML: %w", err)
	}

	if err := tpl.Validate(); err != nil {
		return nil, fmt.Errorf("invalid presence template %s: %w", path, err)
	}

	return tpl, nil
}

// Validate parses every field and checks the button limit.
func (t *Template) Validate() error {
	if len(t.Buttons) > MaxButtons {
		return fmt.Errorf("%w: %d (max %d)", ErrTooManyButtons, len(t.Buttons), MaxButtons)
	}

	c := &compiledTemplate{}
	fields := []struct {
		name string
		src  string
		dst  **template.Template
	}{
		{"details", t.Details, &c.details},
		{"state", t.State, &c.state},
		{"large_image", t.LargeImage, &c.largeImage},
		{"large_text", t.LargeText, &c.largeText},
		{"small_image", t.SmallImage, &c.smallImage},
		{"small_text", t.SmallText, &c.smallText},
	}
	for _, f := range fields {
		parsed, err := parseField(f.name, f.src)
		if err != nil {
			return err
		}
		*f.dst = parsed
	}

	for i, b := range t.Buttons {
		if strings.TrimSpace(b.Label) == "" || strings.TrimSpace(b.URL) == "" {
			return fmt.Errorf("%w: button %d needs a label and a url", ErrInvalidTemplate, i)
		}
		label, err := parseField(fmt.Sprintf("buttons[%d].label", i), b.Label)
		if err != nil {
			return err
		}
		url, err := parseField(fmt.Sprintf("buttons[%d].url", i), b.URL)
		if err != nil {
			return err
		}
		c.buttonLabels = append(c.buttonLabels, label)
		c.buttonURLs = append(c.buttonURLs, url)
	}

	t.compiled = c
	return nil
}

func parseField(name, src string) (*template.Template, error) {
	parsed, err := template.New(name).Option("missingkey=error").Parse(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidTemplate, name, err)
	}
	return parsed, nil
}

func render(t *template.Template, v View) (string, error) {
	var sb strings.Builder
	if err := t.Execute(&sb, v); err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrInvalidTemplate, t.Name(), err)
	}
	return sb.String(), nil
}
