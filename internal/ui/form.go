package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/snipvault/snipvault/internal/template"
)

// argumentForm collects a value for each distinct argument of a snippet
// before execution.
type argumentForm struct {
	specs   []template.ArgumentSpec
	inputs  []textinput.Model
	focused int
	styles  Styles
}

func newArgumentForm(specs []template.ArgumentSpec, styles Styles) *argumentForm {
	inputs := make([]textinput.Model, len(specs))
	for i, spec := range specs {
		in := textinput.New()
		in.Prompt = ""
		in.CharLimit = 0
		if spec.HasDefault {
			in.Placeholder = spec.Default
		}
		if i == 0 {
			in.Focus()
		}
		inputs[i] = in
	}
	return &argumentForm{specs: specs, inputs: inputs, styles: styles}
}

// Values returns the user-entered argument values. Untouched fields are left
// out so the resolver falls back to declared defaults.
func (f *argumentForm) Values() map[string]string {
	values := make(map[string]string, len(f.inputs))
	for i, in := range f.inputs {
		if v := in.Value(); v != "" {
			values[f.specs[i].Name] = v
		}
	}
	return values
}

// Update handles key events; done reports a submit via enter on the last
// field.
func (f *argumentForm) Update(msg tea.Msg) (done bool, cmd tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "enter":
			if f.focused == len(f.inputs)-1 {
				return true, nil
			}
			f.focusNext()
			return false, nil
		case "tab", "down":
			f.focusNext()
			return false, nil
		case "shift+tab", "up":
			f.focusPrev()
			return false, nil
		}
	}

	f.inputs[f.focused], cmd = f.inputs[f.focused].Update(msg)
	return false, cmd
}

func (f *argumentForm) focusNext() {
	f.inputs[f.focused].Blur()
	f.focused = (f.focused + 1) % len(f.inputs)
	f.inputs[f.focused].Focus()
}

func (f *argumentForm) focusPrev() {
	f.inputs[f.focused].Blur()
	f.focused = (f.focused - 1 + len(f.inputs)) % len(f.inputs)
	f.inputs[f.focused].Focus()
}

func (f *argumentForm) View() string {
	var b strings.Builder
	b.WriteString(f.styles.Title.Render("Fill in arguments"))
	b.WriteString("\n\n")

	for i, spec := range f.specs {
		label := spec.Name
		if i == f.focused {
			label = f.styles.FormActive.Render("> " + label)
		} else {
			label = f.styles.FormLabel.Render("  " + label)
		}
		b.WriteString(label)
		if spec.Options != nil {
			b.WriteString(f.styles.FormHint.Render(fmt.Sprintf("  (%s)", strings.Join(spec.Options, " | "))))
		}
		b.WriteString("\n  ")
		b.WriteString(f.inputs[i].View())
		b.WriteString("\n\n")
	}

	b.WriteString(f.styles.Help.Render("enter: next/submit • tab: next field • esc: cancel"))
	return b.String()
}
