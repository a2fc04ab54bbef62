package html

import (
	"fmt"
	"html"
	"strings"

	"github.com/CodeSapiens-in/formengine/pkg/render"
)

// widgetMarkup builds the control HTML for one widget. Labels, values and
// option texts are always escaped here; the template embeds the result with
// the safe filter.
func widgetMarkup(w render.Widget) string {
	var b strings.Builder
	b.Grow(512)

	b.WriteString(`<div class="`)
	b.WriteString(string(ClassField))
	b.WriteString(`" data-question="`)
	b.WriteString(html.EscapeString(w.QuestionID))
	b.WriteString(`" data-control="`)
	b.WriteString(string(w.Control))
	b.WriteString("\">\n")

	writeLabel(&b, w)

	if w.Disabled {
		b.WriteString(`    <span class="`)
		b.WriteString(string(ClassDisplay))
		b.WriteString(`">`)
		b.WriteString(html.EscapeString(w.Display))
		b.WriteString("</span>\n")
	} else {
		writeControl(&b, w)
	}

	for _, msg := range w.Errors {
		b.WriteString(`    <small class="`)
		b.WriteString(string(ClassFieldError))
		b.WriteString(`">`)
		b.WriteString(html.EscapeString(msg))
		b.WriteString("</small>\n")
	}

	b.WriteString("</div>\n")
	return b.String()
}

func writeLabel(b *strings.Builder, w render.Widget) {
	b.WriteString(`    <label for="fe-`)
	b.WriteString(html.EscapeString(w.QuestionID))
	b.WriteString(`">`)
	b.WriteString(html.EscapeString(w.Label))
	if w.Required {
		b.WriteString(` *`)
	}
	b.WriteString("</label>\n")
}

func writeControl(b *strings.Builder, w render.Widget) {
	id := html.EscapeString(w.QuestionID)
	switch w.Control {
	case render.ControlInput:
		fmt.Fprintf(b, `    <input id="fe-%s" name="%s" type="%s" value="%s"%s>`+"\n",
			id, id, w.InputType, html.EscapeString(w.Value), requiredAttr(w))
	case render.ControlTextArea:
		fmt.Fprintf(b, `    <textarea id="fe-%s" name="%s"%s>%s</textarea>`+"\n",
			id, id, requiredAttr(w), html.EscapeString(w.Value))
	case render.ControlToggle:
		checked := ""
		if w.Value == "true" {
			checked = " checked"
		}
		fmt.Fprintf(b, `    <input id="fe-%s" name="%s" type="checkbox" role="switch" value="true"%s%s>`+"\n",
			id, id, checked, requiredAttr(w))
	case render.ControlRadioGroup:
		writeOptionGroup(b, w, "radio")
	case render.ControlCheckboxGroup:
		writeOptionGroup(b, w, "checkbox")
	case render.ControlSelect:
		writeSelect(b, w)
	}
}

func writeOptionGroup(b *strings.Builder, w render.Widget, inputType string) {
	id := html.EscapeString(w.QuestionID)
	fmt.Fprintf(b, `    <fieldset id="fe-%s">`+"\n", id)
	for _, opt := range w.Options {
		checked := ""
		if opt.Selected {
			checked = " checked"
		}
		label := html.EscapeString(opt.Label)
		fmt.Fprintf(b, `        <label><input type="%s" name="%s" value="%s"%s> %s</label>`+"\n",
			inputType, id, label, checked, label)
	}
	b.WriteString("    </fieldset>\n")
}

func writeSelect(b *strings.Builder, w render.Widget) {
	id := html.EscapeString(w.QuestionID)
	fmt.Fprintf(b, `    <select id="fe-%s" name="%s"%s>`+"\n", id, id, requiredAttr(w))
	// No default selection: the placeholder stays selected until the
	// respondent picks an option.
	selectedAny := false
	for _, opt := range w.Options {
		if opt.Selected {
			selectedAny = true
		}
	}
	placeholderSelected := ""
	if !selectedAny {
		placeholderSelected = " selected"
	}
	fmt.Fprintf(b, `        <option value="" disabled%s></option>`+"\n", placeholderSelected)
	for _, opt := range w.Options {
		selected := ""
		if opt.Selected {
			selected = " selected"
		}
		label := html.EscapeString(opt.Label)
		fmt.Fprintf(b, `        <option value="%s"%s>%s</option>`+"\n", label, selected, label)
	}
	b.WriteString("    </select>\n")
}

func requiredAttr(w render.Widget) string {
	if w.Required {
		return " required"
	}
	return ""
}
