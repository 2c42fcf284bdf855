package sketch

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// Control is a sketch element resolved to everything its C++ emission needs.
type Control struct {
	Key      string
	ID       int
	Var      string
	Box      Box
	Caption  string
	Handlers []string
}

// emitFunc renders the C++ statements of one control. It returns the lines and
// any diagnostics about the element's attributes.
type emitFunc func(c Control, n *html.Node) (lines []string, diags []string)

// kind is one row of the dispatch table.
type kind struct {
	// label is the word used in caption comments.
	label       string
	prefix      string
	fallback    string
	width       int
	height      int
	advance     int
	captionable bool
	container   bool
	// textKey makes the element text the fallback key.
	textKey bool
	emit    emitFunc
}

var kinds = map[string]kind{
	classText:     {label: "input", prefix: "edit", fallback: "text", captionable: true, emit: emitEdit},
	classPassword: {label: "password", prefix: "pass", fallback: "password", captionable: true, emit: emitPassword},
	classCheckbox: {label: "checkbox", prefix: "check", fallback: "checkbox", width: 100, captionable: true, emit: emitCheckBox},
	classRadio:    {label: "radio", prefix: "radio", fallback: "radio", width: 100, captionable: true, emit: emitRadio},
	classRange:    {label: "slider", prefix: "slider", fallback: "range", captionable: true, emit: emitSlider},
	classSelect:   {label: "combobox", prefix: "combo", fallback: "combo", width: 120, captionable: true, emit: emitComboBox},
	classList:     {label: "listbox", prefix: "list", fallback: "list", width: 120, height: 60, advance: 70, captionable: true, emit: emitListBox},
	classGroup:    {label: "groupbox", prefix: "group", fallback: "group", container: true, emit: emitGroupBox},
	classTab:      {label: "tabcontrol", prefix: "tab", fallback: "tab", height: 40, advance: 50, container: true, emit: emitTab},
	classProgress: {label: "progress", prefix: "progress", fallback: "progress", captionable: true, emit: emitProgress},
	classButton:   {label: "button", prefix: "btn", fallback: "btn", width: 60, emit: emitButton},
	classLabel:    {label: "label", prefix: "label", fallback: "label", textKey: true, emit: emitLabel},
}

// fallbackKey is the stable key used when n has no id attribute.
func (k kind) fallbackKey(n *html.Node) string {
	if k.textKey {
		if text := textOf(n); text != "" {
			return text
		}
	}
	return k.fallback
}

// object is the common single-line declaration: construct, track, create.
func object(c Control, ctor string) string {
	return fmt.Sprintf("auto %[1]s = %[2]s; elements.push_back(%[1]s); %[1]s->Create(parent, %[3]s);", c.Var, ctor, c.Box)
}

func emitEdit(c Control, n *html.Node) ([]string, []string) {
	return []string{object(c, fmt.Sprintf("new GuiEdit(%s, %d)", wstr(attr(n, "value")), c.ID))}, nil
}

func emitPassword(c Control, n *html.Node) ([]string, []string) {
	return []string{object(c, fmt.Sprintf("new GuiEdit(L\"\", %d, true)", c.ID))}, nil
}

// captionOr returns the paired label text, falling back to the key.
func captionOr(c Control) string {
	if c.Caption != "" {
		return c.Caption
	}
	return c.Key
}

func emitCheckBox(c Control, n *html.Node) ([]string, []string) {
	ctor := fmt.Sprintf("new GuiCheckBox(%s, %d)", wstr(captionOr(c)), c.ID)
	if hasAttr(n, "checked") {
		ctor = fmt.Sprintf("new GuiCheckBox(%s, %d, true)", wstr(captionOr(c)), c.ID)
	}
	return []string{object(c, ctor)}, nil
}

func emitRadio(c Control, n *html.Node) ([]string, []string) {
	lines := []string{object(c, fmt.Sprintf("new GuiRadioButton(%s, %d, %s)", wstr(captionOr(c)), c.ID, c.Box))}
	if hasAttr(n, "checked") {
		lines = append(lines, fmt.Sprintf("%s->SetChecked(true);", c.Var))
	}
	return lines, nil
}

func emitSlider(c Control, n *html.Node) ([]string, []string) {
	var diags []string
	num := func(name string, def int) int {
		v, msg := intAttr(n, name, def)
		if msg != "" {
			diags = append(diags, msg)
		}
		return v
	}
	minV, maxV, val := num("min", 0), num("max", 100), num("value", 50)
	return []string{object(c, fmt.Sprintf("new GuiSlider(%d, %d, %d, %d)", c.ID, minV, maxV, val))}, diags
}

func emitComboBox(c Control, n *html.Node) ([]string, []string) {
	lines := []string{object(c, fmt.Sprintf("new GuiComboBox(%d)", c.ID))}
	selected := -1
	for i, opt := range elementChildren(n, "option") {
		lines = append(lines, fmt.Sprintf("%s->AddItem(%s);", c.Var, wstr(textOf(opt))))
		if selected < 0 && hasAttr(opt, "selected") {
			selected = i
		}
	}
	if selected >= 0 {
		lines = append(lines, fmt.Sprintf("%s->SetCurSel(%d);", c.Var, selected))
	}
	return lines, nil
}

func emitListBox(c Control, n *html.Node) ([]string, []string) {
	lines := []string{object(c, fmt.Sprintf("new GuiListBox(%d)", c.ID))}
	for _, li := range elementChildren(n, "li") {
		lines = append(lines, fmt.Sprintf("%s->AddItem(%s);", c.Var, wstr(textOf(li))))
	}
	return lines, nil
}

func emitGroupBox(c Control, n *html.Node) ([]string, []string) {
	caption := attr(n, "title")
	if caption == "" {
		caption = c.Key
	}
	return []string{object(c, fmt.Sprintf("new GuiGroupBox(%s, %d)", wstr(caption), c.ID))}, nil
}

var docks = map[string]string{
	"top":    "TabDock::Top",
	"bottom": "TabDock::Bottom",
	"left":   "TabDock::Left",
	"right":  "TabDock::Right",
}

func emitTab(c Control, n *html.Node) ([]string, []string) {
	var diags []string
	dock := docks["top"]
	if d := strings.ToLower(attr(n, "data-dock")); d != "" {
		if v, ok := docks[d]; ok {
			dock = v
		} else {
			diags = append(diags, fmt.Sprintf("Invalid data-dock=%q on tab control %s: using top", d, c.Key))
		}
	}
	lines := []string{fmt.Sprintf("auto %[1]s = new GuiTab(%[2]d, %[3]s); elements.push_back(%[1]s);", c.Var, c.ID, dock)}
	for _, page := range elementChildren(n, "button") {
		lines = append(lines, fmt.Sprintf("%s->AddPage(%s);", c.Var, wstr(textOf(page))))
	}
	lines = append(lines, fmt.Sprintf("%s->Create(parent, %s);", c.Var, c.Box))
	return lines, diags
}

func emitProgress(c Control, n *html.Node) ([]string, []string) {
	var diags []string
	num := func(name string, def int) int {
		v, msg := intAttr(n, name, def)
		if msg != "" {
			diags = append(diags, msg)
		}
		return v
	}
	maxV, val := num("max", 100), num("value", 0)
	return []string{object(c, fmt.Sprintf("new GuiProgressBar(%d, 0, %d, %d)", c.ID, maxV, val))}, diags
}

func emitButton(c Control, n *html.Node) ([]string, []string) {
	text := textOf(n)
	if text == "" {
		text = attr(n, "value")
	}
	if text == "" {
		text = c.Key
	}
	return []string{object(c, fmt.Sprintf("new GuiButton(%s, %d)", wstr(text), c.ID))}, nil
}

func emitLabel(c Control, n *html.Node) ([]string, []string) {
	return []string{object(c, fmt.Sprintf("new GuiLabel(%s, %d)", wstr(textOf(n)), c.ID))}, nil
}
