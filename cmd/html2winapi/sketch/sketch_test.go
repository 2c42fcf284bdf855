package sketch

import (
	"errors"
	"strings"
	"testing"

	"html2winapi/cmd/html2winapi/registry"
	"html2winapi/cmd/html2winapi/validation"

	"golang.org/x/net/html"
)

func mustContain(t *testing.T, got string, subs ...string) {
	t.Helper()
	for _, s := range subs {
		if !strings.Contains(got, s) {
			t.Fatalf("expected output to contain %q, got:\n%s", s, got)
		}
	}
}

func mustNotContain(t *testing.T, got string, subs ...string) {
	t.Helper()
	for _, s := range subs {
		if strings.Contains(got, s) {
			t.Fatalf("expected output not to contain %q, got:\n%s", s, got)
		}
	}
}

func generate(t *testing.T, src string, opts Options) (*Result, *registry.Registry, *validation.Report) {
	t.Helper()
	reg := registry.New()
	rep := validation.New()
	res, err := Generate(strings.NewReader(src), reg, rep, opts)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	return res, reg, rep
}

// firstElement returns the first element inside the parsed body of src.
func firstElement(t *testing.T, src string) *html.Node {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	var find func(*html.Node) *html.Node
	find = func(n *html.Node) *html.Node {
		if n.Type == html.ElementNode && !structural[n.Data] {
			return n
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if f := find(c); f != nil {
				return f
			}
		}
		return nil
	}
	n := find(doc)
	if n == nil {
		t.Fatalf("no element in %q", src)
	}
	return n
}

func warnings(rep *validation.Report) string {
	return strings.Join(rep.Warnings(), "\n")
}

func TestGenerate_LabeledFieldAndButton(t *testing.T) {
	src := `<label for="name">Name</label><input type="text" id="name"><button id="submit">Submit</button>`
	res, reg, rep := generate(t, src, DefaultOptions())

	if id, _ := reg.Lookup("name"); id != 101 {
		t.Fatalf("name: expected 101, got %d", id)
	}
	if id, _ := reg.Lookup("submit"); id != 102 {
		t.Fatalf("submit: expected 102, got %d", id)
	}
	if !rep.Empty() {
		t.Fatalf("expected empty report, got warnings=%v errors=%v", rep.Warnings(), rep.Errors())
	}
	code := res.Code()
	mustContain(t, code,
		"// Auto-generated C++ WinAPI GUI code from HTML sketch",
		"std::vector<GuiElement*> elements;",
		"// Label: Name for input name",
		`auto edit_name = new GuiEdit(L"", 101); elements.push_back(edit_name); edit_name->Create(parent, 10, 10, 200, 24);`,
		`auto btn_submit = new GuiButton(L"Submit", 102); elements.push_back(btn_submit); btn_submit->Create(parent, 10, 40, 60, 24);`,
	)
	mustNotContain(t, code, "GuiLabel")
	if len(res.Controls) != 2 {
		t.Fatalf("expected 2 controls, got %d", len(res.Controls))
	}
	if res.Controls[0].Caption != "Name" {
		t.Fatalf("expected caption Name, got %q", res.Controls[0].Caption)
	}
}

func TestGenerate_HeaderFirst(t *testing.T) {
	res, _, _ := generate(t, `<button id="a">A</button>`, DefaultOptions())
	if len(res.Lines) < 3 {
		t.Fatalf("expected header and one control, got %v", res.Lines)
	}
	for i, want := range header {
		if res.Lines[i] != want {
			t.Fatalf("line %d: expected %q, got %q", i, want, res.Lines[i])
		}
	}
}

func TestGenerate_FallbackKeyCollisionSkipsSecond(t *testing.T) {
	res, reg, rep := generate(t, `<input type="checkbox"><input type="checkbox">`, DefaultOptions())

	code := res.Code()
	if n := strings.Count(code, "new GuiCheckBox"); n != 1 {
		t.Fatalf("expected one checkbox, got %d:\n%s", n, code)
	}
	mustContain(t, code, `auto check_checkbox = new GuiCheckBox(L"checkbox", 101);`)
	mustContain(t, warnings(rep), "Duplicate key 'checkbox'")
	if reg.Len() != 1 {
		t.Fatalf("expected 1 registry entry, got %d", reg.Len())
	}
	if len(rep.Errors()) != 0 {
		t.Fatalf("collision must not be fatal: %v", rep.Errors())
	}
}

func TestGenerate_UniqueFallbackKeys(t *testing.T) {
	opts := DefaultOptions()
	opts.UniqueFallbackKeys = true
	res, reg, rep := generate(t, `<input type="checkbox"><input type="checkbox">`, opts)

	if !rep.Empty() {
		t.Fatalf("expected empty report, got %v", rep.Warnings())
	}
	if id, _ := reg.Lookup("checkbox_2"); id != 102 {
		t.Fatalf("checkbox_2: expected 102, got %d", id)
	}
	mustContain(t, res.Code(),
		`auto check_checkbox = new GuiCheckBox(L"checkbox", 101);`,
		`auto check_checkbox_2 = new GuiCheckBox(L"checkbox_2", 102);`,
	)
}

func TestGenerate_UnsupportedAggregated(t *testing.T) {
	src := `<span><button id="b">B</button></span><p>x</p><input type="file">`
	res, _, rep := generate(t, src, DefaultOptions())

	got := rep.UnsupportedTags()
	want := []string{"input[type=file]", "p", "span"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if w := rep.Warnings(); len(w) != 1 {
		t.Fatalf("expected one aggregated warning, got %v", w)
	}
	// Children of unsupported elements are still visited.
	mustContain(t, res.Code(), `new GuiButton(L"B", 101)`)
}

func TestGenerate_StructuralTagsNotReported(t *testing.T) {
	src := `<html><head><title>t</title></head><body><button id="a">A</button></body></html>`
	_, _, rep := generate(t, src, DefaultOptions())
	for _, tag := range rep.UnsupportedTags() {
		if tag == "html" || tag == "head" || tag == "body" {
			t.Fatalf("structural tag %q reported as unsupported", tag)
		}
	}
}

func TestGenerate_LayoutAttributes(t *testing.T) {
	src := `<input id="a" data-x="50" data-y="100"><input id="b" data-width="wide">`
	res, _, rep := generate(t, src, DefaultOptions())

	mustContain(t, res.Code(),
		"edit_a->Create(parent, 50, 100, 200, 24);",
		"edit_b->Create(parent, 10, 130, 200, 24);",
	)
	mustContain(t, warnings(rep), `Invalid data-width="wide" on <input>: using 200`)
}

func TestGenerate_CustomLayoutDefaults(t *testing.T) {
	opts := DefaultOptions()
	opts.Layout = Defaults{X: 5, Y: 0, Width: 150, Height: 20, Step: 25}
	res, _, _ := generate(t, `<input id="a"><input id="b">`, opts)
	mustContain(t, res.Code(),
		"edit_a->Create(parent, 5, 0, 150, 20);",
		"edit_b->Create(parent, 5, 25, 150, 20);",
	)
}

func TestGenerate_GroupBoxSizedToChildren(t *testing.T) {
	src := `<div id="g" title="Opts"><input type="checkbox" id="a"><input type="checkbox" id="b"></div><button id="ok">OK</button>`
	res, reg, rep := generate(t, src, DefaultOptions())

	if !rep.Empty() {
		t.Fatalf("expected empty report, got %v", rep.Warnings())
	}
	if id, _ := reg.Lookup("g"); id != 101 {
		t.Fatalf("group: expected 101, got %d", id)
	}
	lines := res.Lines[len(header):]
	want := []string{
		`auto group_g = new GuiGroupBox(L"Opts", 101); elements.push_back(group_g); group_g->Create(parent, 10, 10, 200, 80);`,
		`auto check_a = new GuiCheckBox(L"a", 102); elements.push_back(check_a); check_a->Create(parent, 10, 30, 100, 24);`,
		`auto check_b = new GuiCheckBox(L"b", 103); elements.push_back(check_b); check_b->Create(parent, 10, 60, 100, 24);`,
		`auto btn_ok = new GuiButton(L"OK", 104); elements.push_back(btn_ok); btn_ok->Create(parent, 10, 96, 60, 24);`,
	}
	if strings.Join(lines, "\n") != strings.Join(want, "\n") {
		t.Fatalf("unexpected lines:\n%s", strings.Join(lines, "\n"))
	}
	var keys []string
	for _, c := range res.Controls {
		keys = append(keys, c.Key)
	}
	if strings.Join(keys, ",") != "g,a,b,ok" {
		t.Fatalf("unexpected control order %v", keys)
	}
}

func TestGenerate_TabControl(t *testing.T) {
	src := `<div class="tabs" id="t" data-dock="bottom"><button>One</button><button>Two</button><input id="x"></div>`
	res, _, rep := generate(t, src, DefaultOptions())

	if !rep.Empty() {
		t.Fatalf("expected empty report, got %v", rep.Warnings())
	}
	mustContain(t, res.Code(),
		"auto tab_t = new GuiTab(101, TabDock::Bottom); elements.push_back(tab_t);",
		`tab_t->AddPage(L"One");`,
		`tab_t->AddPage(L"Two");`,
		"tab_t->Create(parent, 10, 10, 200, 40);",
		`auto edit_x = new GuiEdit(L"", 102); elements.push_back(edit_x); edit_x->Create(parent, 10, 60, 200, 24);`,
	)
	mustNotContain(t, res.Code(), "GuiButton")
}

func TestGenerate_TabInvalidDock(t *testing.T) {
	res, _, rep := generate(t, `<div data-type="tabs" id="t" data-dock="middle"></div>`, DefaultOptions())
	mustContain(t, res.Code(), "new GuiTab(101, TabDock::Top)")
	mustContain(t, warnings(rep), `Invalid data-dock="middle"`)
}

func TestGenerate_ItemControls(t *testing.T) {
	src := `<select id="s"><option>One</option><option selected>Two</option></select>` +
		`<ul id="l"><li>A</li></ul>` +
		`<progress id="p" max="10" value="3"></progress>` +
		`<input type="range" id="r" min="1" max="9" value="5">`
	res, _, rep := generate(t, src, DefaultOptions())

	if !rep.Empty() {
		t.Fatalf("expected empty report, got %v", rep.Warnings())
	}
	mustContain(t, res.Code(),
		`auto combo_s = new GuiComboBox(101); elements.push_back(combo_s); combo_s->Create(parent, 10, 10, 120, 24);`,
		`combo_s->AddItem(L"One");`,
		`combo_s->AddItem(L"Two");`,
		`combo_s->SetCurSel(1);`,
		`auto list_l = new GuiListBox(102); elements.push_back(list_l); list_l->Create(parent, 10, 40, 120, 60);`,
		`list_l->AddItem(L"A");`,
		`auto progress_p = new GuiProgressBar(103, 0, 10, 3); elements.push_back(progress_p); progress_p->Create(parent, 10, 110, 200, 24);`,
		`auto slider_r = new GuiSlider(104, 1, 9, 5); elements.push_back(slider_r); slider_r->Create(parent, 10, 140, 200, 24);`,
	)
}

func TestGenerate_PasswordAndRadio(t *testing.T) {
	src := `<input type="password" id="pw"><input type="radio" id="r1" checked>`
	res, _, _ := generate(t, src, DefaultOptions())
	mustContain(t, res.Code(),
		`auto pass_pw = new GuiEdit(L"", 101, true);`,
		`auto radio_r1 = new GuiRadioButton(L"r1", 102, 10, 40, 100, 24); elements.push_back(radio_r1); radio_r1->Create(parent, 10, 40, 100, 24);`,
		"radio_r1->SetChecked(true);",
	)
}

func TestGenerate_CheckboxCaptionFromLabel(t *testing.T) {
	src := `<label for="agree">I agree</label><input type="checkbox" id="agree" checked>`
	res, _, rep := generate(t, src, DefaultOptions())
	if !rep.Empty() {
		t.Fatalf("expected empty report, got %v", rep.Warnings())
	}
	mustContain(t, res.Code(),
		"// Label: I agree for checkbox agree",
		`new GuiCheckBox(L"I agree", 101, true)`,
	)
}

func TestGenerate_BrokenLabelReference(t *testing.T) {
	res, _, rep := generate(t, `<label for="ghost">Ghost</label>`, DefaultOptions())
	mustContain(t, warnings(rep), "Label 'Ghost' references missing input 'ghost'")
	mustContain(t, res.Code(), `auto label_Ghost = new GuiLabel(L"Ghost", 101);`)
}

func TestGenerate_MultipleLabelsFirstWins(t *testing.T) {
	src := `<label for="n">First</label><label for="n">Second</label><input id="n">`
	res, _, rep := generate(t, src, DefaultOptions())
	mustContain(t, warnings(rep), "Multiple labels reference input 'n'")
	mustContain(t, res.Code(), "// Label: First for input n")
	mustNotContain(t, res.Code(), "Second")
}

func TestGenerate_StandaloneLabel(t *testing.T) {
	res, reg, rep := generate(t, `<label>Status</label>`, DefaultOptions())
	if !rep.Empty() {
		t.Fatalf("expected empty report, got %v", rep.Warnings())
	}
	if _, ok := reg.Lookup("Status"); !ok {
		t.Fatalf("expected label keyed by its text")
	}
	mustContain(t, res.Code(), `new GuiLabel(L"Status", 101)`)
}

func TestGenerate_EventStubs(t *testing.T) {
	src := `<button id="a" onclick="OnGo">Go</button><button id="b" onclick="OnGo">Again</button>`
	res, _, rep := generate(t, src, DefaultOptions())

	mustContain(t, res.Code(), "// Event: OnGo for a (stub to be implemented)")
	mustNotContain(t, res.Code(), "// Event: OnGo for b")
	mustContain(t, warnings(rep), "Event handler 'OnGo' multiply assigned (previously for a)")
	if owner, _ := res.Events.Owner("OnGo"); owner != "a" {
		t.Fatalf("expected first owner a, got %q", owner)
	}
}

func TestGenerate_NestingDepthWarning(t *testing.T) {
	src := `<div id="d1"><div id="d2"><div id="d3"><div id="d4"><div id="d5"></div></div></div></div></div>`
	_, _, rep := generate(t, src, DefaultOptions())

	var hits int
	for _, w := range rep.Warnings() {
		if strings.Contains(w, "nesting depth") {
			hits++
			mustContain(t, w, "Container nesting depth 5 exceeds recommended maximum 4")
		}
	}
	if hits != 1 {
		t.Fatalf("expected one depth warning, got %d: %v", hits, rep.Warnings())
	}
}

func TestGenerate_DuplicateIDIsFatal(t *testing.T) {
	reg, err := registry.FromMap(map[string]int{"a": 101, "b": 101})
	if err != nil {
		t.Fatal(err)
	}
	rep := validation.New()
	res, err := Generate(strings.NewReader(`<input id="a"><input id="b">`), reg, rep, DefaultOptions())
	if res != nil {
		t.Fatalf("expected no result on fatal error")
	}
	var fatal *validation.FatalError
	if !errors.As(err, &fatal) {
		t.Fatalf("expected *validation.FatalError, got %v", err)
	}
	mustContain(t, strings.Join(rep.Errors(), "\n"), "Duplicate ID 101 for b (already used by a)")
}

func TestGenerate_RegistryStableAcrossRuns(t *testing.T) {
	reg := registry.New()
	src := `<input id="a"><button id="b">B</button>`
	if _, err := Generate(strings.NewReader(src), reg, validation.New(), DefaultOptions()); err != nil {
		t.Fatal(err)
	}
	src = `<input id="c"><button id="b">B</button><input id="a">`
	res, err := Generate(strings.NewReader(src), reg, validation.New(), DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	ids := map[string]int{}
	for _, c := range res.Controls {
		ids[c.Key] = c.ID
	}
	if ids["a"] != 101 || ids["b"] != 102 || ids["c"] != 103 {
		t.Fatalf("unexpected ids %v", ids)
	}
}

func TestGenerate_EscapesText(t *testing.T) {
	res, _, _ := generate(t, `<button id="q">Say "hi" \ now</button>`, DefaultOptions())
	mustContain(t, res.Code(), `new GuiButton(L"Say \"hi\" \\ now", 101)`)
}

func TestWstr(t *testing.T) {
	tests := []struct{ in, want string }{
		{"", `L""`},
		{"plain", `L"plain"`},
		{`a"b`, `L"a\"b"`},
		{"a\\b", `L"a\\b"`},
		{"tab\there", `L"tab\there"`},
		{"line\nbreak", `L"line\nbreak"`},
		{"Grüße", `L"Grüße"`},
	}
	for _, tt := range tests {
		if got := wstr(tt.in); got != tt.want {
			t.Errorf("wstr(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestIdent(t *testing.T) {
	tests := []struct{ in, want string }{
		{"name", "name"},
		{"my-key.1", "my_key_1"},
		{"Save As", "Save_As"},
		{"", "_"},
	}
	for _, tt := range tests {
		if got := ident(tt.in); got != tt.want {
			t.Errorf("ident(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		src  string
		want string
		ok   bool
	}{
		{`<input>`, classText, true},
		{`<input type="CHECKBOX">`, classCheckbox, true},
		{`<input type="date">`, "input[type=date]", false},
		{`<div></div>`, classGroup, true},
		{`<div class="main tabs"></div>`, classTab, true},
		{`<div class="tabs" data-type="group"></div>`, classGroup, true},
		{`<span></span>`, "span", false},
	}
	for _, tt := range tests {
		n := firstElement(t, tt.src)
		got, ok := classify(n)
		if got != tt.want || ok != tt.ok {
			t.Errorf("classify(%s) = %q, %v; want %q, %v", tt.src, got, ok, tt.want, tt.ok)
		}
	}
}

func controlKeys(res *Result, varPrefix string) []string {
	var keys []string
	for _, c := range res.Controls {
		if strings.HasPrefix(c.Var, varPrefix) {
			keys = append(keys, c.Key)
		}
	}
	return keys
}

func TestGenerate_UniqueKeysPairLabelsWithControls(t *testing.T) {
	opts := DefaultOptions()
	opts.UniqueFallbackKeys = true
	src := `<label>checkbox</label><input type="checkbox"><input type="checkbox"><label for="checkbox_2">Second</label>`
	res, _, rep := generate(t, src, opts)

	if !rep.Empty() {
		t.Fatalf("expected empty report, got %v", rep.Warnings())
	}
	mustContain(t, res.Code(),
		`auto label_checkbox_3 = new GuiLabel(L"checkbox", 101);`,
		`auto check_checkbox = new GuiCheckBox(L"checkbox", 102);`,
		"// Label: Second for checkbox checkbox_2",
		`auto check_checkbox_2 = new GuiCheckBox(L"Second", 103);`,
	)
}

func TestGenerate_UniqueKeysIgnoreOtherKinds(t *testing.T) {
	opts := DefaultOptions()
	opts.UniqueFallbackKeys = true
	plain, _, _ := generate(t, `<input type="checkbox"><input type="checkbox">`, opts)
	mixed, _, _ := generate(t, `<label>Hi</label><input type="checkbox"><button>Go</button>`+
		`<span><label>Hi</label></span><input type="checkbox">`, opts)

	want := strings.Join(controlKeys(plain, "check_"), ",")
	if want != "checkbox,checkbox_2" {
		t.Fatalf("unexpected keys %q", want)
	}
	if got := strings.Join(controlKeys(mixed, "check_"), ","); got != want {
		t.Fatalf("checkbox keys shifted by other elements: got %q, want %q", got, want)
	}
}

func TestGenerate_UniqueKeysAvoidExplicitIDs(t *testing.T) {
	opts := DefaultOptions()
	opts.UniqueFallbackKeys = true
	src := `<input type="checkbox" id="checkbox_2"><input type="checkbox"><input type="checkbox">`
	res, _, rep := generate(t, src, opts)

	if !rep.Empty() {
		t.Fatalf("expected empty report, got %v", rep.Warnings())
	}
	if got := strings.Join(controlKeys(res, "check_"), ","); got != "checkbox_2,checkbox,checkbox_3" {
		t.Fatalf("unexpected keys %q", got)
	}
}

func TestGenerate_HandlerNamedTwiceOnOneElement(t *testing.T) {
	res, _, rep := generate(t, `<input type="checkbox" id="a" onclick="OnGo" onchange="OnGo">`, DefaultOptions())

	if !rep.Empty() {
		t.Fatalf("expected empty report, got %v", rep.Warnings())
	}
	if n := strings.Count(res.Code(), "// Event: OnGo for a"); n != 1 {
		t.Fatalf("expected one stub, got %d:\n%s", n, res.Code())
	}
}

func TestGenerate_EventHandlersInOrder(t *testing.T) {
	src := `<button id="a" onclick="OnA">A</button><input id="b" onclick="OnA" onchange="OnB">`
	res, _, _ := generate(t, src, DefaultOptions())
	if got := strings.Join(res.Events.Handlers(), ","); got != "OnA,OnB" {
		t.Fatalf("expected OnA,OnB, got %q", got)
	}
}

func TestGenerate_VariableNameCollision(t *testing.T) {
	res, _, rep := generate(t, `<input id="a-b"><input id="a_b">`, DefaultOptions())

	mustContain(t, warnings(rep), "Controls 'a-b' and 'a_b' both map to C++ variable edit_a_b: using edit_a_b_102")
	mustContain(t, res.Code(),
		`auto edit_a_b = new GuiEdit(L"", 101);`,
		`auto edit_a_b_102 = new GuiEdit(L"", 102); elements.push_back(edit_a_b_102);`,
	)
}
