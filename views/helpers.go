package views

import (
	"encoding/json"
	"io"
	"strconv"

	"github.com/a-h/templ"
)

// tagWriter writes escaped head tags and remembers the first error.
type tagWriter struct {
	w   io.Writer
	err error
}

func (t *tagWriter) raw(s string) {
	if t.err != nil {
		return
	}
	_, t.err = io.WriteString(t.w, s)
}

func (t *tagWriter) attr(name, value string) {
	t.raw(" " + name + `="` + templ.EscapeString(value) + `"`)
}

func (t *tagWriter) meta(key, name, value string) {
	t.raw("<meta")
	t.attr(key, name)
	t.attr("content", value)
	t.raw(">")
}

func (t *tagWriter) metaName(name, value string) { t.meta("name", name, value) }

func (t *tagWriter) metaProperty(prop, value string) { t.meta("property", prop, value) }

func (t *tagWriter) metaInt(prop string, v int) {
	if v > 0 {
		t.metaProperty(prop, strconv.Itoa(v))
	}
}

// JSONScript marshals v for embedding inside a <script> element. The
// encoder escapes <, > and & so the payload cannot close the element.
func JSONScript(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
